package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"pulse/internal/handlers"
	"pulse/internal/models"
	"pulse/internal/repositories"
	"pulse/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test_jwt_secret"

type testApp struct {
	app         *fiber.App
	userRepo    *repositories.MockUserRepository
	postRepo    *repositories.MockPostRepository
	authService *services.AuthService
}

// newTestApp wires the full HTTP surface against in-memory repositories.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	userRepo := repositories.NewMockUserRepository()
	postRepo := repositories.NewMockPostRepository()

	authService := services.NewAuthService(userRepo, testJWTSecret)
	userService := services.NewUserService(userRepo)
	postService := services.NewPostService(postRepo, userRepo, nil)

	app := fiber.New()
	handlers.NewAuthHandler(authService, userService).RegisterRoutes(app)
	handlers.NewPostHandler(postService, authService).RegisterRoutes(app)
	handlers.NewAdminHandler(userService, postService, authService).RegisterRoutes(app)

	return &testApp{
		app:         app,
		userRepo:    userRepo,
		postRepo:    postRepo,
		authService: authService,
	}
}

// seedAdmin creates an admin account directly in the store (the HTTP
// surface never assigns the admin role) and returns a token for it.
func (ta *testApp) seedAdmin(t *testing.T) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("rootpw"), bcrypt.DefaultCost)
	require.NoError(t, err)
	admin := &models.User{ID: "root", Name: "Root", Email: "root@example.com", Password: string(hash), Role: models.RoleAdmin}
	require.NoError(t, ta.userRepo.Create(admin))

	token, err := ta.authService.GenerateToken(admin.ID)
	require.NoError(t, err)
	return token
}

func (ta *testApp) request(t *testing.T, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	resp.Body.Close()
}

type userPayload struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Bio   string `json:"bio"`
	Role  string `json:"role"`
}

type authResponse struct {
	Message string      `json:"message"`
	User    userPayload `json:"user"`
	Token   string      `json:"token"`
}

type postPayload struct {
	ID         string `json:"id"`
	Text       string `json:"text"`
	UserID     string `json:"user_id"`
	AuthorName string `json:"author_name"`
}

func registerUser(t *testing.T, ta *testApp, name, email, password string) authResponse {
	t.Helper()

	resp := ta.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"name": name, "email": email, "password": password,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var body authResponse
	decodeJSON(t, resp, &body)
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	ta := newTestApp(t)

	reg := registerUser(t, ta, "Ana", "a@x.com", "password")
	assert.Equal(t, "Ana", reg.User.Name)
	assert.Equal(t, models.RoleUser, reg.User.Role)
	assert.NotEmpty(t, reg.User.ID)
	assert.NotEmpty(t, reg.Token)

	// Registering twice with the same email fails with 400
	resp := ta.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"name": "Ana Again", "email": "a@x.com", "password": "password",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Login with the right password succeeds
	resp = ta.request(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "a@x.com", "password": "password",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var login authResponse
	decodeJSON(t, resp, &login)
	assert.Equal(t, reg.User.ID, login.User.ID)
	assert.NotEmpty(t, login.Token)

	// Wrong password is a uniform 401
	resp = ta.request(t, http.MethodPost, "/auth/login", "", fiber.Map{
		"email": "a@x.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// The password hash never serializes
	raw := ta.request(t, http.MethodGet, "/auth/users/"+reg.User.ID, "", nil)
	require.Equal(t, http.StatusOK, raw.StatusCode)
	data, err := io.ReadAll(raw.Body)
	require.NoError(t, err)
	raw.Body.Close()
	assert.NotContains(t, string(data), "assword")
}

func TestProfileEndpoints(t *testing.T) {
	ta := newTestApp(t)
	reg := registerUser(t, ta, "Ana", "a@x.com", "password")

	// Profile requires a token
	resp := ta.request(t, http.MethodGet, "/auth/profile", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/auth/profile", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = ta.request(t, http.MethodGet, "/auth/profile", reg.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me userPayload
	decodeJSON(t, resp, &me)
	assert.Equal(t, "Ana", me.Name)

	// Partial update: bio only, name untouched
	resp = ta.request(t, http.MethodPut, "/auth/profile", reg.Token, fiber.Map{"bio": "hello"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &me)
	assert.Equal(t, "Ana", me.Name)
	assert.Equal(t, "hello", me.Bio)

	// Name update keeps the bio
	resp = ta.request(t, http.MethodPut, "/auth/profile", reg.Token, fiber.Map{"name": "Ana Chen"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &me)
	assert.Equal(t, "Ana Chen", me.Name)
	assert.Equal(t, "hello", me.Bio)
}

func TestUserSearchAndLookup(t *testing.T) {
	ta := newTestApp(t)
	reg := registerUser(t, ta, "Ana Lee", "a@x.com", "password")
	registerUser(t, ta, "Bob Banana", "b@x.com", "password")
	registerUser(t, ta, "Carol", "c@x.com", "password")

	resp := ta.request(t, http.MethodGet, "/auth/users/search?name=ana", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []userPayload
	decodeJSON(t, resp, &users)
	assert.Len(t, users, 2)

	resp = ta.request(t, http.MethodGet, "/auth/users/"+reg.User.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var user userPayload
	decodeJSON(t, resp, &user)
	assert.Equal(t, "Ana Lee", user.Name)

	resp = ta.request(t, http.MethodGet, "/auth/users/unknown-id", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	ta := newTestApp(t)
	ana := registerUser(t, ta, "Ana", "a@x.com", "password")
	bob := registerUser(t, ta, "Bob", "b@x.com", "password")

	// Creating a post requires a token
	resp := ta.request(t, http.MethodPost, "/posts/", "", fiber.Map{"text": "hello"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Ana posts; authorName snapshots her current name
	resp = ta.request(t, http.MethodPost, "/posts/", ana.Token, fiber.Map{"text": "hello"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post postPayload
	decodeJSON(t, resp, &post)
	assert.Equal(t, "Ana", post.AuthorName)
	assert.Equal(t, ana.User.ID, post.UserID)

	// Renaming Ana does not rewrite the existing post
	resp = ta.request(t, http.MethodPut, "/auth/profile", ana.Token, fiber.Map{"name": "Ana Chen"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
	resp = ta.request(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched postPayload
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, "Ana", fetched.AuthorName)

	// Bob may not edit Ana's post; the text is unchanged
	resp = ta.request(t, http.MethodPut, "/posts/"+post.ID, bob.Token, fiber.Map{"text": "hijacked"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = ta.request(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, "hello", fetched.Text)

	// Ana edits her own post; empty text is "no change"
	resp = ta.request(t, http.MethodPut, "/posts/"+post.ID, ana.Token, fiber.Map{"text": "edited"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, "edited", fetched.Text)
	resp = ta.request(t, http.MethodPut, "/posts/"+post.ID, ana.Token, fiber.Map{"text": ""})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &fetched)
	assert.Equal(t, "edited", fetched.Text)

	// Bob may not delete Ana's post; it stays retrievable
	resp = ta.request(t, http.MethodDelete, "/posts/"+post.ID, bob.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp = ta.request(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Ana deletes it; it is gone for good
	resp = ta.request(t, http.MethodDelete, "/posts/"+post.ID, ana.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ta.request(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown post IDs are 404 on mutation too
	resp = ta.request(t, http.MethodDelete, "/posts/unknown-id", ana.Token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestFeedOrderingAndSearch(t *testing.T) {
	ta := newTestApp(t)
	ana := registerUser(t, ta, "Ana", "a@x.com", "password")

	for _, text := range []string{"first post", "I ate a banana", "third"} {
		resp := ta.request(t, http.MethodPost, "/posts/", ana.Token, fiber.Map{"text": text})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := ta.request(t, http.MethodGet, "/posts/", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var feed []postPayload
	decodeJSON(t, resp, &feed)
	require.Len(t, feed, 3)
	assert.Equal(t, "third", feed[0].Text)
	assert.Equal(t, "first post", feed[2].Text)

	resp = ta.request(t, http.MethodGet, "/posts/user/"+ana.User.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &feed)
	assert.Len(t, feed, 3)

	// "ana" matches "banana" case-insensitively
	resp = ta.request(t, http.MethodGet, "/posts/search?query=ana", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeJSON(t, resp, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "I ate a banana", feed[0].Text)
}

func TestAdminSurface(t *testing.T) {
	ta := newTestApp(t)
	ana := registerUser(t, ta, "Ana", "a@x.com", "password")
	adminToken := ta.seedAdmin(t)

	resp := ta.request(t, http.MethodPost, "/posts/", ana.Token, fiber.Map{"text": "ana's post"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var post postPayload
	decodeJSON(t, resp, &post)

	// Plain users are forbidden from the admin surface
	resp = ta.request(t, http.MethodGet, "/admin/users", ana.Token, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	// Anonymous callers never reach the admin check
	resp = ta.request(t, http.MethodGet, "/admin/users", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Admin listings
	resp = ta.request(t, http.MethodGet, "/admin/users", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var users []userPayload
	decodeJSON(t, resp, &users)
	assert.Len(t, users, 2)

	resp = ta.request(t, http.MethodGet, "/admin/posts", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var posts []postPayload
	decodeJSON(t, resp, &posts)
	assert.Len(t, posts, 1)

	// Admin may delete any post through the regular delete endpoint
	resp = ta.request(t, http.MethodDelete, "/posts/"+post.ID, adminToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp = ta.request(t, http.MethodGet, "/posts/"+post.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
