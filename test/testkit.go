package test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"howudoin/internal/config"
	"howudoin/internal/database"
	"howudoin/internal/server"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authUser struct {
	ID    uint
	Token string
}

// newTestApp builds a fully-wired app backed by an in-memory database so
// each test starts from an empty schema.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	cfg := &config.Config{
		JWTSecret: "integration-test-secret-0123456789abcdef",
		Port:      "8290",
		Env:       "test",
	}

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(database.PersistentModels()...); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	srv, err := server.NewServerWithDeps(cfg, db)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	app := fiber.New()
	srv.SetupMiddleware(app)
	srv.SetupRoutes(app)
	return app
}

func registerUser(t *testing.T, app *fiber.App, prefix string) authUser {
	t.Helper()

	email := fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
	payload := map[string]string{
		"first_name": "Api",
		"last_name":  "Tester",
		"email":      email,
		"password":   "TestPass123!@#",
	}

	req := jsonReq(t, http.MethodPost, "/api/auth/register", payload)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("register app.Test: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register expected 201 got %d", resp.StatusCode)
	}

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID uint `json:"id"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	if body.Token == "" || body.User.ID == 0 {
		t.Fatalf("invalid register response: %+v", body)
	}

	return authUser{ID: body.User.ID, Token: body.Token}
}

func jsonReq(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	if payload == nil {
		return httptest.NewRequest(method, path, nil)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func authReq(t *testing.T, method, path, token string, payload any) *http.Request {
	t.Helper()
	req := jsonReq(t, method, path, payload)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// doJSON runs the request and decodes the response body into out when a
// destination is given. Callers assert on the returned status code.
func doJSON(t *testing.T, app *fiber.App, req *http.Request, out any) int {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test %s %s: %v", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s response: %v", req.Method, req.URL.Path, err)
		}
	}
	return resp.StatusCode
}

// befriend registers the friendship between two existing users: from sends
// the request and to accepts it.
func befriend(t *testing.T, app *fiber.App, from, to authUser) {
	t.Helper()

	var friendship struct {
		ID uint `json:"id"`
	}
	status := doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d", to.ID), from.Token, nil),
		&friendship)
	if status != http.StatusCreated {
		t.Fatalf("send friend request expected 201 got %d", status)
	}

	status = doJSON(t, app,
		authReq(t, http.MethodPost, fmt.Sprintf("/api/friends/requests/%d/accept", friendship.ID), to.Token, nil),
		nil)
	if status != http.StatusOK {
		t.Fatalf("accept friend request expected 200 got %d", status)
	}
}
