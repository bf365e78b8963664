package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/todo-api/internal/auth"
	"github.com/crucial707/todo-api/internal/middleware"
	"github.com/crucial707/todo-api/internal/repo"
	"github.com/crucial707/todo-api/internal/service"
)

var userCols = []string{"id", "username", "email", "password_hash", "created_at"}

func newAuthHandler(t *testing.T) (*AuthHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return &AuthHandler{
		Users:  service.NewUserDirectory(repo.NewUserRepo(db)),
		Tokens: auth.NewTokenService([]byte("test-secret"), "todo-api", time.Hour),
	}, mock
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var out ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestAuthHandler_Register(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("alice@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", "alice@example.com", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "alice@example.com", "$2a$10$hash", time.Now()))

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/register", `{"username":"alice","email":"alice@example.com","password":"s3cret"}`))

	if rr.Code != http.StatusCreated {
		t.Fatalf("Register status: got %d, want 201 (body %s)", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	if strings.Contains(body, "password") || strings.Contains(body, "$2a$") {
		t.Errorf("response leaks password material: %s", body)
	}
	var out struct {
		Message string `json:"message"`
		Data    struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
			Email    string `json:"email"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Data.ID != 1 || out.Data.Username != "alice" || out.Data.Email != "alice@example.com" {
		t.Errorf("unexpected user: %+v", out.Data)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestAuthHandler_Register_BadBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
		tag  string
	}{
		{"empty body", ``, "No data provided"},
		{"whitespace body", "  \n", "No data provided"},
		{"array body", `["alice"]`, "Invalid JSON"},
		{"malformed", `{"username":`, "Invalid JSON"},
		{"missing password", `{"username":"alice","email":"a@x.com"}`, "Missing fields"},
		{"blank username", `{"username":"   ","email":"a@x.com","password":"pw"}`, "Missing fields"},
		{"unknown field", `{"username":"alice","email":"a@x.com","password":"pw","admin":true}`, "Unknown field"},
		{"number username", `{"username":7,"email":"a@x.com","password":"pw"}`, "Invalid data type"},
		{"null email", `{"username":"alice","email":null,"password":"pw"}`, "Invalid data type"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h, mock := newAuthHandler(t)
			rr := httptest.NewRecorder()
			h.Register(rr, postJSON("/register", c.body))

			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d, want 400", rr.Code)
			}
			if out := decodeEnvelope(t, rr); out.Error != c.tag {
				t.Errorf("error: got %q, want %q", out.Error, c.tag)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("expectations: %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_DuplicateUsername(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE username = \$1\)`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	rr := httptest.NewRecorder()
	h.Register(rr, postJSON("/register", `{"username":"alice","email":"other@example.com","password":"pw"}`))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rr.Code)
	}
	if out := decodeEnvelope(t, rr); out.Error != "Username already exists" {
		t.Errorf("error: got %q", out.Error)
	}
}

func TestAuthHandler_Login(t *testing.T) {
	h, mock := newAuthHandler(t)

	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "alice@example.com", hash, time.Now()))

	rr := httptest.NewRecorder()
	h.Login(rr, postJSON("/login", `{"username":"alice","password":"s3cret"}`))

	if rr.Code != http.StatusOK {
		t.Fatalf("Login status: got %d, want 200 (body %s)", rr.Code, rr.Body.String())
	}
	var out struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
		User        struct {
			ID       int    `json:"id"`
			Username string `json:"username"`
		} `json:"user"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.User.ID != 1 || out.User.Username != "alice" || out.TokenType != "Bearer" || out.ExpiresIn != 3600 {
		t.Errorf("unexpected response: %+v", out)
	}
	id, err := h.Tokens.Resolve(out.AccessToken)
	if err != nil || id != 1 {
		t.Errorf("Resolve issued token: got (%d, %v), want (1, nil)", id, err)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	hash, err := auth.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	var bodies []string
	for _, c := range []struct {
		name   string
		body   string
		expect func(sqlmock.Sqlmock)
	}{
		{
			name: "wrong password",
			body: `{"username":"alice","password":"nope"}`,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT id, username`).WithArgs("alice").
					WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "a@x.com", hash, time.Now()))
			},
		},
		{
			name: "unknown user",
			body: `{"username":"nobody","password":"nope"}`,
			expect: func(m sqlmock.Sqlmock) {
				m.ExpectQuery(`SELECT id, username`).WithArgs("nobody").
					WillReturnRows(sqlmock.NewRows(userCols))
			},
		},
	} {
		t.Run(c.name, func(t *testing.T) {
			h, mock := newAuthHandler(t)
			c.expect(mock)

			rr := httptest.NewRecorder()
			h.Login(rr, postJSON("/login", c.body))

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("status: got %d, want 401", rr.Code)
			}
			bodies = append(bodies, rr.Body.String())
		})
	}
	if len(bodies) == 2 && bodies[0] != bodies[1] {
		t.Errorf("unknown user and wrong password must answer identically:\n%s\n%s", bodies[0], bodies[1])
	}
}

func TestAuthHandler_Me(t *testing.T) {
	h, mock := newAuthHandler(t)

	mock.ExpectQuery(`SELECT id, username, email, password_hash, created_at`).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "alice@example.com", "$2a$10$hash", time.Now()))

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req = req.WithContext(middleware.WithUserID(context.Background(), 1))
	rr := httptest.NewRecorder()
	h.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("Me status: got %d, want 200", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"username":"alice"`) {
		t.Errorf("unexpected body: %s", rr.Body.String())
	}
}

func TestAuthHandler_Me_NoCaller(t *testing.T) {
	h, _ := newAuthHandler(t)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rr.Code)
	}
}
