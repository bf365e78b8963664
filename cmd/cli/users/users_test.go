package users

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/crucial707/todo-api/cmd/cli/config"
	"github.com/spf13/cobra"
)

func runCmd(t *testing.T, cmd *cobra.Command, args ...string) error {
	t.Helper()
	cmd.SetArgs(args)
	return cmd.Execute()
}

func setup(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TODO_API_URL", srv.URL)
}

func TestRegister(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/register" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["username"] != "alice" || in["email"] != "alice@x.com" || in["password"] != "pw1" {
			t.Errorf("unexpected payload: %v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Registration complete","data":{"id":1,"username":"alice"}}`))
	})

	var out bytes.Buffer
	cmd := registerCmd()
	cmd.SetOut(&out)
	if err := runCmd(t, cmd, "--username", "alice", "--email", "alice@x.com", "--password", "pw1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(out.String(), "alice registered (id 1)") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestRegister_PromptsForMissingValues(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in["email"] != "alice@x.com" || in["password"] != "pw1" {
			t.Errorf("unexpected payload: %v", in)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":1,"username":"alice"}}`))
	})

	var out bytes.Buffer
	cmd := registerCmd()
	cmd.SetOut(&out)
	cmd.SetIn(strings.NewReader("alice@x.com\npw1\n"))
	if err := runCmd(t, cmd, "--username", "alice"); err != nil {
		t.Fatalf("register: %v", err)
	}
}

func TestRegister_SurfacesAPIError(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"Username already exists","message":"That username is already registered."}`))
	})

	cmd := registerCmd()
	cmd.SetOut(&bytes.Buffer{})
	err := runCmd(t, cmd, "--username", "alice", "--email", "a@x.com", "--password", "pw")
	if err == nil || !strings.Contains(err.Error(), "Username already exists") {
		t.Fatalf("expected API error, got %v", err)
	}
}

func TestLoginThenLogout(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/login" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"message":"Login successful","access_token":"tok-123","user":{"id":1,"username":"alice"}}`))
	})

	cmd := loginCmd()
	cmd.SetOut(&bytes.Buffer{})
	if err := runCmd(t, cmd, "--username", "alice", "--password", "pw1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	token, err := config.LoadToken()
	if err != nil || token != "tok-123" {
		t.Fatalf("LoadToken: got (%q, %v)", token, err)
	}

	var out bytes.Buffer
	logout := logoutCmd()
	logout.SetOut(&out)
	if err := runCmd(t, logout); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out.String(), "Logged out") {
		t.Errorf("unexpected output: %s", out.String())
	}
	if _, err := config.LoadToken(); err != config.ErrNotLoggedIn {
		t.Errorf("token should be gone, got %v", err)
	}

	out.Reset()
	logout = logoutCmd()
	logout.SetOut(&out)
	_ = runCmd(t, logout)
	if !strings.Contains(out.String(), "No user logged in") {
		t.Errorf("unexpected output: %s", out.String())
	}
}

func TestMe(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"data":{"id":1,"username":"alice","email":"alice@x.com"}}`))
	})
	if err := config.SaveToken("tok-123"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	var out bytes.Buffer
	cmd := meCmd()
	cmd.SetOut(&out)
	if err := runCmd(t, cmd); err != nil {
		t.Fatalf("me: %v", err)
	}
	if !strings.Contains(out.String(), "alice@x.com") {
		t.Errorf("expected email in output, got: %s", out.String())
	}
}

func TestMe_NotLoggedIn(t *testing.T) {
	setup(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("no request expected")
	})

	cmd := meCmd()
	cmd.SetOut(&bytes.Buffer{})
	if err := runCmd(t, cmd); err != config.ErrNotLoggedIn {
		t.Errorf("got %v, want ErrNotLoggedIn", err)
	}
}
