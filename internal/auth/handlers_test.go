package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"funnel/internal/repo"
	"funnel/internal/scope"
)

func newTestRouter(t *testing.T) (*mux.Router, *repo.Memory, *TokenIssuer) {
	t.Helper()
	mem := repo.NewMemory()
	issuer := NewTokenIssuer("test-secret", time.Hour)
	r := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(r, NewHandler(mem, issuer))
	return r, mem, issuer
}

func post(t *testing.T, r *mux.Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, rd)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignupThenLogin(t *testing.T) {
	r, mem, issuer := newTestRouter(t)

	w := post(t, r, "/signup", map[string]any{
		"email":             "Boss@Example.com",
		"password":          "super-secret",
		"organization_name": "Acme",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var signup struct {
		Next string `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &signup); err != nil {
		t.Fatal(err)
	}
	if signup.Next != "/login" {
		t.Fatalf("signup must point at login, got %q", signup.Next)
	}

	u, err := mem.GetUserByEmail(context.Background(), "boss@example.com")
	if err != nil {
		t.Fatalf("user not stored: %v", err)
	}
	if u.Role != scope.RoleOrganisor {
		t.Fatalf("signup must create an organisor, got %q", u.Role)
	}
	id, err := mem.FindIdentity(context.Background(), u.ID)
	if err != nil || id.OrgID == 0 {
		t.Fatalf("signup must create the organization: %+v (err %v)", id, err)
	}

	w = post(t, r, "/login", map[string]any{
		"email": "boss@example.com", "password": "super-secret",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &login); err != nil {
		t.Fatal(err)
	}
	uid, err := issuer.Parse(login.Token)
	if err != nil || uid != u.ID {
		t.Fatalf("login token must resolve to the user, got %d (err %v)", uid, err)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	r, _, _ := newTestRouter(t)
	body := map[string]any{
		"email": "boss@example.com", "password": "super-secret", "organization_name": "Acme",
	}
	if w := post(t, r, "/signup", body); w.Code != http.StatusCreated {
		t.Fatalf("first signup should pass, got %d", w.Code)
	}
	if w := post(t, r, "/signup", body); w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("duplicate email must 422, got %d", w.Code)
	}
}

func TestSignupValidation(t *testing.T) {
	r, _, _ := newTestRouter(t)
	w := post(t, r, "/signup", map[string]any{
		"email": "nope", "password": "short", "organization_name": "",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	r, _, _ := newTestRouter(t)
	if w := post(t, r, "/signup", map[string]any{
		"email": "boss@example.com", "password": "super-secret", "organization_name": "Acme",
	}); w.Code != http.StatusCreated {
		t.Fatal("signup failed")
	}

	// wrong password and unknown email both answer 401
	if w := post(t, r, "/login", map[string]any{
		"email": "boss@example.com", "password": "wrong",
	}); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password must 401, got %d", w.Code)
	}
	if w := post(t, r, "/login", map[string]any{
		"email": "ghost@example.com", "password": "super-secret",
	}); w.Code != http.StatusUnauthorized {
		t.Fatalf("unknown email must 401, got %d", w.Code)
	}
}
