package agents

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"

	"funnel/internal/auth"
	"funnel/internal/logs"
	"funnel/internal/models"
	"funnel/internal/repo"
	"funnel/internal/scope"
)

func TestMain(m *testing.M) {
	logs.Init(logs.Options{Level: "error"})
	os.Exit(m.Run())
}

type sentMail struct {
	subject string
	from    string
	to      []string
}

type mailRec struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mailRec) Send(subject, _, from string, to []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{subject: subject, from: from, to: to})
	return m.err
}

type env struct {
	t      *testing.T
	mem    *repo.Memory
	router *mux.Router
	issuer *auth.TokenIssuer
	mail   *mailRec
}

func newEnv(t *testing.T) *env {
	t.Helper()
	mem := repo.NewMemory()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	mail := &mailRec{}
	h := NewHandler(mem, mail, "test@test.com")
	r := mux.NewRouter().StrictSlash(true)
	RegisterRoutes(r, h, auth.RequireOrganisor(mem, issuer))
	return &env{t: t, mem: mem, router: r, issuer: issuer, mail: mail}
}

func (e *env) organisor(email string) (uint, uint, string) {
	e.t.Helper()
	u := models.User{Email: email, Role: scope.RoleOrganisor}
	org := models.Organization{Name: email}
	if err := e.mem.CreateOrganisor(context.Background(), &u, &org); err != nil {
		e.t.Fatalf("create organisor: %v", err)
	}
	tok, err := e.issuer.Issue(u.ID)
	if err != nil {
		e.t.Fatalf("issue token: %v", err)
	}
	return u.ID, org.ID, tok
}

func (e *env) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			e.t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func TestProvisionAgent(t *testing.T) {
	e := newEnv(t)
	_, org1, tok1 := e.organisor("boss@example.com")

	w := e.do(http.MethodPost, "/agents", tok1, map[string]any{
		"email":      "New.Agent@Example.com",
		"first_name": "New",
		"last_name":  "Agent",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Agent models.Agent `json:"agent"`
		Next  string       `json:"next"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Agent.OrganizationID != org1 {
		t.Fatalf("agent bound to org %d, want %d", resp.Agent.OrganizationID, org1)
	}
	if resp.Agent.User.Role != scope.RoleAgent {
		t.Fatalf("provisioned user must carry the agent role, got %q", resp.Agent.User.Role)
	}
	if resp.Agent.User.Email != "new.agent@example.com" {
		t.Fatalf("email not normalized: %q", resp.Agent.User.Email)
	}
	if resp.Next != "/agents" {
		t.Fatalf("unexpected next: %q", resp.Next)
	}

	// placeholder credential is set (hashed), never returned
	u, err := e.mem.GetUserByEmail(context.Background(), "new.agent@example.com")
	if err != nil {
		t.Fatalf("stored user: %v", err)
	}
	if len(u.PasswordHash) == 0 {
		t.Fatal("agent must be created with a placeholder credential")
	}

	// one invitation to the agent's own address
	if len(e.mail.sent) != 1 {
		t.Fatalf("expected 1 invitation, got %d", len(e.mail.sent))
	}
	m := e.mail.sent[0]
	if m.subject != "You're Invited to be an agent" {
		t.Fatalf("unexpected subject %q", m.subject)
	}
	if len(m.to) != 1 || m.to[0] != "new.agent@example.com" {
		t.Fatalf("invitation must go to the agent, got %v", m.to)
	}

	// the new agent can log in conceptually: identity resolves to the org
	id, err := e.mem.FindIdentity(context.Background(), u.ID)
	if err != nil || id.OrgID != org1 || id.Role != scope.RoleAgent {
		t.Fatalf("agent identity broken: %+v (err %v)", id, err)
	}
}

func TestProvisionMailFailureKeepsAgent(t *testing.T) {
	e := newEnv(t)
	_, org1, tok1 := e.organisor("boss@example.com")
	e.mail.err = io.ErrClosedPipe

	w := e.do(http.MethodPost, "/agents", tok1, map[string]any{
		"email": "a@example.com", "first_name": "A",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("agent must stay provisioned on mail failure, got %d", w.Code)
	}
	rows, err := e.mem.ListAgents(context.Background(), scope.Predicate{OrgID: org1})
	if err != nil || len(rows) != 1 {
		t.Fatalf("expected the agent persisted, got %d (err %v)", len(rows), err)
	}
}

func TestProvisionValidation(t *testing.T) {
	e := newEnv(t)
	_, org1, tok1 := e.organisor("boss@example.com")

	w := e.do(http.MethodPost, "/agents", tok1, map[string]any{
		"email": "not-an-email", "first_name": "",
	})
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
	rows, _ := e.mem.ListAgents(context.Background(), scope.Predicate{OrgID: org1})
	if len(rows) != 0 {
		t.Fatal("validation failure must not persist anything")
	}
	if len(e.mail.sent) != 0 {
		t.Fatal("validation failure must not send mail")
	}
}

func TestAgentCRUDScoped(t *testing.T) {
	e := newEnv(t)
	_, org1, tok1 := e.organisor("boss@example.com")
	_, _, tok2 := e.organisor("rival@example.com")

	u := models.User{Email: "a@example.com", Role: scope.RoleAgent}
	a, err := e.mem.CreateAgent(context.Background(), &u, org1)
	if err != nil {
		t.Fatal(err)
	}

	// cross-tenant detail/update/delete behave as not-found
	if w := e.do(http.MethodGet, "/agents/"+itoa(a.ID), tok2, nil); w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant detail must 404, got %d", w.Code)
	}
	if w := e.do(http.MethodDelete, "/agents/"+itoa(a.ID), tok2, nil); w.Code != http.StatusNotFound {
		t.Fatalf("cross-tenant delete must 404, got %d", w.Code)
	}
	if _, err := e.mem.GetAgent(context.Background(), scope.Predicate{OrgID: org1}, a.ID); err != nil {
		t.Fatal("cross-tenant delete must leave the agent in place")
	}

	// owner update
	w := e.do(http.MethodPut, "/agents/"+itoa(a.ID), tok1, map[string]any{
		"email": "renamed@example.com", "first_name": "Renamed",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	got, _ := e.mem.GetAgent(context.Background(), scope.Predicate{OrgID: org1}, a.ID)
	if got.User.Email != "renamed@example.com" {
		t.Fatalf("update not applied: %+v", got.User)
	}

	// owner delete unassigns the agent's leads
	l := &models.Lead{OrganizationID: org1, AgentID: &a.ID, FirstName: "L", LastName: "T"}
	if err := e.mem.CreateLead(context.Background(), l); err != nil {
		t.Fatal(err)
	}
	if w := e.do(http.MethodDelete, "/agents/"+itoa(a.ID), tok1, nil); w.Code != http.StatusOK {
		t.Fatalf("owner delete should 200, got %d", w.Code)
	}
	gl, err := e.mem.GetLead(context.Background(), scope.Predicate{OrgID: org1}, l.ID)
	if err != nil {
		t.Fatalf("lead must survive its agent: %v", err)
	}
	if gl.AgentID != nil {
		t.Fatal("deleting an agent must unassign its leads")
	}
}

func TestAgentRoleForbidden(t *testing.T) {
	e := newEnv(t)
	_, org1, _ := e.organisor("boss@example.com")
	u := models.User{Email: "a@example.com", Role: scope.RoleAgent}
	if _, err := e.mem.CreateAgent(context.Background(), &u, org1); err != nil {
		t.Fatal(err)
	}
	tok, _ := e.issuer.Issue(u.ID)

	if w := e.do(http.MethodGet, "/agents", tok, nil); w.Code != http.StatusForbidden {
		t.Fatalf("agent-role access to /agents must 403, got %d", w.Code)
	}
	if w := e.do(http.MethodGet, "/agents", "", nil); w.Code != http.StatusUnauthorized {
		t.Fatalf("anonymous access must 401, got %d", w.Code)
	}
}
