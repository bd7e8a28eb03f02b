package middleware

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/urbandrive/storefront/internal/session"
	pkgauth "github.com/urbandrive/storefront/pkg/auth"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/enums"
	"github.com/urbandrive/storefront/pkg/logger"
)

type managerStub struct {
	stored    map[string]*session.State
	touched   []string
	createErr error
}

func newManagerStub() *managerStub {
	return &managerStub{stored: map[string]*session.State{}}
}

func (m *managerStub) Create(ctx context.Context, state *session.State) (string, error) {
	if m.createErr != nil {
		return "", m.createErr
	}
	id := fmt.Sprintf("sess-%d", len(m.stored)+1)
	m.stored[id] = state
	return id, nil
}

func (m *managerStub) Load(ctx context.Context, sessionID string) (*session.State, error) {
	state, ok := m.stored[sessionID]
	if !ok {
		return nil, session.ErrNotFound
	}
	return state, nil
}

func (m *managerStub) Save(ctx context.Context, sessionID string, state *session.State) error {
	if _, ok := m.stored[sessionID]; !ok {
		return session.ErrNotFound
	}
	m.stored[sessionID] = state
	return nil
}

func (m *managerStub) Touch(ctx context.Context, sessionID string) error {
	m.touched = append(m.touched, sessionID)
	return nil
}

func (m *managerStub) Destroy(ctx context.Context, sessionID string) error {
	delete(m.stored, sessionID)
	return nil
}

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret:     "test-secret",
		CookieName: "urbandrive_session",
		TTL:        time.Hour,
	}
}

func newTestSessions(t *testing.T, manager *managerStub) *Sessions {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	sessions, err := NewSessions(manager, testSessionConfig(), logg)
	if err != nil {
		t.Fatalf("NewSessions returned error: %v", err)
	}
	return sessions
}

func TestLoaderWithoutCookieIsAnonymous(t *testing.T) {
	sessions := newTestSessions(t, newManagerStub())

	var seen *session.State
	handler := sessions.Loader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionState(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/vehiculos", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if seen == nil || seen.LoggedIn() {
		t.Fatalf("expected anonymous state, got %+v", seen)
	}
}

func TestLoaderRejectsTamperedCookie(t *testing.T) {
	sessions := newTestSessions(t, newManagerStub())

	var seen *session.State
	handler := sessions.Loader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionState(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/vehiculos", nil)
	req.AddCookie(&http.Cookie{Name: "urbandrive_session", Value: "not-a-jwt"})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if seen.LoggedIn() {
		t.Fatal("tampered cookie must degrade to anonymous")
	}
	if resp.Code != http.StatusOK {
		t.Fatalf("tampered cookie must not fail the request, got %d", resp.Code)
	}
}

func TestSaveMintsCookieOnFirstUse(t *testing.T) {
	manager := newManagerStub()
	sessions := newTestSessions(t, manager)

	handler := sessions.Loader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state := SessionState(r.Context())
		state.User = &session.UserSummary{ID: 5, Email: "ana@example.com", Role: enums.UserRoleClient}
		if err := sessions.Save(r.Context(), w); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodPost, "/login", nil))

	cookies := resp.Result().Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected one session cookie, got %d", len(cookies))
	}
	cookie := cookies[0]
	if cookie.Name != "urbandrive_session" || !cookie.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", cookie)
	}
	if cookie.MaxAge != int(time.Hour.Seconds()) {
		t.Fatalf("expected cookie max age %d, got %d", int(time.Hour.Seconds()), cookie.MaxAge)
	}

	claims, err := pkgauth.ParseSessionToken(testSessionConfig(), cookie.Value)
	if err != nil {
		t.Fatalf("cookie value is not a valid session token: %v", err)
	}
	stored, ok := manager.stored[claims.SessionID]
	if !ok || !stored.LoggedIn() || stored.User.ID != 5 {
		t.Fatalf("expected stored state for %s, got %+v", claims.SessionID, stored)
	}
}

func TestLoaderRestoresStoredState(t *testing.T) {
	manager := newManagerStub()
	manager.stored["sess-1"] = &session.State{
		User:   &session.UserSummary{ID: 5, Email: "ana@example.com", Role: enums.UserRoleAdmin},
		CartID: 3,
	}
	sessions := newTestSessions(t, manager)

	token, err := pkgauth.MintSessionToken(testSessionConfig(), time.Now(), "sess-1")
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	var seen *session.State
	handler := sessions.Loader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = SessionState(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/carrito", nil)
	req.AddCookie(&http.Cookie{Name: "urbandrive_session", Value: token})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if !seen.LoggedIn() || seen.User.ID != 5 || seen.CartID != 3 {
		t.Fatalf("expected restored state, got %+v", seen)
	}
	if len(manager.touched) != 1 || manager.touched[0] != "sess-1" {
		t.Fatalf("expected ttl refresh for sess-1, got %v", manager.touched)
	}
}

func TestClearDestroysSessionAndExpiresCookie(t *testing.T) {
	manager := newManagerStub()
	manager.stored["sess-1"] = &session.State{User: &session.UserSummary{ID: 5}}
	sessions := newTestSessions(t, manager)

	token, err := pkgauth.MintSessionToken(testSessionConfig(), time.Now(), "sess-1")
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	handler := sessions.Loader(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessions.Clear(r.Context(), w)
	}))

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: "urbandrive_session", Value: token})
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if _, ok := manager.stored["sess-1"]; ok {
		t.Fatal("expected session to be destroyed")
	}
	cookies := resp.Result().Cookies()
	if len(cookies) != 1 || cookies[0].MaxAge != -1 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}
