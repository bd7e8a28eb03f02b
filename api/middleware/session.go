package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/urbandrive/storefront/internal/session"
	pkgauth "github.com/urbandrive/storefront/pkg/auth"
	"github.com/urbandrive/storefront/pkg/config"
	"github.com/urbandrive/storefront/pkg/logger"
)

type sessionManager interface {
	Create(ctx context.Context, state *session.State) (string, error)
	Load(ctx context.Context, sessionID string) (*session.State, error)
	Save(ctx context.Context, sessionID string, state *session.State) error
	Touch(ctx context.Context, sessionID string) error
	Destroy(ctx context.Context, sessionID string) error
}

// Sessions loads the browser session from the signed cookie and saves it
// back after handlers mutate it. A rejected or expired cookie degrades to
// an anonymous session, never to an error page.
type Sessions struct {
	manager sessionManager
	cfg     config.SessionConfig
	logg    *logger.Logger
	now     func() time.Time
}

// NewSessions wires the session middleware.
func NewSessions(manager sessionManager, cfg config.SessionConfig, logg *logger.Logger) (*Sessions, error) {
	if manager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger is required")
	}
	return &Sessions{manager: manager, cfg: cfg, logg: logg, now: time.Now}, nil
}

// Loader resolves the cookie into session state and seeds the context.
func (s *Sessions) Loader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		container := &sessionContainer{state: &session.State{}}

		if cookie, err := r.Cookie(s.cfg.CookieName); err == nil && cookie.Value != "" {
			claims, err := pkgauth.ParseSessionToken(s.cfg, cookie.Value)
			if err != nil {
				s.logg.Warn(ctx, "session cookie rejected, continuing anonymous")
			} else if state, err := s.manager.Load(ctx, claims.SessionID); err != nil {
				if !errors.Is(err, session.ErrNotFound) {
					s.logg.Warn(ctx, "session load failed, continuing anonymous")
				}
			} else {
				container.state = state
				container.id = claims.SessionID
				// Sliding expiry: active browsers keep their session.
				if err := s.manager.Touch(ctx, claims.SessionID); err != nil {
					s.logg.Warn(ctx, "session ttl refresh failed")
				}
			}
		}

		if container.state.LoggedIn() {
			ctx = s.logg.WithUserID(ctx, strconv.FormatInt(container.state.User.ID, 10))
			ctx = s.logg.WithActorRole(ctx, string(container.state.User.Role))
		}

		next.ServeHTTP(w, r.WithContext(withSession(ctx, container)))
	})
}

// Save persists the request's session state, minting a session and cookie
// on first use.
func (s *Sessions) Save(ctx context.Context, w http.ResponseWriter) error {
	container := sessionFromContext(ctx)
	if container == nil {
		return fmt.Errorf("no session on context")
	}

	if container.id == "" {
		sessionID, err := s.manager.Create(ctx, container.state)
		if err != nil {
			return err
		}
		container.id = sessionID
		return s.setCookie(w, sessionID)
	}

	return s.manager.Save(ctx, container.id, container.state)
}

// Clear destroys the session and expires the cookie, used on logout.
func (s *Sessions) Clear(ctx context.Context, w http.ResponseWriter) {
	container := sessionFromContext(ctx)
	if container != nil && container.id != "" {
		if err := s.manager.Destroy(ctx, container.id); err != nil {
			s.logg.Error(ctx, "session destroy failed", err)
		}
		container.id = ""
		container.state = &session.State{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (s *Sessions) setCookie(w http.ResponseWriter, sessionID string) error {
	token, err := pkgauth.MintSessionToken(s.cfg, s.now(), sessionID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   s.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
