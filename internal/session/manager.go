package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"

	"github.com/urbandrive/storefront/pkg/config"
	redisclient "github.com/urbandrive/storefront/pkg/redis"
)

// ErrNotFound signals the session id has no state (expired or never existed).
var ErrNotFound = errors.New("session not found")

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	SessionKey(sessionID string) string
}

// Manager stores session state blobs in Redis, keyed by the session ID
// minted into the signed cookie.
type Manager struct {
	store sessionStore
	keyer sessionKeyer
	ttl   time.Duration
}

// NewManager constructs a session manager backed by Redis.
func NewManager(client *redisclient.Client, cfg config.SessionConfig) (*Manager, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Manager{
		store: client,
		keyer: client,
		ttl:   cfg.TTL,
	}, nil
}

// NewSessionID produces the identifier embedded in the cookie claims.
func NewSessionID() string {
	return uuid.NewString()
}

// Create stores a fresh state and returns its session ID.
func (m *Manager) Create(ctx context.Context, state *State) (string, error) {
	sessionID := NewSessionID()
	if err := m.Save(ctx, sessionID, state); err != nil {
		return "", err
	}
	return sessionID, nil
}

// Load returns the state for the session ID, or ErrNotFound.
func (m *Manager) Load(ctx context.Context, sessionID string) (*State, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, ErrNotFound
	}
	raw, err := m.store.Get(ctx, m.keyer.SessionKey(sessionID))
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var state State
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, fmt.Errorf("decoding session state: %w", err)
	}
	return &state, nil
}

// Save writes the state and refreshes the TTL.
func (m *Manager) Save(ctx context.Context, sessionID string, state *State) error {
	if strings.TrimSpace(sessionID) == "" {
		return fmt.Errorf("session id is required")
	}
	if state == nil {
		state = &State{}
	}
	encoded, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding session state: %w", err)
	}
	return m.store.Set(ctx, m.keyer.SessionKey(sessionID), string(encoded), m.ttl)
}

// Touch refreshes the TTL without rewriting the blob.
func (m *Manager) Touch(ctx context.Context, sessionID string) error {
	return m.store.Expire(ctx, m.keyer.SessionKey(sessionID), m.ttl)
}

// Destroy removes the session state, used on logout.
func (m *Manager) Destroy(ctx context.Context, sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return nil
	}
	return m.store.Del(ctx, m.keyer.SessionKey(sessionID))
}
