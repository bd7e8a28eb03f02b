package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/urbandrive/storefront/pkg/config"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "unit-test-secret",
		TTL:    time.Hour,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now()

	signed, err := MintSessionToken(cfg, now, "sess-123")
	if err != nil {
		t.Fatalf("MintSessionToken returned error: %v", err)
	}

	claims, err := ParseSessionToken(cfg, signed)
	if err != nil {
		t.Fatalf("ParseSessionToken returned error: %v", err)
	}
	if claims.SessionID != "sess-123" {
		t.Fatalf("expected session id sess-123, got %q", claims.SessionID)
	}
}

func TestParseSessionTokenRejectsWrongSecret(t *testing.T) {
	signed, err := MintSessionToken(testSessionConfig(), time.Now(), "sess-123")
	if err != nil {
		t.Fatalf("MintSessionToken returned error: %v", err)
	}

	other := config.SessionConfig{Secret: "different-secret", TTL: time.Hour}
	if _, err := ParseSessionToken(other, signed); err == nil {
		t.Fatal("expected signature validation to fail")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	cfg := testSessionConfig()
	signed, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), "sess-123")
	if err != nil {
		t.Fatalf("MintSessionToken returned error: %v", err)
	}

	if _, err := ParseSessionToken(cfg, signed); err == nil {
		t.Fatal("expected expired token to fail validation")
	}
}

func TestMintSessionTokenValidation(t *testing.T) {
	cfg := testSessionConfig()

	if _, err := MintSessionToken(config.SessionConfig{TTL: time.Hour}, time.Now(), "sess-123"); err == nil || !strings.Contains(err.Error(), "secret") {
		t.Fatalf("expected missing-secret error, got %v", err)
	}
	if _, err := MintSessionToken(cfg, time.Now(), "  "); err == nil {
		t.Fatal("expected error for blank session id")
	}
	if _, err := MintSessionToken(config.SessionConfig{Secret: "s"}, time.Now(), "sess-123"); err == nil {
		t.Fatal("expected error for non-positive ttl")
	}
}
