package config

import (
	"testing"
	"time"
)

func TestWebSocketDefaultsMatchHubLimits(t *testing.T) {
	cfg := Load()

	// The hub hardcodes a 10MB read limit and a 60s pong window; the env
	// defaults must agree so an operator reading one is not misled by the
	// other.
	if got := cfg.WebSocket.MaxMessageSize; got != 10*1024*1024 {
		t.Errorf("WS_MAX_MESSAGE_SIZE default = %d, want 10MB", got)
	}
	if got := cfg.WebSocket.PongWait; got != 60*time.Second {
		t.Errorf("WS_PONG_WAIT default = %v, want 60s", got)
	}
	if got := cfg.WebSocket.WriteWait; got != 10*time.Second {
		t.Errorf("WS_WRITE_WAIT default = %v, want 10s", got)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WS_MAX_MESSAGE_SIZE", "1048576")
	t.Setenv("CLEANUP_MAX_AGE", "48h")

	cfg := Load()
	if got := cfg.WebSocket.MaxMessageSize; got != 1048576 {
		t.Errorf("WS_MAX_MESSAGE_SIZE override = %d, want 1048576", got)
	}
	if got := cfg.Cleanup.MaxAge; got != 48*time.Hour {
		t.Errorf("CLEANUP_MAX_AGE override = %v, want 48h", got)
	}
}
