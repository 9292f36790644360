package main

import (
	"testing"

	"facecam/remote/internal/config"
)

func TestApplyFlags_OverrideEnv(t *testing.T) {
	tests := []struct {
		name            string
		host, url, lvl  string
		wantURL, wantLv string
	}{
		{"no flags keep env", "", "", "", "ws://env-camera:81/", "warn"},
		{"host flag", "10.0.0.7", "", "", "ws://10.0.0.7:81/", "warn"},
		{"url flag", "", "ws://flag-camera:8181/ws", "", "ws://flag-camera:8181/ws", "warn"},
		{"url beats host", "10.0.0.7", "ws://flag-camera:8181/ws", "", "ws://flag-camera:8181/ws", "warn"},
		{"log level flag", "", "", "debug", "ws://env-camera:81/", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("FACECAM_HOST", "")
			t.Setenv("FACECAM_PING_INTERVAL", "")
			t.Setenv("FACECAM_URL", "ws://env-camera:81/")
			t.Setenv("FACECAM_LOG_LEVEL", "warn")

			cfg, err := config.Load()
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			applyFlags(cfg, tt.host, tt.url, tt.lvl)

			if cfg.URL != tt.wantURL {
				t.Errorf("URL: expected %q, got %q", tt.wantURL, cfg.URL)
			}
			if cfg.LogLevel != tt.wantLv {
				t.Errorf("LogLevel: expected %q, got %q", tt.wantLv, cfg.LogLevel)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate: %v", err)
			}
		})
	}
}
