package config

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.App.LoadTimeout != 10*time.Second {
		t.Errorf("App.LoadTimeout = %v, want 10s", cfg.App.LoadTimeout)
	}
	if cfg.App.DefaultLanguage != "en" {
		t.Errorf("App.DefaultLanguage = %q, want en", cfg.App.DefaultLanguage)
	}
	if cfg.Session.Backend != SessionBackendMemory {
		t.Errorf("Session.Backend = %q, want %q", cfg.Session.Backend, SessionBackendMemory)
	}
	if cfg.Session.CookieName != "sid" {
		t.Errorf("Session.CookieName = %q, want sid", cfg.Session.CookieName)
	}
	if got := cfg.GetServerAddr(); got != ":8080" {
		t.Errorf("GetServerAddr() = %q, want :8080", got)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("CHARITY_WEB_SERVER_PORT", "9090")
	t.Setenv("CHARITY_WEB_APP_LOADTIMEOUT", "3s")
	t.Setenv("CHARITY_WEB_PROVIDERS_CHARITIESURL", "https://charities.example.org")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() unexpected error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.App.LoadTimeout != 3*time.Second {
		t.Errorf("App.LoadTimeout = %v, want 3s", cfg.App.LoadTimeout)
	}
	if cfg.Providers.CharitiesURL != "https://charities.example.org" {
		t.Errorf("Providers.CharitiesURL = %q", cfg.Providers.CharitiesURL)
	}
}

func TestLoad_RejectsUnknownSessionBackend(t *testing.T) {
	t.Setenv("CHARITY_WEB_SESSION_BACKEND", "memcached")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() expected error but got none")
	}
	if !strings.Contains(err.Error(), "unknown session backend") {
		t.Errorf("Load() error = %v, want unknown session backend", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Port: 8080},
			Session: SessionConfig{Backend: SessionBackendRedis, CookieName: "sid"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: true},
		{name: "port too large", mutate: func(c *Config) { c.Server.Port = 70000 }, wantErr: true},
		{name: "negative timeout", mutate: func(c *Config) { c.App.LoadTimeout = -time.Second }, wantErr: true},
		{name: "empty cookie name", mutate: func(c *Config) { c.Session.CookieName = "" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_NewLogger(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		level    string
		contains string
		silent   bool
	}{
		{name: "json", format: "json", level: "info", contains: `"msg":"hello"`},
		{name: "text", format: "text", level: "debug", contains: "msg=hello"},
		{name: "console", format: "console", level: "info", contains: "hello"},
		{name: "level filters", format: "text", level: "error", silent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			cfg := &Config{Log: LogConfig{Level: tt.level, Format: tt.format}}
			cfg.newLogger(&buf).Info("hello")

			if tt.silent {
				if buf.Len() != 0 {
					t.Errorf("expected no output, got %q", buf.String())
				}
				return
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output = %q, want it to contain %q", buf.String(), tt.contains)
			}
		})
	}
}
