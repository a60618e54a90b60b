package config

import (
	"strings"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DB_NAME", "mrw")
	t.Setenv("DB_USER", "root")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SMTP_SENDER", "MRW <no-reply@mrw.test>")
	t.Setenv("ADMIN_EMAIL", "admin@mrw.test")
	t.Setenv("TMDB_API_KEY", "key")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9467" {
		t.Errorf("Port = %q, want 9467", cfg.Port)
	}
	if cfg.DBDriver != DriverMySQL {
		t.Errorf("DBDriver = %q, want mysql", cfg.DBDriver)
	}
	if cfg.AccessTTL() != time.Hour {
		t.Errorf("AccessTTL = %v, want 1h", cfg.AccessTTL())
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("BcryptCost = %d, want 10", cfg.BcryptCost)
	}
	if cfg.MailTransport != MailDirect {
		t.Errorf("MailTransport = %q, want direct", cfg.MailTransport)
	}
	if cfg.TMDB.BaseURL != "https://api.themoviedb.org/3" {
		t.Errorf("TMDB.BaseURL = %q", cfg.TMDB.BaseURL)
	}
	if cfg.TMDB.Timeout != 10*time.Second {
		t.Errorf("TMDB.Timeout = %v", cfg.TMDB.Timeout)
	}
}

func TestLoadReportsAllMissing(t *testing.T) {
	for _, k := range []string{"DB_NAME", "DB_USER", "DB_HOST", "DB_PORT", "JWT_SECRET", "SMTP_SENDER", "ADMIN_EMAIL", "TMDB_API_KEY", "DB_DRIVER"} {
		t.Setenv(k, "")
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing variables")
	}
	for _, k := range []string{"DB_NAME", "JWT_SECRET", "TMDB_API_KEY", "ADMIN_EMAIL", "DB_HOST"} {
		if !strings.Contains(err.Error(), k) {
			t.Errorf("error %q does not mention %s", err, k)
		}
	}
}

func TestLoadMongoDriver(t *testing.T) {
	setRequired(t)
	t.Setenv("DB_DRIVER", "mongo")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_HOST", "")
	t.Setenv("DB_PORT", "")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DB_URL") {
		t.Fatalf("expected DB_URL to be required, got %v", err)
	}

	t.Setenv("DB_URL", "mongodb://localhost:27017")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DBURL != "mongodb://localhost:27017" {
		t.Errorf("DBURL = %q", cfg.DBURL)
	}
}

func TestLoadRejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		key, value, want string
	}{
		{"DB_DRIVER", "postgres", "DB_DRIVER"},
		{"MAIL_TRANSPORT", "pigeon", "MAIL_TRANSPORT"},
		{"BCRYPT_COST", "ten", "BCRYPT_COST"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error mentioning %s, got %v", tt.want, err)
			}
		})
	}
}

func TestLoadRateLimitConfigNormalizes(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 {
		t.Errorf("Capacity = %d, want 1", cfg.Capacity)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("TTL = %v, want 10s", cfg.TTL)
	}

	auth := cfg.WithCapacity(5, "mrw:rl:auth")
	if auth.Capacity != 5 || auth.Prefix != "mrw:rl:auth" {
		t.Errorf("WithCapacity = %+v", auth)
	}
}

func TestLoadCacheConfigMethods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")
	cfg := LoadCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || len(cfg.Methods) != 2 {
		t.Errorf("Methods = %v", cfg.Methods)
	}
}
