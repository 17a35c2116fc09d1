package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"COLORING_ADDR", "DATABASE_URL", "COLORING_UPLOAD_DIR",
		"COLORING_FRONTEND_DIST", "COLORING_CORS_ORIGIN",
		"JWT_SECRET", "ADMIN_USERNAME", "ADMIN_PASSWORD_HASH",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Addr != ":8000" {
		t.Errorf("Addr = %q, want :8000", cfg.Addr)
	}
	if cfg.UploadDir != "uploads" {
		t.Errorf("UploadDir = %q, want uploads", cfg.UploadDir)
	}
	if cfg.FrontendDist != "" {
		t.Errorf("FrontendDist = %q, want empty", cfg.FrontendDist)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername = %q, want admin", cfg.AdminUsername)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COLORING_ADDR", ":9000")
	t.Setenv("DATABASE_URL", "postgres://x:y@db:5432/z")
	t.Setenv("COLORING_FRONTEND_DIST", "/srv/dist")

	cfg := Load()
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.DatabaseURL != "postgres://x:y@db:5432/z" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
	if cfg.FrontendDist != "/srv/dist" {
		t.Errorf("FrontendDist = %q, want /srv/dist", cfg.FrontendDist)
	}
}
