package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("PORT", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load()
	if cfg.WebPort != "8080" {
		t.Errorf("WebPort = %q, want 8080", cfg.WebPort)
	}
	if cfg.StoreDriver != StoreMongo {
		t.Errorf("StoreDriver = %q, want %q", cfg.StoreDriver, StoreMongo)
	}
	if cfg.AllowedOrigins != nil {
		t.Errorf("AllowedOrigins = %v, want nil", cfg.AllowedOrigins)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portal.yaml")
	body := "port: \"9090\"\nasset_dir: /srv/www\nstore_driver: postgres\nallowed_origins:\n  - https://a.example\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "7070")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("ASSET_DIR", "")

	cfg := Load()
	if cfg.WebPort != "7070" {
		t.Errorf("env should win over file: WebPort = %q", cfg.WebPort)
	}
	if cfg.AssetDir != "/srv/www" {
		t.Errorf("AssetDir = %q, want /srv/www", cfg.AssetDir)
	}
	if cfg.StoreDriver != StorePostgres {
		t.Errorf("StoreDriver = %q, want postgres", cfg.StoreDriver)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://a.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestParseOrigins(t *testing.T) {
	got := parseOrigins(" https://a.example , ,https://b.example")
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Fatalf("parseOrigins = %v", got)
	}
	if parseOrigins("") != nil {
		t.Fatal("empty input should allow all")
	}
}
