package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadConfigFrom(t *testing.T) {
	t.Run("file values override defaults", func(t *testing.T) {
		path := writeConfig(t, `
server:
  addr: ":9090"
db:
  driver: mysql
  dsn: "user:pass@tcp(localhost:3306)/shop?parseTime=true"
  maxOpenConns: 8
analytics:
  engine: memory
`)
		cfg, err := LoadConfigFrom(path)
		if err != nil {
			t.Fatalf("LoadConfigFrom error: %v", err)
		}

		if cfg.Server.Addr != ":9090" {
			t.Errorf("Expected addr :9090, got %s", cfg.Server.Addr)
		}
		if cfg.DB.Driver != "mysql" {
			t.Errorf("Expected driver mysql, got %s", cfg.DB.Driver)
		}
		if cfg.DB.MaxOpenConns != 8 {
			t.Errorf("Expected maxOpenConns 8, got %d", cfg.DB.MaxOpenConns)
		}
		if cfg.Analytics.Engine != "memory" {
			t.Errorf("Expected engine memory, got %s", cfg.Analytics.Engine)
		}
		// untouched keys keep their defaults
		if cfg.Log.Level != "info" || cfg.Log.Format != "console" {
			t.Errorf("Expected default log config, got %+v", cfg.Log)
		}
	})

	t.Run("environment overrides file", func(t *testing.T) {
		path := writeConfig(t, "db:\n  dsn: from-file.db\n")
		t.Setenv("CARTSTATS_DB_DSN", "from-env.db")

		cfg, err := LoadConfigFrom(path)
		if err != nil {
			t.Fatalf("LoadConfigFrom error: %v", err)
		}
		if cfg.DB.DSN != "from-env.db" {
			t.Errorf("Expected dsn from env, got %s", cfg.DB.DSN)
		}
	})

	t.Run("unknown driver is rejected", func(t *testing.T) {
		path := writeConfig(t, "db:\n  driver: oracle\n")
		if _, err := LoadConfigFrom(path); err == nil {
			t.Error("Expected validation error for unknown driver")
		}
	})

	t.Run("unknown engine is rejected", func(t *testing.T) {
		path := writeConfig(t, "analytics:\n  engine: spark\n")
		if _, err := LoadConfigFrom(path); err == nil {
			t.Error("Expected validation error for unknown engine")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
			t.Error("Expected error for missing file")
		}
	})
}

func TestLoadConfigDefaults(t *testing.T) {
	// run from an empty directory so no config.yaml is found
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}
	if cfg.DB.Driver != "sqlite3" || cfg.DB.DSN != "cartstats.db" {
		t.Errorf("Unexpected db defaults: %+v", cfg.DB)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("Unexpected server default: %s", cfg.Server.Addr)
	}
}
