package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadConfigMissing(t *testing.T) {
	r := tempRepo(t)
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.User.Name != "" || cfg.User.Email != "" {
		t.Errorf("missing config not empty: %+v", cfg)
	}
	if cfg.Author() != "" {
		t.Errorf("Author() on empty config: got %q", cfg.Author())
	}
}

func TestSetUserRoundTrip(t *testing.T) {
	r := tempRepo(t)
	if err := r.SetUser("Ada Lovelace", "ada@example.com"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}

	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.User.Name != "Ada Lovelace" || cfg.User.Email != "ada@example.com" {
		t.Errorf("round trip: got %+v", cfg.User)
	}
	if got := cfg.Author(); got != "Ada Lovelace <ada@example.com>" {
		t.Errorf("Author(): got %q", got)
	}
}

func TestSetUserRequiresName(t *testing.T) {
	r := tempRepo(t)
	if err := r.SetUser("  ", "ada@example.com"); err == nil {
		t.Error("SetUser with blank name succeeded")
	}
}

func TestAuthorWithoutEmail(t *testing.T) {
	cfg := &Config{User: UserConfig{Name: "Ada"}}
	if got := cfg.Author(); got != "Ada" {
		t.Errorf("Author(): got %q, want %q", got, "Ada")
	}
}

func TestSetUserPreservesConfigFile(t *testing.T) {
	r := tempRepo(t)
	if err := r.SetUser("Ada", "ada@example.com"); err != nil {
		t.Fatalf("SetUser: %v", err)
	}
	if err := r.SetUser("Grace", "grace@example.com"); err != nil {
		t.Fatalf("SetUser again: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(r.GritDir, "config.toml"))
	if err != nil {
		t.Fatalf("read config file: %v", err)
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if cfg.User.Name != "Grace" {
		t.Errorf("overwrite: got %q, file:\n%s", cfg.User.Name, data)
	}
}
