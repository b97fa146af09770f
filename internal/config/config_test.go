package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Catalogs.Dir = ""
	cfg.Server.Port = 0
	cfg.Logging.Level = "verbose"
	cfg.Water.BoilerEfficiency = 1.5

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected an error")
	}
	for _, want := range []string{"catalogs", "server", "logging", "water"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestLoadExplicitOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.toml")
	content := `
[server]
port = 8080

[water]
min_pressure_m = 5.0

[heating]
safety_margin = 1.3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, used, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("path = %q, want %q", used, path)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Water.MinPressureM != 5 {
		t.Errorf("min pressure = %v, want 5", cfg.Water.MinPressureM)
	}
	if cfg.Water.FloorFlowLS != 0.10 {
		t.Errorf("floor flow = %v, want default 0.10", cfg.Water.FloorFlowLS)
	}
	if cfg.Heating.SafetyMargin != 1.3 {
		t.Errorf("safety margin = %v, want 1.3", cfg.Heating.SafetyMargin)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[server]\nport = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	unknown := filepath.Join(dir, "unknown.toml")
	if err := os.WriteFile(unknown, []byte("[server]\nhost = \"x\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{bad, unknown, filepath.Join(dir, "missing.toml")} {
		_, _, err := Load(path)
		var le *LoadError
		if !errors.As(err, &le) {
			t.Errorf("Load(%s) error = %v, want *LoadError", filepath.Base(path), err)
			continue
		}
		if le.Path != path {
			t.Errorf("LoadError.Path = %q, want %q", le.Path, path)
		}
	}
}

func TestLoadFallsBackToDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, path, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty", path)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("port = %d, want 3000", cfg.Server.Port)
	}

	if _, _, err := MustExist(""); !errors.Is(err, ErrNoConfig) {
		t.Errorf("MustExist error = %v, want ErrNoConfig", err)
	}
}

func TestLoadFromXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	path := filepath.Join(xdg, XDGConfigSubdir, DefaultConfigFileName)

	cfg := Default()
	cfg.Catalogs.Dir = "/srv/catalogos"
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, used, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if used != path {
		t.Errorf("path = %q, want %q", used, path)
	}
	if got.Catalogs.Dir != "/srv/catalogos" {
		t.Errorf("catalogs dir = %q", got.Catalogs.Dir)
	}
	if ConfigPath("") != path {
		t.Errorf("ConfigPath = %q, want %q", ConfigPath(""), path)
	}
}
