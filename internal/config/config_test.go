package config

import (
	"strings"
	"testing"

	"github.com/spf13/afero"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/storage"
)

func TestLoadDefaults(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := load(fs, "")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Manifest.URL != manifest.DefaultURL {
		t.Errorf("manifest.url = %q, want default", cfg.Manifest.URL)
	}
	if cfg.Manifest.Timeout != 30 {
		t.Errorf("manifest.timeout = %d, want 30", cfg.Manifest.Timeout)
	}
	if cfg.Storage.DirName != storage.DirName {
		t.Errorf("storage.dir_name = %q, want %q", cfg.Storage.DirName, storage.DirName)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want warn", cfg.Log.Level)
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	fs := afero.NewMemMapFs()
	content := `
manifest:
  url: "https://example.com/versions.json"
storage:
  root: "/sdcard"
installer:
  intent_command: ["adb", "shell", "am"]
log:
  level: "info"
`
	if err := afero.WriteFile(fs, "/etc/mclauncher.yaml", []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("MCLAUNCHER_LOG_LEVEL", "debug")

	cfg, err := load(fs, "/etc/mclauncher.yaml")
	if err != nil {
		t.Fatalf("load() error = %v", err)
	}
	if cfg.Manifest.URL != "https://example.com/versions.json" {
		t.Errorf("manifest.url = %q", cfg.Manifest.URL)
	}
	if cfg.Storage.Root != "/sdcard" {
		t.Errorf("storage.root = %q", cfg.Storage.Root)
	}
	if got := strings.Join(cfg.Installer.IntentCommand, " "); got != "adb shell am" {
		t.Errorf("installer.intent_command = %q", got)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, env override should win", cfg.Log.Level)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := load(afero.NewMemMapFs(), "/nope/mclauncher.yaml")
	if !apperrors.IsType(err, apperrors.ErrorTypeConfiguration) {
		t.Errorf("load() error = %v, want configuration error", err)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := Validate(&cfg); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	bad := Default()
	bad.Storage.DirName = "a/b"
	if err := Validate(&bad); apperrors.CodeOf(err) != apperrors.CodeInvalidConfig {
		t.Errorf("Validate() with nested dir_name = %v", err)
	}

	bad = Default()
	bad.Manifest.URL = " "
	if err := Validate(&bad); err == nil {
		t.Error("Validate() should reject an empty manifest url")
	}
}

func TestSaveTemplateLoadsBack(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/home/u/.config/mclauncher/mclauncher.yaml"

	if err := saveTemplate(fs, path, false); err != nil {
		t.Fatalf("saveTemplate() error = %v", err)
	}
	if err := saveTemplate(fs, path, false); err == nil {
		t.Error("saveTemplate() should refuse to overwrite without force")
	}
	if err := saveTemplate(fs, path, true); err != nil {
		t.Errorf("saveTemplate(force) error = %v", err)
	}

	cfg, err := load(fs, path)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	def := Default()
	if cfg.Manifest != def.Manifest || cfg.Storage != def.Storage || cfg.Log != def.Log {
		t.Errorf("template differs from defaults: %+v", cfg)
	}
}

func TestShow(t *testing.T) {
	cfg := Default()
	out, err := Show(&cfg)
	if err != nil {
		t.Fatalf("Show() error = %v", err)
	}
	for _, want := range []string{"manifest:", manifest.DefaultURL, "dir_name: mclauncher"} {
		if !strings.Contains(out, want) {
			t.Errorf("Show() output missing %q:\n%s", want, out)
		}
	}
}
