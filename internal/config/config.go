package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	apperrors "github.com/huanfeng/mclauncher/internal/errors"
	"github.com/huanfeng/mclauncher/pkg/manifest"
	"github.com/huanfeng/mclauncher/pkg/models"
	"github.com/huanfeng/mclauncher/pkg/storage"
)

// EnvPrefix prefixes every environment override, e.g. MCLAUNCHER_LOG_LEVEL
const EnvPrefix = "MCLAUNCHER"

// FileName is the config file name searched for without extension
const FileName = "mclauncher"

var defaultConfig = models.Config{
	Manifest: models.ManifestConfig{
		URL:     manifest.DefaultURL,
		Timeout: int(manifest.DefaultTimeout.Seconds()),
	},
	Storage: models.StorageConfig{
		Root:    "",
		DirName: storage.DirName,
	},
	Download: models.DownloadConfig{
		Timeout: 0,
	},
	Log: models.LogConfig{
		Level:  "warn",
		Format: "text",
	},
}

// Default returns a copy of the built-in configuration
func Default() models.Config {
	return defaultConfig
}

// Load loads configuration from file, .env and environment.
// A missing config file is not an error.
func Load(configPath string) (*models.Config, error) {
	return load(afero.NewOsFs(), configPath)
}

func load(fs afero.Fs, configPath string) (*models.Config, error) {
	// .env only fills variables that are not already set
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeConfiguration, apperrors.CodeInvalidConfig, "failed to read .env")
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")

	v.SetDefault("manifest.url", defaultConfig.Manifest.URL)
	v.SetDefault("manifest.timeout", defaultConfig.Manifest.Timeout)
	v.SetDefault("storage.root", defaultConfig.Storage.Root)
	v.SetDefault("storage.dir_name", defaultConfig.Storage.DirName)
	v.SetDefault("download.timeout", defaultConfig.Download.Timeout)
	v.SetDefault("installer.open_command", []string{})
	v.SetDefault("installer.intent_command", []string{})
	v.SetDefault("permission.request_command", []string{})
	v.SetDefault("log.level", defaultConfig.Log.Level)
	v.SetDefault("log.format", defaultConfig.Log.Format)
	v.SetDefault("log.file", defaultConfig.Log.File)
	v.SetDefault("ui.lang", defaultConfig.UI.Lang)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, apperrors.WrapError(err, apperrors.ErrorTypeConfiguration, apperrors.CodeInvalidConfig, "failed to read config file").
				WithContext("path", configPath)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg models.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.WrapError(err, apperrors.ErrorTypeConfiguration, apperrors.CodeInvalidConfig, "failed to unmarshal config")
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the launcher cannot run with
func Validate(cfg *models.Config) error {
	if strings.TrimSpace(cfg.Manifest.URL) == "" {
		return apperrors.NewConfigurationError(apperrors.CodeInvalidConfig, "manifest.url must not be empty")
	}
	if cfg.Manifest.Timeout < 0 || cfg.Download.Timeout < 0 {
		return apperrors.NewConfigurationError(apperrors.CodeInvalidConfig, "timeouts must not be negative")
	}
	if name := cfg.Storage.DirName; name == "" || strings.ContainsAny(name, `/\`) {
		return apperrors.NewConfigurationError(apperrors.CodeInvalidConfig, "storage.dir_name must be a single directory name").
			WithContext("dir_name", name)
	}
	return nil
}

// Show renders cfg as YAML
func Show(cfg *models.Config) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SaveTemplate writes a commented configuration template to path.
// An existing file is left untouched unless force is set.
func SaveTemplate(path string, force bool) error {
	return saveTemplate(afero.NewOsFs(), path, force)
}

func saveTemplate(fs afero.Fs, path string, force bool) error {
	if !force {
		if ok, _ := afero.Exists(fs, path); ok {
			return apperrors.NewFileSystemError(apperrors.CodeWriteFailed, "config file already exists").
				WithContext("path", path).
				WithSuggestion("Use --force to overwrite it")
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0755); err != nil {
			return apperrors.WrapError(err, apperrors.ErrorTypeFileSystem, apperrors.CodeWriteFailed, "failed to create config directory")
		}
	}
	return afero.WriteFile(fs, path, []byte(templateContent), 0644)
}

const templateContent = `# mclauncher configuration file

manifest:
  # JSON version list with a top-level "versions" array
  url: "` + manifest.DefaultURL + `"

  # Request timeout in seconds
  timeout: 30

storage:
  # Shared storage root. Leave empty to detect it
  # ($EXTERNAL_STORAGE, /sdcard, ~/storage/shared, then home)
  root: ""

  # Directory under the root that holds downloaded packages
  dir_name: "mclauncher"

download:
  # Download timeout in seconds (0 = built-in default)
  timeout: 0

installer:
  # Command used to open a package. Empty selects the platform default
  # (termux-open, open, xdg-open or rundll32)
  open_command: []

  # Activity manager prefix used when the open command fails.
  # For a device attached over adb: ["adb", "shell", "am"]
  intent_command: []

permission:
  # Command that asks the platform for storage access
  request_command: []

log:
  # debug, info, warn or error
  level: "warn"

  # text, compact or json
  format: "text"

  # Also write logs to this file
  file: ""

ui:
  # en or pt. Empty follows MCLAUNCHER_LANG and the system locale
  lang: ""
`
