package models

// Config represents the application configuration
type Config struct {
	Manifest   ManifestConfig   `mapstructure:"manifest" yaml:"manifest" json:"manifest"`
	Storage    StorageConfig    `mapstructure:"storage" yaml:"storage" json:"storage"`
	Download   DownloadConfig   `mapstructure:"download" yaml:"download" json:"download"`
	Installer  InstallerConfig  `mapstructure:"installer" yaml:"installer" json:"installer"`
	Permission PermissionConfig `mapstructure:"permission" yaml:"permission" json:"permission"`
	Log        LogConfig        `mapstructure:"log" yaml:"log" json:"log"`
	UI         UIConfig         `mapstructure:"ui" yaml:"ui" json:"ui"`
}

// ManifestConfig controls where the version list comes from
type ManifestConfig struct {
	URL     string `mapstructure:"url" yaml:"url" json:"url"`
	Timeout int    `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // seconds
}

// StorageConfig controls where packages are written
type StorageConfig struct {
	Root    string `mapstructure:"root" yaml:"root" json:"root"` // empty = detect shared storage
	DirName string `mapstructure:"dir_name" yaml:"dir_name" json:"dir_name"`
}

// DownloadConfig contains download settings
type DownloadConfig struct {
	Timeout int `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // seconds
}

// InstallerConfig selects the commands used to open a package
type InstallerConfig struct {
	OpenCommand   []string `mapstructure:"open_command" yaml:"open_command" json:"open_command"`       // empty = platform default
	IntentCommand []string `mapstructure:"intent_command" yaml:"intent_command" json:"intent_command"` // prefix for "start -a ..."
}

// PermissionConfig selects the command used to request storage access
type PermissionConfig struct {
	RequestCommand []string `mapstructure:"request_command" yaml:"request_command" json:"request_command"`
}

// LogConfig contains logger settings
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`   // debug, info, warn, error
	Format string `mapstructure:"format" yaml:"format" json:"format"` // text, compact, json
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// UIConfig contains presentation settings
type UIConfig struct {
	Lang string `mapstructure:"lang" yaml:"lang" json:"lang"`
}
