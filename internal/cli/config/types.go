// Package config provides configuration management for the sqlfront CLI.
package config

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
	LogLevel     string `koanf:"log_level"`
	CatalogPath  string `koanf:"catalog_path"`
	HistoryFile  string `koanf:"history_file"`

	// ConfigFile is the file the configuration was read from, if any.
	ConfigFile string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultOutput      = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel    = "warn"
	DefaultCatalogFile = ".sqlfront/catalog.db"
	DefaultHistoryFile = ".sqlfront/history"
)

// Config file names searched in the working directory, in order.
var configFileNames = []string{"sqlfront.yaml", "sqlfront.yml"}

// Default returns a Config populated with default values.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		LogLevel:     DefaultLogLevel,
		CatalogPath:  DefaultCatalogFile,
		HistoryFile:  DefaultHistoryFile,
	}
}
