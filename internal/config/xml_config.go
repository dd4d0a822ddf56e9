// Package config provides XML-based configuration management for the fault logbook.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// AndroidExportPath is the default export destination on Android devices.
const AndroidExportPath = "/sdcard/Download/logbook_data.xlsx"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"FaultLogbook"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Storage configuration
	Storage StorageConfig `xml:"Storage"`

	// Loader configuration
	Loader LoaderConfig `xml:"Loader"`

	// Form session configuration
	Session SessionConfig `xml:"Session"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port"`
	BindAddress  string `xml:"BindAddress"`
	EnableCORS   bool   `xml:"EnableCORS"`
	AllowOrigins string `xml:"AllowOrigins"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds"`
	BodyLimit    string `xml:"BodyLimit"`
}

// StorageConfig contains file locations. Relative paths resolve against the
// config file's directory; file names resolve against DataDirectory.
type StorageConfig struct {
	DataDirectory  string `xml:"DataDirectory"`
	MappingsFile   string `xml:"MappingsFile"`
	FaultTypesFile string `xml:"FaultTypesFile"`
	OptionsFile    string `xml:"OptionsFile"`
	DailyLogFile   string `xml:"DailyLogFile"`
	// ExportPath is the default spreadsheet destination. Empty means the
	// platform default.
	ExportPath string `xml:"ExportPath"`
}

// LoaderConfig selects the mapping table engine.
type LoaderConfig struct {
	Engine string `xml:"Engine"`
}

// SessionConfig controls idle form cleanup.
type SessionConfig struct {
	IdleTimeoutMinutes     int `xml:"IdleTimeoutMinutes"`
	CleanupIntervalMinutes int `xml:"CleanupIntervalMinutes"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel"`
	LogFormat            string `xml:"LogFormat"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	EnableMetrics        bool   `xml:"EnableMetrics"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
			BodyLimit:    "1M",
		},
		Storage: StorageConfig{
			DataDirectory:  ".",
			MappingsFile:   "mappings.csv",
			FaultTypesFile: "fault_types.csv",
			OptionsFile:    "options.yaml",
			DailyLogFile:   "daily_log.csv",
			ExportPath:     "",
		},
		Loader: LoaderConfig{
			Engine: "csv",
		},
		Session: SessionConfig{
			IdleTimeoutMinutes:     120,
			CleanupIntervalMinutes: 5,
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			LogFormat:            "text",
			EnableRequestLogging: true,
			EnableMetrics:        true,
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Fault Logbook Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if exportPath := os.Getenv("FAULTLOG_EXPORT_PATH"); exportPath != "" {
		c.Storage.ExportPath = exportPath
	}

	if engine := os.Getenv("FAULTLOG_LOADER"); engine != "" {
		c.Loader.Engine = engine
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Advanced.LogLevel = level
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	dataDir := c.Storage.DataDirectory
	for _, p := range []*string{
		&c.Storage.MappingsFile,
		&c.Storage.FaultTypesFile,
		&c.Storage.OptionsFile,
		&c.Storage.DailyLogFile,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(dataDir, *p)
		}
	}
	if c.Storage.ExportPath != "" && !filepath.IsAbs(c.Storage.ExportPath) {
		c.Storage.ExportPath = filepath.Join(dataDir, c.Storage.ExportPath)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetExportPath returns the export destination: the configured path, the
// Android download folder when running on Android, or logbook_data.xlsx in
// the data directory.
func (c *AppConfig) GetExportPath() string {
	if c.Storage.ExportPath != "" {
		return c.Storage.ExportPath
	}
	if os.Getenv("ANDROID_ARGUMENT") != "" {
		return AndroidExportPath
	}
	return filepath.Join(c.Storage.DataDirectory, "logbook_data.xlsx")
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// IdleTimeout returns how long an unused form stays open.
func (c *AppConfig) IdleTimeout() time.Duration {
	return time.Duration(c.Session.IdleTimeoutMinutes) * time.Minute
}

// CleanupInterval returns how often idle forms are swept.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Session.CleanupIntervalMinutes) * time.Minute
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		filepath.Dir(c.Storage.DailyLogFile),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
