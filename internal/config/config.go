// Package config provides YAML-based configuration for the tutor server and client.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration structure
type AppConfig struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`
	Tutor   TutorConfig   `yaml:"tutor"`
	Events  EventsConfig  `yaml:"events"`
	Logging LoggingConfig `yaml:"logging"`
	Client  ClientConfig  `yaml:"client"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCORS"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// StorageConfig contains file storage settings
type StorageConfig struct {
	DataDirectory    string `yaml:"dataDirectory"`
	UploadsDirectory string `yaml:"uploadsDirectory"`
	NotesDatabase    string `yaml:"notesDatabase"` // empty keeps notes in memory
}

// TutorConfig selects and tunes the reply engine
type TutorConfig struct {
	Provider      string `yaml:"provider"` // "offline" or "openai"
	Model         string `yaml:"model"`
	MaxTokens     int    `yaml:"maxTokens"`
	MaxHistory    int    `yaml:"maxHistory"`
	RequireNotes  bool   `yaml:"requireNotes"`
	SystemPrompt  string `yaml:"systemPrompt,omitempty"`
	OpenAIBaseURL string `yaml:"openAIBaseURL,omitempty"`

	// OpenAIAPIKey is only read from the environment.
	OpenAIAPIKey string `yaml:"-"`
}

// EventsConfig configures the optional NATS publisher
type EventsConfig struct {
	NatsURL   string `yaml:"natsURL"`
	NatsToken string `yaml:"-"`
}

// LoggingConfig controls slog output
type LoggingConfig struct {
	Level          string `yaml:"level"`
	Format         string `yaml:"format"` // "json" or "text"
	RequestLogging bool   `yaml:"requestLogging"`
}

// ClientConfig contains terminal client settings
type ClientConfig struct {
	BaseURL        string `yaml:"baseURL"`
	SingleFlight   bool   `yaml:"singleFlight"`
	RequestTimeout int    `yaml:"requestTimeoutSeconds"` // 0 means no timeout
}

// Provider names
const (
	ProviderOffline = "offline"
	ProviderOpenAI  = "openai"
)

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8080,
			BindAddress:  "0.0.0.0",
			EnableCORS:   false,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 120,
			IdleTimeout:  120,
			BodyLimit:    "25M",
		},
		Storage: StorageConfig{
			DataDirectory:    "./data",
			UploadsDirectory: "./data/uploads",
			NotesDatabase:    "./data/notes.duckdb",
		},
		Tutor: TutorConfig{
			Provider:     ProviderOffline,
			Model:        "gpt-4o-mini",
			MaxTokens:    250,
			MaxHistory:   20,
			RequireNotes: true,
		},
		Logging: LoggingConfig{
			Level:          "info",
			Format:         "json",
			RequestLogging: true,
		},
		Client: ClientConfig{
			BaseURL: "http://localhost:8080",
		},
	}
}

// LoadConfig loads configuration from a YAML file. A missing file is created
// with the defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case os.IsNotExist(err):
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.ApplyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# AI Tutor Bot configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate reports settings that cannot work.
func (c *AppConfig) Validate() error {
	switch c.Tutor.Provider {
	case ProviderOffline, ProviderOpenAI:
	default:
		return fmt.Errorf("unknown tutor provider %q", c.Tutor.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Tutor.MaxHistory < 0 {
		return fmt.Errorf("maxHistory must not be negative")
	}
	if c.Client.RequestTimeout < 0 {
		return fmt.Errorf("requestTimeoutSeconds must not be negative")
	}
	return nil
}

// ApplyEnvironmentOverrides lets environment variables override config values.
// LoadConfig calls it; callers without a config file can call it directly.
func (c *AppConfig) ApplyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
		c.Storage.UploadsDirectory = filepath.Join(dataDir, "uploads")
		c.Storage.NotesDatabase = filepath.Join(dataDir, "notes.duckdb")
	}

	overrides := []struct {
		env    string
		target *string
	}{
		{"LOG_LEVEL", &c.Logging.Level},
		{"TUTOR_PROVIDER", &c.Tutor.Provider},
		{"TUTOR_MODEL", &c.Tutor.Model},
		{"OPENAI_API_KEY", &c.Tutor.OpenAIAPIKey},
		{"OPENAI_BASE_URL", &c.Tutor.OpenAIBaseURL},
		{"NATS_URL", &c.Events.NatsURL},
		{"NATS_TOKEN", &c.Events.NatsToken},
		{"TUTOR_SERVER_URL", &c.Client.BaseURL},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	for _, p := range []*string{
		&c.Storage.DataDirectory,
		&c.Storage.UploadsDirectory,
		&c.Storage.NotesDatabase,
	} {
		if *p != "" && !filepath.IsAbs(*p) {
			*p = filepath.Join(configDir, *p)
		}
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetUploadDir returns the absolute uploads directory path
func (c *AppConfig) GetUploadDir() string {
	return c.Storage.UploadsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDirectory,
		c.Storage.UploadsDirectory,
	}
	if c.Storage.NotesDatabase != "" {
		dirs = append(dirs, filepath.Dir(c.Storage.NotesDatabase))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
