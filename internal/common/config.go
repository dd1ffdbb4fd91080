package common

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Extraction providers.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Extract ExtractConfig `yaml:"extract"`
	Master  MasterConfig  `yaml:"master"`
	Image   ImageConfig   `yaml:"image"`
	Log     LogConfig     `yaml:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	GRPCHealthAddr  string        `yaml:"grpc_health_addr"`
	MaxUploadMB     int           `yaml:"max_upload_mb"`
	AllowOrigins    []string      `yaml:"allow_origins"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// ExtractConfig holds settings for the image extraction service
type ExtractConfig struct {
	Provider     string        `yaml:"provider"`
	GeminiAPIKey string        `yaml:"gemini_api_key"`
	GeminiModel  string        `yaml:"gemini_model"`
	OpenAIAPIKey string        `yaml:"openai_api_key"`
	OpenAIURL    string        `yaml:"openai_base_url"`
	OpenAIModel  string        `yaml:"openai_model"`
	Temperature  float32       `yaml:"temperature"`
	Timeout      time.Duration `yaml:"timeout"`
}

// MasterConfig locates the master employee spreadsheet
type MasterConfig struct {
	Path  string `yaml:"path"`
	Sheet string `yaml:"sheet"`
}

// ImageConfig controls image preparation before extraction
type ImageConfig struct {
	MaxDimension int `yaml:"max_dimension"`
	JPEGQuality  int `yaml:"jpeg_quality"`
}

// LogConfig controls the process logger
type LogConfig struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":5000",
			MaxUploadMB:     32,
			AllowOrigins:    []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Extract: ExtractConfig{
			Provider:    ProviderGemini,
			GeminiModel: "gemini-2.5-flash",
			OpenAIURL:   "https://api.openai.com/v1",
			OpenAIModel: "gpt-4o-mini",
			Timeout:     60 * time.Second,
		},
		Master: MasterConfig{
			Path: "EmployeeDetails.xlsx",
		},
		Image: ImageConfig{
			MaxDimension: 2048,
			JPEGQuality:  85,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadConfig builds the configuration from defaults, an optional YAML file,
// an optional .env file and the process environment, in that order.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, NewAppError(CodeConfig, "read config file "+path, err)
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, NewAppError(CodeConfig, "parse config file "+path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, NewAppError(CodeConfig, "load .env", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Server.Addr = getEnv("SERVER_ADDR", c.Server.Addr)
	c.Server.GRPCHealthAddr = getEnv("GRPC_HEALTH_ADDR", c.Server.GRPCHealthAddr)
	c.Server.MaxUploadMB = getEnvAsInt("SERVER_MAX_UPLOAD_MB", c.Server.MaxUploadMB)
	c.Server.AllowOrigins = getEnvAsList("CORS_ALLOW_ORIGINS", c.Server.AllowOrigins)
	c.Server.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.Server.ShutdownTimeout)

	c.Extract.Provider = strings.ToLower(getEnv("EXTRACT_PROVIDER", c.Extract.Provider))
	c.Extract.GeminiAPIKey = getEnv("GEMINI_API_KEY", c.Extract.GeminiAPIKey)
	c.Extract.GeminiModel = getEnv("GEMINI_MODEL", c.Extract.GeminiModel)
	c.Extract.OpenAIAPIKey = getEnv("OPENAI_API_KEY", c.Extract.OpenAIAPIKey)
	c.Extract.OpenAIURL = getEnv("OPENAI_BASE_URL", c.Extract.OpenAIURL)
	c.Extract.OpenAIModel = getEnv("OPENAI_MODEL", c.Extract.OpenAIModel)
	c.Extract.Temperature = getEnvAsFloat32("EXTRACT_TEMPERATURE", c.Extract.Temperature)
	c.Extract.Timeout = getEnvAsDuration("EXTRACT_TIMEOUT", c.Extract.Timeout)

	c.Master.Path = getEnv("MASTER_PATH", c.Master.Path)
	c.Master.Sheet = getEnv("MASTER_SHEET", c.Master.Sheet)

	c.Image.MaxDimension = getEnvAsInt("IMAGE_MAX_DIMENSION", c.Image.MaxDimension)
	c.Image.JPEGQuality = getEnvAsInt("IMAGE_JPEG_QUALITY", c.Image.JPEGQuality)

	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Dev = getEnvAsBool("LOG_DEV", c.Log.Dev)
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat32(key string, defaultValue float32) float32 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 32); err == nil {
			return float32(floatVal)
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

// ExtractAPIKey returns the API key of the selected provider.
func (c *Config) ExtractAPIKey() string {
	if c.Extract.Provider == ProviderOpenAI {
		return c.Extract.OpenAIAPIKey
	}
	return c.Extract.GeminiAPIKey
}

// Validate checks the settings every command needs.
func (c *Config) Validate() error {
	if c.Master.Path == "" {
		return NewAppError(CodeConfig, "MASTER_PATH is required", ErrInvalidInput)
	}
	if c.Server.MaxUploadMB <= 0 {
		return NewAppError(CodeConfig, "SERVER_MAX_UPLOAD_MB must be positive", ErrInvalidInput)
	}
	return nil
}

// ValidateExtract checks the extraction settings; only commands that call the AI service need it.
func (c *Config) ValidateExtract() error {
	switch c.Extract.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return NewAppError(CodeConfig, fmt.Sprintf("unknown EXTRACT_PROVIDER %q", c.Extract.Provider), ErrInvalidInput)
	}
	if c.ExtractAPIKey() == "" {
		return NewAppError(CodeConfig, "API key for provider "+c.Extract.Provider+" is required", ErrInvalidInput)
	}
	if c.Extract.Timeout <= 0 {
		return NewAppError(CodeConfig, "EXTRACT_TIMEOUT must be positive", ErrInvalidInput)
	}
	return nil
}
