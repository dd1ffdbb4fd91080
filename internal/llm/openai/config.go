package openai

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/joseph-ayodele/roster-reports/internal/common"
)

// Config for the OpenAI-compatible vision client.
type Config struct {
	APIKey      string
	BaseURL     string  // default https://api.openai.com/v1
	Model       string  // e.g., "gpt-4o-mini"
	Temperature float32 // 0..2
	Timeout     time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *zap.SugaredLogger
}

func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  common.OrNop(log),
	}
}

// FromConfig builds a client from the extraction settings.
func FromConfig(cfg common.ExtractConfig, log *zap.SugaredLogger) *Client {
	return NewClient(Config{
		APIKey:      cfg.OpenAIAPIKey,
		BaseURL:     cfg.OpenAIURL,
		Model:       cfg.OpenAIModel,
		Temperature: cfg.Temperature,
		Timeout:     cfg.Timeout,
	}, log)
}
