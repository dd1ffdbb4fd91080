// Package gemini implements llm.RosterExtractor on Google's Gemini API.
package gemini

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

const DefaultModel = "gemini-2.5-flash"

// Config for the Gemini client.
type Config struct {
	APIKey      string
	Model       string
	Temperature float32
}

// contentGenerator is the slice of genai.Models the client uses.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

type modelsGenerator struct {
	client *genai.Client
}

func (g modelsGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	return g.client.Models.GenerateContent(ctx, model, contents, config)
}

type Client struct {
	cfg Config
	gen contentGenerator
	log *zap.SugaredLogger
}

var _ llm.RosterExtractor = (*Client)(nil)

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, common.NewAppError(common.CodeConfig, "gemini API key is required", common.ErrInvalidInput)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, common.WrapError(err, "create genai client")
	}
	return newWithGenerator(cfg, modelsGenerator{client: client}, log), nil
}

// FromConfig builds a client from the extraction settings.
func FromConfig(ctx context.Context, cfg common.ExtractConfig, log *zap.SugaredLogger) (*Client, error) {
	return NewClient(ctx, Config{
		APIKey:      cfg.GeminiAPIKey,
		Model:       cfg.GeminiModel,
		Temperature: cfg.Temperature,
	}, log)
}

func newWithGenerator(cfg Config, gen contentGenerator, log *zap.SugaredLogger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Client{cfg: cfg, gen: gen, log: common.OrNop(log)}
}

// ExtractRoster sends the prompt and the image as one user turn and parses the text reply.
func (c *Client) ExtractRoster(ctx context.Context, req llm.ExtractRequest) ([]roster.RawExtraction, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.log.Infow("llm.extract.start",
		"req_id", rid,
		"provider", common.ProviderGemini,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"filename", req.Filename,
		"mime_type", req.MIMEType,
		"image_bytes", len(req.Image),
	)

	parts := []*genai.Part{
		genai.NewPartFromText(llm.BuildUserPrompt(req)),
		genai.NewPartFromBytes(req.Image, req.MIMEType),
	}
	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(c.cfg.Temperature),
		ResponseMIMEType: "application/json",
	}

	resp, err := c.gen.GenerateContent(ctx, c.cfg.Model, contents, config)
	if err != nil {
		c.log.Errorw("llm.extract.api_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, nil, common.ExtractionError("gemini generate: %v", err)
	}
	if resp == nil {
		return nil, nil, common.ExtractionError("gemini returned no response")
	}

	text := resp.Text()
	rows, cleaned, err := llm.ParseRosterReply(text, c.log)
	if err != nil {
		c.log.Errorw("llm.extract.parse_failed",
			"req_id", rid, "error", err, "content", text,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, cleaned, err
	}

	c.log.Infow("llm.extract.ok",
		"req_id", rid,
		"records", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows, cleaned, nil
}
