package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

var _ llm.RosterExtractor = (*Client)(nil)

// ExtractRoster implements llm.RosterExtractor with a single chat/completions call
// carrying the prompt and the image as a data URL.
func (c *Client) ExtractRoster(ctx context.Context, req llm.ExtractRequest) ([]roster.RawExtraction, []byte, error) {
	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	c.log.Infow("llm.extract.start",
		"req_id", rid,
		"provider", common.ProviderOpenAI,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"filename", req.Filename,
		"mime_type", req.MIMEType,
		"image_bytes", len(req.Image),
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": llm.BuildUserPrompt(req)},
					{"type": "image_url", "image_url": map[string]any{"url": llm.DataURL(req.MIMEType, req.Image)}},
				},
			},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, status, err := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.log)
	if err != nil {
		c.log.Errorw("llm.extract.http_error",
			"req_id", rid, "status", status, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.ExtractionError("openai request: %v", err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Errorw("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.ExtractionError("decode openai response: %v", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Errorw("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.ExtractionError("no choices in openai response")
	}

	rows, cleaned, err := llm.ParseRosterReply(cc.Choices[0].Message.Content, c.log)
	if err != nil {
		c.log.Errorw("llm.extract.parse_failed",
			"req_id", rid, "error", err, "content", cc.Choices[0].Message.Content,
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
