package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/roster-reports/internal/common"
	"github.com/joseph-ayodele/roster-reports/internal/llm"
	"github.com/joseph-ayodele/roster-reports/internal/roster"
)

func completion(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{{"message": map[string]any{"role": "assistant", "content": content}}},
	})
	return string(b)
}

func TestExtractRoster(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content []struct {
				Type     string `json:"type"`
				Text     string `json:"text"`
				ImageURL struct {
					URL string `json:"url"`
				} `json:"image_url"`
			} `json:"content"`
		} `json:"messages"`
	}
	var path, auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path, auth = r.URL.Path, r.Header.Get("Authorization")
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(completion("```json\n[{\"clock\":\"a21646\",\"name\":\"Sanjay K\"}]\n```")))
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/v1/", Model: "vision-mini"}, nil)
	rows, raw, err := c.ExtractRoster(context.Background(), llm.ExtractRequest{
		Image: []byte{0xff, 0xd8}, MIMEType: "image/jpeg", Filename: "a.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, []roster.RawExtraction{{Clock: "a21646", Name: "Sanjay K"}}, rows)
	assert.JSONEq(t, `[{"clock":"a21646","name":"Sanjay K"}]`, string(raw))

	assert.Equal(t, "/v1/chat/completions", path)
	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, "vision-mini", got.Model)
	require.Len(t, got.Messages, 1)
	require.Len(t, got.Messages[0].Content, 2)
	assert.Contains(t, got.Messages[0].Content[0].Text, "CLOCK NO")
	assert.Equal(t, "data:image/jpeg;base64,/9g=", got.Messages[0].Content[1].ImageURL.URL)
}

func TestExtractRosterFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`},
		{"not json", http.StatusOK, `<html>`},
		{"no choices", http.StatusOK, `{"choices":[]}`},
		{"prose reply", http.StatusOK, completion("I could not find a roster.")},
		{"object reply", http.StatusOK, completion(`{"clock":"1"}`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(Config{BaseURL: srv.URL}, nil)
			rows, _, err := c.ExtractRoster(context.Background(), llm.ExtractRequest{Image: []byte{1}, MIMEType: "image/png"})
			require.Error(t, err)
			assert.True(t, errors.Is(err, common.ErrExtraction))
			assert.Empty(t, rows)
		})
	}
}

func TestFromConfigDefaults(t *testing.T) {
	c := FromConfig(common.ExtractConfig{OpenAIAPIKey: "k"}, nil)
	assert.Equal(t, "https://api.openai.com/v1", c.cfg.BaseURL)
	assert.Equal(t, "gpt-4o-mini", c.cfg.Model)
	assert.Equal(t, "k", c.cfg.APIKey)
	assert.Positive(t, int64(c.cfg.Timeout))
}
