// Package real implements the AI ports against Groq (chat) and an
// OpenAI-compatible embeddings API.
package real

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

// Client implements domain.ChatClient and domain.Embedder. Each call is a
// single attempt bounded by the configured AI timeout; callers degrade to
// local fallbacks on any error, so there is no retry layer here.
type Client struct {
	cfg     config.Config
	chatHC  *http.Client
	embedHC *http.Client
}

// New constructs a real AI client with the configured timeout.
func New(cfg config.Config) *Client {
	return &Client{
		cfg:     cfg,
		chatHC:  &http.Client{Timeout: cfg.AITimeout},
		embedHC: &http.Client{Timeout: cfg.AITimeout},
	}
}

const (
	chatTemperature = 0.15
	chatMaxTokens   = 1024
)

// Chat calls the Groq chat completions endpoint and returns the message content.
func (c *Client) Chat(ctx domain.Context, systemPrompt, userPrompt string) (string, error) {
	if !c.cfg.ChatConfigured() {
		return "", fmt.Errorf("%w: GROQ_API_KEY missing", domain.ErrAINotConfigured)
	}
	messages := make([]map[string]string, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, map[string]string{"role": "system", "content": systemPrompt})
	}
	messages = append(messages, map[string]string{"role": "user", "content": userPrompt})
	body := map[string]any{
		"model":       c.cfg.GroqModel,
		"temperature": chatTemperature,
		"max_tokens":  chatMaxTokens,
		"messages":    messages,
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GroqBaseURL+"/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("%w: build request: %v", domain.ErrAICallFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.GroqAPIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.chatHC.Do(req)
	observability.AIRequestsTotal.WithLabelValues("groq", "chat").Inc()
	observability.AIRequestDuration.WithLabelValues("groq", "chat").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("ai provider transport error", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Any("error", err))
		return "", fmt.Errorf("%w: %v", domain.ErrAICallFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := readSnippet(resp.Body, 512)
		slog.Warn("ai provider non-2xx", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.GroqModel), slog.String("body", snippet))
		return "", fmt.Errorf("%w: chat status %d", domain.ErrAICallFailed, resp.StatusCode)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("ai provider decode error", slog.String("provider", "groq"), slog.String("op", "chat"), slog.Any("error", err))
		return "", fmt.Errorf("%w: decode: %v", domain.ErrAICallFailed, err)
	}
	if len(out.Choices) == 0 || out.Choices[0].Message.Content == "" {
		return "", fmt.Errorf("%w: empty chat content", domain.ErrAIUnparsable)
	}
	return out.Choices[0].Message.Content, nil
}

// Embed calls the embeddings endpoint and returns one vector per input text.
func (c *Client) Embed(ctx domain.Context, texts []string) ([][]float32, error) {
	if !c.cfg.EmbeddingsConfigured() {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY or EMBEDDINGS_MODEL missing", domain.ErrAINotConfigured)
	}
	body := map[string]any{
		"model": c.cfg.EmbeddingsModel,
		"input": texts,
	}
	b, _ := json.Marshal(body)

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.OpenAIBaseURL+"/embeddings", bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domain.ErrAICallFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.OpenAIAPIKey)
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.embedHC.Do(req)
	observability.AIRequestsTotal.WithLabelValues("openai", "embed").Inc()
	observability.AIRequestDuration.WithLabelValues("openai", "embed").Observe(time.Since(start).Seconds())
	if err != nil {
		slog.Warn("ai provider transport error", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Any("error", err))
		return nil, fmt.Errorf("%w: %v", domain.ErrAICallFailed, err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := readSnippet(resp.Body, 512)
		slog.Warn("ai provider non-2xx", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Int("status", resp.StatusCode), slog.String("model", c.cfg.EmbeddingsModel), slog.String("body", snippet))
		return nil, fmt.Errorf("%w: embed status %d", domain.ErrAICallFailed, resp.StatusCode)
	}
	var out struct {
		Data []struct {
			Embedding []float64 `json:"embedding"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		slog.Warn("ai provider decode error", slog.String("provider", "openai"), slog.String("op", "embed"), slog.Any("error", err))
		return nil, fmt.Errorf("%w: decode: %v", domain.ErrAICallFailed, err)
	}
	if len(out.Data) != len(texts) {
		return nil, fmt.Errorf("%w: got %d embeddings for %d inputs", domain.ErrAICallFailed, len(out.Data), len(texts))
	}
	res := make([][]float32, len(out.Data))
	for i := range out.Data {
		v := make([]float32, len(out.Data[i].Embedding))
		for j := range out.Data[i].Embedding {
			v[j] = float32(out.Data[i].Embedding[j])
		}
		res[i] = v
	}
	return res, nil
}

// readSnippet reads up to n bytes from r for log context.
func readSnippet(r io.Reader, n int) string {
	if r == nil || n <= 0 {
		return ""
	}
	b, _ := io.ReadAll(io.LimitReader(r, int64(n)))
	return string(b)
}
