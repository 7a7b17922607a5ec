package real_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/adapter/ai/real"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
)

func testCfg(chatURL, embedURL string) config.Config {
	return config.Config{
		GroqAPIKey:      "test-key",
		GroqBaseURL:     chatURL,
		GroqModel:       "llama3-8b-instruct",
		OpenAIAPIKey:    "test-key",
		OpenAIBaseURL:   embedURL,
		EmbeddingsModel: "text-embedding-3-small",
		AITimeout:       5 * time.Second,
	}
}

func TestChat_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "llama3-8b-instruct", body["model"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "python, sql"}}},
		})
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	out, err := c.Chat(context.Background(), "", "extract skills")
	require.NoError(t, err)
	assert.Equal(t, "python, sql", out)
}

func TestChat_NotConfigured_NoRequest(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := testCfg(srv.URL, srv.URL)
	cfg.GroqAPIKey = ""
	c := real.New(cfg)
	_, err := c.Chat(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, domain.ErrAINotConfigured)
	assert.Zero(t, hits.Load())
}

func TestChat_ServerError(t *testing.T) {
	t.Parallel()
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	_, err := c.Chat(context.Background(), "sys", "user")
	assert.ErrorIs(t, err, domain.ErrAICallFailed)
	assert.Equal(t, int64(1), hits.Load(), "single attempt, no retries")
}

func TestChat_EmptyChoices(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	_, err := c.Chat(context.Background(), "", "user")
	assert.ErrorIs(t, err, domain.ErrAIUnparsable)
}

func TestChat_SystemPromptOmittedWhenEmpty(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0]["role"])
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	_, err := c.Chat(context.Background(), "", "user prompt")
	require.NoError(t, err)
}

func TestEmbed_Success(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"embedding": []float64{0.1, 0.2}},
				{"embedding": []float64{0.3, 0.4}},
			},
		})
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	vecs, err := c.Embed(context.Background(), []string{"resume", "jd"})
	require.NoError(t, err)
	require.Len(t, vecs, 2)
	assert.InDelta(t, 0.1, vecs[0][0], 1e-6)
	assert.InDelta(t, 0.4, vecs[1][1], 1e-6)
}

func TestEmbed_NotConfigured(t *testing.T) {
	t.Parallel()
	cfg := testCfg("http://unused", "http://unused")
	cfg.EmbeddingsModel = ""
	c := real.New(cfg)
	_, err := c.Embed(context.Background(), []string{"a"})
	assert.ErrorIs(t, err, domain.ErrAINotConfigured)
}

func TestEmbed_CountMismatch(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"embedding": []float64{0.1}}},
		})
	}))
	defer srv.Close()

	c := real.New(testCfg(srv.URL, srv.URL))
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	assert.ErrorIs(t, err, domain.ErrAICallFailed)
}
