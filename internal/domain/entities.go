// Package domain holds the core entities and ports of the service.
package domain

import (
	"context"
	"errors"
)

// Error taxonomy (sentinels)
var (
	ErrInvalidArgument = errors.New("invalid argument")

	// AI call outcome kinds. Every AI-dependent operation matches on these
	// to pick the local fallback path instead of propagating the failure.
	ErrAINotConfigured = errors.New("ai not configured")
	ErrAICallFailed    = errors.New("ai call failed")
	ErrAIUnparsable    = errors.New("ai output unparsable")
)

// Source tags whether a result came from the external model or the local heuristic.
type Source string

const (
	SourceGroqAI Source = "groq-ai"
	SourceSimple Source = "simple"
)

// FallbackReason names the AI outcome kind for logging. Empty when err is not
// an AI outcome error.
func FallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrAINotConfigured):
		return "not_configured"
	case errors.Is(err, ErrAICallFailed):
		return "call_failed"
	case errors.Is(err, ErrAIUnparsable):
		return "unparsable_output"
	}
	return ""
}

// MatchInput pairs the raw resume/JD texts with optional precomputed skill
// lists. When a list is absent it is derived from the corresponding text.
type MatchInput struct {
	ResumeText   string
	JDText       string
	ResumeSkills []string
	JDSkills     []string
}

// ScoreResult is the outcome of the overlap strategy. Score is always a
// finite number in [0, 10].
type ScoreResult struct {
	Score       float64
	Matched     []string
	Missing     []string
	Explanation string
}

// MatchResult is the outcome of the embeddings endpoint. Similarity is set
// only when the semantic strategy actually ran.
type MatchResult struct {
	Score       float64
	Similarity  *float64
	Explanation string
}

// GapAnalysis is the structured gap between a JD and a resume.
type GapAnalysis struct {
	MissingSkills   []string `json:"missing_skills"`
	MissingKeywords []string `json:"missing_keywords"`
	Suggestions     []string `json:"suggestions"`
}

// GapReport wraps a GapAnalysis with its provenance. Missing carries the
// locally computed JD-minus-resume diff regardless of what the model said.
type GapReport struct {
	Analysis GapAnalysis
	Source   Source
	Missing  []string
}

// ChatClient (port) issues a single chat-completion attempt. Implementations
// return ErrAINotConfigured without network I/O when no API key is present.
type ChatClient interface {
	Chat(ctx Context, systemPrompt, userPrompt string) (string, error)
}

// Embedder (port) encodes texts into fixed-dimension vectors.
type Embedder interface {
	Embed(ctx Context, texts []string) ([][]float32, error)
}

// Context aliases context.Context so ports read uniformly across packages.
type Context = context.Context
