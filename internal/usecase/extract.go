// Package usecase contains application business logic services.
package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/skills"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

const extractPrompt = `Extract all technical skills, programming languages, tools, frameworks,
cloud platforms, databases, soft skills and technologies mentioned in the text.
Respond ONLY with a comma-separated list (no extra commentary).

Text:
%s`

// ExtractService produces a skill set from free text, preferring the external
// model and degrading to the local heuristic extractor.
type ExtractService struct {
	Chat           domain.ChatClient
	MaxPromptChars int
}

// NewExtractService constructs an ExtractService.
func NewExtractService(chat domain.ChatClient, maxPromptChars int) ExtractService {
	return ExtractService{Chat: chat, MaxPromptChars: maxPromptChars}
}

// Skills extracts a sorted, deduplicated, lowercase skill list from text.
// It never fails: any AI outcome error selects the heuristic path.
func (s ExtractService) Skills(ctx domain.Context, text string) ([]string, domain.Source) {
	text = strings.TrimSpace(text)
	out, err := s.Chat.Chat(ctx, "", fmt.Sprintf(extractPrompt, textx.Truncate(text, s.MaxPromptChars)))
	if err == nil {
		parsed := skills.Normalize(strings.Split(out, ","))
		if len(parsed) > 0 {
			return parsed, domain.SourceGroqAI
		}
		err = fmt.Errorf("%w: empty skill list", domain.ErrAIUnparsable)
	}
	reason := domain.FallbackReason(err)
	observability.FallbacksTotal.WithLabelValues("extract_skills", reason).Inc()
	slog.Debug("skill extraction fallback", slog.String("reason", reason), slog.Any("error", err))
	return skills.Extract(text), domain.SourceSimple
}
