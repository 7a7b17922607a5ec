package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

const suggestPrompt = `You are a concise career coach. Read the job description and the candidate resume.
Provide ONE specific, actionable, two-line maximum suggestion the candidate can follow to improve
their chances for the given job. Start the output with 'Suggestion:'.

Job Description:
%s

Resume:
%s`

// fallbackSuggestion is returned whenever the external model yields nothing.
const fallbackSuggestion = "Add a short bullet under projects that highlights related experience and keywords from the JD."

// SuggestService produces one short actionable suggestion for the candidate.
type SuggestService struct {
	Chat           domain.ChatClient
	MaxPromptChars int
}

// NewSuggestService constructs a SuggestService.
func NewSuggestService(chat domain.ChatClient, maxPromptChars int) SuggestService {
	return SuggestService{Chat: chat, MaxPromptChars: maxPromptChars}
}

// Suggest makes a single external attempt and falls back to a fixed string.
func (s SuggestService) Suggest(ctx domain.Context, in domain.MatchInput) (string, domain.Source) {
	prompt := fmt.Sprintf(suggestPrompt,
		textx.Truncate(strings.TrimSpace(in.JDText), s.MaxPromptChars),
		textx.Truncate(strings.TrimSpace(in.ResumeText), s.MaxPromptChars))
	out, err := s.Chat.Chat(ctx, "", prompt)
	if err == nil {
		if trimmed := strings.TrimSpace(out); trimmed != "" {
			return trimmed, domain.SourceGroqAI
		}
		err = fmt.Errorf("%w: empty suggestion", domain.ErrAIUnparsable)
	}
	reason := domain.FallbackReason(err)
	observability.FallbacksTotal.WithLabelValues("suggestion", reason).Inc()
	slog.Debug("suggestion fallback", slog.String("reason", reason), slog.Any("error", err))
	return fallbackSuggestion, domain.SourceSimple
}
