package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

func TestSuggest_ModelPath(t *testing.T) {
	t.Parallel()
	chat := &stubChat{out: "  Suggestion: add metrics to the dashboard project.\n"}
	svc := usecase.NewSuggestService(chat, 12000)
	got, source := svc.Suggest(context.Background(), domain.MatchInput{ResumeText: "r", JDText: "j"})
	assert.Equal(t, "Suggestion: add metrics to the dashboard project.", got)
	assert.Equal(t, domain.SourceGroqAI, source)
	assert.Equal(t, 1, chat.calls)
}

func TestSuggest_NotConfigured(t *testing.T) {
	t.Parallel()
	chat := &stubChat{err: errNotConfigured}
	svc := usecase.NewSuggestService(chat, 12000)
	got, source := svc.Suggest(context.Background(), domain.MatchInput{})
	assert.Equal(t, domain.SourceSimple, source)
	assert.Equal(t, "Add a short bullet under projects that highlights related experience and keywords from the JD.", got)
}

func TestSuggest_EmptyOutput_FallsBack(t *testing.T) {
	t.Parallel()
	chat := &stubChat{out: "   "}
	svc := usecase.NewSuggestService(chat, 12000)
	got, source := svc.Suggest(context.Background(), domain.MatchInput{})
	assert.Equal(t, domain.SourceSimple, source)
	assert.NotEmpty(t, got)
}

func TestSuggest_SingleAttempt(t *testing.T) {
	t.Parallel()
	chat := &stubChat{err: fmt.Errorf("%w: boom", domain.ErrAICallFailed)}
	svc := usecase.NewSuggestService(chat, 12000)
	_, _ = svc.Suggest(context.Background(), domain.MatchInput{})
	assert.Equal(t, 1, chat.calls, "no retries around the external call")
}
