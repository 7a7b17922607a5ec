package usecase

import (
	"fmt"
	"log/slog"
	"strings"

	ai "github.com/fairyhunter13/career-compass/internal/adapter/ai"
	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/skills"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

const gapPrompt = `You are a professional career advisor. Given a job description and a candidate resume text,
produce a short, clear "gap analysis" that lists:
1) specific technical skills and tools required by the job but missing from the resume,
2) soft-skills and experience keywords that are missing,
3) one or two concise suggestions the candidate can use to improve their resume quickly.

Provide the output as JSON with fields:
- missing_skills: [list of strings]
- missing_keywords: [list of strings]
- suggestions: [list of 1-2 short strings]

Job Description:
%s

Resume:
%s`

// goodMatchSuggestion is the fallback suggestion when nothing is missing.
const goodMatchSuggestion = "Good match on explicit skills — consider adding projects that show depth."

// maxListedMissing caps how many missing skills the fallback suggestion names.
const maxListedMissing = 6

// GapService composes a gap analysis between a resume and a JD, preferring
// the external model's structured output and degrading to a local template.
type GapService struct {
	Chat           domain.ChatClient
	Cleaner        *ai.ResponseCleaner
	MaxPromptChars int
}

// NewGapService constructs a GapService.
func NewGapService(chat domain.ChatClient, maxPromptChars int) GapService {
	return GapService{Chat: chat, Cleaner: ai.NewResponseCleaner(), MaxPromptChars: maxPromptChars}
}

// Analyze returns a GapReport. It never fails: any AI outcome error, including
// unparsable model output, selects the locally composed fallback analysis.
func (s GapService) Analyze(ctx domain.Context, in domain.MatchInput) domain.GapReport {
	resumeText := strings.TrimSpace(in.ResumeText)
	jdText := strings.TrimSpace(in.JDText)

	jdSkills := skills.Normalize(in.JDSkills)
	if len(jdSkills) == 0 {
		jdSkills = skills.Extract(jdText)
	}
	resumeSkills := skills.Normalize(in.ResumeSkills)
	if len(resumeSkills) == 0 {
		resumeSkills = skills.Extract(resumeText)
	}
	missing := skills.Diff(jdSkills, resumeSkills)

	prompt := fmt.Sprintf(gapPrompt,
		textx.Truncate(jdText, s.MaxPromptChars),
		textx.Truncate(resumeText, s.MaxPromptChars))
	out, err := s.Chat.Chat(ctx, "", prompt)
	if err == nil {
		var parsed domain.GapAnalysis
		if perr := s.Cleaner.DecodeObject(out, &parsed); perr == nil {
			return domain.GapReport{
				Analysis: coalesceAnalysis(parsed),
				Source:   domain.SourceGroqAI,
				Missing:  missing,
			}
		}
		err = fmt.Errorf("%w: %s", domain.ErrAIUnparsable, "no JSON analysis in model output")
	}
	reason := domain.FallbackReason(err)
	observability.FallbacksTotal.WithLabelValues("gap_analysis", reason).Inc()
	slog.Debug("gap analysis fallback", slog.String("reason", reason), slog.Any("error", err))

	suggestion := goodMatchSuggestion
	if len(missing) > 0 {
		listed := missing
		if len(listed) > maxListedMissing {
			listed = listed[:maxListedMissing]
		}
		suggestion = fmt.Sprintf("Consider learning/adding: %s.", strings.Join(listed, ", "))
	}
	return domain.GapReport{
		Analysis: domain.GapAnalysis{
			MissingSkills:   missing,
			MissingKeywords: []string{},
			Suggestions:     []string{suggestion},
		},
		Source:  domain.SourceSimple,
		Missing: missing,
	}
}

// coalesceAnalysis replaces nil slices from partially filled model output so
// the response always carries arrays, never nulls.
func coalesceAnalysis(a domain.GapAnalysis) domain.GapAnalysis {
	if a.MissingSkills == nil {
		a.MissingSkills = []string{}
	}
	if a.MissingKeywords == nil {
		a.MissingKeywords = []string{}
	}
	if a.Suggestions == nil {
		a.Suggestions = []string{}
	}
	return a
}
