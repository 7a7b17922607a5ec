package usecase

import (
	"errors"
	"log/slog"
	"math"
	"strings"

	"github.com/fairyhunter13/career-compass/internal/adapter/observability"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/skills"
)

// Explanations returned by the scoring strategies. The exact wording is part
// of the API contract with the web client.
const (
	explNoJDSkills      = "No skills found in JD"
	explNoJDSkillsShort = "No JD skills"
	explEmptyText       = "Resume or JD text is empty."
	explOverlapFallback = "Fallback overlap-based score."
	explEmbedFailed     = "Embedding computation failed."
)

// MatchService computes match scores between a resume and a JD, either by
// skill-set overlap or by embedding cosine similarity.
type MatchService struct {
	Embedder domain.Embedder
}

// NewMatchService constructs a MatchService.
func NewMatchService(embedder domain.Embedder) MatchService {
	return MatchService{Embedder: embedder}
}

// OverlapScore computes round(10*|R∩J|/|J|, 1) over normalized skill sets.
// An empty JD set is a defined edge case scoring 0.0, not an error.
func (s MatchService) OverlapScore(resumeSkills, jdSkills []string) domain.ScoreResult {
	resume := skills.Normalize(resumeSkills)
	jd := skills.Normalize(jdSkills)
	if len(jd) == 0 {
		return domain.ScoreResult{Score: 0.0, Explanation: explNoJDSkills}
	}
	matched := skills.Intersect(resume, jd)
	missing := skills.Diff(jd, resume)
	raw := float64(len(matched)) / float64(len(jd))
	score := round1(raw * 10)
	observability.MatchScoreHistogram.WithLabelValues("overlap").Observe(score)
	return domain.ScoreResult{Score: score, Matched: matched, Missing: missing}
}

// SemanticScore scores two raw texts by embedding cosine similarity. When the
// encoder is not configured it degrades to an overlap score over the supplied
// skill lists; empty input text scores 0.0 outright.
func (s MatchService) SemanticScore(ctx domain.Context, in domain.MatchInput) domain.MatchResult {
	resume := strings.TrimSpace(in.ResumeText)
	jd := strings.TrimSpace(in.JDText)
	if resume == "" || jd == "" {
		return domain.MatchResult{Score: 0.0, Explanation: explEmptyText}
	}
	embs, err := s.Embedder.Embed(ctx, []string{resume, jd})
	if err != nil {
		reason := domain.FallbackReason(err)
		observability.FallbacksTotal.WithLabelValues("embeddings_match", reason).Inc()
		if errors.Is(err, domain.ErrAINotConfigured) {
			return s.overlapFallback(in)
		}
		slog.Warn("embedding computation failed", slog.Any("error", err))
		return domain.MatchResult{Score: 0.0, Explanation: explEmbedFailed}
	}
	if len(embs) < 2 {
		slog.Warn("embedder returned too few vectors", slog.Int("count", len(embs)))
		return domain.MatchResult{Score: 0.0, Explanation: explEmbedFailed}
	}
	sim := cosine(embs[0], embs[1])
	score := round2(sim * 10)
	observability.MatchScoreHistogram.WithLabelValues("semantic").Observe(score)
	return domain.MatchResult{Score: score, Similarity: &sim}
}

func (s MatchService) overlapFallback(in domain.MatchInput) domain.MatchResult {
	resume := skills.Normalize(in.ResumeSkills)
	jd := skills.Normalize(in.JDSkills)
	if len(jd) == 0 {
		return domain.MatchResult{Score: 0.0, Explanation: explNoJDSkillsShort}
	}
	raw := float64(len(skills.Intersect(resume, jd))) / float64(len(jd))
	score := round1(raw * 10)
	observability.MatchScoreHistogram.WithLabelValues("overlap").Observe(score)
	return domain.MatchResult{Score: score, Explanation: explOverlapFallback}
}

// cosine computes dot(a,b)/(‖a‖·‖b‖), defined as 0.0 when either norm is zero.
func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func round1(x float64) float64 { return math.Round(x*10) / 10 }

func round2(x float64) float64 { return math.Round(x*100) / 100 }
