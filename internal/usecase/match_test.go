package usecase_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
)

type stubEmbedder struct {
	vecs  [][]float32
	err   error
	calls int
}

func (s *stubEmbedder) Embed(_ domain.Context, texts []string) ([][]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.vecs, nil
}

func TestOverlapScore_Scenario(t *testing.T) {
	t.Parallel()
	svc := usecase.NewMatchService(&stubEmbedder{})
	res := svc.OverlapScore([]string{"python", "docker"}, []string{"python", "sql", "aws"})
	assert.InDelta(t, 3.3, res.Score, 1e-9)
	assert.Equal(t, []string{"python"}, res.Matched)
	assert.Equal(t, []string{"aws", "sql"}, res.Missing)
	assert.Empty(t, res.Explanation)
}

func TestOverlapScore_EmptyJD(t *testing.T) {
	t.Parallel()
	svc := usecase.NewMatchService(&stubEmbedder{})
	res := svc.OverlapScore([]string{"python"}, nil)
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "No skills found in JD", res.Explanation)
}

func TestOverlapScore_CaseInsensitive(t *testing.T) {
	t.Parallel()
	svc := usecase.NewMatchService(&stubEmbedder{})
	res := svc.OverlapScore([]string{"Python", "SQL"}, []string{"python", "sql"})
	assert.Equal(t, 10.0, res.Score)
}

func TestOverlapScore_Idempotent(t *testing.T) {
	t.Parallel()
	svc := usecase.NewMatchService(&stubEmbedder{})
	resume := []string{"go", "docker"}
	jd := []string{"go", "kubernetes", "docker", "aws"}
	first := svc.OverlapScore(resume, jd)
	second := svc.OverlapScore(resume, jd)
	assert.Equal(t, first, second)
}

func TestOverlapScore_Bounds(t *testing.T) {
	t.Parallel()
	svc := usecase.NewMatchService(&stubEmbedder{})
	cases := []struct {
		resume, jd []string
	}{
		{nil, []string{"a"}},
		{[]string{"a"}, []string{"a"}},
		{[]string{"a", "b", "c"}, []string{"d", "e"}},
	}
	for _, tc := range cases {
		res := svc.OverlapScore(tc.resume, tc.jd)
		assert.GreaterOrEqual(t, res.Score, 0.0)
		assert.LessOrEqual(t, res.Score, 10.0)
	}
}

func TestSemanticScore_EmptyText(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "", JDText: "some jd"})
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Resume or JD text is empty.", res.Explanation)
	assert.Nil(t, res.Similarity)
	assert.Zero(t, emb.calls, "embedder must not be called for empty input")
}

func TestSemanticScore_Cosine(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{vecs: [][]float32{{1, 0}, {1, 0}}}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "resume", JDText: "jd"})
	assert.Equal(t, 10.0, res.Score)
	require.NotNil(t, res.Similarity)
	assert.InDelta(t, 1.0, *res.Similarity, 1e-9)
}

func TestSemanticScore_Orthogonal(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{vecs: [][]float32{{1, 0}, {0, 1}}}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "resume", JDText: "jd"})
	assert.Equal(t, 0.0, res.Score)
}

func TestSemanticScore_ZeroNorm(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{vecs: [][]float32{{0, 0}, {1, 0}}}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "resume", JDText: "jd"})
	assert.Equal(t, 0.0, res.Score)
	require.NotNil(t, res.Similarity)
	assert.Equal(t, 0.0, *res.Similarity)
}

func TestSemanticScore_NotConfigured_OverlapFallback(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{err: fmt.Errorf("%w: key missing", domain.ErrAINotConfigured)}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{
		ResumeText:   "resume",
		JDText:       "jd",
		ResumeSkills: []string{"python"},
		JDSkills:     []string{"python", "sql"},
	})
	assert.Equal(t, 5.0, res.Score)
	assert.Equal(t, "Fallback overlap-based score.", res.Explanation)
	assert.Nil(t, res.Similarity)
}

func TestSemanticScore_NotConfigured_NoJDSkills(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{err: fmt.Errorf("%w: key missing", domain.ErrAINotConfigured)}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "resume", JDText: "jd"})
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "No JD skills", res.Explanation)
}

func TestSemanticScore_EmbedFailure(t *testing.T) {
	t.Parallel()
	emb := &stubEmbedder{err: fmt.Errorf("%w: status 500", domain.ErrAICallFailed)}
	svc := usecase.NewMatchService(emb)
	res := svc.SemanticScore(context.Background(), domain.MatchInput{ResumeText: "resume", JDText: "jd"})
	assert.Equal(t, 0.0, res.Score)
	assert.Equal(t, "Embedding computation failed.", res.Explanation)
}
