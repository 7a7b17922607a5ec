package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/fairyhunter13/career-compass/internal/adapter/textextractor/pdfx"
	"github.com/fairyhunter13/career-compass/internal/config"
	"github.com/fairyhunter13/career-compass/internal/domain"
	"github.com/fairyhunter13/career-compass/internal/usecase"
	"github.com/fairyhunter13/career-compass/pkg/textx"
)

// Server aggregates handler dependencies.
type Server struct {
	Cfg       config.Config
	Extract   usecase.ExtractService
	Match     usecase.MatchService
	Gap       usecase.GapService
	Suggest   usecase.SuggestService
	Extractor *pdfx.Extractor
}

// NewServer constructs an HTTP server with all handlers wired.
func NewServer(cfg config.Config, extract usecase.ExtractService, match usecase.MatchService, gap usecase.GapService, suggest usecase.SuggestService, extractor *pdfx.Extractor) *Server {
	return &Server{Cfg: cfg, Extract: extract, Match: match, Gap: gap, Suggest: suggest, Extractor: extractor}
}

var (
	vldOnce sync.Once
	vld     *validator.Validate
)

func getValidator() *validator.Validate {
	vldOnce.Do(func() { vld = validator.New() })
	return vld
}

// decodeJSON decodes and validates a JSON request body into req, writing the
// error response itself when the body is malformed. The body is capped at 1MB.
func decodeJSON(w http.ResponseWriter, r *http.Request, req any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid json", domain.ErrInvalidArgument), nil)
		return false
	}
	if err := getValidator().Struct(req); err != nil {
		verrs := map[string]string{}
		if ve, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range ve {
				verrs[strings.ToLower(fe.Field())] = fe.Tag()
			}
		}
		writeError(w, r, fmt.Errorf("%w: validation failed", domain.ErrInvalidArgument), verrs)
		return false
	}
	return true
}

// matchIn is the shared request shape of the AI-dependent comparison endpoints.
// Text fields are bounded but may be empty; an empty text yields the defined
// zero/empty result rather than a validation error.
type matchIn struct {
	ResumeText   string   `json:"resume_text" validate:"max=200000"`
	JDText       string   `json:"jd_text" validate:"max=200000"`
	ResumeSkills []string `json:"resume_skills" validate:"max=500"`
	JDSkills     []string `json:"jd_skills" validate:"max=500"`
}

func (m matchIn) input() domain.MatchInput {
	return domain.MatchInput{
		ResumeText:   m.ResumeText,
		JDText:       m.JDText,
		ResumeSkills: m.ResumeSkills,
		JDSkills:     m.JDSkills,
	}
}

// ExtractResumeHandler accepts a multipart file upload and returns its text.
// Extraction is best-effort: unreadable PDFs degrade to a raw byte decode.
func (s *Server) ExtractResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			writeError(w, r, fmt.Errorf("%w: content-type must be multipart/form-data", domain.ErrInvalidArgument), nil)
			return
		}
		maxBytes := s.Cfg.MaxUploadMB * 1024 * 1024
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "too large") {
				writeJSON(w, http.StatusRequestEntityTooLarge, errorEnvelope{Error: apiError{
					Code: "INVALID_ARGUMENT", Message: "payload too large",
					Details: map[string]any{"max_mb": s.Cfg.MaxUploadMB},
				}})
				return
			}
			writeError(w, r, fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file required", domain.ErrInvalidArgument), map[string]string{"field": "file"})
			return
		}
		defer func() { _ = file.Close() }()
		data, err := io.ReadAll(file)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: file read: %v", domain.ErrInvalidArgument, err), nil)
			return
		}
		text := s.Extractor.ExtractBytes(r.Context(), header.Filename, data)
		writeJSON(w, http.StatusOK, map[string]string{"text": text})
	}
}

// ProcessJDHandler trims and sanitizes the JD text and echoes it back.
func (s *Server) ProcessJDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			JDText string `json:"jd_text" validate:"max=200000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"jd_text": textx.SanitizeText(req.JDText)})
	}
}

// ExtractSkillsHandler returns the skill set found in the supplied text.
func (s *Server) ExtractSkillsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Text string `json:"text" validate:"max=200000"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		found, source := s.Extract.Skills(r.Context(), req.Text)
		writeJSON(w, http.StatusOK, map[string]any{"skills": found, "source": source})
	}
}

// GapAnalysisHandler compares resume and JD and returns missing skills,
// missing keywords and suggestions. Always 200; the source tag distinguishes
// model output from the local fallback.
func (s *Server) GapAnalysisHandler() http.HandlerFunc {
	type gapResponse struct {
		Analysis domain.GapAnalysis `json:"analysis"`
		Source   domain.Source      `json:"source"`
		Missing  []string           `json:"missing,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchIn
		if !decodeJSON(w, r, &req) {
			return
		}
		report := s.Gap.Analyze(r.Context(), req.input())
		resp := gapResponse{Analysis: report.Analysis, Source: report.Source}
		// The locally computed diff rides along only next to model output;
		// the fallback analysis already carries it as missing_skills.
		if report.Source == domain.SourceGroqAI {
			resp.Missing = report.Missing
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// SuggestionHandler returns one short actionable suggestion.
func (s *Server) SuggestionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchIn
		if !decodeJSON(w, r, &req) {
			return
		}
		suggestion, source := s.Suggest.Suggest(r.Context(), req.input())
		writeJSON(w, http.StatusOK, map[string]any{"suggestion": suggestion, "source": source})
	}
}

// EmbeddingsMatchHandler scores resume vs JD text by embedding cosine
// similarity, degrading to skill overlap when the encoder is unavailable.
func (s *Server) EmbeddingsMatchHandler() http.HandlerFunc {
	type matchResponse struct {
		Score       float64  `json:"score"`
		Explanation string   `json:"explanation,omitempty"`
		Similarity  *float64 `json:"similarity,omitempty"`
	}
	return func(w http.ResponseWriter, r *http.Request) {
		var req matchIn
		if !decodeJSON(w, r, &req) {
			return
		}
		res := s.Match.SemanticScore(r.Context(), req.input())
		writeJSON(w, http.StatusOK, matchResponse{Score: res.Score, Explanation: res.Explanation, Similarity: res.Similarity})
	}
}

// MatchScoreHandler computes the overlap score over two skill lists.
func (s *Server) MatchScoreHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			ResumeSkills []string `json:"resume_skills" validate:"max=500"`
			JDSkills     []string `json:"jd_skills" validate:"max=500"`
		}
		if !decodeJSON(w, r, &req) {
			return
		}
		res := s.Match.OverlapScore(req.ResumeSkills, req.JDSkills)
		resp := map[string]any{"score": res.Score}
		if res.Explanation != "" {
			resp["explanation"] = res.Explanation
		} else {
			resp["explanation"] = map[string]any{"matched": res.Matched, "missing": res.Missing}
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// ReadyzHandler reports the configuration state of the external AI providers.
// Absence of a provider degrades responses rather than failing them, so this
// always returns 200; ok=false marks a provider running in fallback mode.
func (s *Server) ReadyzHandler() http.HandlerFunc {
	type check struct {
		Name    string `json:"name"`
		OK      bool   `json:"ok"`
		Details string `json:"details,omitempty"`
	}
	return func(w http.ResponseWriter, _ *http.Request) {
		checks := []check{
			{Name: "groq-chat", OK: s.Cfg.ChatConfigured()},
			{Name: "embeddings", OK: s.Cfg.EmbeddingsConfigured()},
		}
		for i := range checks {
			if !checks[i].OK {
				checks[i].Details = "not configured; requests use local fallback"
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"checks": checks})
	}
}
