package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/thomas-vilte/readmegen/internal/analysis"
	"github.com/thomas-vilte/readmegen/internal/errors"
	"github.com/thomas-vilte/readmegen/internal/logger"
	"github.com/thomas-vilte/readmegen/internal/models"
)

type generateRequest struct {
	Analysis *models.AnalysisResult `json:"analysis"`
	Tone     string                 `json:"tone"`
	Model    string                 `json:"model"`
	Sections []string               `json:"sections"`
}

type modelInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Type       string `json:"type"`
	Suggestion string `json:"suggestion,omitempty"`
	TraceID    string `json:"trace_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	names := s.catalogue.Names()
	out := make([]modelInfo, 0, len(names))
	for _, n := range names {
		out = append(out, modelInfo{Name: n, Description: s.catalogue.GetRationale(n)})
	}
	respondJSON(w, r, http.StatusOK, map[string]interface{}{"models": out})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, r, errors.ErrInvalidInput.WithMessage("request body is not valid JSON").WithError(err))
		return
	}
	if err := analysis.Validate(req.Analysis); err != nil {
		respondError(w, r, err)
		return
	}

	genReq := models.GenerationRequest{
		Analysis: req.Analysis,
		Model:    firstNonEmpty(req.Model, s.defaults.Model),
		Sections: req.Sections,
	}
	if tone := firstNonEmpty(req.Tone, s.defaults.Tone); tone != "" {
		genReq.Tone = models.Tone(strings.ToLower(strings.TrimSpace(tone)))
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	doc, err := s.generator.GenerateReadme(ctx, genReq)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, r, http.StatusOK, doc)
}

// StatusFor maps an error kind to its HTTP status.
func StatusFor(err error) int {
	switch errors.TypeOf(err) {
	case errors.TypeInvalidInput, errors.TypeUnknownModel:
		return http.StatusBadRequest
	case errors.TypeMissingCredential:
		return http.StatusPreconditionFailed
	case errors.TypeRateLimit:
		return http.StatusTooManyRequests
	case errors.TypeTransientServer:
		return http.StatusServiceUnavailable
	case errors.TypeAuthentication, errors.TypeMalformedResponse, errors.TypeUnknownProvider:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error(r.Context(), "failed to encode JSON response", err)
	}
}

// respondError writes the error kind and message. Provider bodies and
// wrapped causes stay in the logs.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	resp := errorResponse{
		Error:   "internal error",
		Type:    string(errors.TypeOf(err)),
		TraceID: chimiddleware.GetReqID(r.Context()),
	}
	var appErr *errors.AppError
	if errors.As(err, &appErr) {
		resp.Error = appErr.Message
		resp.Suggestion = appErr.Suggestion
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context(), "request failed", err, "status", status)
	} else {
		logger.Warn(r.Context(), "request rejected", "status", status, "error", err)
	}
	respondJSON(w, r, status, resp)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
