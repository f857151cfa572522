package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/logger"
)

// formField is the multipart field carrying the document.
const formField = "file"

// SummaryResponse is the body of a successful POST /summarize.
type SummaryResponse struct {
	ID            string `json:"id"`
	Summary       string `json:"summary"`
	Truncated     bool   `json:"truncated"`
	ChunksTotal   int    `json:"chunks_total"`
	ChunksUsed    int    `json:"chunks_used"`
	Strategy      string `json:"strategy"`
	ExtractedText string `json:"extracted_text,omitempty"`
}

// ExtractResponse is the body of a successful POST /extract.
type ExtractResponse struct {
	Text        string `json:"text"`
	Fingerprint string `json:"fingerprint"`
	Cached      bool   `json:"cached"`
	Method      string `json:"method"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleSummarise(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	result, err := s.pipeline.Summarise(r.Context(), name, content)
	if err != nil {
		logger.Error("summarise %s: %v", name, err)
		writeError(w, err)
		return
	}

	resp := SummaryResponse{
		ID:          result.ID,
		Summary:     result.Summary.Text,
		Truncated:   result.Summary.Truncated,
		ChunksTotal: result.Summary.ChunksTotal,
		ChunksUsed:  result.Summary.ChunksUsed,
		Strategy:    string(result.Summary.Strategy),
	}
	if r.URL.Query().Get("debug") == "true" && result.Extraction != nil {
		resp.ExtractedText = result.Extraction.Text
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	name, content, err := s.readUpload(w, r)
	if err != nil {
		writeError(w, err)
		return
	}

	extraction, err := s.pipeline.Extract(r.Context(), name, content)
	if err != nil {
		logger.Error("extract %s: %v", name, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ExtractResponse{
		Text:        extraction.Text,
		Fingerprint: extraction.Fingerprint.String(),
		Cached:      extraction.Cached,
		Method:      string(extraction.Method),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readUpload reads the multipart file field into memory.
// Bodies beyond the upload limit fail with domain.ErrPayloadTooLarge.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	limit := s.maxBytes + multipartOverhead
	if r.ContentLength > limit {
		return "", nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrPayloadTooLarge, s.maxBytes)
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("%w: body exceeds %d bytes", domain.ErrPayloadTooLarge, s.maxBytes)
		}
		return "", nil, fmt.Errorf("%w: missing multipart field %q", domain.ErrInvalidInput, formField)
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return "", nil, fmt.Errorf("%w: reading upload: %w", domain.ErrInvalidInput, err)
	}
	if int64(len(content)) > s.maxBytes {
		return "", nil, fmt.Errorf("%w: file exceeds %d bytes", domain.ErrPayloadTooLarge, s.maxBytes)
	}
	return header.Filename, content, nil
}

// StatusCode maps pipeline errors to HTTP status codes.
func StatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrUnsupportedFormat),
		errors.Is(err, domain.ErrEmptyExtraction),
		errors.Is(err, domain.ErrDecode),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSummarisationFailed),
		errors.Is(err, domain.ErrUnexpectedResponseFormat),
		errors.Is(err, domain.ErrLLMUnavailable),
		errors.Is(err, domain.ErrEmptyCompletion),
		errors.Is(err, domain.ErrCompletionAuth),
		errors.Is(err, domain.ErrCompletionTransport):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, StatusCode(err), ErrorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response: %v", err)
	}
}
