package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/factchecker/truthlens/internal/analysis"
	"github.com/factchecker/truthlens/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

var errTooLarge = errors.New("request body too large")

// multipartOverhead is the room left for part headers and boundaries above
// the file size limit.
const multipartOverhead = 1 << 20

// Handler contains all HTTP handlers.
type Handler struct {
	svc       *analysis.Service
	maxUpload int64
}

// NewHandler creates a new handler. maxUpload bounds request bodies.
func NewHandler(svc *analysis.Service, maxUpload int64) *Handler {
	return &Handler{
		svc:       svc,
		maxUpload: maxUpload,
	}
}

// HealthCheck returns the service health status.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "TruthLens API is running",
	})
}

// ListScans returns the most recent scans, newest first.
func (h *Handler) ListScans(w http.ResponseWriter, r *http.Request) {
	scans, err := h.svc.RecentScans(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scans)
}

// GetScan returns a scan by ID.
func (h *Handler) GetScan(w http.ResponseWriter, r *http.Request) {
	scan, err := h.svc.GetScan(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, scan)
}

// AnalyzeText handles text and URL analysis requests.
func (h *Handler) AnalyzeText(w http.ResponseWriter, r *http.Request) {
	var req models.TextRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	report, err := h.svc.AnalyzeText(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnalyzeImage handles image uploads in the "image" form field.
func (h *Handler) AnalyzeImage(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r, "image")
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}
	report, err := h.svc.AnalyzeImage(r.Context(), up)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// AnalyzeVideo handles video uploads in the "video" form field.
func (h *Handler) AnalyzeVideo(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r, "video")
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}
	report, err := h.svc.AnalyzeVideo(r.Context(), up)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// DetectDeepfake handles media uploads in the "media" form field.
func (h *Handler) DetectDeepfake(w http.ResponseWriter, r *http.Request) {
	up, err := h.readUpload(w, r, "media")
	if err != nil {
		h.writeDecodeError(w, err)
		return
	}
	result, err := h.svc.DetectDeepfake(r.Context(), up)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// SubmitReport stores user feedback.
func (h *Handler) SubmitReport(w http.ResponseWriter, r *http.Request) {
	var req models.ReportRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.writeDecodeError(w, err)
		return
	}

	receipt, err := h.svc.SubmitReport(r.Context(), req)
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, receipt)
}

// ListReports returns all submitted user reports.
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.svc.Reports(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

// Learn returns the educational content.
func (h *Handler) Learn(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, learnContent)
}

// decodeJSON reads a JSON body into dst. An empty body leaves dst zero.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil, errors.Is(err, io.EOF):
		return nil
	case isTooLarge(err):
		return errTooLarge
	default:
		return err
	}
}

// readUpload returns the file in the named multipart field, or nil when the
// request carries no such file. The size limit applies to the file; the body
// may exceed it by multipartOverhead.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request, field string) (*models.Upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		switch {
		case isTooLarge(err):
			return nil, errTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		default:
			return nil, err
		}
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if header.Size > h.maxUpload {
		return nil, errTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > h.maxUpload {
		return nil, errTooLarge
	}

	return &models.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large")
}

func (h *Handler) writeDecodeError(w http.ResponseWriter, err error) {
	if errors.Is(err, errTooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body")
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case analysis.IsValidation(err):
		writeError(w, http.StatusBadRequest, err.Error())
	case analysis.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		log.Debug().Err(err).Str("path", r.URL.Path).Msg("Request cancelled")
		writeError(w, http.StatusServiceUnavailable, "Request cancelled")
	default:
		log.Error().Err(err).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// Helper functions
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
