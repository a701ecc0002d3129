// Package handler exposes the ingestion pipeline over HTTP.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/parser"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/service"
)

// UploadHandler accepts sales-export uploads and runs them through the
// pipeline synchronously.
type UploadHandler struct {
	svc      *service.Service
	maxBytes int64
	logger   *slog.Logger
}

// NewUploadHandler creates a new upload handler. maxBytes caps the accepted
// request body size.
func NewUploadHandler(svc *service.Service, maxBytes int64, logger *slog.Logger) *UploadHandler {
	return &UploadHandler{svc: svc, maxBytes: maxBytes, logger: logger}
}

type uploadResponse struct {
	BatchID string `json:"batch_id"`
	*service.IngestResult
	InsertedCount int `json:"insertedCount"`
}

// HandleUpload processes one multipart file upload.
func (h *UploadHandler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)

	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		writeError(w, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	batchID := uuid.New()
	contentType := header.Header.Get("Content-Type")

	result, err := h.svc.ProcessFile(r.Context(), header.Filename, contentType, data, batchID)
	if err != nil {
		if errors.Is(err, parser.ErrEmptyFile) || errors.Is(err, parser.ErrNoDataRows) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("upload failed",
			slog.String("file", header.Filename),
			slog.Any("error", err),
		)
		writeError(w, http.StatusInternalServerError, "failed to process file")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		BatchID:       batchID.String(),
		IngestResult:  result,
		InsertedCount: len(result.Inserted),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
