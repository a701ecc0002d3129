package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/luminapress/sales-ingest/internal/domain/ingest/normalizer"
	"github.com/luminapress/sales-ingest/internal/domain/ingest/service"
)

// AliasHandler manages the customer alias map. Edits swap a fresh resolver
// into the running pipeline immediately.
type AliasHandler struct {
	store  *normalizer.AliasStore
	ingest *service.Service
	logger *slog.Logger
}

// NewAliasHandler creates a new alias handler.
func NewAliasHandler(store *normalizer.AliasStore, ingest *service.Service, logger *slog.Logger) *AliasHandler {
	return &AliasHandler{store: store, ingest: ingest, logger: logger}
}

// HandleList returns all configured aliases.
func (h *AliasHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	aliases, err := h.store.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list aliases", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list aliases")
		return
	}
	writeJSON(w, http.StatusOK, aliases)
}

// HandleSave creates or updates one alias.
func (h *AliasHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Alias       string `json:"alias"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if in.Alias == "" || in.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "alias and display_name are required")
		return
	}

	saved, err := h.store.Save(r.Context(), normalizer.CustomerAlias{
		Alias:       in.Alias,
		DisplayName: in.DisplayName,
	})
	if err != nil {
		h.logger.Error("failed to save alias", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to save alias")
		return
	}

	h.refreshResolver(r.Context())
	writeJSON(w, http.StatusOK, saved)
}

// HandleDelete removes one alias.
func (h *AliasHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid alias id")
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeError(w, http.StatusNotFound, "alias not found")
			return
		}
		h.logger.Error("failed to delete alias", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to delete alias")
		return
	}

	h.refreshResolver(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *AliasHandler) refreshResolver(ctx context.Context) {
	resolver, err := h.store.LoadResolver(ctx)
	if err != nil {
		h.logger.Warn("failed to reload alias resolver", slog.Any("error", err))
		return
	}
	h.ingest.SetAliases(resolver)
}
