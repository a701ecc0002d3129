package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/luminapress/sales-ingest/internal/domain/reporting"
)

// ReportHandler serves the aggregated sales reports.
type ReportHandler struct {
	repo   *reporting.Repository
	logger *slog.Logger
}

// NewReportHandler creates a new report handler.
func NewReportHandler(repo *reporting.Repository, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{repo: repo, logger: logger}
}

// HandleSalesByCustomer returns per-customer totals for ?from=...&to=...
// (RFC 3339 dates; defaults to the last 30 days).
func (h *ReportHandler) HandleSalesByCustomer(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.repo.SalesByCustomer(r.Context(), from, to)
	if err != nil {
		h.logger.Error("customer report failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// HandleSalesByTitle returns per-title totals for the same range parameters.
func (h *ReportHandler) HandleSalesByTitle(w http.ResponseWriter, r *http.Request) {
	from, to, err := dateRange(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sales, err := h.repo.SalesByTitle(r.Context(), from, to)
	if err != nil {
		h.logger.Error("title report failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	writeJSON(w, http.StatusOK, sales)
}

// HandleListExclusions returns the customer names hidden from reports.
func (h *ReportHandler) HandleListExclusions(w http.ResponseWriter, r *http.Request) {
	names, err := h.repo.ListExclusions(r.Context())
	if err != nil {
		h.logger.Error("failed to list exclusions", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list exclusions")
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// HandleExcludeCustomer hides one customer from future reports.
func (h *ReportHandler) HandleExcludeCustomer(w http.ResponseWriter, r *http.Request) {
	var in struct {
		CustomerName string `json:"customer_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil || in.CustomerName == "" {
		writeError(w, http.StatusBadRequest, "customer_name is required")
		return
	}

	if err := h.repo.ExcludeCustomer(r.Context(), in.CustomerName); err != nil {
		h.logger.Error("failed to exclude customer", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to exclude customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleIncludeCustomer removes an exclusion.
func (h *ReportHandler) HandleIncludeCustomer(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("customer_name")
	if name == "" {
		writeError(w, http.StatusBadRequest, "customer_name is required")
		return
	}

	if err := h.repo.IncludeCustomer(r.Context(), name); err != nil {
		h.logger.Error("failed to include customer", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to include customer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func dateRange(r *http.Request) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, 0, -30)
	to := now

	if v := r.URL.Query().Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = t
	}
	if v := r.URL.Query().Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		// Exclusive upper bound: include the whole "to" day.
		to = t.AddDate(0, 0, 1)
	}
	return from, to, nil
}
