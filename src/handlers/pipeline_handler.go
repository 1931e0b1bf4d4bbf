package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/username/pfolio/backend/src/config"
	"github.com/username/pfolio/backend/src/services"
	"github.com/username/pfolio/backend/src/utils"
)

// PipelineHandler serves the pipeline reports. It holds no state beyond the
// service references; all business logic lives in the services and
// processors.
type PipelineHandler struct {
	pipelineService services.PipelineService
	cfg             *config.AppConfig
}

func NewPipelineHandler(pipelineService services.PipelineService, cfg *config.AppConfig) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService, cfg: cfg}
}

// reportDateFromQuery parses an optional report_date query parameter as a
// date in the configured time zone.
func (h *PipelineHandler) reportDateFromQuery(r *http.Request) (*time.Time, error) {
	raw := r.URL.Query().Get("report_date")
	if raw == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, h.cfg.Location)
	if err != nil {
		return nil, fmt.Errorf("invalid report_date %q, expected YYYY-MM-DD", raw)
	}
	return &t, nil
}

func (h *PipelineHandler) run(w http.ResponseWriter, r *http.Request) (*services.PipelineResult, bool) {
	reportDate, err := h.reportDateFromQuery(r)
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	result, err := h.pipelineService.Run(r.Context(), reportDate)
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("pipeline run failed: %v", err), http.StatusInternalServerError)
		return nil, false
	}
	return result, true
}

func (h *PipelineHandler) HandleGetTransactions(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, result.Transactions, http.StatusOK)
}

func (h *PipelineHandler) HandleGetLedger(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, result.Ledger, http.StatusOK)
}

func (h *PipelineHandler) HandleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, result.Portfolio, http.StatusOK)
}

func (h *PipelineHandler) HandleGetIncomeStatement(w http.ResponseWriter, r *http.Request) {
	result, ok := h.run(w, r)
	if !ok {
		return
	}
	utils.SendJSON(w, result.IncomeStatement, http.StatusOK)
}

func (h *PipelineHandler) HandleInvalidateCache(w http.ResponseWriter, r *http.Request) {
	h.pipelineService.Invalidate()
	utils.SendJSON(w, map[string]string{"status": "cache invalidated"}, http.StatusOK)
}
