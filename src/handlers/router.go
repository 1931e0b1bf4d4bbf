package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/username/pfolio/backend/src/utils"
)

// NewRouter wires the API routes. Handlers only call services and encode
// JSON.
func NewRouter(pipelineHandler *PipelineHandler, securityHandler *SecurityHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestLogger)
	r.Use(EnableCORS)
	r.Use(RateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"message": "pfolio backend is running"}, http.StatusOK)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/transactions", pipelineHandler.HandleGetTransactions)
		r.Get("/ledger", pipelineHandler.HandleGetLedger)
		r.Get("/portfolio", pipelineHandler.HandleGetPortfolio)
		r.Get("/income-statement", pipelineHandler.HandleGetIncomeStatement)
		r.Get("/securities", securityHandler.HandleGetSecurities)
		r.Post("/cache/invalidate", pipelineHandler.HandleInvalidateCache)
	})

	return r
}
