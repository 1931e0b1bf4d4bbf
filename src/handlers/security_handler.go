package handlers

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/username/pfolio/backend/src/models"
	"github.com/username/pfolio/backend/src/services"
	"github.com/username/pfolio/backend/src/utils"
)

type SecurityHandler struct {
	securityService services.SecurityService
}

func NewSecurityHandler(securityService services.SecurityService) *SecurityHandler {
	return &SecurityHandler{securityService: securityService}
}

func (h *SecurityHandler) HandleGetSecurities(w http.ResponseWriter, r *http.Request) {
	byISIN, err := h.securityService.MapISINToSecurity()
	if err != nil {
		utils.SendJSONError(w, fmt.Sprintf("querying securities: %v", err), http.StatusInternalServerError)
		return
	}

	securities := make([]models.Security, 0, len(byISIN))
	for _, sec := range byISIN {
		securities = append(securities, sec)
	}
	sort.Slice(securities, func(i, j int) bool {
		return securities[i].Name < securities[j].Name
	})
	utils.SendJSON(w, securities, http.StatusOK)
}
