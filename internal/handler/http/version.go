package http

import (
	"net/http"

	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/models"
)

type versionResponse struct {
	Version string `json:"version"`
}

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, versionResponse{Version: h.services.AppInfoService.GetAppVersion(r.Context())}, http.StatusOK)
}

// health answers 503 only when the database is unreachable.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	status := h.services.AppInfoService.Health(r.Context())

	code := http.StatusOK
	if status.Status == models.HealthDown {
		code = http.StatusServiceUnavailable
	}

	utils.WriteJSON(w, status, code)
}
