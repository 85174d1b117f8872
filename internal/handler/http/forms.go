package http

import (
	"net/http"

	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/go-chi/chi/v5"
)

// submit stores the request body, a JSON object, as a new submission owned
// by the caller when a token is present.
func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	formData, err := readBody(w, r)
	if err != nil {
		writeError(w, r, err, "*Handler.submit")
		return
	}

	submission, err := h.services.SubmissionService.Submit(r.Context(), formData)
	if err != nil {
		writeError(w, r, err, "*Handler.submit")
		return
	}

	utils.WriteJSON(w, submission, http.StatusCreated)
}

func (h *Handler) getSubmission(w http.ResponseWriter, r *http.Request) {
	submission, err := h.services.SubmissionService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err, "*Handler.getSubmission")
		return
	}

	utils.WriteJSON(w, submission, http.StatusOK)
}

func (h *Handler) listSubmissions(w http.ResponseWriter, r *http.Request) {
	query, err := parseSubmissionQuery(r)
	if err != nil {
		writeError(w, r, err, "*Handler.listSubmissions")
		return
	}

	page, err := h.services.SubmissionService.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err, "*Handler.listSubmissions")
		return
	}

	utils.WriteJSON(w, page, http.StatusOK)
}

func (h *Handler) updateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	var update models.StatusUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		writeError(w, r, err, "*Handler.updateSubmissionStatus")
		return
	}
	// an explicit null keeps the stored strategy, like an absent field
	if isJSONNull(update.StrategyData) {
		update.StrategyData = nil
	}

	submission, err := h.services.SubmissionService.UpdateStatus(r.Context(), chi.URLParam(r, "id"), update)
	if err != nil {
		writeError(w, r, err, "*Handler.updateSubmissionStatus")
		return
	}

	utils.WriteJSON(w, submission, http.StatusOK)
}

func (h *Handler) deleteSubmission(w http.ResponseWriter, r *http.Request) {
	if err := h.services.SubmissionService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err, "*Handler.deleteSubmission")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.SubmissionService.Stats(r.Context())
	if err != nil {
		writeError(w, r, err, "*Handler.stats")
		return
	}

	utils.WriteJSON(w, stats, http.StatusOK)
}
