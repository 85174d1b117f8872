package http

import (
	"net/http"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/models"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var credentials models.Credentials
	if err := decodeJSON(w, r, &credentials); err != nil {
		writeError(w, r, err, "*Handler.register")
		return
	}

	user, err := h.services.AuthService.Register(ctx, credentials)
	if err != nil {
		writeError(w, r, err, "*Handler.register")
		return
	}

	logger.FromRequest(r).Info().Str("id", user.ID).Msg("user registered")
	utils.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var credentials models.Credentials
	if err := decodeJSON(w, r, &credentials); err != nil {
		writeError(w, r, err, "*Handler.login")
		return
	}

	user, err := h.services.AuthService.Login(ctx, credentials)
	if err != nil {
		writeError(w, r, err, "*Handler.login")
		return
	}

	token, err := h.services.AuthService.CreateToken(ctx, user)
	if err != nil {
		writeError(w, r, err, "*Handler.login")
		return
	}

	logger.FromRequest(r).Debug().Str("id", user.ID).Msg("user successfully logged in")

	response := models.TokenResponse{
		AccessToken: token.SignedString,
		TokenType:   "bearer",
	}
	if token.ExpiresAt != nil && token.IssuedAt != nil {
		response.ExpiresIn = int64(token.ExpiresAt.Sub(token.IssuedAt.Time).Seconds())
	}

	utils.WriteJSON(w, response, http.StatusOK)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, ok := utils.GetUserIDFromContext(ctx)
	if !ok {
		writeError(w, r, service.ErrUnauthorized, "*Handler.me")
		return
	}

	user, err := h.services.AuthService.Me(ctx, userID)
	if err != nil {
		writeError(w, r, err, "*Handler.me")
		return
	}

	utils.WriteJSON(w, user, http.StatusOK)
}
