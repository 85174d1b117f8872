package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-strategy-forms/internal/logger"
	"github.com/MKhiriev/go-strategy-forms/internal/service"
	"github.com/MKhiriev/go-strategy-forms/internal/store"
	"github.com/MKhiriev/go-strategy-forms/internal/utils"
	"github.com/MKhiriev/go-strategy-forms/internal/validators"
)

var errorStatusMap = map[error]int{
	store.ErrConflict:          http.StatusConflict,
	store.ErrValidation:        http.StatusBadRequest,
	store.ErrReference:         http.StatusUnprocessableEntity,
	store.ErrInvalidTransition: http.StatusConflict,
	store.ErrNotFound:          http.StatusNotFound,

	validators.ErrInvalidRequest: http.StatusBadRequest,
	ErrInvalidJSON:               http.StatusBadRequest,
	ErrInvalidQueryParameter:     http.StatusBadRequest,

	service.ErrInvalidCredentials:      http.StatusUnauthorized,
	service.ErrUnauthorized:            http.StatusUnauthorized,
	service.ErrTokenIsExpiredOrInvalid: http.StatusUnauthorized,
	service.ErrTokenCreationFailed:     http.StatusInternalServerError,

	store.ErrBuildingSQLQuery:     http.StatusInternalServerError,
	store.ErrExecutingQuery:       http.StatusInternalServerError,
	store.ErrBeginningTransaction: http.StatusInternalServerError,
	store.ErrCommitingTransaction: http.StatusInternalServerError,
	store.ErrScanningRow:          http.StatusInternalServerError,
	store.ErrScanningRows:         http.StatusInternalServerError,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeError responds with {"error": ...}. Server errors never expose the
// underlying message.
func writeError(w http.ResponseWriter, r *http.Request, err error, fn string) {
	status := statusFromError(err)

	message := err.Error()
	if status >= http.StatusInternalServerError {
		logger.FromRequest(r).Err(err).Str("func", fn).Msg("request failed")
		message = http.StatusText(status)
	} else {
		logger.FromRequest(r).Warn().Err(err).Str("func", fn).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}

	utils.WriteError(w, message, status)
}
