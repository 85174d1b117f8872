package store

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/MKhiriev/go-strategy-forms/models"
	"github.com/google/uuid"
)

// validateID accepts the canonical hyphenated UUID form only.
func validateID(id string) error {
	if len(id) != 36 {
		return ErrInvalidID
	}
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	return nil
}

func validateOptionalID(id *string) error {
	if id == nil {
		return nil
	}
	return validateID(*id)
}

func validateNewUser(email, hashedPassword string) error {
	if strings.TrimSpace(email) == "" {
		return ErrEmptyEmail
	}
	if hashedPassword == "" {
		return ErrEmptyPasswordHash
	}
	return nil
}

// jsonObject decodes raw into a map and reports whether it is a JSON object.
func jsonObject(raw json.RawMessage) (map[string]any, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return nil, false
	}

	var obj map[string]any
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, false
	}
	return obj, true
}

func validateFormData(formData json.RawMessage) error {
	obj, ok := jsonObject(formData)
	if !ok || len(obj) == 0 {
		return ErrEmptyFormData
	}
	return nil
}

func validateStatusUpdate(update models.StatusUpdate) error {
	if !update.Status.IsValid() {
		return ErrInvalidStatus
	}
	if update.StrategyData != nil {
		if _, ok := jsonObject(update.StrategyData); !ok {
			return ErrInvalidStrategyData
		}
	}
	return nil
}

func validateFilter(filter models.SubmissionFilter) error {
	if err := validateOptionalID(filter.UserID); err != nil {
		return err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return ErrInvalidStatus
	}
	if filter.FormDataContains != nil {
		if _, ok := jsonObject(filter.FormDataContains); !ok {
			return ErrInvalidContainsFilter
		}
	}
	return nil
}

func validatePagination(page models.Pagination) error {
	if !page.Valid() {
		return ErrInvalidPagination
	}
	return nil
}
