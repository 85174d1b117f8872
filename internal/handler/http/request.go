package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/MKhiriev/go-strategy-forms/models"
)

// maxBodyBytes limits every request body the API reads.
const maxBodyBytes = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return nil
}

func readBody(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return body, nil
}

// isJSONNull reports whether raw is absent or the JSON literal null.
func isJSONNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// parseSubmissionQuery reads status, limit, offset, page and contains from
// the query string. Absent parameters keep their zero value.
func parseSubmissionQuery(r *http.Request) (models.SubmissionQuery, error) {
	values := r.URL.Query()
	var query models.SubmissionQuery

	if status := values.Get("status"); status != "" {
		s := models.SubmissionStatus(status)
		query.Status = &s
	}
	if contains := values.Get("contains"); contains != "" {
		query.Contains = json.RawMessage(contains)
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"limit", &query.Limit},
		{"offset", &query.Offset},
		{"page", &query.Page},
	}
	for _, p := range ints {
		raw := values.Get(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return models.SubmissionQuery{}, fmt.Errorf("%w: %s must be an integer", ErrInvalidQueryParameter, p.name)
		}
		*p.dst = n
	}

	if values.Has("limit") && query.Limit == 0 {
		return models.SubmissionQuery{}, fmt.Errorf("%w: limit must be within 1..%d", ErrInvalidQueryParameter, models.MaxPageLimit)
	}

	return query, nil
}
