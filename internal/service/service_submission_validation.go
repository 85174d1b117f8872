package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/MKhiriev/go-strategy-forms/internal/validators"
	"github.com/MKhiriev/go-strategy-forms/models"
)

// SubmissionServiceWrapper defines middleware composition for SubmissionService.
// Implementations wrap an existing SubmissionService to add behavior such as
// logging or validating.
type SubmissionServiceWrapper interface {
	Wrap(SubmissionService) SubmissionService // returns a decorated SubmissionService applying additional behavior
}

// SubmissionValidationService rejects malformed requests before they reach
// the wrapped SubmissionService.
type SubmissionValidationService struct {
	inner     SubmissionService
	validator validators.Validator
}

func NewSubmissionValidationService() SubmissionServiceWrapper {
	return &SubmissionValidationService{
		validator: validators.NewRequestValidator(),
	}
}

func (v *SubmissionValidationService) Submit(ctx context.Context, formData json.RawMessage) (models.Submission, error) {
	if !validators.IsJSONObject(formData) {
		return models.Submission{}, fmt.Errorf("%w: form data must be a JSON object", validators.ErrInvalidRequest)
	}
	return v.inner.Submit(ctx, formData)
}

func (v *SubmissionValidationService) Get(ctx context.Context, id string) (models.Submission, error) {
	return v.inner.Get(ctx, id)
}

func (v *SubmissionValidationService) List(ctx context.Context, query models.SubmissionQuery) (models.SubmissionPage, error) {
	if query.Page < 0 {
		return models.SubmissionPage{}, fmt.Errorf("%w: page must be positive", validators.ErrInvalidRequest)
	}
	if pageOverflows(query) {
		return models.SubmissionPage{}, fmt.Errorf("%w: page %d is out of range", validators.ErrInvalidRequest, query.Page)
	}
	if query.Status != nil && !query.Status.IsValid() {
		return models.SubmissionPage{}, fmt.Errorf("%w: unknown status %q", validators.ErrInvalidRequest, *query.Status)
	}
	if query.Contains != nil && !validators.IsJSONObject(query.Contains) {
		return models.SubmissionPage{}, fmt.Errorf("%w: contains must be a JSON object", validators.ErrInvalidRequest)
	}
	if err := v.validator.Validate(ctx, ResolvePagination(query)); err != nil {
		return models.SubmissionPage{}, err
	}
	return v.inner.List(ctx, query)
}

// pageOverflows reports whether the offset derived from page does not fit
// in an int.
func pageOverflows(query models.SubmissionQuery) bool {
	limit := query.Limit
	if limit == 0 {
		limit = models.DefaultPageLimit
	}
	return query.Page > 1 && limit > 0 && query.Page-1 > math.MaxInt/limit
}

func (v *SubmissionValidationService) UpdateStatus(ctx context.Context, id string, update models.StatusUpdate) (models.Submission, error) {
	if err := v.validator.Validate(ctx, update); err != nil {
		return models.Submission{}, err
	}
	return v.inner.UpdateStatus(ctx, id, update)
}

func (v *SubmissionValidationService) Delete(ctx context.Context, id string) error {
	return v.inner.Delete(ctx, id)
}

func (v *SubmissionValidationService) Stats(ctx context.Context) (models.SubmissionStats, error) {
	return v.inner.Stats(ctx)
}

func (v *SubmissionValidationService) Wrap(wrapper SubmissionService) SubmissionService {
	v.inner = wrapper
	return v
}
