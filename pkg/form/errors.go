package form

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/dukex/leadflow/pkg/models"
)

var (
	// ErrUnknownField is returned when a field id does not belong to the workflow.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidValue is returned for values that are not a string, number or boolean.
	ErrInvalidValue = errors.New("invalid field value")

	// ErrNotSubmittable is returned for workflows without an endpoint.
	ErrNotSubmittable = errors.New("workflow is not submittable")

	// ErrSubmitInProgress is returned while a previous submission is still in flight.
	ErrSubmitInProgress = errors.New("submission already in progress")
)

// ValidationFailedError carries the per-field errors of a rejected submission.
// It never leaves the process as a network call.
type ValidationFailedError struct {
	Errors models.ValidationErrors
}

func (e *ValidationFailedError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}

	sort.Strings(ids)

	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, fmt.Sprintf("%s: %s", id, e.Errors[id]))
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidationFailed reports whether err is a *ValidationFailedError.
func IsValidationFailed(err error) bool {
	var validationErr *ValidationFailedError

	return errors.As(err, &validationErr)
}
