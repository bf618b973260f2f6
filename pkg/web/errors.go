package web

import (
	"errors"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/form"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/panel"
	"github.com/gofiber/fiber/v3"
	"github.com/moogar0880/problems"
)

// validationProblem adds the per-field errors to a problem document.
type validationProblem struct {
	*problems.Problem

	Errors models.ValidationErrors `json:"errors"`
}

// submitFailedProblem adds the failure notification to a problem document.
type submitFailedProblem struct {
	*problems.Problem

	Notification events.BaseEvent `json:"notification"`
}

func badRequest(c fiber.Ctx, detail string) error {
	problem := problems.NewStatusProblem(400).
		WithInstance(c.Path()).
		WithType("validation_error").
		WithDetail(detail)

	return c.Status(fiber.StatusBadRequest).JSON(problem)
}

func notFound(c fiber.Ctx, problemType, detail string) error {
	problem := problems.NewStatusProblem(404).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(detail)

	return c.Status(fiber.StatusNotFound).JSON(problem)
}

func conflict(c fiber.Ctx, problemType string, err error) error {
	problem := problems.NewStatusProblem(409).
		WithInstance(c.Path()).
		WithType(problemType).
		WithDetail(err.Error())

	return c.Status(fiber.StatusConflict).JSON(problem)
}

func internalError(c fiber.Ctx, err error) error {
	problem := problems.NewStatusProblem(500).
		WithInstance(c.Path()).
		WithType("internal_error").
		WithError(err)

	return c.Status(fiber.StatusInternalServerError).JSON(problem)
}

// handleError maps domain errors to problem responses.
func handleError(c fiber.Ctx, err error) error {
	var validationErr *form.ValidationFailedError

	switch {
	case errors.Is(err, catalog.ErrWorkflowNotFound):
		return notFound(c, "workflow_not_found", "workflow not found")

	case errors.Is(err, catalog.ErrCategoryNotFound):
		return notFound(c, "category_not_found", "category not found")

	case errors.Is(err, panel.ErrPanelNotFound):
		return notFound(c, "panel_not_found", "panel not found")

	case errors.Is(err, form.ErrUnknownField):
		return notFound(c, "field_not_found", err.Error())

	case errors.Is(err, form.ErrInvalidValue):
		return badRequest(c, err.Error())

	case errors.Is(err, form.ErrNotSubmittable):
		return conflict(c, "not_submittable", err)

	case errors.Is(err, form.ErrSubmitInProgress):
		return conflict(c, "submission_in_progress", err)

	case errors.As(err, &validationErr):
		problem := validationProblem{
			Problem: problems.NewStatusProblem(422).
				WithInstance(c.Path()).
				WithType("form_invalid").
				WithDetail("one or more fields are invalid"),
			Errors: validationErr.Errors,
		}

		return c.Status(fiber.StatusUnprocessableEntity).JSON(problem)

	default:
		return internalError(c, err)
	}
}

// submitFailed reports a submission the webhook did not accept. The
// notification mirrors the one published on the event bus.
func submitFailed(c fiber.Ctx, notification events.BaseEvent, err error) error {
	problem := submitFailedProblem{
		Problem: problems.NewStatusProblem(502).
			WithInstance(c.Path()).
			WithType("workflow_start_failed").
			WithDetail(err.Error()),
		Notification: notification,
	}

	return c.Status(fiber.StatusBadGateway).JSON(problem)
}
