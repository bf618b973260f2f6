// Package form holds the state of one workflow form: its values, its validation
// errors and the single submission that may be in flight.
package form

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/dukex/leadflow/pkg/events"
	"github.com/dukex/leadflow/pkg/execution"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/dukex/leadflow/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

const tracerName = "github.com/dukex/leadflow/pkg/form"

// State is a point-in-time copy of a controller, safe to render.
type State struct {
	Values     models.FormValues       `json:"values"`
	Errors     models.ValidationErrors `json:"errors"`
	Submitting bool                    `json:"submitting"`
}

// Outcome describes a submission that reached the webhook.
type Outcome struct {
	Response     *execution.Response `json:"response,omitempty"`
	Notification events.BaseEvent    `json:"notification"`
}

// Controller mediates every change to a workflow form. One controller backs one open panel.
type Controller struct {
	mu         sync.Mutex
	panelID    string
	workflow   *models.Workflow
	values     models.FormValues
	errors     models.ValidationErrors
	submitting bool

	executor execution.Executor
	notifier notify.Notifier
	logger   *slog.Logger
}

// NewController creates a controller with empty values for the workflow.
func NewController(
	panelID string,
	workflow *models.Workflow,
	executor execution.Executor,
	notifier notify.Notifier,
	logger *slog.Logger,
) *Controller {
	if notifier == nil {
		notifier = notify.Discard{}
	}

	return &Controller{
		panelID:  panelID,
		workflow: workflow,
		values:   models.FormValues{},
		errors:   models.ValidationErrors{},
		executor: executor,
		notifier: notifier,
		logger:   logger.With("module", "form", "panel_id", panelID, "workflow_id", workflow.ID),
	}
}

// Workflow returns the workflow the form belongs to.
func (c *Controller) Workflow() *models.Workflow {
	return c.workflow
}

// SetField stores a value and clears any error previously recorded for the
// field. Errors are only recomputed by Validate and Submit.
func (c *Controller) SetField(fieldID string, value any) error {
	field, ok := c.workflow.Field(fieldID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, fieldID)
	}

	normalized, ok := models.NormalizeValue(value)
	if !ok {
		return fmt.Errorf("%w: %s has type %T", ErrInvalidValue, fieldID, value)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Keyed by the catalog-owned id: fieldID may alias a reused request buffer.
	c.values[field.ID] = normalized
	delete(c.errors, field.ID)

	return nil
}

// Validate recomputes the errors of the whole form from scratch, stores them
// and returns a copy. An empty map means the form is valid.
func (c *Controller) Validate() models.ValidationErrors {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.errors = Validate(c.workflow, c.values)

	return c.errors.Clone()
}

// Submit validates the form and, when it is clean, sends it to the workflow
// endpoint. Validation failures return a *ValidationFailedError without any
// network call. On success values and errors are cleared; on failure they are
// kept so the user can retry. Exactly one submission may be in flight.
func (c *Controller) Submit(ctx context.Context) (*Outcome, error) {
	if !c.workflow.Submittable() {
		return nil, fmt.Errorf("%w: %s", ErrNotSubmittable, c.workflow.ID)
	}

	c.mu.Lock()

	if c.submitting {
		c.mu.Unlock()

		return nil, ErrSubmitInProgress
	}

	c.errors = Validate(c.workflow, c.values)
	if !c.errors.Empty() {
		errs := c.errors.Clone()
		c.mu.Unlock()

		c.logger.DebugContext(ctx, "Form rejected by validation", "errors", len(errs))

		return nil, &ValidationFailedError{Errors: errs}
	}

	c.submitting = true
	payload := c.values.Clone()
	c.mu.Unlock()

	ctx, span := otelhelper.StartSpan(ctx, otel.Tracer(tracerName), "form.submit",
		attribute.String(otelhelper.PanelIDKey, c.panelID),
		attribute.String(otelhelper.WorkflowIDKey, c.workflow.ID),
		attribute.String(otelhelper.WorkflowNameKey, c.workflow.Name),
	)
	defer span.End()

	c.logger.InfoContext(ctx, "Submitting workflow", "endpoint", c.workflow.Endpoint)

	resp, err := c.executor.Execute(ctx, c.workflow.Endpoint, payload)

	c.mu.Lock()
	c.submitting = false

	if err != nil {
		c.mu.Unlock()

		event := events.NewWorkflowStartFailed(c.panelID, c.workflow.ID, c.workflow.Name, c.workflow.Endpoint, err)
		c.notifier.Notify(ctx, c.panelID, event)

		return &Outcome{Notification: event.BaseEvent}, err
	}

	c.values = models.FormValues{}
	c.errors = models.ValidationErrors{}
	c.mu.Unlock()

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}

	event := events.NewWorkflowStarted(c.panelID, c.workflow.ID, c.workflow.Name, c.workflow.Endpoint, statusCode)
	c.notifier.Notify(ctx, c.panelID, event)

	return &Outcome{Response: resp, Notification: event.BaseEvent}, nil
}

// Reset discards values and errors, as when the panel is closed.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.values = models.FormValues{}
	c.errors = models.ValidationErrors{}
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return State{
		Values:     c.values.Clone(),
		Errors:     c.errors.Clone(),
		Submitting: c.submitting,
	}
}

// Validate checks values against the workflow fields in declaration order.
func Validate(workflow *models.Workflow, values models.FormValues) models.ValidationErrors {
	errs := models.ValidationErrors{}

	for _, field := range workflow.Fields {
		value, present := values[field.ID]
		if msg := field.Check(value, present); msg != "" {
			errs[field.ID] = msg
		}
	}

	return errs
}
