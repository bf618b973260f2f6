// Package web provides HTTP request and response types for the dashboard API.
package web

import (
	"time"

	"github.com/dukex/leadflow/pkg/form"
	"github.com/dukex/leadflow/pkg/models"
	"github.com/dukex/leadflow/pkg/panel"
)

// OpenPanelRequest represents the request body for opening a workflow panel.
type OpenPanelRequest struct {
	WorkflowID string `json:"workflow_id" validate:"required"`
}

// SetFieldRequest represents the request body for changing one form field.
// Value must be a string, number or boolean; null unsets the field.
type SetFieldRequest struct {
	Value any `json:"value"`
}

// WorkflowResponse is a workflow card as rendered by the dashboard.
type WorkflowResponse struct {
	*models.Workflow

	StatusLabel string `json:"status_label"`
	Submittable bool   `json:"submittable"`
}

// CategoryResponse is a category with its workflow cards.
type CategoryResponse struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Icon          models.Icon        `json:"icon"`
	WorkflowCount int                `json:"workflow_count"`
	Workflows     []WorkflowResponse `json:"workflows"`
}

// PanelResponse represents an open panel and its form state.
type PanelResponse struct {
	ID         string                  `json:"id"`
	Workflow   WorkflowResponse        `json:"workflow"`
	Values     models.FormValues       `json:"values"`
	Errors     models.ValidationErrors `json:"errors"`
	Submitting bool                    `json:"submitting"`
	OpenedAt   time.Time               `json:"opened_at"`
}

// ValidateResponse represents the outcome of an explicit validation.
type ValidateResponse struct {
	Valid  bool                    `json:"valid"`
	Errors models.ValidationErrors `json:"errors"`
}

// TransformWorkflowResponse decorates a workflow with its display data.
func TransformWorkflowResponse(wf *models.Workflow) WorkflowResponse {
	return WorkflowResponse{
		Workflow:    wf,
		StatusLabel: wf.Status.Label(),
		Submittable: wf.Submittable(),
	}
}

// TransformCategoryResponse decorates a category and its workflows.
func TransformCategoryResponse(category *models.WorkflowCategory) CategoryResponse {
	workflows := make([]WorkflowResponse, 0, len(category.Workflows))
	for _, wf := range category.Workflows {
		workflows = append(workflows, TransformWorkflowResponse(wf))
	}

	return CategoryResponse{
		ID:            category.ID,
		Name:          category.Name,
		Description:   category.Description,
		Icon:          category.Icon,
		WorkflowCount: len(workflows),
		Workflows:     workflows,
	}
}

// TransformPanelResponse renders a panel with a snapshot of its form.
func TransformPanelResponse(p *panel.Panel) PanelResponse {
	return transformPanelState(p, p.Form().Snapshot())
}

func transformPanelState(p *panel.Panel, state form.State) PanelResponse {
	return PanelResponse{
		ID:         p.ID,
		Workflow:   TransformWorkflowResponse(p.Workflow()),
		Values:     state.Values,
		Errors:     state.Errors,
		Submitting: state.Submitting,
		OpenedAt:   p.OpenedAt,
	}
}
