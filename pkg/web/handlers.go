// Package web provides HTTP handlers and REST API endpoints for the workflow dashboard.
package web

import (
	"strconv"
	"time"

	"github.com/dukex/leadflow/pkg/catalog"
	"github.com/dukex/leadflow/pkg/dashboard"
	"github.com/dukex/leadflow/pkg/notify"
	"github.com/dukex/leadflow/pkg/panel"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	catalog    *catalog.Catalog
	panels     *panel.Manager
	feed       *notify.Feed
	validator  *validator.Validate
	webhookURL string
}

func NewAPIHandlers(
	catalog *catalog.Catalog,
	panels *panel.Manager,
	feed *notify.Feed,
	validator *validator.Validate,
	webhookURL string,
) *APIHandlers {
	return &APIHandlers{
		catalog:    catalog,
		panels:     panels,
		feed:       feed,
		validator:  validator,
		webhookURL: webhookURL,
	}
}

func (h *APIHandlers) GetCategories(c fiber.Ctx) error {
	categories := h.catalog.Categories()

	response := make([]CategoryResponse, 0, len(categories))
	for _, category := range categories {
		response = append(response, TransformCategoryResponse(category))
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetCategory(c fiber.Ctx) error {
	category, err := h.catalog.Category(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(TransformCategoryResponse(category))
}

func (h *APIHandlers) GetCategoryWorkflows(c fiber.Ctx) error {
	workflows, err := h.catalog.Workflows(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	response := make([]WorkflowResponse, 0, len(workflows))
	for _, wf := range workflows {
		response = append(response, TransformWorkflowResponse(wf))
	}

	return c.JSON(response)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	wf, err := h.catalog.Workflow(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(TransformWorkflowResponse(wf))
}

func (h *APIHandlers) GetPanels(c fiber.Ctx) error {
	panels := h.panels.List()

	response := make([]PanelResponse, 0, len(panels))
	for _, p := range panels {
		response = append(response, TransformPanelResponse(p))
	}

	return c.JSON(response)
}

func (h *APIHandlers) OpenPanel(c fiber.Ctx) error {
	var req OpenPanelRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	if err := h.validator.Struct(req); err != nil {
		return badRequest(c, err.Error())
	}

	p, err := h.panels.Open(req.WorkflowID)
	if err != nil {
		return handleError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(TransformPanelResponse(p))
}

func (h *APIHandlers) GetPanel(c fiber.Ctx) error {
	p, err := h.panels.Get(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(TransformPanelResponse(p))
}

func (h *APIHandlers) ClosePanel(c fiber.Ctx) error {
	if err := h.panels.Close(c.Params("id")); err != nil {
		return handleError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) SetField(c fiber.Ctx) error {
	var req SetFieldRequest
	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid JSON format")
	}

	id := c.Params("id")

	state, err := h.panels.SetField(id, c.Params("fieldId"), req.Value)
	if err != nil {
		return handleError(c, err)
	}

	p, err := h.panels.Get(id)
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(transformPanelState(p, state))
}

func (h *APIHandlers) ValidatePanel(c fiber.Ctx) error {
	errs, err := h.panels.Validate(c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}

	return c.JSON(ValidateResponse{Valid: errs.Empty(), Errors: errs})
}

func (h *APIHandlers) SubmitPanel(c fiber.Ctx) error {
	outcome, err := h.panels.Submit(c.Context(), c.Params("id"))
	if err != nil {
		if outcome != nil {
			return submitFailed(c, outcome.Notification, err)
		}

		return handleError(c, err)
	}

	return c.Status(fiber.StatusAccepted).JSON(outcome)
}

func (h *APIHandlers) GetNotifications(c fiber.Ctx) error {
	limit := 0

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			return badRequest(c, "limit must be a non-negative integer")
		}

		limit = parsed
	}

	return c.JSON(h.feed.Recent(limit))
}

func (h *APIHandlers) GetSettings(c fiber.Ctx) error {
	return c.JSON(dashboard.Settings(h.webhookURL))
}

func (h *APIHandlers) GetAgent(c fiber.Ctx) error {
	return c.JSON(dashboard.AgentScreen())
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC(),
		"workflows": h.catalog.Len(),
		"panels":    len(h.panels.List()),
	})
}
