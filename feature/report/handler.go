package report

import (
	"report-manager/core/faults"
	"report-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for reports.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the report routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/reports")
	group.Post("/", h.HandleCreate)
	group.Get("/:id", h.HandleGet)
	group.Post("/:id/resolve", h.HandleResolve)
}

type createRequest struct {
	Type  string `json:"type"`
	Title string `json:"title"`
}

// HandleCreate creates a new draft report.
// @Summary Create Report
// @Description Create a new report in draft status.
// @Tags reports
// @Accept json
// @Produce json
// @Param request body createRequest true "Report Type and Title"
// @Success 201 {object} Report "Created Report"
// @Failure 400 {object} map[string]string "Validation Error"
// @Router /reports [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}

	rep, err := h.service.Create(c.Context(), req.Type, req.Title)
	if err != nil {
		l.Error("Report creation failed", zap.Error(err))
		return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
			"kind":  faults.KindOf(err),
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(rep)
}

// HandleGet returns a report by id.
// @Summary Get Report
// @Tags reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} Report "Report"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /reports/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report id"})
	}

	rep, err := h.service.Get(c.Context(), uint(id))
	if err != nil {
		l.Error("Report lookup failed", zap.Error(err))
		return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
			"kind":  faults.KindOf(err),
			"error": err.Error(),
		})
	}

	return c.JSON(rep)
}

// HandleResolve transitions a submitted report to resolved.
// @Summary Resolve Report
// @Tags reports
// @Produce json
// @Param id path int true "Report ID"
// @Success 200 {object} Report "Resolved Report"
// @Failure 409 {object} map[string]string "Precondition Error"
// @Router /reports/{id}/resolve [post]
func (h *Handler) HandleResolve(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid report id"})
	}

	rep, err := h.service.Transition(c.Context(), uint(id), StatusSubmitted, StatusResolved)
	if err != nil {
		l.Error("Report resolve failed", zap.Error(err))
		return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
			"kind":  faults.KindOf(err),
			"error": err.Error(),
		})
	}

	return c.JSON(rep)
}
