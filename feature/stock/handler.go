package stock

import (
	"time"

	"report-manager/core/faults"
	"report-manager/core/logger"
	"report-manager/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for stock reconciliation.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the stock routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/stock")
	group.Post("/:reportId/sync", h.HandleSync)
	group.Get("/:reportId", h.HandleGet)
	group.Get("/:reportId/summary", h.HandleSummary)
	group.Post("/:reportId/finalize", h.HandleFinalize)
	group.Post("/cycles/:cycleId/items", h.HandleAddManualItem)
	group.Put("/items/:itemId", h.HandleUpdateItem)
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, msg string, err error) error {
	l.Error(msg, zap.Error(err))
	return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
		"kind":  faults.KindOf(err),
		"error": err.Error(),
	})
}

func reportIDParam(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("reportId")
	if err != nil || id <= 0 {
		return 0, faults.New(faults.KindValidation, "invalid report id")
	}
	return uint(id), nil
}

type syncRequest struct {
	// Date is the calendar day to count, YYYY-MM-DD. Defaults to today.
	Date string `json:"date"`
}

// HandleSync initializes (or re-initializes) the report's stock cycle.
// @Summary Initialize Stock Cycle
// @Description Sync the day's consumption from the POS provider and build the cycle's line items. Only privileged callers may pick a date other than today.
// @Tags stock
// @Accept json
// @Produce json
// @Param reportId path int true "Report ID"
// @Param request body syncRequest false "Count Date"
// @Success 200 {object} models.StockCycle "Stock Cycle"
// @Failure 403 {object} map[string]string "Date Not Allowed"
// @Failure 502 {object} map[string]string "Upstream Sync Error"
// @Router /stock/{reportId}/sync [post]
func (h *Handler) HandleSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reportID, err := reportIDParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid sync request", err)
	}

	var req syncRequest
	// The body is optional (empty means today), but a present body must parse.
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return h.fail(c, l, "Invalid sync request",
				faults.New(faults.KindValidation, "invalid request body"))
		}
	}

	date := time.Now()
	if req.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Date, time.Local)
		if err != nil {
			return h.fail(c, l, "Invalid sync request",
				faults.New(faults.KindValidation, "invalid date %q, want YYYY-MM-DD", req.Date))
		}
		date = parsed
	}

	// Regular callers may only count today; back-dating is privileged.
	principal := auth.FromCtx(c)
	if !principal.IsAdmin() && !sameDay(date, time.Now()) {
		return h.fail(c, l, "Sync date not allowed",
			faults.New(faults.KindForbidden, "only privileged callers may initialize a past or future date"))
	}

	cycle, err := h.service.InitializeCycle(c.Context(), reportID, date)
	if err != nil {
		return h.fail(c, l, "Stock sync failed", err)
	}
	return c.JSON(cycle)
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// HandleGet returns the report's cycle with its line items.
// @Summary Get Stock Cycle
// @Tags stock
// @Produce json
// @Param reportId path int true "Report ID"
// @Success 200 {object} models.StockCycle "Stock Cycle"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /stock/{reportId} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reportID, err := reportIDParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid get request", err)
	}

	cycle, err := h.service.Get(c.Context(), reportID)
	if err != nil {
		return h.fail(c, l, "Stock cycle lookup failed", err)
	}
	return c.JSON(cycle)
}

type updateItemRequest struct {
	ActualQty decimal.Decimal `json:"actual_qty"`
	PhotoRef  *string         `json:"photo_ref"`
	Note      *string         `json:"note"`
}

// HandleUpdateItem records a physical measurement for a line item.
// @Summary Record Measurement
// @Description Store the measured closing quantity; variance is computed against opening minus expected outflow. Re-measuring overwrites.
// @Tags stock
// @Accept json
// @Produce json
// @Param itemId path int true "Stock Item ID"
// @Param request body updateItemRequest true "Measurement"
// @Success 200 {object} models.StockItem "Updated Item"
// @Failure 400 {object} map[string]string "Validation Error"
// @Router /stock/items/{itemId} [put]
func (h *Handler) HandleUpdateItem(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("itemId")
	if err != nil || id <= 0 {
		return h.fail(c, l, "Invalid item request", faults.New(faults.KindValidation, "invalid item id"))
	}

	var req updateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, l, "Invalid item request", faults.New(faults.KindValidation, "invalid request body"))
	}

	item, err := h.service.RecordMeasurement(c.Context(), uint(id), req.ActualQty, req.PhotoRef, req.Note)
	if err != nil {
		return h.fail(c, l, "Measurement failed", err)
	}
	return c.JSON(item)
}

type manualItemRequest struct {
	ProductName    string          `json:"product_name"`
	OpeningQty     decimal.Decimal `json:"opening_qty"`
	ExpectedOutQty decimal.Decimal `json:"expected_out_qty"`
	Unit           string          `json:"unit"`
}

// HandleAddManualItem adds a line item outside the external feed.
// @Summary Add Manual Item
// @Tags stock
// @Accept json
// @Produce json
// @Param cycleId path int true "Cycle ID"
// @Param request body manualItemRequest true "Manual Item"
// @Success 201 {object} models.StockItem "Created Item"
// @Failure 400 {object} map[string]string "Validation Error"
// @Router /stock/cycles/{cycleId}/items [post]
func (h *Handler) HandleAddManualItem(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	id, err := c.ParamsInt("cycleId")
	if err != nil || id <= 0 {
		return h.fail(c, l, "Invalid manual item request", faults.New(faults.KindValidation, "invalid cycle id"))
	}

	var req manualItemRequest
	if err := c.BodyParser(&req); err != nil {
		return h.fail(c, l, "Invalid manual item request", faults.New(faults.KindValidation, "invalid request body"))
	}

	item, err := h.service.AddManualItem(c.Context(), uint(id), req.ProductName, req.OpeningQty, req.ExpectedOutQty, req.Unit)
	if err != nil {
		return h.fail(c, l, "Manual item failed", err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// HandleSummary returns measurement progress and variance aggregates.
// @Summary Cycle Summary
// @Tags stock
// @Produce json
// @Param reportId path int true "Report ID"
// @Success 200 {object} models.CycleSummary "Summary"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /stock/{reportId}/summary [get]
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reportID, err := reportIDParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid summary request", err)
	}

	summary, err := h.service.Summary(c.Context(), reportID)
	if err != nil {
		return h.fail(c, l, "Summary failed", err)
	}
	return c.JSON(summary)
}

// HandleFinalize submits the report once its cycle is fully measured.
// @Summary Finalize Report
// @Description Re-checks completion and transitions the owning report from draft to submitted. Never partially submits.
// @Tags stock
// @Produce json
// @Param reportId path int true "Report ID"
// @Success 200 {object} report.Report "Submitted Report"
// @Failure 409 {object} map[string]string "Precondition Error"
// @Router /stock/{reportId}/finalize [post]
func (h *Handler) HandleFinalize(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	reportID, err := reportIDParam(c)
	if err != nil {
		return h.fail(c, l, "Invalid finalize request", err)
	}

	rep, err := h.service.Finalize(c.Context(), reportID)
	if err != nil {
		return h.fail(c, l, "Finalize failed", err)
	}
	return c.JSON(rep)
}
