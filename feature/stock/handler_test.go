package stock

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"report-manager/core/database"
	"report-manager/core/faults"
	"report-manager/core/middleware/auth"
	"report-manager/feature/report"
	"report-manager/feature/stock/models"
	"report-manager/feature/stock/pos"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubClient struct {
	records []pos.ConsumptionRecord
}

func (s *stubClient) FetchDailyConsumption(ctx context.Context, date time.Time) ([]pos.ConsumptionRecord, error) {
	return s.records, nil
}

func setupTestApp(t *testing.T, principal auth.Principal) (*fiber.App, *Service, *report.Service) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&report.Report{}, &models.StockCycle{}, &models.StockItem{}))

	stub := &stubClient{records: []pos.ConsumptionRecord{
		{
			ProductID: "p-1", ProductName: "Flour", ProductSKU: "FLR-1",
			ProductGroupName: "Bahan Baku",
			BeginningQty:     decimal.NewFromInt(100),
			SumSalesQty:      decimal.NewFromInt(30),
		},
	}}
	reports := report.NewService(db, zap.NewNop())
	svc := NewService(db, stub, reports, zap.NewNop())

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("principal", principal)
		return c.Next()
	})
	NewHandler(svc).RegisterRoutes(app)
	return app, svc, reports
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (int, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp.StatusCode, decoded
}

func TestHandleSync(t *testing.T) {
	app, _, reports := setupTestApp(t, auth.Principal{ID: "staff", Role: "staff"})
	rep, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)

	status, body := doJSON(t, app, "POST", "/stock/1/sync", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(rep.ID), body["report_id"])
	assert.Len(t, body["items"], 1)
}

func TestHandleSync_UnknownReport(t *testing.T) {
	app, _, _ := setupTestApp(t, auth.Principal{Role: "staff"})

	status, _ := doJSON(t, app, "POST", "/stock/42/sync", nil)
	assert.Equal(t, 404, status)
}

func TestHandleSync_MalformedBody(t *testing.T) {
	app, _, reports := setupTestApp(t, auth.Principal{Role: "staff"})
	_, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)

	// The body is optional, but a present body must be valid JSON.
	req := httptest.NewRequest("POST", "/stock/1/sync", strings.NewReader("{not json"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, string(faults.KindValidation), body["kind"])
}

func TestHandleSync_BadDate(t *testing.T) {
	app, _, reports := setupTestApp(t, auth.Principal{Role: "admin"})
	_, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)

	status, _ := doJSON(t, app, "POST", "/stock/1/sync", fiber.Map{"date": "04-03-2024"})
	assert.Equal(t, 400, status)
}

func TestHandleSync_BackdatingIsPrivileged(t *testing.T) {
	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")

	t.Run("StaffForbidden", func(t *testing.T) {
		app, _, reports := setupTestApp(t, auth.Principal{ID: "staff", Role: "staff"})
		_, err := reports.Create(context.Background(), "stock", "daily")
		require.NoError(t, err)

		status, body := doJSON(t, app, "POST", "/stock/1/sync", fiber.Map{"date": yesterday})
		assert.Equal(t, 403, status)
		assert.Equal(t, string(faults.KindForbidden), body["kind"])
	})

	t.Run("AdminAllowed", func(t *testing.T) {
		app, _, reports := setupTestApp(t, auth.Principal{ID: "admin", Role: "admin"})
		_, err := reports.Create(context.Background(), "stock", "daily")
		require.NoError(t, err)

		status, body := doJSON(t, app, "POST", "/stock/1/sync", fiber.Map{"date": yesterday})
		require.Equal(t, 200, status)

		counted, err := time.Parse(time.RFC3339, body["count_date"].(string))
		require.NoError(t, err)
		assert.Equal(t, yesterday, counted.Local().Format("2006-01-02"))
	})
}

func TestHandleGet(t *testing.T) {
	app, _, reports := setupTestApp(t, auth.Principal{Role: "staff"})
	_, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)

	status, _ := doJSON(t, app, "GET", "/stock/1", nil)
	assert.Equal(t, 404, status, "no cycle before the first sync")

	status, _ = doJSON(t, app, "POST", "/stock/1/sync", nil)
	require.Equal(t, 200, status)

	status, body := doJSON(t, app, "GET", "/stock/1", nil)
	require.Equal(t, 200, status)
	assert.Len(t, body["items"], 1)
}

func TestHandleUpdateItem(t *testing.T) {
	app, svc, reports := setupTestApp(t, auth.Principal{Role: "staff"})
	rep, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)
	cycle, err := svc.InitializeCycle(context.Background(), rep.ID, time.Now())
	require.NoError(t, err)
	path := fmt.Sprintf("/stock/items/%d", cycle.Items[0].ID)

	status, body := doJSON(t, app, "PUT", path, fiber.Map{
		"actual_qty": "65",
		"note":       "counted twice",
	})
	require.Equal(t, 200, status)
	assert.Equal(t, "-5", body["variance_qty"])
	assert.Equal(t, true, body["completed"])
	assert.Equal(t, "counted twice", body["note"])

	t.Run("NegativeQty", func(t *testing.T) {
		status, _ := doJSON(t, app, "PUT", path, fiber.Map{"actual_qty": "-3"})
		assert.Equal(t, 400, status)
	})

	t.Run("UnknownItem", func(t *testing.T) {
		status, _ := doJSON(t, app, "PUT", "/stock/items/999", fiber.Map{"actual_qty": "1"})
		assert.Equal(t, 404, status)
	})
}

func TestHandleAddManualItem(t *testing.T) {
	app, svc, reports := setupTestApp(t, auth.Principal{Role: "staff"})
	rep, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)
	_, err = svc.InitializeCycle(context.Background(), rep.ID, time.Now())
	require.NoError(t, err)

	status, body := doJSON(t, app, "POST", "/stock/cycles/1/items", fiber.Map{
		"product_name": "Cooking oil",
		"opening_qty":  "12",
		"unit":         "ltr",
	})
	require.Equal(t, 201, status)
	assert.Equal(t, models.ManualSKU, body["sku"])
	assert.Equal(t, "ltr", body["unit"])

	t.Run("MissingName", func(t *testing.T) {
		status, _ := doJSON(t, app, "POST", "/stock/cycles/1/items", fiber.Map{"opening_qty": "1"})
		assert.Equal(t, 400, status)
	})
}

func TestHandleFinalizeAndSummary(t *testing.T) {
	app, svc, reports := setupTestApp(t, auth.Principal{Role: "staff"})
	rep, err := reports.Create(context.Background(), "stock", "daily")
	require.NoError(t, err)
	cycle, err := svc.InitializeCycle(context.Background(), rep.ID, time.Now())
	require.NoError(t, err)

	status, _ := doJSON(t, app, "POST", "/stock/1/finalize", nil)
	assert.Equal(t, 409, status, "unmeasured items block finalize")

	_, err = svc.RecordMeasurement(context.Background(), cycle.Items[0].ID, decimal.NewFromInt(68), nil, nil)
	require.NoError(t, err)

	status, body := doJSON(t, app, "GET", "/stock/1/summary", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, float64(1), body["measured"])
	assert.Equal(t, "-2", body["net_variance"])
	assert.Equal(t, true, body["complete"])

	status, body = doJSON(t, app, "POST", "/stock/1/finalize", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, string(report.StatusSubmitted), body["status"])

	status, _ = doJSON(t, app, "POST", "/stock/1/finalize", nil)
	assert.Equal(t, 409, status, "finalize succeeds exactly once")
}
