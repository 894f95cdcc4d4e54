package stock_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"report-manager/core/database"
	"report-manager/core/faults"
	"report-manager/feature/report"
	"report-manager/feature/stock"
	"report-manager/feature/stock/models"
	"report-manager/feature/stock/pos"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakePOS is a canned-response inventory client.
type fakePOS struct {
	records []pos.ConsumptionRecord
	err     error
	calls   int
}

func (f *fakePOS) FetchDailyConsumption(ctx context.Context, date time.Time) ([]pos.ConsumptionRecord, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func flourAndSugar() []pos.ConsumptionRecord {
	return []pos.ConsumptionRecord{
		{
			ProductID: "p-100", ProductName: "Flour", ProductSKU: "FLR-1",
			ProductGroupName: "Bahan Baku",
			BeginningQty:     dec("100"), SumSalesQty: dec("20"), SumOutgoingQty: dec("10"),
		},
		{
			ProductID: "p-101", ProductName: "Sugar", ProductSKU: "SGR-1",
			ProductGroupName: "Bahan Baku",
			BeginningQty:     dec("50"), SumSalesQty: dec("5"), SumOutgoingQty: dec("0"),
		},
	}
}

type fixture struct {
	svc     *stock.Service
	reports *report.Service
	fake    *fakePOS
	db      *gorm.DB
}

func setup(t *testing.T) *fixture {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&report.Report{},
		&models.StockCycle{},
		&models.StockItem{},
		&pos.Credential{},
	))

	fake := &fakePOS{records: flourAndSugar()}
	reports := report.NewService(db, zap.NewNop())
	return &fixture{
		svc:     stock.NewService(db, fake, reports, zap.NewNop()),
		reports: reports,
		fake:    fake,
		db:      db,
	}
}

func (f *fixture) newReport(t *testing.T) *report.Report {
	rep, err := f.reports.Create(context.Background(), "stock", "Daily stock count")
	require.NoError(t, err)
	return rep
}

// measureAll records a measurement equal to the expected closing quantity
// for every item, leaving zero variance.
func measureAll(t *testing.T, svc *stock.Service, cycle *models.StockCycle) {
	for _, item := range cycle.Items {
		_, err := svc.RecordMeasurement(context.Background(), item.ID, item.ExpectedClosing(), nil, nil)
		require.NoError(t, err)
	}
}

var day1 = time.Date(2024, 3, 4, 0, 0, 0, 0, time.Local)
var day2 = day1.AddDate(0, 0, 1)

func TestInitializeCycle(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	assert.Equal(t, rep.ID, cycle.ReportID)
	assert.NotNil(t, cycle.SyncedAt)
	assert.Nil(t, cycle.CompletedAt)
	require.Len(t, cycle.Items, 2)

	flour := cycle.Items[0]
	assert.Equal(t, "p-100", flour.ProductID)
	assert.Equal(t, "100", flour.OpeningQty.String())
	assert.Equal(t, "30", flour.ExpectedOutQty.String())
	assert.Nil(t, flour.ActualQty)
	assert.False(t, flour.Completed)
}

func TestInitializeCycle_UnknownReport(t *testing.T) {
	f := setup(t)

	_, err := f.svc.InitializeCycle(context.Background(), 9999, day1)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestInitializeCycle_SameDateIsIdempotent(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	first, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	second, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	// No re-fetch, no duplicate rows, identical item identities.
	assert.Equal(t, 1, f.fake.calls)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Items, 2)
	for i := range first.Items {
		assert.Equal(t, first.Items[i].ID, second.Items[i].ID)
	}
}

func TestInitializeCycle_DateChangeReplacesItems(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	first, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	// A manual item for the old date must not survive re-initialization.
	_, err = f.svc.AddManualItem(ctx, first.ID, "Box of matches", dec("10"), dec("0"), "")
	require.NoError(t, err)

	second, err := f.svc.InitializeCycle(ctx, rep.ID, day2)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.CountDate.Equal(day2), "cycle date should move to the new day")
	require.Len(t, second.Items, 2)
	for _, item := range second.Items {
		assert.False(t, item.IsManual())
	}
	assert.Equal(t, 2, f.fake.calls)
}

func TestInitializeCycle_DateChangeClearsCompletion(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	first, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	measureAll(t, f.svc, first)
	done, err := f.svc.CheckCompletion(ctx, first.ID)
	require.NoError(t, err)
	require.True(t, done)

	// Re-dating the cycle rebuilds it with unmeasured items, so the old
	// completion stamp must not survive.
	second, err := f.svc.InitializeCycle(ctx, rep.ID, day2)
	require.NoError(t, err)
	assert.Nil(t, second.CompletedAt)

	summary, err := f.svc.Summary(ctx, rep.ID)
	require.NoError(t, err)
	assert.False(t, summary.Complete)
	assert.Nil(t, summary.CompletedAt)

	// The unmeasured re-dated cycle must not seed the next day's carryover.
	repC := f.newReport(t)
	cycleC, err := f.svc.InitializeCycle(ctx, repC.ID, day2.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, "100", cycleC.Items[0].OpeningQty.String())
}

func TestInitializeCycle_EmptyUpstreamIsValid(t *testing.T) {
	f := setup(t)
	f.fake.records = nil
	rep := f.newReport(t)

	cycle, err := f.svc.InitializeCycle(context.Background(), rep.ID, day1)
	require.NoError(t, err)
	assert.Empty(t, cycle.Items)
	assert.NotNil(t, cycle.SyncedAt)
}

func TestInitializeCycle_UpstreamFailureLeavesCycleIntact(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	_, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	f.fake.err = faults.Upstream(500, "provider down")
	_, err = f.svc.InitializeCycle(ctx, rep.ID, day2)
	require.Error(t, err)

	// The old cycle and its items survive the failed re-initialization.
	cycle, err := f.svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.True(t, cycle.CountDate.Equal(day1))
	assert.Len(t, cycle.Items, 2)
}

func TestCarryover(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// Day 1: complete a cycle with flour measured at 42.
	repA := f.newReport(t)
	cycleA, err := f.svc.InitializeCycle(ctx, repA.ID, day1)
	require.NoError(t, err)
	for _, item := range cycleA.Items {
		actual := item.ExpectedClosing()
		if item.ProductID == "p-100" {
			actual = dec("42")
		}
		_, err := f.svc.RecordMeasurement(ctx, item.ID, actual, nil, nil)
		require.NoError(t, err)
	}
	done, err := f.svc.CheckCompletion(ctx, cycleA.ID)
	require.NoError(t, err)
	require.True(t, done)

	// Day 2: a new report's cycle opens flour at 42, not at the
	// provider's beginning-quantity baseline of 100.
	repB := f.newReport(t)
	cycleB, err := f.svc.InitializeCycle(ctx, repB.ID, day2)
	require.NoError(t, err)

	require.Len(t, cycleB.Items, 2)
	assert.Equal(t, "42", cycleB.Items[0].OpeningQty.String())
	// Sugar carried over too (measured at its expected closing of 45).
	assert.Equal(t, "45", cycleB.Items[1].OpeningQty.String())
}

func TestCarryover_IgnoresIncompleteCycles(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	// Day 1 cycle exists but was never fully measured.
	repA := f.newReport(t)
	_, err := f.svc.InitializeCycle(ctx, repA.ID, day1)
	require.NoError(t, err)

	repB := f.newReport(t)
	cycleB, err := f.svc.InitializeCycle(ctx, repB.ID, day2)
	require.NoError(t, err)

	// Unverified counts never seed the baseline.
	assert.Equal(t, "100", cycleB.Items[0].OpeningQty.String())
}

func TestVarianceArithmetic(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	flour := cycle.Items[0] // opening 100, expected out 30

	item, err := f.svc.RecordMeasurement(ctx, flour.ID, dec("65"), nil, nil)
	require.NoError(t, err)
	require.NotNil(t, item.VarianceQty)
	assert.Equal(t, "-5", item.VarianceQty.String(), "expected closing 70, measured 65")
	assert.True(t, item.Completed)

	// Re-measuring overwrites: an exact count has zero variance.
	item, err = f.svc.RecordMeasurement(ctx, flour.ID, dec("70"), nil, nil)
	require.NoError(t, err)
	assert.True(t, item.VarianceQty.IsZero())
}

func TestRecordMeasurement_Validation(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	_, err = f.svc.RecordMeasurement(ctx, cycle.Items[0].ID, dec("-1"), nil, nil)
	assert.True(t, faults.IsKind(err, faults.KindValidation))

	_, err = f.svc.RecordMeasurement(ctx, 9999, dec("1"), nil, nil)
	assert.True(t, faults.IsKind(err, faults.KindNotFound))
}

func TestRecordMeasurement_LockedAfterFinalize(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	measureAll(t, f.svc, cycle)
	_, err = f.svc.Finalize(ctx, rep.ID)
	require.NoError(t, err)

	// A submitted report's numbers can never be rewritten.
	_, err = f.svc.RecordMeasurement(ctx, cycle.Items[0].ID, dec("999"), nil, nil)
	assert.True(t, faults.IsKind(err, faults.KindPrecondition))

	after, err := f.svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	require.NotNil(t, after.Items[0].VarianceQty)
	assert.True(t, after.Items[0].VarianceQty.IsZero(), "measurement unchanged after rejected write")

	// New items are rejected too, the whole cycle is closed.
	_, err = f.svc.AddManualItem(ctx, cycle.ID, "Late find", dec("1"), dec("0"), "")
	assert.True(t, faults.IsKind(err, faults.KindPrecondition))
}

func TestRecordMeasurement_PhotoAndNote(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	photo := "photos/abc.jpg"
	note := "spilled bag"
	item, err := f.svc.RecordMeasurement(ctx, cycle.Items[0].ID, dec("70"), &photo, &note)
	require.NoError(t, err)
	assert.Equal(t, photo, item.PhotoRef)
	assert.Equal(t, note, item.Note)
}

func TestCompletionGating(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	_, err = f.svc.AddManualItem(ctx, cycle.ID, "Cooking oil", dec("12"), dec("2"), "ltr")
	require.NoError(t, err)

	// 3 items, 2 measured.
	cycle, err = f.svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	require.Len(t, cycle.Items, 3)
	for _, item := range cycle.Items[:2] {
		_, err := f.svc.RecordMeasurement(ctx, item.ID, item.ExpectedClosing(), nil, nil)
		require.NoError(t, err)
	}

	done, err := f.svc.CheckCompletion(ctx, cycle.ID)
	require.NoError(t, err)
	assert.False(t, done)

	_, err = f.svc.Finalize(ctx, rep.ID)
	assert.True(t, faults.IsKind(err, faults.KindPrecondition))

	// The report was left untouched.
	rep, err = f.reports.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusDraft, rep.Status)
}

func TestFinalizeTransition(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	measureAll(t, f.svc, cycle)

	submitted, err := f.svc.Finalize(ctx, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, report.StatusSubmitted, submitted.Status)
	assert.NotNil(t, submitted.SubmittedAt)

	// Finalize succeeds exactly once; the report is no longer draft.
	_, err = f.svc.Finalize(ctx, rep.ID)
	assert.True(t, faults.IsKind(err, faults.KindPrecondition))
}

func TestCompletionTimestampIsMonotonic(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)
	measureAll(t, f.svc, cycle)

	done, err := f.svc.CheckCompletion(ctx, cycle.ID)
	require.NoError(t, err)
	require.True(t, done)

	first, err := f.svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	require.NotNil(t, first.CompletedAt)

	// A later re-measure and re-check must not move the stamp.
	time.Sleep(10 * time.Millisecond)
	_, err = f.svc.RecordMeasurement(ctx, cycle.Items[0].ID, dec("1"), nil, nil)
	require.NoError(t, err)
	_, err = f.svc.CheckCompletion(ctx, cycle.ID)
	require.NoError(t, err)

	again, err := f.svc.Get(ctx, rep.ID)
	require.NoError(t, err)
	assert.True(t, first.CompletedAt.Equal(*again.CompletedAt))
}

func TestAddManualItem(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	item, err := f.svc.AddManualItem(ctx, cycle.ID, "Cooking oil", dec("12"), dec("0"), "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(item.ProductID, "manual-"))
	assert.Equal(t, models.ManualSKU, item.SKU)
	assert.Equal(t, stock.DefaultUnit, item.Unit)
	assert.True(t, item.IsManual())

	t.Run("Validation", func(t *testing.T) {
		_, err := f.svc.AddManualItem(ctx, cycle.ID, "", dec("1"), dec("0"), "")
		assert.True(t, faults.IsKind(err, faults.KindValidation))

		_, err = f.svc.AddManualItem(ctx, cycle.ID, "Oil", dec("-1"), dec("0"), "")
		assert.True(t, faults.IsKind(err, faults.KindValidation))

		_, err = f.svc.AddManualItem(ctx, 9999, "Oil", dec("1"), dec("0"), "")
		assert.True(t, faults.IsKind(err, faults.KindNotFound))
	})
}

func TestSummary(t *testing.T) {
	f := setup(t)
	rep := f.newReport(t)
	ctx := context.Background()

	cycle, err := f.svc.InitializeCycle(ctx, rep.ID, day1)
	require.NoError(t, err)

	// Flour short by 5, sugar over by 2.
	_, err = f.svc.RecordMeasurement(ctx, cycle.Items[0].ID, dec("65"), nil, nil)
	require.NoError(t, err)
	_, err = f.svc.RecordMeasurement(ctx, cycle.Items[1].ID, dec("47"), nil, nil)
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx, rep.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalItems)
	assert.Equal(t, 2, summary.Measured)
	assert.Equal(t, 1, summary.Shortfalls)
	assert.Equal(t, 1, summary.Surpluses)
	assert.Equal(t, 0, summary.ExactCounts)
	assert.Equal(t, "-3", summary.NetVariance.String())
	assert.True(t, summary.Complete)
}
