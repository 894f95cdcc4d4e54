package stock

import (
	"context"
	"time"

	"report-manager/core/faults"
	"report-manager/feature/report"
	"report-manager/feature/stock/models"
	"report-manager/feature/stock/pos"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultUnit is used for manual items when no unit is given.
const DefaultUnit = "pcs"

// Service orchestrates the stock reconciliation cycle: sync, measurement,
// completion and finalization.
type Service struct {
	ledger  *Ledger
	pos     pos.Client
	reports *report.Service
	logger  *zap.Logger
}

// NewService creates a new stock service.
func NewService(db *gorm.DB, posClient pos.Client, reports *report.Service, logger *zap.Logger) *Service {
	return &Service{
		ledger:  NewLedger(db),
		pos:     posClient,
		reports: reports,
		logger:  logger,
	}
}

// dateOnly truncates a timestamp to its calendar date (local midnight).
// Every date entering the ledger goes through this, so equality comparisons
// against stored cycles are consistent across drivers.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.Local)
}

// InitializeCycle creates or refreshes the report's stock cycle for a date.
//
// Calling it again for the same date is a no-op that returns the existing
// cycle without re-fetching. Calling it for a different date discards the
// old line items and rebuilds the cycle from the provider feed; the replace
// happens in one transaction, so a failed sync never leaves a half-populated
// cycle. Opening quantities carry over from the most recent *completed*
// cycle of the previous day, so the baseline always reflects a verified
// measurement rather than an in-progress count.
func (s *Service) InitializeCycle(ctx context.Context, reportID uint, date time.Time) (*models.StockCycle, error) {
	if _, err := s.reports.Get(ctx, reportID); err != nil {
		return nil, err
	}

	day := dateOnly(date)
	cycle, err := s.ledger.CycleByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}

	if cycle != nil && len(cycle.Items) > 0 && cycle.CountDate.Equal(day) {
		return cycle, nil
	}

	// Fetch before touching the store: an upstream failure must leave any
	// previous cycle intact.
	records, err := s.pos.FetchDailyConsumption(ctx, day)
	if err != nil {
		return nil, err
	}

	carryover, err := s.carryoverFor(ctx, day)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	items := make([]models.StockItem, 0, len(records))
	for _, rec := range records {
		opening := rec.BeginningQty
		if carried, ok := carryover[rec.ProductID]; ok {
			opening = carried
		}
		items = append(items, models.StockItem{
			ProductID:      rec.ProductID,
			ProductName:    rec.ProductName,
			SKU:            rec.ProductSKU,
			Unit:           DefaultUnit,
			OpeningQty:     opening,
			ExpectedOutQty: rec.ExpectedOut(),
		})
	}

	err = s.ledger.Transaction(ctx, func(tx *Ledger) error {
		if cycle == nil {
			cycle = &models.StockCycle{
				ReportID:  reportID,
				CountDate: day,
				SyncedAt:  &now,
			}
			if err := tx.CreateCycle(ctx, cycle); err != nil {
				return err
			}
		} else {
			if err := tx.DeleteItems(ctx, cycle.ID); err != nil {
				return err
			}
			// The new items are unmeasured, so the completion stamp from
			// the old date must not survive the re-initialization.
			if err := tx.UpdateCycle(ctx, cycle.ID, map[string]any{
				"count_date":   day,
				"synced_at":    now,
				"completed_at": nil,
			}); err != nil {
				return err
			}
		}

		for i := range items {
			items[i].CycleID = cycle.ID
		}
		return tx.CreateItems(ctx, items)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock cycle initialized",
		zap.Uint("report_id", reportID),
		zap.String("date", day.Format("2006-01-02")),
		zap.Int("items", len(items)),
	)
	return s.ledger.CycleByReport(ctx, reportID)
}

// carryoverFor maps product id to the measured closing quantity of the most
// recent completed cycle dated exactly one day before `day`.
func (s *Service) carryoverFor(ctx context.Context, day time.Time) (map[string]decimal.Decimal, error) {
	prev, err := s.ledger.LatestCompletedCycleOn(ctx, day.AddDate(0, 0, -1))
	if err != nil {
		return nil, err
	}

	carry := make(map[string]decimal.Decimal)
	if prev == nil {
		return carry, nil
	}
	for _, item := range prev.Items {
		if item.Completed && item.ActualQty != nil {
			carry[item.ProductID] = *item.ActualQty
		}
	}
	return carry, nil
}

// RecordMeasurement stores a physical count for a line item and computes its
// variance against the expected closing quantity. Re-measuring overwrites
// until the owning report is finalized; after that measurements are locked.
func (s *Service) RecordMeasurement(ctx context.Context, itemID uint, actual decimal.Decimal, photoRef, note *string) (*models.StockItem, error) {
	if actual.IsNegative() {
		return nil, faults.New(faults.KindValidation, "actual quantity cannot be negative")
	}

	item, err := s.ledger.ItemByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, faults.New(faults.KindNotFound, "stock item %d not found", itemID)
	}

	// Finalize locks the cycle's measurements; a submitted report's
	// numbers can never be rewritten.
	cycle, err := s.ledger.CycleByID(ctx, item.CycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, faults.New(faults.KindNotFound, "stock cycle %d not found", item.CycleID)
	}
	rep, err := s.reports.Get(ctx, cycle.ReportID)
	if err != nil {
		return nil, err
	}
	if rep.Status != report.StatusDraft {
		return nil, faults.New(faults.KindPrecondition,
			"report %d is %q, measurements are locked", rep.ID, rep.Status)
	}

	variance := actual.Sub(item.ExpectedClosing())
	item.ActualQty = &actual
	item.VarianceQty = &variance
	item.Completed = true
	if photoRef != nil {
		item.PhotoRef = *photoRef
	}
	if note != nil {
		item.Note = *note
	}

	if err := s.ledger.SaveItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Measurement recorded",
		zap.Uint("item_id", item.ID),
		zap.String("product_id", item.ProductID),
		zap.String("variance", variance.String()),
	)
	return item, nil
}

// CheckCompletion reports whether every item in the cycle is measured. The
// first time this holds, the cycle's completion timestamp is stamped; it is
// never re-stamped afterwards.
func (s *Service) CheckCompletion(ctx context.Context, cycleID uint) (bool, error) {
	cycle, err := s.ledger.CycleByID(ctx, cycleID)
	if err != nil {
		return false, err
	}
	if cycle == nil {
		return false, faults.New(faults.KindNotFound, "stock cycle %d not found", cycleID)
	}

	incomplete, err := s.ledger.CountIncomplete(ctx, cycleID)
	if err != nil {
		return false, err
	}
	if incomplete > 0 {
		return false, nil
	}

	if cycle.CompletedAt == nil {
		now := time.Now()
		if err := s.ledger.UpdateCycle(ctx, cycleID, map[string]any{"completed_at": now}); err != nil {
			return false, err
		}
		s.logger.Info("Stock cycle completed", zap.Uint("cycle_id", cycleID))
	}
	return true, nil
}

// Finalize submits the report once its cycle is fully measured. Completion
// is re-checked from the ledger rather than trusted from a cached flag, and
// the report must still be in draft; the transition is all-or-nothing.
func (s *Service) Finalize(ctx context.Context, reportID uint) (*report.Report, error) {
	cycle, err := s.ledger.CycleByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, faults.New(faults.KindNotFound, "report %d has no stock cycle", reportID)
	}

	done, err := s.CheckCompletion(ctx, cycle.ID)
	if err != nil {
		return nil, err
	}
	if !done {
		return nil, faults.New(faults.KindPrecondition,
			"cycle %d has unmeasured items", cycle.ID)
	}

	rep, err := s.reports.Transition(ctx, reportID, report.StatusDraft, report.StatusSubmitted)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock report finalized",
		zap.Uint("report_id", reportID),
		zap.Uint("cycle_id", cycle.ID),
	)
	return rep, nil
}

// AddManualItem adds a line item for a product the external feed does not
// track. The item gets a synthetic product id and the manual sentinel SKU,
// and participates in completion and finalize checks like any synced item.
func (s *Service) AddManualItem(ctx context.Context, cycleID uint, productName string, opening, expectedOut decimal.Decimal, unit string) (*models.StockItem, error) {
	if productName == "" {
		return nil, faults.New(faults.KindValidation, "product name is required")
	}
	if opening.IsNegative() || expectedOut.IsNegative() {
		return nil, faults.New(faults.KindValidation, "quantities cannot be negative")
	}

	cycle, err := s.ledger.CycleByID(ctx, cycleID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, faults.New(faults.KindNotFound, "stock cycle %d not found", cycleID)
	}

	// Same lock as measurements: a submitted report's cycle is closed.
	rep, err := s.reports.Get(ctx, cycle.ReportID)
	if err != nil {
		return nil, err
	}
	if rep.Status != report.StatusDraft {
		return nil, faults.New(faults.KindPrecondition,
			"report %d is %q, the cycle is locked", rep.ID, rep.Status)
	}

	if unit == "" {
		unit = DefaultUnit
	}

	item := &models.StockItem{
		CycleID:        cycleID,
		ProductID:      "manual-" + uuid.NewString(),
		ProductName:    productName,
		SKU:            models.ManualSKU,
		Unit:           unit,
		OpeningQty:     opening,
		ExpectedOutQty: expectedOut,
	}
	if err := s.ledger.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	s.logger.Info("Manual item added",
		zap.Uint("cycle_id", cycleID),
		zap.String("product_name", productName),
	)
	return item, nil
}

// Get returns the report's cycle with its items.
func (s *Service) Get(ctx context.Context, reportID uint) (*models.StockCycle, error) {
	cycle, err := s.ledger.CycleByReport(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if cycle == nil {
		return nil, faults.New(faults.KindNotFound, "report %d has no stock cycle", reportID)
	}
	return cycle, nil
}

// Summary aggregates measurement progress and variance for the report's cycle.
func (s *Service) Summary(ctx context.Context, reportID uint) (*models.CycleSummary, error) {
	cycle, err := s.Get(ctx, reportID)
	if err != nil {
		return nil, err
	}

	summary := &models.CycleSummary{
		CycleID:     cycle.ID,
		ReportID:    cycle.ReportID,
		CountDate:   cycle.CountDate,
		TotalItems:  len(cycle.Items),
		NetVariance: decimal.Zero,
		SyncedAt:    cycle.SyncedAt,
		CompletedAt: cycle.CompletedAt,
	}

	for _, item := range cycle.Items {
		if !item.Completed || item.VarianceQty == nil {
			continue
		}
		summary.Measured++
		summary.NetVariance = summary.NetVariance.Add(*item.VarianceQty)
		switch item.VarianceQty.Sign() {
		case -1:
			summary.Shortfalls++
		case 1:
			summary.Surpluses++
		default:
			summary.ExactCounts++
		}
	}
	summary.Complete = summary.Measured == summary.TotalItems

	return summary, nil
}
