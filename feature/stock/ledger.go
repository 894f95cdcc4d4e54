package stock

import (
	"context"
	"errors"
	"time"

	"report-manager/feature/stock/models"

	"gorm.io/gorm"
)

// Ledger is the data access layer for cycles and their line items.
// The reconciliation service is its only caller.
type Ledger struct {
	db *gorm.DB
}

// NewLedger creates a ledger over the given database.
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Transaction runs fn against a transactional ledger.
func (l *Ledger) Transaction(ctx context.Context, fn func(tx *Ledger) error) error {
	return l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewLedger(tx))
	})
}

// CycleByReport returns the report's cycle with items, or nil when the
// report has no cycle yet.
func (l *Ledger) CycleByReport(ctx context.Context, reportID uint) (*models.StockCycle, error) {
	var cycle models.StockCycle
	err := l.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("stock_items.id") }).
		Where("report_id = ?", reportID).
		First(&cycle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

// CycleByID returns a cycle with items, or nil when absent.
func (l *Ledger) CycleByID(ctx context.Context, id uint) (*models.StockCycle, error) {
	var cycle models.StockCycle
	err := l.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("stock_items.id") }).
		First(&cycle, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}

// ItemByID returns a line item, or nil when absent.
func (l *Ledger) ItemByID(ctx context.Context, id uint) (*models.StockItem, error) {
	var item models.StockItem
	err := l.db.WithContext(ctx).First(&item, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateCycle persists a new cycle.
func (l *Ledger) CreateCycle(ctx context.Context, cycle *models.StockCycle) error {
	return l.db.WithContext(ctx).Create(cycle).Error
}

// UpdateCycle applies column updates to a cycle.
func (l *Ledger) UpdateCycle(ctx context.Context, cycleID uint, updates map[string]any) error {
	return l.db.WithContext(ctx).
		Model(&models.StockCycle{}).
		Where("id = ?", cycleID).
		Updates(updates).Error
}

// CreateItems bulk-inserts line items.
func (l *Ledger) CreateItems(ctx context.Context, items []models.StockItem) error {
	if len(items) == 0 {
		return nil
	}
	return l.db.WithContext(ctx).Create(&items).Error
}

// CreateItem persists a single line item.
func (l *Ledger) CreateItem(ctx context.Context, item *models.StockItem) error {
	return l.db.WithContext(ctx).Create(item).Error
}

// SaveItem persists all fields of an existing line item.
func (l *Ledger) SaveItem(ctx context.Context, item *models.StockItem) error {
	return l.db.WithContext(ctx).Save(item).Error
}

// DeleteItems removes every line item of a cycle.
func (l *Ledger) DeleteItems(ctx context.Context, cycleID uint) error {
	return l.db.WithContext(ctx).
		Where("cycle_id = ?", cycleID).
		Delete(&models.StockItem{}).Error
}

// CountIncomplete returns the number of unmeasured items in a cycle.
func (l *Ledger) CountIncomplete(ctx context.Context, cycleID uint) (int64, error) {
	var n int64
	err := l.db.WithContext(ctx).
		Model(&models.StockItem{}).
		Where("cycle_id = ? AND completed = ?", cycleID, false).
		Count(&n).Error
	return n, err
}

// LatestCompletedCycleOn returns the most recently completed cycle (any
// report) counted on the given date, with items, or nil when none exists.
func (l *Ledger) LatestCompletedCycleOn(ctx context.Context, date time.Time) (*models.StockCycle, error) {
	var cycle models.StockCycle
	err := l.db.WithContext(ctx).
		Preload("Items").
		Where("count_date = ? AND completed_at IS NOT NULL", date).
		Order("completed_at DESC").
		First(&cycle).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &cycle, nil
}
