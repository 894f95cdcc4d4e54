package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManualSKU is the sentinel SKU marking line items added by hand, outside
// the external POS feed.
const ManualSKU = "MANUAL"

// StockCycle is one reconciliation period, tied 1:1 to its owning report.
type StockCycle struct {
	ID       uint `gorm:"primaryKey" json:"id"`
	ReportID uint `gorm:"uniqueIndex" json:"report_id"`
	// CountDate is the calendar date being counted. All items in the cycle
	// belong to this date.
	CountDate time.Time `gorm:"type:date;index" json:"count_date"`
	// SyncedAt is the time of the last successful consumption sync.
	SyncedAt *time.Time `json:"synced_at,omitempty"`
	// CompletedAt is set the first time every item is measured, and is
	// never re-stamped afterwards.
	CompletedAt *time.Time `gorm:"index" json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Items []StockItem `gorm:"foreignKey:CycleID" json:"items,omitempty"`
}

// StockItem is one product's tracked quantity within a cycle.
type StockItem struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	CycleID uint `gorm:"index" json:"cycle_id"`
	// ProductID is the external product identifier, or a synthetic
	// "manual-" uuid for hand-added items.
	ProductID   string `gorm:"size:64;index" json:"product_id"`
	ProductName string `gorm:"size:255" json:"product_name"`
	SKU         string `gorm:"size:64" json:"sku"`
	Unit        string `gorm:"size:16" json:"unit"`
	// OpeningQty is carried from the previous completed cycle when the
	// product appears there, else the provider's beginning-quantity baseline.
	OpeningQty decimal.Decimal `gorm:"type:decimal(18,4)" json:"opening_qty"`
	// ExpectedOutQty is sales plus other outgoing movement for the date.
	ExpectedOutQty decimal.Decimal `gorm:"type:decimal(18,4)" json:"expected_out_qty"`
	// ActualQty is the measured closing quantity; nil until measured.
	ActualQty *decimal.Decimal `gorm:"type:decimal(18,4)" json:"actual_qty,omitempty"`
	// VarianceQty is actual minus expected closing; nil until measured.
	VarianceQty *decimal.Decimal `gorm:"type:decimal(18,4)" json:"variance_qty,omitempty"`
	PhotoRef    string           `gorm:"size:255" json:"photo_ref,omitempty"`
	Note        string           `gorm:"size:1024" json:"note,omitempty"`
	Completed   bool             `gorm:"index" json:"completed"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// IsManual reports whether the item was added outside the external feed.
func (i StockItem) IsManual() bool {
	return i.SKU == ManualSKU
}

// ExpectedClosing is the arithmetically expected closing quantity.
func (i StockItem) ExpectedClosing() decimal.Decimal {
	return i.OpeningQty.Sub(i.ExpectedOutQty)
}

// CycleSummary aggregates a cycle's measurement progress and variance.
type CycleSummary struct {
	CycleID     uint            `json:"cycle_id"`
	ReportID    uint            `json:"report_id"`
	CountDate   time.Time       `json:"count_date"`
	TotalItems  int             `json:"total_items"`
	Measured    int             `json:"measured"`
	Shortfalls  int             `json:"shortfalls"`
	Surpluses   int             `json:"surpluses"`
	ExactCounts int             `json:"exact_counts"`
	NetVariance decimal.Decimal `json:"net_variance"`
	Complete    bool            `json:"complete"`
	SyncedAt    *time.Time      `json:"synced_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}
