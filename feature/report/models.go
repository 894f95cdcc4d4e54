package report

import "time"

// Status is the closed set of report lifecycle states.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusResolved  Status = "resolved"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusResolved:
		return true
	default:
		return false
	}
}

// Report is a daily business report. Stock reports own a reconciliation
// cycle; other types (checklists, incidents) only use the generic fields.
type Report struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Type        string     `gorm:"size:32;index" json:"type"`
	Title       string     `gorm:"size:255" json:"title"`
	Status      Status     `gorm:"size:16;default:draft;index" json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ResolvedAt  *time.Time `json:"resolved_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
