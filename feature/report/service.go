package report

import (
	"context"
	"errors"
	"time"

	"report-manager/core/faults"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles report operations.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new report service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{db: db, logger: logger}
}

// Get returns a report by id.
func (s *Service) Get(ctx context.Context, id uint) (*Report, error) {
	var rep Report
	if err := s.db.WithContext(ctx).First(&rep, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, faults.New(faults.KindNotFound, "report %d not found", id)
		}
		return nil, err
	}
	return &rep, nil
}

// Create creates a report in draft status.
func (s *Service) Create(ctx context.Context, reportType, title string) (*Report, error) {
	if reportType == "" {
		return nil, faults.New(faults.KindValidation, "report type is required")
	}

	rep := Report{
		Type:   reportType,
		Title:  title,
		Status: StatusDraft,
	}
	if err := s.db.WithContext(ctx).Create(&rep).Error; err != nil {
		return nil, err
	}

	s.logger.Info("Report created",
		zap.Uint("report_id", rep.ID),
		zap.String("type", rep.Type),
	)
	return &rep, nil
}

// Transition moves a report from one status to the next and stamps the
// transition time. The update is a compare-and-swap on the current status:
// if the report is no longer in `from`, the call fails with a precondition
// error and the report is left untouched.
func (s *Service) Transition(ctx context.Context, id uint, from, to Status) (*Report, error) {
	if !to.Valid() {
		return nil, faults.New(faults.KindValidation, "invalid status %q", to)
	}

	rep, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]any{"status": to}
	switch to {
	case StatusSubmitted:
		updates["submitted_at"] = now
	case StatusResolved:
		updates["resolved_at"] = now
	}

	res := s.db.WithContext(ctx).
		Model(&Report{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, faults.New(faults.KindPrecondition,
			"report %d is %q, expected %q", id, rep.Status, from)
	}

	s.logger.Info("Report status changed",
		zap.Uint("report_id", id),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return s.Get(ctx, id)
}
