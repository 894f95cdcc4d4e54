package report

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the report service into the application.
type Feature struct {
	service *Service
}

// NewFeature creates the report feature.
func NewFeature(db *gorm.DB, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(db, logger)}
}

// Service exposes the underlying service for features that collaborate
// with reports (the stock engine drives the submit transition).
func (f *Feature) Service() *Service {
	return f.service
}

func (f *Feature) Name() string {
	return "report"
}

func (f *Feature) IsEnabled() bool {
	return f.service.db != nil
}

func (f *Feature) Load(app fiber.Router) error {
	if err := f.service.db.AutoMigrate(&Report{}); err != nil {
		return err
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
