package stock

import (
	"report-manager/feature/report"
	"report-manager/feature/stock/models"
	"report-manager/feature/stock/pos"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature wires the stock reconciliation engine into the application.
type Feature struct {
	db      *gorm.DB
	service *Service
}

// NewFeature creates the stock feature.
func NewFeature(db *gorm.DB, posClient pos.Client, reports *report.Service, logger *zap.Logger) *Feature {
	return &Feature{
		db:      db,
		service: NewService(db, posClient, reports, logger),
	}
}

func (f *Feature) Name() string {
	return "stock"
}

func (f *Feature) IsEnabled() bool {
	return f.db != nil
}

func (f *Feature) Load(app fiber.Router) error {
	if err := f.db.AutoMigrate(
		&models.StockCycle{},
		&models.StockItem{},
		&pos.Credential{},
	); err != nil {
		return err
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
