package media

import (
	"context"
	"time"

	"report-manager/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature wires the media service into the application.
type Feature struct {
	service *Service
}

// NewFeature creates the media feature.
func NewFeature(client storage.Client, bucket string, logger *zap.Logger) *Feature {
	return &Feature{service: NewService(client, bucket, logger)}
}

func (f *Feature) Name() string {
	return "media"
}

func (f *Feature) IsEnabled() bool {
	return f.service.client != nil
}

func (f *Feature) Load(app fiber.Router) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.service.EnsureBucket(ctx); err != nil {
		return err
	}
	NewHandler(f.service).RegisterRoutes(app)
	return nil
}
