package media

import (
	"report-manager/core/faults"
	"report-manager/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for media.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the media routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/media")
	group.Post("/", h.HandleUpload)
	// References contain slashes, so match the rest of the path.
	group.Get("/*", h.HandleFetch)
}

// HandleUpload accepts a multipart photo and returns its reference.
// @Summary Upload Photo
// @Description Upload photo evidence; the returned photo_ref is attached to stock items.
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Photo File"
// @Success 201 {object} map[string]string "Photo Reference"
// @Failure 400 {object} map[string]string "Validation Error"
// @Router /media [post]
func (h *Handler) HandleUpload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing file field"})
	}

	file, err := fileHeader.Open()
	if err != nil {
		l.Error("Upload open failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	defer file.Close()

	ref, err := h.service.Upload(c.Context(), fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		l.Error("Photo upload failed", zap.Error(err))
		return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
			"kind":  faults.KindOf(err),
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"photo_ref": ref})
}

// HandleFetch streams a stored photo.
// @Summary Fetch Photo
// @Tags media
// @Produce octet-stream
// @Param ref path string true "Photo Reference"
// @Success 200 {file} binary "Photo"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /media/{ref} [get]
func (h *Handler) HandleFetch(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	ref := c.Params("*")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing photo reference"})
	}

	body, contentType, err := h.service.Fetch(c.Context(), ref)
	if err != nil {
		l.Error("Photo fetch failed", zap.Error(err), zap.String("photo_ref", ref))
		return c.Status(faults.HTTPStatus(err)).JSON(fiber.Map{
			"kind":  faults.KindOf(err),
			"error": err.Error(),
		})
	}

	if contentType != "" {
		c.Set(fiber.HeaderContentType, contentType)
	}
	return c.SendStream(body)
}
