package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

const uploadField = "resumes"

type ScreenHandler struct {
	batchRepo     repositories.BatchRepository
	uploadService services.UploadService
	screener      services.ScreenerService
	worker        services.Worker
	sendEmail     bool
}

// NewScreenHandler builds the upload endpoint. sendEmail is the default used
// when the request does not carry a send_email field.
func NewScreenHandler(
	batchRepo repositories.BatchRepository,
	uploadService services.UploadService,
	screener services.ScreenerService,
	worker services.Worker,
	sendEmail bool,
) *ScreenHandler {
	return &ScreenHandler{
		batchRepo:     batchRepo,
		uploadService: uploadService,
		screener:      screener,
		worker:        worker,
		sendEmail:     sendEmail,
	}
}

// HandleScreen handles POST /screen
func (h *ScreenHandler) HandleScreen(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "failed to parse multipart form",
		})
	}

	sendEmail := h.sendEmail
	if values := form.Value["send_email"]; len(values) > 0 {
		parsed, err := strconv.ParseBool(values[0])
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "send_email must be a boolean",
			})
		}
		sendEmail = parsed
	}

	files := form.File[uploadField]
	if len(files) == 0 {
		return c.JSON(models.ScreenResponse{
			Status:  "waiting",
			Message: "Waiting for PDF uploads...",
		})
	}

	documents := make([]models.Document, 0, len(files))
	for _, file := range files {
		doc, err := h.uploadService.ReadUpload(file)
		if err != nil {
			status := fiber.StatusInternalServerError
			if errors.Is(err, services.ErrInvalidFileType) || errors.Is(err, services.ErrFileTooLarge) {
				status = fiber.StatusBadRequest
			}
			return c.Status(status).JSON(fiber.Map{
				"error": err.Error(),
				"file":  file.Filename,
			})
		}
		documents = append(documents, doc)
	}

	batch := &models.Batch{
		ID:        uuid.New(),
		Status:    models.BatchQueued,
		SendEmail: sendEmail,
		Documents: documents,
		CreatedAt: time.Now(),
	}
	if err := h.batchRepo.Create(batch); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create screening batch",
		})
	}

	h.worker.EnqueueJob(batch.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.ScreenResponse{
		ID:     batch.ID.String(),
		Status: string(models.BatchQueued),
		Total:  batch.Total(),
	})
}

// HandleProfile handles GET /profile
func (h *ScreenHandler) HandleProfile(c *fiber.Ctx) error {
	profile := h.screener.Profile()
	return c.JSON(models.ProfileResponse{
		Cutoff:     profile.Cutoff,
		SkillCount: len(profile.Skills),
		Skills:     profile.Skills,
		Education:  profile.Education,
	})
}
