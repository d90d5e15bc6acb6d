package handlers

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"alfredoptarigan/resume-screener/internal/models"
	"alfredoptarigan/resume-screener/internal/repositories"
	"alfredoptarigan/resume-screener/internal/services"
)

type ResultHandler struct {
	batchRepo repositories.BatchRepository
	sink      services.ReportSink
}

// NewResultHandler serves batch results. sink may be nil.
func NewResultHandler(batchRepo repositories.BatchRepository, sink services.ReportSink) *ResultHandler {
	return &ResultHandler{
		batchRepo: batchRepo,
		sink:      sink,
	}
}

// HandleGetResult handles GET /result/:id
func (h *ResultHandler) HandleGetResult(c *fiber.Ctx) error {
	batch, err := h.findBatch(c)
	if err != nil {
		return err
	}

	response := models.ResultResponse{
		ID:        batch.ID.String(),
		Status:    string(batch.Status),
		Processed: batch.Processed,
		Total:     batch.Total(),
		Progress:  batch.Progress(),
		Records:   batch.Records,
	}
	if response.Records == nil {
		response.Records = []models.CandidateRecord{}
	}

	if batch.Status == models.BatchCompleted {
		summary := services.Summarize(batch.Records)
		response.Summary = &summary
	}

	return c.JSON(response)
}

// HandleDownloadReport handles GET /result/:id/report.csv
func (h *ResultHandler) HandleDownloadReport(c *fiber.Ctx) error {
	batch, err := h.findCompletedBatch(c)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := services.WriteCSV(&buf, batch.Records); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", services.ReportFilename))
	return c.Send(buf.Bytes())
}

// HandleExport handles POST /result/:id/export
func (h *ResultHandler) HandleExport(c *fiber.Ctx) error {
	if h.sink == nil {
		return fiber.NewError(fiber.StatusNotImplemented, "report export is not configured")
	}

	batch, err := h.findCompletedBatch(c)
	if err != nil {
		return err
	}

	location, err := h.sink.Upload(c.UserContext(), batch.ID.String(), batch.Records)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(models.ExportResponse{
		ID:       batch.ID.String(),
		Location: location,
	})
}

func (h *ResultHandler) findBatch(c *fiber.Ctx) (*models.Batch, error) {
	batchID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid batch ID format")
	}

	batch, err := h.batchRepo.FindByID(batchID)
	if err != nil {
		if errors.Is(err, repositories.ErrBatchNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Batch not found")
		}
		return nil, fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return batch, nil
}

func (h *ResultHandler) findCompletedBatch(c *fiber.Ctx) (*models.Batch, error) {
	batch, err := h.findBatch(c)
	if err != nil {
		return nil, err
	}
	if batch.Status != models.BatchCompleted {
		return nil, fiber.NewError(fiber.StatusConflict, "Batch is still being processed")
	}
	return batch, nil
}
