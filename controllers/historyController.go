package controllers

import (
	"bytes"
	"errors"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"apigen-backend/database"
	"apigen-backend/middlewares"
	"apigen-backend/models"
	"apigen-backend/utils"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func (h *Handler) ListGenerations(c *fiber.Ctx) error {
	if h.db == nil {
		return fiber.NewError(fiber.StatusNotFound, "generation history is disabled")
	}

	limit := utils.ParseIntDefault(c.Query("limit"), defaultPageSize)
	if limit == 0 || limit > maxPageSize {
		limit = maxPageSize
	}
	offset := utils.ParseIntDefault(c.Query("offset"), 0)

	recs, total, err := database.ListGenerations(h.db, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"generations": recs,
		"total":       total,
		"limit":       limit,
		"offset":      offset,
	})
}

func (h *Handler) GetGeneration(c *fiber.Ctx) error {
	rec, err := h.findGeneration(c)
	if err != nil {
		return err
	}
	return c.JSON(rec)
}

// DownloadGeneration rebuilds the archive of a stored generation.
func (h *Handler) DownloadGeneration(c *fiber.Ctx) error {
	rec, err := h.findGeneration(c)
	if err != nil {
		return err
	}

	var req models.GenerationRequest
	if err := json.Unmarshal(rec.Request, &req); err != nil {
		return err
	}
	if err := middlewares.ValidateStruct(&req); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.gen.WriteArchive(&req, &buf); err != nil {
		h.log.Error().Err(err).Str("generation", rec.Id).Msg("regeneration failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	c.Attachment(h.cfg.ArchiveName)
	return c.Send(buf.Bytes())
}

func (h *Handler) findGeneration(c *fiber.Ctx) (*models.GenerationRecord, error) {
	if h.db == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "generation history is disabled")
	}
	rec, err := database.FindGeneration(h.db, c.Params("id"))
	if err != nil {
		if errors.Is(err, database.ErrGenerationNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "generation not found")
		}
		return nil, err
	}
	return rec, nil
}
