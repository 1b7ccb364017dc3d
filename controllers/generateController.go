package controllers

import (
	"bytes"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"

	"apigen-backend/archive"
	"apigen-backend/database"
	"apigen-backend/middlewares"
	"apigen-backend/models"
	"apigen-backend/synth"
)

// Generate synthesizes the three artifacts and answers with the zip.
// Any synthesis or archive fault is a plain text 500.
func (h *Handler) Generate(c *fiber.Ctx) error {
	var req models.GenerationRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := h.gen.WriteArchive(&req, &buf); err != nil {
		h.log.Error().Err(err).Str("api", req.ApiName).Msg("generation failed")
		return c.Status(fiber.StatusInternalServerError).SendString("Internal Server Error")
	}

	if id := h.recordGeneration(&req, int64(buf.Len())); id != "" {
		c.Set("X-Generation-Id", id)
	}

	c.Attachment(h.cfg.ArchiveName)
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}

type previewArtifact struct {
	Role        models.ArtifactRole `json:"role"`
	Filename    string              `json:"filename"`
	ArchivePath string              `json:"archivePath"`
	Content     string              `json:"content"`
}

// Preview returns the synthesized sources as JSON without staging them.
func (h *Handler) Preview(c *fiber.Ctx) error {
	var req models.GenerationRequest
	if err := middlewares.BindAndValidate(c, &req); err != nil {
		return err
	}

	arts, err := synth.Artifacts(&req)
	if err != nil {
		return err
	}

	out := make([]previewArtifact, 0, len(arts))
	for _, a := range arts {
		out = append(out, previewArtifact{
			Role:        a.Role,
			Filename:    a.Filename,
			ArchivePath: archive.Path(req.ModuleDir, req.ApiVersion, a),
			Content:     a.Content,
		})
	}
	return c.JSON(fiber.Map{"artifacts": out})
}

// recordGeneration stores the request in the history table. Failures are
// logged and never affect the response.
func (h *Handler) recordGeneration(req *models.GenerationRequest, size int64) string {
	if h.db == nil {
		return ""
	}

	snapshot, err := json.Marshal(req)
	if err != nil {
		h.log.Warn().Err(err).Msg("encode generation snapshot")
		return ""
	}

	rec := &models.GenerationRecord{
		ApiName:     req.ApiName,
		TableName:   req.TableName,
		ApiVersion:  req.ApiVersion,
		ModuleDir:   req.ModuleDir,
		HasCrud:     req.HasCrud(),
		FieldCount:  len(req.Fields),
		Request:     datatypes.JSON(snapshot),
		ArchiveSize: size,
	}
	if err := database.SaveGeneration(h.db, rec); err != nil {
		h.log.Warn().Err(err).Str("api", req.ApiName).Msg("record generation")
		return ""
	}
	return rec.Id
}
