package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"apigen-backend/schema"
)

const schemaErrorMessage = "Erro ao gerar a API"

// GetSchema returns the definitions document of ?dbName= wrapped in a
// {status, body} envelope.
func (h *Handler) GetSchema(c *fiber.Ctx) error {
	dbName := c.Query("dbName")

	raw, err := h.schemas.Raw(dbName)
	if err != nil {
		h.log.Error().Err(err).Str("db", dbName).Msg("schema lookup failed")
		return schemaError(c)
	}

	return c.JSON(fiber.Map{
		"status": fiber.StatusOK,
		"body":   raw,
	})
}

// GetTableFields returns the fields of one table in the shape expected by
// POST /api/generate.
func (h *Handler) GetTableFields(c *fiber.Ctx) error {
	dbName := c.Params("dbName")
	tableName := c.Params("tableName")

	fields, err := h.schemas.TableFields(dbName, tableName)
	if err != nil {
		if errors.Is(err, schema.ErrTableNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"status": fiber.StatusNotFound,
				"body":   fiber.Map{"message": "table not found"},
			})
		}
		h.log.Error().Err(err).Str("db", dbName).Str("table", tableName).Msg("schema lookup failed")
		return schemaError(c)
	}

	return c.JSON(fiber.Map{
		"status": fiber.StatusOK,
		"body": fiber.Map{
			"tableName": tableName,
			"fields":    fields,
		},
	})
}

func schemaError(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"status": fiber.StatusInternalServerError,
		"body":   fiber.Map{"message": schemaErrorMessage},
	})
}
