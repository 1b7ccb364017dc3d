package controllers

import (
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"apigen-backend/config"
	"apigen-backend/generator"
	"apigen-backend/schema"
)

// Handler carries the collaborators shared by every route. DB is nil when
// generation history is disabled.
type Handler struct {
	cfg     *config.Config
	gen     *generator.Generator
	schemas *schema.Provider
	db      *gorm.DB
	log     zerolog.Logger
}

func NewHandler(cfg *config.Config, gen *generator.Generator, schemas *schema.Provider, db *gorm.DB, log zerolog.Logger) *Handler {
	return &Handler{cfg: cfg, gen: gen, schemas: schemas, db: db, log: log}
}
