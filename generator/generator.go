// Package generator stages the synthesized artifacts of one request and
// turns them into the archive handed back to the caller.
package generator

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"apigen-backend/archive"
	"apigen-backend/models"
	"apigen-backend/synth"
)

var ErrInvalidRequest = errors.New("invalid generation request")

// Paths are the staged locations of the three artifacts.
type Paths struct {
	API       string
	Service   string
	TempTable string
}

// Staging is the per-request staging area. Every path lives below Root,
// which is keyed by a fresh id so concurrent requests for the same module
// and api never share files.
type Staging struct {
	ID        string
	Root      string
	Paths     Paths
	Artifacts []models.GeneratedArtifact
}

// Release removes the staging area.
func (s *Staging) Release() error {
	if s == nil || s.Root == "" {
		return nil
	}
	return os.RemoveAll(s.Root)
}

type Generator struct {
	stagingDir string
	log        zerolog.Logger
}

func New(stagingDir string, log zerolog.Logger) *Generator {
	return &Generator{stagingDir: stagingDir, log: log}
}

// Generate synthesizes the temp-table, API and service artifacts, in that
// order, and writes them below a new staging root. The caller owns the
// returned Staging and must Release it.
func (g *Generator) Generate(req *models.GenerationRequest) (*Staging, error) {
	if err := checkRequest(req); err != nil {
		return nil, err
	}

	artifacts, err := synth.Artifacts(req)
	if err != nil {
		return nil, fmt.Errorf("synthesize: %w", err)
	}

	id := uuid.NewString()
	st := &Staging{
		ID:   id,
		Root: filepath.Join(g.stagingDir, id),
	}

	for i := range artifacts {
		dest := filepath.Join(st.Root, filepath.FromSlash(archive.Path(req.ModuleDir, req.ApiVersion, artifacts[i])))
		if err := writeFile(dest, artifacts[i].Content); err != nil {
			_ = st.Release()
			return nil, err
		}
		artifacts[i].StagingPath = dest

		switch artifacts[i].Role {
		case models.RoleAPI:
			st.Paths.API = dest
		case models.RoleService:
			st.Paths.Service = dest
		case models.RoleTempTable:
			st.Paths.TempTable = dest
		}
	}
	st.Artifacts = artifacts

	g.log.Debug().
		Str("api", req.ApiName).
		Str("module_dir", req.ModuleDir).
		Str("staging_id", id).
		Msg("artifacts staged")

	return st, nil
}

// WriteArchive runs a full generation and streams the zip to w. Staged
// files are removed before it returns, whatever the outcome.
func (g *Generator) WriteArchive(req *models.GenerationRequest, w io.Writer) error {
	start := time.Now()

	st, err := g.Generate(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Release(); err != nil {
			g.log.Warn().Err(err).Str("staging_id", st.ID).Msg("release staging")
		}
	}()

	if err := archive.Build(w, archive.Entries(req.ModuleDir, req.ApiVersion, st.Artifacts)); err != nil {
		return fmt.Errorf("build archive: %w", err)
	}

	g.log.Info().
		Str("api", req.ApiName).
		Str("module_dir", req.ModuleDir).
		Bool("crud", req.HasCrud()).
		Int("fields", len(req.Fields)).
		Dur("took", time.Since(start)).
		Msg("api generated")
	return nil
}

// writeFile creates the parent directories when absent and overwrites any
// previous file at dest.
func writeFile(dest, content string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create staging dir: %w", err)
	}
	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(dest), err)
	}
	return nil
}

// checkRequest guards the staging layout only; field level rules are
// enforced at the HTTP boundary.
func checkRequest(req *models.GenerationRequest) error {
	if req == nil {
		return fmt.Errorf("%w: empty request", ErrInvalidRequest)
	}
	if strings.TrimSpace(req.ApiName) == "" {
		return fmt.Errorf("%w: apiName is required", ErrInvalidRequest)
	}
	for _, p := range []string{req.ModuleDir, req.ApiVersion, req.ApiName} {
		if p == "" || !filepath.IsLocal(filepath.FromSlash(p)) {
			return fmt.Errorf("%w: %q is not a relative path", ErrInvalidRequest, p)
		}
	}
	return nil
}
