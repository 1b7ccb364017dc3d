package archive

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apigen-backend/models"
)

func stage(t *testing.T, dir string, a models.GeneratedArtifact) models.GeneratedArtifact {
	t.Helper()
	a.StagingPath = filepath.Join(dir, a.Filename)
	require.NoError(t, os.WriteFile(a.StagingPath, []byte(a.Content), 0o644))
	return a
}

func readZip(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	out := make(map[string]string, len(zr.File))
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func TestPath(t *testing.T) {
	tests := []struct {
		name string
		art  models.GeneratedArtifact
		want string
	}{
		{"api", models.GeneratedArtifact{Role: models.RoleAPI, Filename: "cliente.p"}, "cad/api/v1/cliente.p"},
		{"service", models.GeneratedArtifact{Role: models.RoleService, Filename: "apiCliente.p"}, "cad/services/apiCliente.p"},
		{"temp-table", models.GeneratedArtifact{Role: models.RoleTempTable, Filename: "apiCliente.i"}, "cad/services/apiCliente.i"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Path("cad", "v1", tt.art))
		})
	}
}

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	arts := []models.GeneratedArtifact{
		stage(t, dir, models.GeneratedArtifact{Role: models.RoleTempTable, Filename: "apiCliente.i", Content: "DEFINE TEMP-TABLE {1}"}),
		stage(t, dir, models.GeneratedArtifact{Role: models.RoleAPI, Filename: "cliente.p", Content: "PROCEDURE pi-get:"}),
		stage(t, dir, models.GeneratedArtifact{Role: models.RoleService, Filename: "apiCliente.p", Content: "PROCEDURE pi-get-v1:"}),
	}

	var buf bytes.Buffer
	require.NoError(t, Build(&buf, Entries("cad/sub", "v2", arts)))

	files := readZip(t, buf.Bytes())
	assert.Equal(t, map[string]string{
		"cad/sub/services/apiCliente.i": "DEFINE TEMP-TABLE {1}",
		"cad/sub/api/v2/cliente.p":      "PROCEDURE pi-get:",
		"cad/sub/services/apiCliente.p": "PROCEDURE pi-get-v1:",
	}, files)
}

func TestBuild_MissingStagedFile(t *testing.T) {
	arts := []models.GeneratedArtifact{
		{Role: models.RoleAPI, Filename: "cliente.p", StagingPath: filepath.Join(t.TempDir(), "gone.p")},
	}
	err := Build(io.Discard, Entries("cad", "v1", arts))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestBuild_Unstaged(t *testing.T) {
	arts := []models.GeneratedArtifact{{Role: models.RoleAPI, Filename: "cliente.p", Content: "x"}}
	assert.Error(t, Build(io.Discard, Entries("cad", "v1", arts)))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("stream closed") }

func TestBuild_StreamFault(t *testing.T) {
	dir := t.TempDir()
	arts := []models.GeneratedArtifact{
		stage(t, dir, models.GeneratedArtifact{Role: models.RoleAPI, Filename: "cliente.p", Content: "PROCEDURE pi-get:"}),
	}
	assert.Error(t, Build(failingWriter{}, Entries("cad", "v1", arts)))
}
