// Package archive packs staged artifacts into the zip delivered to the caller.
package archive

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/zip"

	"apigen-backend/models"
)

// Entry maps one staged artifact to its location inside the archive.
type Entry struct {
	Artifact    models.GeneratedArtifact
	ArchivePath string
}

// Path computes the archive location of an artifact. API programs nest
// under the version directory; service programs and temp-table includes
// live directly under services/.
func Path(moduleDir, apiVersion string, a models.GeneratedArtifact) string {
	if a.Role == models.RoleAPI {
		return path.Join(moduleDir, "api", apiVersion, a.Filename)
	}
	return path.Join(moduleDir, "services", a.Filename)
}

// Entries maps artifacts to archive entries, keeping their order.
func Entries(moduleDir, apiVersion string, artifacts []models.GeneratedArtifact) []Entry {
	entries := make([]Entry, 0, len(artifacts))
	for _, a := range artifacts {
		entries = append(entries, Entry{Artifact: a, ArchivePath: Path(moduleDir, apiVersion, a)})
	}
	return entries
}

// Build streams every staged file into a deflate-compressed zip written to
// w. It returns nil only after the zip directory has been flushed; on error
// the bytes already written to w must be discarded.
func Build(w io.Writer, entries []Entry) error {
	zw := zip.NewWriter(w)
	zw.RegisterCompressor(zip.Deflate, func(out io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(out, flate.BestCompression)
	})

	for _, e := range entries {
		if err := addFile(zw, e); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize archive: %w", err)
	}
	return nil
}

func addFile(zw *zip.Writer, e Entry) error {
	if e.Artifact.StagingPath == "" {
		return fmt.Errorf("artifact %s was not staged", e.Artifact.Filename)
	}

	src, err := os.Open(e.Artifact.StagingPath)
	if err != nil {
		return fmt.Errorf("open staged file: %w", err)
	}
	defer func() {
		_ = src.Close()
	}()

	info, err := src.Stat()
	if err != nil {
		return fmt.Errorf("stat staged file: %w", err)
	}

	header, err := zip.FileInfoHeader(info)
	if err != nil {
		return err
	}
	header.Name = e.ArchivePath
	header.Method = zip.Deflate

	dst, err := zw.CreateHeader(header)
	if err != nil {
		return fmt.Errorf("create entry %s: %w", e.ArchivePath, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("write entry %s: %w", e.ArchivePath, err)
	}
	return nil
}
