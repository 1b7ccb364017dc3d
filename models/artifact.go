package models

type ArtifactRole string

const (
	RoleAPI       ArtifactRole = "API"
	RoleService   ArtifactRole = "SERVICE"
	RoleTempTable ArtifactRole = "TEMP_TABLE"
)

// GeneratedArtifact is one synthesized source file. StagingPath is empty
// until the orchestrator writes it to disk.
type GeneratedArtifact struct {
	Role        ArtifactRole `json:"role"`
	Filename    string       `json:"filename"`
	Content     string       `json:"content"`
	StagingPath string       `json:"-"`
}
