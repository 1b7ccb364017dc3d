// Package schema reads the table definition files exported from the
// Progress databases (db_<name>_definitions.json).
package schema

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-json"
	"github.com/stoewer/go-strcase"

	"apigen-backend/models"
)

var (
	ErrNotFound  = errors.New("schema definition not found")
	ErrMalformed = errors.New("schema definition is malformed")

	ErrTableNotFound = errors.New("table not found")
)

var dbNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Document is the parsed content of one definitions file. Files are either
// an object with a "tables" array or a bare array of tables.
type Document struct {
	DatabaseName string                 `json:"databaseName,omitempty"`
	Tables       []models.DatabaseTable `json:"tables"`
}

type Provider struct {
	dir string
}

func NewProvider(dir string) *Provider {
	return &Provider{dir: dir}
}

// Path returns the definitions file for dbName.
func (p *Provider) Path(dbName string) string {
	return filepath.Join(p.dir, fmt.Sprintf("db_%s_definitions.json", dbName))
}

// Raw returns the definitions file of dbName after checking it is valid JSON.
func (p *Provider) Raw(dbName string) (json.RawMessage, error) {
	if !dbNamePattern.MatchString(dbName) {
		return nil, fmt.Errorf("%w: invalid database name %q", ErrNotFound, dbName)
	}
	data, err := os.ReadFile(p.Path(dbName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, dbName)
		}
		return nil, fmt.Errorf("read schema %s: %w", dbName, err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("%w: %s", ErrMalformed, dbName)
	}
	return json.RawMessage(data), nil
}

// Load parses the definitions file of dbName.
func (p *Provider) Load(dbName string) (*Document, error) {
	raw, err := p.Raw(dbName)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		err = json.Unmarshal(raw, &doc.Tables)
	} else {
		err = json.Unmarshal(raw, doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformed, dbName, err)
	}
	return doc, nil
}

// TableFields returns the fields of one table ready to be used in a
// GenerationRequest. Missing serialize names default to the lower camel
// case of the field name, and the row identity is appended when absent.
func (p *Provider) TableFields(dbName, tableName string) ([]models.Field, error) {
	doc, err := p.Load(dbName)
	if err != nil {
		return nil, err
	}

	for _, t := range doc.Tables {
		if !strings.EqualFold(t.TableName, tableName) {
			continue
		}
		return ToFields(t.Fields), nil
	}
	return nil, fmt.Errorf("%w: %s in %s", ErrTableNotFound, tableName, dbName)
}

func ToFields(in []models.SchemaField) []models.Field {
	out := make([]models.Field, 0, len(in)+1)
	hasRowID := false
	for _, sf := range in {
		if sf.Name == models.RowIDField {
			hasRowID = true
		}
		alias := sf.SerializeName
		if alias == "" {
			alias = SerializeName(sf.Name)
		}
		out = append(out, models.Field{
			Name:          sf.Name,
			Type:          strings.ToLower(sf.Type),
			SerializeName: alias,
		})
	}
	if !hasRowID {
		out = append(out, models.Field{Name: models.RowIDField, Type: "character", SerializeName: "id"})
	}
	return out
}

// SerializeName derives the default JSON alias of an ABL field name,
// e.g. cod-cli becomes codCli.
func SerializeName(field string) string {
	if field == models.RowIDField {
		return "id"
	}
	return strcase.LowerCamelCase(field)
}
