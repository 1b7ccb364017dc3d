// Package synth renders the three Progress ABL artifacts of a generated API:
// the temp-table include, the API entry point and the service program.
//
// Every synthesizer is a pure function of its input. Templates are fixed
// skeletons embedded in the binary; the only insertion points are the
// fields of Input.
package synth

import (
	"embed"
	"fmt"
	"strings"
	"text/template"
	"unicode"
	"unicode/utf8"

	"apigen-backend/models"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

const (
	tempTableTemplate = "temptable.i.tmpl"
	apiTemplate       = "api.p.tmpl"
	serviceTemplate   = "service.p.tmpl"
)

var skeletons = template.Must(
	template.New("synth").
		Delims("[[", "]]").
		Option("missingkey=error").
		Funcs(template.FuncMap{
			"ablstr": ABLString,
			"join":   strings.Join,
		}).
		ParseFS(templateFS, "templates/*.tmpl"),
)

// Input carries every value a skeleton may insert.
type Input struct {
	ApiName    string
	ClassName  string
	TableName  string
	ApiVersion string
	ModuleName string
	ModuleDir  string
	DboProgram string
	DboInclude string
	HasCrud    bool
	Fields     []models.Field
	Columns    []string
}

// ClassName upper-cases the first character of apiName and keeps the rest
// unchanged.
func ClassName(apiName string) string {
	r, size := utf8.DecodeRuneInString(apiName)
	if r == utf8.RuneError {
		return apiName
	}
	return string(unicode.ToUpper(r)) + apiName[size:]
}

// ABLString escapes s for use inside a single- or double-quoted ABL string
// literal. The ABL escape character is the tilde.
func ABLString(s string) string {
	return strings.NewReplacer(`~`, `~~`, `'`, `~'`, `"`, `~"`, "\n", `~n`, "\r", `~r`).Replace(s)
}

// NewInput derives the template input for a request.
func NewInput(req *models.GenerationRequest) Input {
	in := Input{
		ApiName:    req.ApiName,
		ClassName:  ClassName(req.ApiName),
		TableName:  req.TableName,
		ApiVersion: req.ApiVersion,
		ModuleName: req.ModuleName,
		ModuleDir:  strings.Trim(req.ModuleDir, "/"),
		DboProgram: req.DboProgram,
		HasCrud:    req.HasCrud(),
		Fields:     req.Fields,
	}
	if in.HasCrud {
		in.DboInclude = strings.TrimSuffix(req.DboProgram, ".p") + ".i"
	}
	for _, f := range models.ColumnFields(req.Fields) {
		in.Columns = append(in.Columns, f.Name)
	}
	return in
}

// TempTable emits the temp-table include: one FIELD line per input field,
// in input order.
func TempTable(apiName string, fields []models.Field) (string, error) {
	return render(tempTableTemplate, Input{
		ApiName:   apiName,
		ClassName: ClassName(apiName),
		Fields:    fields,
	})
}

// API emits the entry-point program. pi-get and pi-query are always
// present; hasCrud adds pi-create, pi-update and pi-delete.
func API(apiName, apiVersion, moduleName, moduleDir string, hasCrud bool) (string, error) {
	return render(apiTemplate, Input{
		ApiName:    apiName,
		ClassName:  ClassName(apiName),
		ApiVersion: apiVersion,
		ModuleName: moduleName,
		ModuleDir:  strings.Trim(moduleDir, "/"),
		HasCrud:    hasCrud,
	})
}

// Service emits the business-object glue program. The write paths are only
// emitted when dboProgram is set.
func Service(tableName, apiName, moduleName, moduleDir string, fields []models.Field, dboProgram string) (string, error) {
	in := NewInput(&models.GenerationRequest{
		ApiName:    apiName,
		TableName:  tableName,
		ModuleName: moduleName,
		ModuleDir:  moduleDir,
		DboProgram: dboProgram,
		Fields:     fields,
	})
	return render(serviceTemplate, in)
}

func render(name string, in Input) (string, error) {
	var b strings.Builder
	if err := skeletons.ExecuteTemplate(&b, name, in); err != nil {
		return "", fmt.Errorf("render %s: %w", name, err)
	}
	return b.String(), nil
}

// Filenames returns the API, service and temp-table file names for apiName.
func Filenames(apiName string) (api, service, tempTable string) {
	class := ClassName(apiName)
	return apiName + ".p", "api" + class + ".p", "api" + class + ".i"
}

// Artifacts runs the three synthesizers in their fixed order: temp-table,
// API entry point, service.
func Artifacts(req *models.GenerationRequest) ([]models.GeneratedArtifact, error) {
	apiFile, serviceFile, tempTableFile := Filenames(req.ApiName)

	tempTable, err := TempTable(req.ApiName, req.Fields)
	if err != nil {
		return nil, err
	}
	api, err := API(req.ApiName, req.ApiVersion, req.ModuleName, req.ModuleDir, req.HasCrud())
	if err != nil {
		return nil, err
	}
	service, err := Service(req.TableName, req.ApiName, req.ModuleName, req.ModuleDir, req.Fields, req.DboProgram)
	if err != nil {
		return nil, err
	}

	return []models.GeneratedArtifact{
		{Role: models.RoleTempTable, Filename: tempTableFile, Content: tempTable},
		{Role: models.RoleAPI, Filename: apiFile, Content: api},
		{Role: models.RoleService, Filename: serviceFile, Content: service},
	}, nil
}
