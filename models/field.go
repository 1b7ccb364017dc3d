package models

// RowIDField is the reserved row identity column. It is left out of FIELDS
// lists but always travels in the output record.
const RowIDField = "r-rowid"

type Field struct {
	Name          string `json:"name" validate:"required,abl_field"`
	Type          string `json:"type" validate:"required,abl_type"`
	SerializeName string `json:"serializeName"`
}

// GenerationRequest is the body of POST /api/generate.
type GenerationRequest struct {
	ApiName    string  `json:"apiName" validate:"required,abl_ident"`
	TableName  string  `json:"tableName" validate:"required,abl_ident"`
	ApiVersion string  `json:"apiVersion" validate:"required,abl_ident"`
	ModuleName string  `json:"moduleName" validate:"required,abl_ident"`
	ModuleDir  string  `json:"moduleDir" validate:"required,module_path"`
	DboProgram string  `json:"dboProgram" validate:"omitempty,dbo_program"`
	Fields     []Field `json:"fields" validate:"required,min=1,dive"`
}

// HasCrud reports whether create/update/delete code is generated.
func (r *GenerationRequest) HasCrud() bool {
	return r.DboProgram != ""
}

// ColumnFields returns the fields that map to physical table columns,
// i.e. everything except the row identity.
func ColumnFields(fields []Field) []Field {
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Name == RowIDField {
			continue
		}
		out = append(out, f)
	}
	return out
}
