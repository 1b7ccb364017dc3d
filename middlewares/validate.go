package middlewares

import (
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"apigen-backend/utils"
)

var (
	ablIdentPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*$`)
	ablFieldPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_#$%&-]*$`)
	dboPattern      = regexp.MustCompile(`^[A-Za-z0-9_/-]+\.p$`)
)

// ablTypes are the primitive data types a temp-table FIELD may declare.
var ablTypes = map[string]struct{}{
	"character": {}, "integer": {}, "int64": {}, "decimal": {}, "logical": {},
	"date": {}, "datetime": {}, "datetime-tz": {}, "rowid": {}, "recid": {},
	"raw": {}, "blob": {}, "clob": {}, "handle": {}, "longchar": {},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report json names so messages match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("abl_ident", func(fl validator.FieldLevel) bool {
		return ablIdentPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("abl_field", func(fl validator.FieldLevel) bool {
		return ablFieldPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("abl_type", func(fl validator.FieldLevel) bool {
		_, ok := ablTypes[strings.ToLower(fl.Field().String())]
		return ok
	})
	_ = v.RegisterValidation("module_path", func(fl validator.FieldLevel) bool {
		return isModulePath(fl.Field().String())
	})
	_ = v.RegisterValidation("dbo_program", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return dboPattern.MatchString(s) && isModulePath(s)
	})
	return v
}

// isModulePath accepts relative slash separated paths whose segments are
// ABL identifiers, e.g. "cad" or "cdp/api".
func isModulePath(s string) bool {
	if s == "" || strings.HasPrefix(s, "/") || path.Clean(s) != strings.TrimSuffix(s, "/") {
		return false
	}
	for _, seg := range strings.Split(strings.TrimSuffix(s, "/"), "/") {
		if seg == "" || seg == "." || seg == ".." {
			return false
		}
		if !ablIdentPattern.MatchString(strings.TrimSuffix(seg, ".p")) {
			return false
		}
	}
	return true
}

// BindAndValidate parses the request body into dst, trims its strings and
// validates it.
// Returns fiber.ErrBadRequest for parse errors and a validator.ValidationErrors for validation issues.
func BindAndValidate(c *fiber.Ctx, dst interface{}) error {
	if err := c.BodyParser(dst); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	utils.NormalizeDTO(dst)
	return validate.Struct(dst)
}

// ValidateStruct validates any struct value using the shared validator instance.
func ValidateStruct(v interface{}) error {
	return validate.Struct(v)
}
