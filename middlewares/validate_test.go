package middlewares

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apigen-backend/models"
)

func validRequest() models.GenerationRequest {
	return models.GenerationRequest{
		ApiName:    "cliente",
		TableName:  "cliente",
		ApiVersion: "v1",
		ModuleName: "CAD",
		ModuleDir:  "cad",
		Fields: []models.Field{
			{Name: "cod-cliente", Type: "integer", SerializeName: "codCliente"},
			{Name: "r-rowid", Type: "character", SerializeName: "id"},
		},
	}
}

func TestValidateStruct_Accepts(t *testing.T) {
	req := validRequest()
	assert.NoError(t, ValidateStruct(&req))

	req.DboProgram = "cadbo/bocliente.p"
	req.ModuleDir = "cdp/api"
	assert.NoError(t, ValidateStruct(&req))
}

func TestValidateStruct_Rejects(t *testing.T) {
	cases := map[string]func(r *models.GenerationRequest){
		"missing api":       func(r *models.GenerationRequest) { r.ApiName = "" },
		"api with quote":    func(r *models.GenerationRequest) { r.ApiName = `cli"ente` },
		"api with dots":     func(r *models.GenerationRequest) { r.ApiName = "../etc" },
		"version traversal": func(r *models.GenerationRequest) { r.ApiVersion = ".." },
		"absolute dir":      func(r *models.GenerationRequest) { r.ModuleDir = "/cad" },
		"dir traversal":     func(r *models.GenerationRequest) { r.ModuleDir = "cad/../x" },
		"dbo not .p":        func(r *models.GenerationRequest) { r.DboProgram = "cadbo/bocliente" },
		"no fields":         func(r *models.GenerationRequest) { r.Fields = nil },
		"bad field type":    func(r *models.GenerationRequest) { r.Fields[0].Type = "varchar" },
		"bad field name":    func(r *models.GenerationRequest) { r.Fields[0].Name = "cod cliente" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := validRequest()
			mutate(&req)
			assert.Error(t, ValidateStruct(&req))
		})
	}
}

func TestValidateStruct_TypeIsCaseInsensitive(t *testing.T) {
	req := validRequest()
	req.Fields[0].Type = "CHARACTER"
	assert.NoError(t, ValidateStruct(&req))
}

func newValidateApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zerolog.Nop())})
	app.Post("/", func(c *fiber.Ctx) error {
		var req models.GenerationRequest
		if err := BindAndValidate(c, &req); err != nil {
			return err
		}
		return c.JSON(req)
	})
	return app
}

func TestBindAndValidate_TrimsAndValidates(t *testing.T) {
	app := newValidateApp()

	body := `{"apiName":" cliente ","tableName":"cliente","apiVersion":"v1","moduleName":"CAD","moduleDir":"cad",
		"fields":[{"name":" cod-cliente ","type":"integer","serializeName":"codCliente"}]}`
	r := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
	r.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(r)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var got models.GenerationRequest
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "cliente", got.ApiName)
	assert.Equal(t, "cod-cliente", got.Fields[0].Name)
}

func TestBindAndValidate_ValidationError(t *testing.T) {
	app := newValidateApp()

	body := `{"apiName":"cli ente","tableName":"cliente","apiVersion":"v1","moduleName":"CAD","moduleDir":"cad","fields":[]}`
	r := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
	r.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(r)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	var out struct {
		Message string            `json:"message"`
		Errors  map[string]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "validation failed", out.Message)
	assert.Equal(t, "abl_ident", out.Errors["GenerationRequest.apiName"])
	assert.Equal(t, "min", out.Errors["GenerationRequest.fields"])
}

func TestBindAndValidate_BadBody(t *testing.T) {
	app := newValidateApp()

	r := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader("{not json"))
	r.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

	resp, err := app.Test(r)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	b, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(b), "invalid request body")
}
