package controller

import (
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/mboulet/authcore/internal/util"
)

// Request-body schemas, mirroring what the HTTP layer would enforce from an
// API description. Password policy: minimum length 9.
const emailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`

//nolint:gochecknoglobals // schemas are immutable after init
var (
	registerSchema = openapi3.NewObjectSchema().
			WithProperty("email", openapi3.NewStringSchema().WithPattern(emailPattern)).
			WithProperty("username", openapi3.NewStringSchema().WithMinLength(3)).
			WithProperty("password", openapi3.NewStringSchema().WithMinLength(9))

	loginSchema = openapi3.NewObjectSchema().
			WithProperty("email", openapi3.NewStringSchema().WithPattern(emailPattern)).
			WithProperty("password", openapi3.NewStringSchema().WithMinLength(9))
)

func init() {
	registerSchema.Required = []string{"email", "username", "password"}
	loginSchema.Required = []string{"email", "password"}
}

// validateBody checks a decoded request body against its schema and converts
// the first violation into a 400 with a field-scoped message.
func validateBody(schema *openapi3.Schema, body map[string]interface{}) error {
	err := schema.VisitJSON(body)
	if err == nil {
		return nil
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		field := strings.Join(schemaErr.JSONPointer(), ".")
		if field == "" {
			return util.NewResponseError(http.StatusBadRequest, "%s", schemaErr.Reason)
		}
		return util.NewResponseError(http.StatusBadRequest, "%s: %s", field, schemaErr.Reason)
	}
	return util.NewResponseError(http.StatusBadRequest, "invalid request body")
}
