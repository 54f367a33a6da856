// Package validation checks request bodies and field formats at the API boundary.
package validation

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"chronogift/internal/models"

	"github.com/kaptinlin/jsonschema"
)

// Schema names, one per embedded file in schemas/.
const (
	SchemaIdentity       = "identity"
	SchemaGoogleIdentity = "google_identity"
	SchemaGiftCreate     = "gift_create"
	SchemaGiftOpen       = "gift_open"
	SchemaMediaUpload    = "media_upload"
)

//go:embed schemas/*.json
var schemaFS embed.FS

var schemas = map[string]*jsonschema.Schema{}

func init() {
	compiler := jsonschema.NewCompiler()
	for _, name := range []string{SchemaIdentity, SchemaGoogleIdentity, SchemaGiftCreate, SchemaGiftOpen, SchemaMediaUpload} {
		raw, err := schemaFS.ReadFile("schemas/" + name + ".json")
		if err != nil {
			panic(fmt.Sprintf("validation: read schema %s: %v", name, err))
		}
		schema, err := compiler.Compile(raw)
		if err != nil {
			panic(fmt.Sprintf("validation: compile schema %s: %v", name, err))
		}
		schemas[name] = schema
	}
}

// ValidateBody checks body against the named schema.
func ValidateBody(name string, body []byte) error {
	schema, ok := schemas[name]
	if !ok {
		return models.NewInternalError(fmt.Errorf("unknown schema %q", name))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return models.NewValidationError("Request body is required")
	}

	var instance any
	if err := json.Unmarshal(body, &instance); err != nil {
		return models.NewValidationError("Request body must be valid JSON")
	}

	result := schema.Validate(instance)
	if result.IsValid() {
		return nil
	}

	messages := make([]string, 0, len(result.Errors))
	for keyword, evalErr := range result.Errors {
		messages = append(messages, fmt.Sprintf("%s: %s", keyword, evalErr.Error()))
	}
	sort.Strings(messages)

	return &models.AppError{
		Code:    models.CodeValidation,
		Message: "Request body failed validation",
		Err:     errors.New(strings.Join(messages, "; ")),
	}
}

// DecodeBody validates body against the named schema and decodes it into dest.
func DecodeBody(name string, body []byte, dest any) error {
	if err := ValidateBody(name, body); err != nil {
		return err
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return &models.AppError{
			Code:    models.CodeValidation,
			Message: "Request body failed validation",
			Err:     err,
		}
	}
	return nil
}
