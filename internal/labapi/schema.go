package labapi

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openapiSpec []byte

const recordSchemaName = "AppointmentRecord"

// Schema checks decoded lookup responses against the embedded API description.
type Schema struct {
	doc    *openapi3.T
	record *openapi3.Schema
}

// LoadSchema parses and validates the embedded OpenAPI document.
func LoadSchema() (*Schema, error) {
	return loadSchema(openapiSpec)
}

func loadSchema(data []byte) (*Schema, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}

	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("OpenAPI spec validation failed: %w", err)
	}

	ref, ok := doc.Components.Schemas[recordSchemaName]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("schema %s not found", recordSchemaName)
	}

	return &Schema{doc: doc, record: ref.Value}, nil
}

// ValidateRecord checks a value produced by json.Unmarshal into an interface{}.
func (s *Schema) ValidateRecord(value interface{}) error {
	if err := s.record.VisitJSON(value, openapi3.MultiErrors()); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return nil
}

// OperationPath returns the path template of the lookup operation.
func (s *Schema) OperationPath() string {
	for path, item := range s.doc.Paths.Map() {
		if item.Post != nil && item.Post.OperationID == "getAppointmentByAccessToken" {
			return path
		}
	}
	return ""
}
