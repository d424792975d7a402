package listing

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// SubmissionValidator checks a decoded listing before it is persisted.
type SubmissionValidator interface {
	Validate(l Listing) error
}

// submissionSchema mirrors the step validators and adds type constraints
// that presence checks cannot express.
var submissionSchema = map[string]any{
	"$schema":  "https://json-schema.org/draft/2020-12/schema",
	"type":     "object",
	"required": []string{"name", "description", "type", "availability", "rules", "location", "documents", "images"},
	"properties": map[string]any{
		"name":           nonEmptyString,
		"description":    nonEmptyString,
		"type":           nonEmptyString,
		"capacity":       map[string]any{"type": "integer", "minimum": 0},
		"price_per_hour": map[string]any{"type": "number", "minimum": 0},
		"availability": map[string]any{
			"type":     "object",
			"required": []string{"hours", "min_duration"},
			"properties": map[string]any{
				"hours":        map[string]any{"type": "object", "minProperties": 1},
				"min_duration": map[string]any{"type": "number", "exclusiveMinimum": 0},
				"max_duration": map[string]any{"type": "number", "minimum": 0},
			},
		},
		"rules": map[string]any{
			"type":       "object",
			"required":   []string{"text"},
			"properties": map[string]any{"text": nonEmptyString},
		},
		"location": map[string]any{
			"type":     "object",
			"required": []string{"address", "city", "state", "zip"},
			"properties": map[string]any{
				"address": nonEmptyString,
				"city":    nonEmptyString,
				"state":   nonEmptyString,
				"zip":     nonEmptyString,
			},
		},
		"documents": map[string]any{
			"type":          "object",
			"minProperties": 1,
		},
		"images": map[string]any{
			"type":     "array",
			"minItems": 1,
		},
	},
}

var nonEmptyString = map[string]any{"type": "string", "minLength": 1}

const submissionSchemaName = "listing-submission.json"

// JSONSchemaValidator validates listings against the submission schema.
type JSONSchemaValidator struct {
	once     sync.Once
	compiled *jsonschema.Schema
	err      error
}

// NewJSONSchemaValidator builds a validator backed by jsonschema v5.
func NewJSONSchemaValidator() *JSONSchemaValidator {
	return &JSONSchemaValidator{}
}

// Validate ensures the listing satisfies the submission schema.
func (v *JSONSchemaValidator) Validate(l Listing) error {
	schema, err := v.schema()
	if err != nil {
		return err
	}
	data, err := json.Marshal(l)
	if err != nil {
		return fmt.Errorf("listing: marshal submission: %w", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return fmt.Errorf("listing: normalize submission: %w", err)
	}
	if err := schema.Validate(payload); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidListing, err)
	}
	return nil
}

func (v *JSONSchemaValidator) schema() (*jsonschema.Schema, error) {
	v.once.Do(func() {
		data, err := json.Marshal(submissionSchema)
		if err != nil {
			v.err = fmt.Errorf("listing: marshal submission schema: %w", err)
			return
		}
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(submissionSchemaName, bytes.NewReader(data)); err != nil {
			v.err = fmt.Errorf("listing: load submission schema: %w", err)
			return
		}
		v.compiled, v.err = compiler.Compile(submissionSchemaName)
		if v.err != nil {
			v.err = fmt.Errorf("listing: compile submission schema: %w", v.err)
		}
	})
	return v.compiled, v.err
}
