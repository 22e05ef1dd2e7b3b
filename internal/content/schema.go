package content

import (
	"fmt"
	"sort"
)

// Diagnostic codes emitted by ValidateFields.
const (
	DiagMissingRequired = "missing_required"
	DiagExtraneousField = "extraneous_field"
)

// Diagnostic is one validation finding against a component schema.
type Diagnostic struct {
	Code    string `json:"code"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult is the outcome of diffing a component instance's
// fields against its schema definition.
type ValidationResult struct {
	Valid            bool         `json:"valid"`
	MissingFields    []string     `json:"missing_fields"`
	ExtraneousFields []string     `json:"extraneous_fields"`
	Errors           []Diagnostic `json:"errors"`
}

// ValidateFields diffs a component instance's field set against a schema
// definition. The schema is treated as a closed field set: any field not
// declared in it is flagged, whether or not optional declared fields are
// absent. The reserved component tag and editor uid fields are exempt —
// they belong to the instance envelope, not the schema surface.
//
// Callers must handle "no schema exists" before calling: a nil schema
// here validates like an empty one and would mislabel every field
// extraneous.
func ValidateFields(fields map[string]interface{}, schema Schema) ValidationResult {
	result := ValidationResult{
		MissingFields:    []string{},
		ExtraneousFields: []string{},
		Errors:           []Diagnostic{},
	}

	for name, def := range schema {
		if !def.Required {
			continue
		}
		if _, present := fields[name]; !present {
			result.MissingFields = append(result.MissingFields, name)
		}
	}

	for name := range fields {
		if name == ComponentTagField || name == uidField {
			continue
		}
		if _, declared := schema[name]; !declared {
			result.ExtraneousFields = append(result.ExtraneousFields, name)
		}
	}

	sort.Strings(result.MissingFields)
	sort.Strings(result.ExtraneousFields)

	for _, name := range result.MissingFields {
		result.Errors = append(result.Errors, Diagnostic{
			Code:    DiagMissingRequired,
			Field:   name,
			Message: fmt.Sprintf("required field %q is missing", name),
		})
	}
	for _, name := range result.ExtraneousFields {
		result.Errors = append(result.Errors, Diagnostic{
			Code:    DiagExtraneousField,
			Field:   name,
			Message: fmt.Sprintf("field %q is not declared in the schema", name),
		})
	}

	result.Valid = len(result.Errors) == 0
	return result
}
