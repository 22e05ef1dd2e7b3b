package envelope

import (
	"encoding/json"
	"strings"
	"testing"

	"cqb/internal/errors"
)

func TestBuilderBasic(t *testing.T) {
	resp := New().
		Data(map[string]string{"key": "value"}).
		Build()

	if resp.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("SchemaVersion = %q, want %q", resp.SchemaVersion, CurrentSchemaVersion)
	}
	data, ok := resp.Data.(map[string]string)
	if !ok || data["key"] != "value" {
		t.Errorf("Data = %v", resp.Data)
	}
	if resp.Meta != nil || resp.Error != nil {
		t.Error("empty builder produced non-nil meta or error")
	}
}

func TestBuilderPaginationAndSource(t *testing.T) {
	resp := New().
		Data(nil).
		WithPagination(25, 13, 1, 2).
		WithSource("space-1", []string{"published", "draft"}, "q-123").
		Build()

	p := resp.Meta.Pagination
	if p.TotalItems != 25 || p.TotalPages != 13 || p.CurrentPage != 1 || p.PerPage != 2 {
		t.Errorf("Pagination = %+v", p)
	}
	if resp.Meta.Source.QueryID != "q-123" {
		t.Errorf("Source = %+v", resp.Meta.Source)
	}
}

func TestIncompleteAddsWarning(t *testing.T) {
	resp := New().Data(nil).Incomplete("page-cap").Build()

	if resp.Meta.Incompleteness == nil || !resp.Meta.Incompleteness.Incomplete {
		t.Fatal("incompleteness not set")
	}
	if len(resp.Warnings) != 1 || resp.Warnings[0].Code != "incomplete-results" {
		t.Errorf("Warnings = %+v", resp.Warnings)
	}
	if !strings.Contains(resp.Warnings[0].Message, "page-cap") {
		t.Errorf("warning message = %q", resp.Warnings[0].Message)
	}
}

func TestErrorEnvelope(t *testing.T) {
	resp := FromError(errors.NewSchemaNotFoundError("hero"))

	if resp.Error == nil {
		t.Fatal("Error not set")
	}
	if resp.Error.Code != string(errors.SchemaNotFound) {
		t.Errorf("Error.Code = %q, want SCHEMA_NOT_FOUND", resp.Error.Code)
	}
	if strings.Contains(resp.Error.Message, "[SCHEMA_NOT_FOUND]") {
		t.Errorf("message %q should not repeat the code prefix", resp.Error.Message)
	}
}

func TestEnvelopeJSONShape(t *testing.T) {
	resp := New().
		Data(map[string]int{"count": 1}).
		SuggestCall("getStory", map[string]interface{}{"story_id": 1}, "inspect the match").
		Build()

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"schemaVersion", "data", "suggestedNextCalls"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("serialized envelope missing %q: %s", key, raw)
		}
	}
	if _, ok := decoded["meta"]; ok {
		t.Error("empty meta should be omitted")
	}
}
