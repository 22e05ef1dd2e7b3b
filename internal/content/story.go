// Package content holds the domain model for repository stories and the
// generic algorithms that operate on their dynamic content trees:
// path access, recursive matching, schema validation, and projection.
//
// A story's content is an arbitrarily nested JSON tree. Nodes are one of
// scalar, []interface{} (sequence), or map[string]interface{} (mapping).
// A mapping that represents a component instance carries its type name in
// the reserved "component" field. All traversal code dispatches on these
// three shapes and treats anything else as an opaque scalar.
package content

import "time"

// ComponentTagField is the reserved mapping field holding a component's
// type name.
const ComponentTagField = "component"

// uidField is the reserved per-instance identifier field the editor
// attaches to component instances.
const uidField = "_uid"

// Version identifies one of the two mutable views of a story.
type Version string

const (
	// VersionDraft is the working view
	VersionDraft Version = "draft"
	// VersionPublished is the live view
	VersionPublished Version = "published"
)

// ContentStatus selects which versions a query reads.
type ContentStatus string

const (
	// StatusDraft reads the draft view only
	StatusDraft ContentStatus = "draft"
	// StatusPublished reads the published view only
	StatusPublished ContentStatus = "published"
	// StatusBoth reads both views, draft taking precedence on id collision
	StatusBoth ContentStatus = "both"
)

// Versions returns the versions a status expands to.
func (s ContentStatus) Versions() []Version {
	switch s {
	case StatusDraft:
		return []Version{VersionDraft}
	case StatusPublished:
		return []Version{VersionPublished}
	default:
		return []Version{VersionPublished, VersionDraft}
	}
}

// Valid reports whether s is a recognized content status.
func (s ContentStatus) Valid() bool {
	return s == StatusDraft || s == StatusPublished || s == StatusBoth
}

// Story is one content item. The same id may exist in both the draft and
// published views with divergent content.
type Story struct {
	ID          int64                  `json:"id"`
	Name        string                 `json:"name"`
	Slug        string                 `json:"slug"`
	FullSlug    string                 `json:"full_slug"`
	ParentID    *int64                 `json:"parent_id"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
	PublishedAt *time.Time             `json:"published_at"`
	Content     map[string]interface{} `json:"content"`
}

// ComponentType returns the type name of the story's root component, or
// "" when the content tree has none.
func (s *Story) ComponentType() string {
	if s.Content == nil {
		return ""
	}
	name, _ := s.Content[ComponentTagField].(string)
	return name
}

// Map renders the story as a generic record so path-based operations
// (projection, deep filters) can address metadata and content uniformly.
func (s *Story) Map() map[string]interface{} {
	m := map[string]interface{}{
		"id":        s.ID,
		"name":      s.Name,
		"slug":      s.Slug,
		"full_slug": s.FullSlug,
	}
	if s.ParentID != nil {
		m["parent_id"] = *s.ParentID
	}
	if !s.CreatedAt.IsZero() {
		m["created_at"] = s.CreatedAt.Format(time.RFC3339)
	}
	if !s.UpdatedAt.IsZero() {
		m["updated_at"] = s.UpdatedAt.Format(time.RFC3339)
	}
	if s.PublishedAt != nil {
		m["published_at"] = s.PublishedAt.Format(time.RFC3339)
	}
	if s.Content != nil {
		m["content"] = s.Content
	}
	return m
}

// Page is one paged-listing result from the repository API.
type Page struct {
	Stories []Story `json:"stories"`
	Total   int     `json:"total"`
	PerPage int     `json:"per_page"`
}

// FieldSchema describes one declared field of a component schema.
type FieldSchema struct {
	Type     string `json:"type,omitempty"`
	Required bool   `json:"required,omitempty"`
	Pos      int    `json:"pos,omitempty"`
}

// Schema is a component's declared field set: field name → descriptor.
type Schema map[string]FieldSchema

// ComponentDef is one entry of the space's component catalogue.
type ComponentDef struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	Schema      Schema `json:"schema"`
	IsRoot      bool   `json:"is_root,omitempty"`
	IsNestable  bool   `json:"is_nestable,omitempty"`
}
