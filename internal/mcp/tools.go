package mcp

// Tool represents a cqb tool exposed via MCP
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// contentStatusProperty is the shared schema for the content_status
// parameter.
func contentStatusProperty(defaultValue string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"draft", "published", "both"},
		"default":     defaultValue,
		"description": "Which views to query. 'both' merges draft over published by story id.",
	}
}

var storyIDProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Numeric story id",
}

// GetToolDefinitions returns all tool definitions
func (s *Server) GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "getStatus",
			Description: "Check space reachability and credentials",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "getStory",
			Description: "Get a single story by id",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
					"version": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"draft", "published"},
						"default":     "draft",
						"description": "Which view of the story to fetch",
					},
				},
				"required": []string{"story_id"},
			},
		},
		{
			Name:        "fetchStories",
			Description: "List stories with optional filters: slug prefix, remote search term, client-side deep path filter, schema validation annotation, and field projection",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"content_status": contentStatusProperty("published"),
					"starts_with": map[string]interface{}{
						"type":        "string",
						"description": "Filter to stories whose full slug starts with this prefix",
					},
					"search_term": map[string]interface{}{
						"type":        "string",
						"description": "Remote-side term filter applied by the repository",
					},
					"deep_filter": map[string]interface{}{
						"type":        "object",
						"description": "Record path to expected value, e.g. {\"content.component\": \"hero\"}. Values compare by string conversion.",
						"additionalProperties": map[string]interface{}{
							"type": "string",
						},
					},
					"with_validation": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Annotate each story with a schema validation of its root component",
					},
					"summary_mode": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Project each story to a fixed summary shape (id, name, slugs, root component)",
					},
					"fields": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Explicit record paths to project. Takes precedence over summary_mode.",
					},
				},
			},
		},
		{
			Name:        "searchContent",
			Description: "Full-text search across stories. By default scans name, slug, and content; deep_search recurses into nested component trees.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"query": map[string]interface{}{
						"type":        "string",
						"description": "Substring to search for (case-insensitive)",
					},
					"content_types": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Restrict to stories whose root component is one of these types",
					},
					"search_fields": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "string"},
						"description": "Record paths to scan (default: name, slug, content)",
					},
					"content_status": contentStatusProperty("published"),
					"deep_search": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Recurse into nested trees instead of matching string fields only",
					},
				},
				"required": []string{"query"},
			},
		},
		{
			Name:        "fetchStoriesByComponent",
			Description: "List the full records of stories whose content tree contains a component anywhere, at any depth",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"component_name": map[string]interface{}{
						"type":        "string",
						"description": "Component type name to look for",
					},
					"content_status": contentStatusProperty("both"),
				},
				"required": []string{"component_name"},
			},
		},
		{
			Name:        "getComponentUsage",
			Description: "Scan both versions of every story and report which ones use a component, with usage and analyzed counts",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"component_name": map[string]interface{}{
						"type":        "string",
						"description": "Component type name to look for",
					},
				},
				"required": []string{"component_name"},
			},
		},
		{
			Name:        "validateStoryContent",
			Description: "Validate a story's content fields against a component schema. Reports missing required and undeclared fields.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
					"component_name": map[string]interface{}{
						"type":        "string",
						"description": "Schema to validate against (default: the story's root component)",
					},
					"version": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"draft", "published"},
						"default":     "draft",
						"description": "Which view of the story to validate",
					},
				},
				"required": []string{"story_id"},
			},
		},
		{
			Name:        "createStory",
			Description: "Create a new story from a record (name, slug, content tree)",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story": map[string]interface{}{
						"type":        "object",
						"description": "The story record to create",
					},
					"publish": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Publish immediately after creating",
					},
				},
				"required": []string{"story"},
			},
		},
		{
			Name:        "updateStory",
			Description: "Update an existing story's record",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
					"story": map[string]interface{}{
						"type":        "object",
						"description": "The updated story record",
					},
					"publish": map[string]interface{}{
						"type":        "boolean",
						"default":     false,
						"description": "Publish the updated draft immediately",
					},
				},
				"required": []string{"story_id", "story"},
			},
		},
		{
			Name:        "deleteStory",
			Description: "Delete a story by id",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
				},
				"required": []string{"story_id"},
			},
		},
		{
			Name:        "publishStory",
			Description: "Promote a story's draft to the published view",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
				},
				"required": []string{"story_id"},
			},
		},
		{
			Name:        "unpublishStory",
			Description: "Retract a story from the published view; the draft remains",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"story_id": storyIDProperty,
				},
				"required": []string{"story_id"},
			},
		},
		{
			Name:        "listComponents",
			Description: "List the space's component catalogue with schemas",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
		{
			Name:        "getComponentSchema",
			Description: "Get one component's declared field schema",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"component_name": map[string]interface{}{
						"type":        "string",
						"description": "Component type name",
					},
				},
				"required": []string{"component_name"},
			},
		},
	}
}

// registerTools wires tool names to their handlers.
func (s *Server) registerTools() {
	s.tools = map[string]ToolHandler{
		"getStatus":               s.toolGetStatus,
		"getStory":                s.toolGetStory,
		"fetchStories":            s.toolFetchStories,
		"searchContent":           s.toolSearchContent,
		"fetchStoriesByComponent": s.toolFetchStoriesByComponent,
		"getComponentUsage":       s.toolGetComponentUsage,
		"validateStoryContent":    s.toolValidateStoryContent,
		"createStory":             s.toolCreateStory,
		"updateStory":             s.toolUpdateStory,
		"deleteStory":             s.toolDeleteStory,
		"publishStory":            s.toolPublishStory,
		"unpublishStory":          s.toolUnpublishStory,
		"listComponents":          s.toolListComponents,
		"getComponentSchema":      s.toolGetComponentSchema,
	}
}
