package query

import (
	"context"

	"cqb/internal/content"
	"cqb/internal/errors"
)

// ValidateStoryOptions parameterizes a single-story schema validation.
type ValidateStoryOptions struct {
	StoryID int64
	// Component overrides the schema to validate against; defaults to
	// the story content's root component tag.
	Component string
	Version   content.Version // defaults to draft
}

// ValidateStoryResponse is the result of ValidateStoryContent.
type ValidateStoryResponse struct {
	StoryID   int64                    `json:"story_id"`
	Component string                   `json:"component"`
	Result    content.ValidationResult `json:"result"`
}

// ValidateStoryContent fetches one story and diffs its content fields
// against a component schema. A missing schema surfaces as a
// SCHEMA_NOT_FOUND error, never as an empty or failing validation.
func (e *Engine) ValidateStoryContent(ctx context.Context, opts ValidateStoryOptions) (*ValidateStoryResponse, error) {
	version := opts.Version
	if version == "" {
		version = content.VersionDraft
	}

	story, err := e.repo.GetStory(ctx, opts.StoryID, version)
	if err != nil {
		return nil, err
	}

	component := opts.Component
	if component == "" {
		component = story.ComponentType()
	}
	if component == "" {
		return nil, errors.NewInvalidParameterError("component_name",
			"story content has no component tag and none was given")
	}

	schema, err := e.repo.FetchSchema(ctx, component)
	if err != nil {
		return nil, err
	}
	if schema == nil {
		return nil, errors.NewSchemaNotFoundError(component)
	}

	return &ValidateStoryResponse{
		StoryID:   story.ID,
		Component: component,
		Result:    content.ValidateFields(story.Content, schema),
	}, nil
}
