package content

// SummaryPaths is the fixed path list behind summary mode: enough to
// identify a story and its root component without shipping the full tree.
var SummaryPaths = []string{
	"id",
	"name",
	"slug",
	"full_slug",
	"published_at",
	"content.component",
}

// Project copies the values at the given paths from record into a fresh
// record, preserving each path's position. Paths that do not resolve are
// skipped, so the result only ever contains fields the source actually
// had.
func Project(record map[string]interface{}, paths []string) map[string]interface{} {
	out := map[string]interface{}{}
	for _, path := range paths {
		value, ok := GetPath(record, path)
		if !ok {
			continue
		}
		SetPath(out, path, value)
	}
	return out
}

// ProjectStory renders a story and projects it in one step.
func ProjectStory(story *Story, paths []string) map[string]interface{} {
	return Project(story.Map(), paths)
}
