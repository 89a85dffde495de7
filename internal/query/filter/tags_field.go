package filter

import (
	"regexp"
	"strings"

	"github.com/abatilo/tq/internal/task"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var tagsGrammar = regexp.MustCompile(`^(tag|tags) (includes|does not include|include|do not include) (.*)`)

// TagsField supports the 'tag' and 'tags' instructions.
// Tags are searched for with or without the leading hash.
type TagsField struct{}

// NewTagsField creates a TagsField.
func NewTagsField() *TagsField {
	return &TagsField{}
}

// Name returns both forms of the keyword.
func (f *TagsField) Name() string {
	return "tag/tags"
}

func (f *TagsField) Grammar() *regexp.Regexp {
	return tagsGrammar
}

func (f *TagsField) CreateFilterOrErrorMessage(line string) FilterOrErrorMessage {
	m := tagsGrammar.FindStringSubmatch(line)
	if m == nil {
		return notUnderstood(f)
	}

	// Only one leading hash is stripped: "##x" searches for "#x".
	search := strings.ToLower(strings.TrimPrefix(m[3], "#"))
	include := func(t *task.Task) bool {
		for _, tag := range t.Tags {
			if strings.Contains(strings.ToLower(tag), search) {
				return true
			}
		}
		return false
	}

	switch m[2] {
	case "include", "includes":
		return Success(include)
	case "do not include", "does not include":
		return Success(negate(include))
	default:
		return notUnderstood(f)
	}
}
