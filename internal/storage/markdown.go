package storage

import (
	"bytes"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const frontmatterDelimiter = "---"

// queryFrontmatter is the YAML-serializable portion of a saved query.
type queryFrontmatter struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	CreatedAt string `yaml:"created_at"`
}

// ParseMarkdown parses a saved query file: YAML frontmatter, then the query source.
func ParseMarkdown(content []byte) (*SavedQuery, error) {
	lines := strings.Split(string(content), "\n")
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return nil, &parseError{"missing YAML frontmatter"}
	}

	var frontmatterEnd int
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			frontmatterEnd = i
			break
		}
	}
	if frontmatterEnd == 0 {
		return nil, &parseError{"unclosed YAML frontmatter"}
	}

	var fm queryFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:frontmatterEnd], "\n")), &fm); err != nil {
		return nil, &parseError{"invalid YAML: " + err.Error()}
	}
	if fm.ID == "" {
		return nil, &parseError{"missing id"}
	}

	createdAt, err := parseTime(fm.CreatedAt)
	if err != nil {
		return nil, &parseError{"invalid created_at: " + err.Error()}
	}

	// The query source is everything after the frontmatter and its separating blank line.
	// Leading blank lines of the source are kept since query line numbers count them.
	var source string
	if frontmatterEnd+1 < len(lines) {
		body := strings.TrimPrefix(strings.Join(lines[frontmatterEnd+1:], "\n"), "\n")
		source = strings.TrimRight(body, "\n")
	}

	return &SavedQuery{
		ID:        fm.ID,
		Name:      fm.Name,
		CreatedAt: createdAt,
		Source:    source,
	}, nil
}

// SerializeMarkdown converts a saved query to markdown with YAML frontmatter.
func SerializeMarkdown(q *SavedQuery) ([]byte, error) {
	fm := queryFrontmatter{
		ID:        q.ID,
		Name:      q.Name,
		CreatedAt: q.CreatedAt.Format(time.RFC3339),
	}

	var buf bytes.Buffer
	buf.WriteString(frontmatterDelimiter + "\n")

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fm); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}

	buf.WriteString(frontmatterDelimiter + "\n")

	if q.Source != "" {
		buf.WriteString("\n")
		buf.WriteString(q.Source)
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

type parseError struct {
	msg string
}

func (e *parseError) Error() string {
	return e.msg
}

// parseTime tries to parse a time string in common formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		time.RFC3339Nano,
		"2006-01-02",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &parseError{"unrecognized time format"}
}
