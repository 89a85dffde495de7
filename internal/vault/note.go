package vault

import (
	"log/slog"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abatilo/tq/internal/task"
)

const (
	frontmatterDelimiter = "---"
	ignoreDirective      = "ignore"
)

//nolint:gochecknoglobals // compiled pattern is read-only
var headingRegexp = regexp.MustCompile(`^#{1,6}\s+(.*?)\s*#*\s*$`)

// noteFrontmatter is the part of a note's YAML frontmatter tq cares about.
// A note with "tq: ignore" contributes no tasks.
type noteFrontmatter struct {
	TQ string `yaml:"tq"`
}

// ParseNote extracts the tasks of one markdown note.
//
// A section is a run of consecutive non-blank lines; a heading always starts a new one.
// Each task records the 0-based line its section starts on, its index among the tasks of
// that section, and the nearest heading above it.
func ParseNote(path string, content []byte, globalFilter string, logger *slog.Logger) []*task.Task {
	if logger == nil {
		logger = slog.Default()
	}
	lines := strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n")

	body, skip := frontmatterEnd(path, lines, logger)
	if skip {
		return nil
	}

	var (
		tasks        []*task.Task
		heading      string
		sectionStart = -1
		sectionIndex int
	)
	for i := body; i < len(lines); i++ {
		line := lines[i]
		if strings.TrimSpace(line) == "" {
			sectionStart = -1
			continue
		}
		if m := headingRegexp.FindStringSubmatch(line); m != nil {
			heading = m[1]
			sectionStart = -1
			continue
		}
		if sectionStart < 0 {
			sectionStart = i
			sectionIndex = 0
		}

		if globalFilter != "" && !strings.Contains(line, globalFilter) {
			continue
		}
		t, ok := task.FromLine(line, task.Location{
			Path:            path,
			SectionStart:    sectionStart,
			SectionIndex:    sectionIndex,
			PrecedingHeader: heading,
		})
		if !ok {
			continue
		}
		tasks = append(tasks, t)
		sectionIndex++
	}

	return tasks
}

// frontmatterEnd returns the index of the first body line and whether the note opts out.
func frontmatterEnd(path string, lines []string, logger *slog.Logger) (int, bool) {
	if len(lines) < 2 || strings.TrimSpace(lines[0]) != frontmatterDelimiter {
		return 0, false
	}

	end := 0
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == frontmatterDelimiter {
			end = i
			break
		}
	}
	if end == 0 {
		// Unclosed: treat the dashes as an ordinary line.
		return 0, false
	}

	var fm noteFrontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[1:end], "\n")), &fm); err != nil {
		logger.Warn("invalid note frontmatter", "path", path, "error", err)
		return end + 1, false
	}
	return end + 1, strings.TrimSpace(fm.TQ) == ignoreDirective
}
