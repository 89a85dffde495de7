package storage

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	tqerrors "github.com/abatilo/tq/internal/errors"
)

const (
	tqDir   = ".tq"
	fileExt = ".md"
)

// SavedQuery is a named query source kept on disk.
type SavedQuery struct {
	ID        string
	Name      string
	CreatedAt time.Time
	Source    string
}

// Store handles saved query file operations.
type Store struct {
	basePath string
}

// NewStore creates a Store scoped to a project: ~/.tq/<sanitized-project-root>/.
func NewStore(projectRoot string) (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	basePath := filepath.Join(home, tqDir, SanitizePath(projectRoot))
	return &Store{basePath: basePath}, nil
}

// NewStoreWithPath creates a Store with a custom base path.
func NewStoreWithPath(path string) *Store {
	return &Store{basePath: path}
}

// BasePath returns the base path of the store.
func (s *Store) BasePath() string {
	return s.basePath
}

// IsInitialized checks if the store directory exists.
func (s *Store) IsInitialized() bool {
	info, err := os.Stat(s.basePath)
	return err == nil && info.IsDir()
}

// Init creates the store directory.
func (s *Store) Init(force bool) error {
	if s.IsInitialized() && !force {
		return tqerrors.AlreadyInitializedError{}
	}
	return os.MkdirAll(s.basePath, 0o755)
}

func (s *Store) queryPath(id string) string {
	return filepath.Join(s.basePath, id+fileExt)
}

// Exists checks if a saved query with the given ID exists.
func (s *Store) Exists(id string) bool {
	_, err := os.Stat(s.queryPath(id))
	return err == nil
}

// Save writes a saved query to disk, replacing any previous version.
func (s *Store) Save(q *SavedQuery) error {
	if !s.IsInitialized() {
		return tqerrors.NotInitializedError{}
	}
	content, err := SerializeMarkdown(q)
	if err != nil {
		return err
	}
	return os.WriteFile(s.queryPath(q.ID), content, 0o600)
}

// Load reads a saved query from disk.
func (s *Store) Load(id string) (*SavedQuery, error) {
	if !s.IsInitialized() {
		return nil, tqerrors.NotInitializedError{}
	}
	content, err := os.ReadFile(s.queryPath(id))
	if os.IsNotExist(err) {
		return nil, tqerrors.QueryNotFoundError{ID: id}
	}
	if err != nil {
		return nil, err
	}
	return ParseMarkdown(content)
}

// Delete removes a saved query file.
func (s *Store) Delete(id string) error {
	if !s.IsInitialized() {
		return tqerrors.NotInitializedError{}
	}
	err := os.Remove(s.queryPath(id))
	if os.IsNotExist(err) {
		return tqerrors.QueryNotFoundError{ID: id}
	}
	return err
}

// List returns every saved query sorted by name, then creation time.
func (s *Store) List() ([]*SavedQuery, error) {
	ids, err := s.AllIDs()
	if err != nil {
		return nil, err
	}

	queries := make([]*SavedQuery, 0, len(ids))
	for id := range ids {
		q, err := s.Load(id)
		if err != nil {
			continue // Skip malformed files
		}
		queries = append(queries, q)
	}

	sort.Slice(queries, func(i, j int) bool {
		if queries[i].Name != queries[j].Name {
			return queries[i].Name < queries[j].Name
		}
		return queries[i].CreatedAt.Before(queries[j].CreatedAt)
	})
	return queries, nil
}

// AllIDs returns all saved query IDs (for ID generation collision checking).
func (s *Store) AllIDs() (map[string]bool, error) {
	if !s.IsInitialized() {
		return nil, tqerrors.NotInitializedError{}
	}

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, err
	}

	ids := make(map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		ids[strings.TrimSuffix(entry.Name(), fileExt)] = true
	}
	return ids, nil
}

// TrimSource drops trailing whitespace from query source. Leading blank lines are kept
// because query errors are reported by source line number.
func TrimSource(source string) string {
	return strings.TrimRightFunc(source, unicode.IsSpace)
}

// CreateQuery stores a new query under a generated ID.
func (s *Store) CreateQuery(name, source string) (*SavedQuery, error) {
	existingIDs, err := s.AllIDs()
	if err != nil {
		return nil, err
	}

	createdAt := time.Now().UTC()
	id := GenerateID(name, createdAt, func(id string) bool {
		return existingIDs[id]
	})

	q := &SavedQuery{
		ID:        id,
		Name:      name,
		CreatedAt: createdAt,
		Source:    TrimSource(source),
	}
	if err := s.Save(q); err != nil {
		return nil, err
	}
	return q, nil
}
