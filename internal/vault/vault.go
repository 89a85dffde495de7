// Package vault reads checklist tasks out of a directory of markdown notes.
package vault

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	tqerrors "github.com/abatilo/tq/internal/errors"
	"github.com/abatilo/tq/internal/task"
)

const (
	noteExt = ".md"

	maxParallelReads = 8
)

// Reader scans a vault directory for tasks.
type Reader struct {
	root         string
	globalFilter string
	logger       *slog.Logger
}

// Option configures a Reader.
type Option func(*Reader)

// WithGlobalFilter only counts checklist lines containing tag as tasks.
func WithGlobalFilter(tag string) Option {
	return func(r *Reader) {
		r.globalFilter = tag
	}
}

// WithLogger sets the logger used for per-note diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reader) {
		r.logger = l
	}
}

// NewReader creates a Reader rooted at root.
func NewReader(root string, opts ...Option) *Reader {
	r := &Reader{root: root, logger: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the vault directory.
func (r *Reader) Root() string {
	return r.root
}

// Tasks returns every task in the vault, ordered by note path then line.
// Hidden directories (.git, .obsidian, .trash) are skipped. Notes are read in parallel.
func (r *Reader) Tasks(ctx context.Context) ([]*task.Task, error) {
	info, err := os.Stat(r.root)
	if err != nil || !info.IsDir() {
		return nil, tqerrors.VaultNotFoundError{Path: r.root}
	}

	paths, err := r.notePaths(ctx)
	if err != nil {
		return nil, err
	}

	perNote := make([][]*task.Task, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, rel := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			content, err := os.ReadFile(filepath.Join(r.root, filepath.FromSlash(rel)))
			if err != nil {
				return fmt.Errorf("read note %s: %w", rel, err)
			}
			perNote[i] = ParseNote(rel, content, r.globalFilter, r.logger)
			r.logger.Debug("parsed note", "path", rel, "tasks", len(perNote[i]))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var tasks []*task.Task
	for _, found := range perNote {
		tasks = append(tasks, found...)
	}

	r.logger.Debug("scanned vault", "root", r.root, "notes", len(paths), "tasks", len(tasks))
	return tasks, nil
}

// notePaths lists the markdown notes under root as sorted slash-separated relative paths.
func (r *Reader) notePaths(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(r.root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != r.root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.EqualFold(filepath.Ext(path), noteExt) {
			return nil
		}

		rel, err := filepath.Rel(r.root, path)
		if err != nil {
			return fmt.Errorf("relative path for %s: %w", path, err)
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	return paths, err
}
