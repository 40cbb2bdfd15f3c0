package project

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// CreateModule registers a module and records every regular file found
// under sourceRoot. A missing source root yields a module with no files.
func (s *Store) CreateModule(ctx context.Context, name, sourceRoot string) (Module, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Module{}, fmt.Errorf("create module %q: %w", name, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO modules (name, source_root) VALUES (?, ?)
	`, name, sourceRoot)
	if err != nil {
		return Module{}, fmt.Errorf("create module %q: %w", name, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Module{}, fmt.Errorf("create module %q: %w", name, err)
	}

	files, err := collectFiles(sourceRoot)
	if err != nil {
		return Module{}, fmt.Errorf("create module %q: %w", name, err)
	}
	for _, f := range files {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO files (module_id, path, dir, content) VALUES (?, ?, ?, ?)
		`, id, f.Path, path.Dir(f.Path), f.Content); err != nil {
			return Module{}, fmt.Errorf("create module %q: add file %s: %w", name, f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return Module{}, fmt.Errorf("create module %q: %w", name, err)
	}

	return Module{ID: id, Name: name, SourceRoot: sourceRoot}, nil
}

// AddDependency records a directed edge from one module to another.
// Adding the same edge twice is a no-op.
func (s *Store) AddDependency(ctx context.Context, from, to Module) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO dependencies (module_id, dependency_id, seq)
		VALUES (?, ?, (SELECT COUNT(*) FROM dependencies WHERE module_id = ?))
		ON CONFLICT DO NOTHING
	`, from.ID, to.ID, from.ID)
	if err != nil {
		return fmt.Errorf("add dependency %s -> %s: %w", from.Name, to.Name, err)
	}
	return nil
}

// collectFiles walks root and returns its regular files with
// slash-separated relative paths.
func collectFiles(root string) ([]File, error) {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source root %s is not a directory", root)
	}

	var files []File
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		content, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Content: content})
		return nil
	})
	return files, err
}
