package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"
	"strings"
)

// FindFile returns the file at relPath inside module m.
// The boolean is false when the module has no such file.
func (s *Store) FindFile(ctx context.Context, m Module, relPath string) (File, bool, error) {
	p := cleanRel(relPath)

	var content []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT content FROM files WHERE module_id = ? AND path = ?
	`, m.ID, p).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return File{}, false, nil
	}
	if err != nil {
		return File{}, false, fmt.Errorf("find file %s/%s: %w", m.Name, p, err)
	}
	return File{Module: m, Path: p, Content: content}, true, nil
}

// PackageFiles returns the files directly inside dir of module m, ordered
// by path. dir is slash-separated; "" and "." both mean the source root.
func (s *Store) PackageFiles(ctx context.Context, m Module, dir string) ([]File, error) {
	d := cleanRel(dir)
	if d == "" {
		d = "."
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, content FROM files
		WHERE module_id = ? AND dir = ?
		ORDER BY path COLLATE BINARY ASC
	`, m.ID, d)
	if err != nil {
		return nil, fmt.Errorf("query package files %s/%s: %w", m.Name, d, err)
	}
	defer rows.Close()

	files := []File{}
	for rows.Next() {
		f := File{Module: m}
		if err := rows.Scan(&f.Path, &f.Content); err != nil {
			return nil, fmt.Errorf("scan file: %w", err)
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate files: %w", err)
	}
	return files, nil
}

// Dependencies returns the direct dependencies of m in the order they
// were added.
func (s *Store) Dependencies(ctx context.Context, m Module) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.name, m.source_root
		FROM dependencies d
		JOIN modules m ON m.id = d.dependency_id
		WHERE d.module_id = ?
		ORDER BY d.seq ASC, m.id ASC
	`, m.ID)
	if err != nil {
		return nil, fmt.Errorf("query dependencies of %s: %w", m.Name, err)
	}
	defer rows.Close()
	return scanModules(rows)
}

// Modules returns every module in creation order.
func (s *Store) Modules(ctx context.Context) ([]Module, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, source_root FROM modules ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query modules: %w", err)
	}
	defer rows.Close()
	return scanModules(rows)
}

// ModuleByName returns the module with the given name.
func (s *Store) ModuleByName(ctx context.Context, name string) (Module, bool, error) {
	m := Module{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, source_root FROM modules WHERE name = ?
	`, name).Scan(&m.ID, &m.Name, &m.SourceRoot)
	if errors.Is(err, sql.ErrNoRows) {
		return Module{}, false, nil
	}
	if err != nil {
		return Module{}, false, fmt.Errorf("query module %q: %w", name, err)
	}
	return m, true, nil
}

func scanModules(rows *sql.Rows) ([]Module, error) {
	modules := []Module{}
	for rows.Next() {
		var m Module
		if err := rows.Scan(&m.ID, &m.Name, &m.SourceRoot); err != nil {
			return nil, fmt.Errorf("scan module: %w", err)
		}
		modules = append(modules, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate modules: %w", err)
	}
	return modules, nil
}

// cleanRel normalizes a slash-separated relative path. "." becomes "".
func cleanRel(p string) string {
	p = path.Clean("/" + strings.ReplaceAll(p, "\\", "/"))
	return strings.TrimPrefix(p, "/")
}
