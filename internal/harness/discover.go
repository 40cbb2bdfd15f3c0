package harness

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Discover returns every case directory under root, in lexical order.
//
// A case directory is one holding a structure file; its subdirectories are
// module sources and are not searched. Hidden directories are skipped.
// When filter is non-empty only cases whose slash-separated path relative
// to root, or whose base name, matches the glob are returned.
func Discover(root, filter string) ([]string, error) {
	if filter != "" {
		if _, err := path.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	cases := []string{}
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if _, err := StructureFile(p, ""); err != nil {
			return nil
		}
		if matches(root, p, filter) {
			cases = append(cases, p)
		}
		return filepath.SkipDir
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover cases in %s: %w", root, err)
	}
	return cases, nil
}

func matches(root, dir, filter string) bool {
	if filter == "" {
		return true
	}
	rel, err := filepath.Rel(root, dir)
	if err != nil {
		return false
	}
	if ok, _ := path.Match(filter, filepath.ToSlash(rel)); ok {
		return true
	}
	ok, _ := path.Match(filter, filepath.Base(dir))
	return ok
}

// RunAll runs every case with at most jobs runs in flight and returns the
// results in the order of dirs. jobs <= 0 means one run per CPU.
func RunAll(ctx context.Context, dirs []string, opts Options, jobs int) []*Result {
	opts = opts.withDefaults()
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	results := make([]*Result, len(dirs))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(jobs)
	for i, dir := range dirs {
		g.Go(func() error {
			res := Run(ctx, dir, opts)
			results[i] = res
			if opts.OnResult != nil {
				mu.Lock()
				opts.OnResult(res)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	return results
}
