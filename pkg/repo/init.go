package repo

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

func metaDirOf(root string) string {
	return filepath.Join(root, MetaDirName)
}

// Init creates a new repository at path. It creates the .rig/ skeleton:
// HEAD pointing at the default branch, an empty index, objects/, and an
// empty ref file for the default branch (no commits yet). Returns
// ErrAlreadyInitialized if a .rig/ directory already exists.
func Init(path string, opts ...Option) (*Repo, error) {
	root, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("init: abs path: %w", err)
	}
	metaDir := metaDirOf(root)

	if _, err := os.Stat(metaDir); err == nil {
		return nil, fmt.Errorf("init: %w at %s", ErrAlreadyInitialized, metaDir)
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("init: stat %s: %w", metaDir, err)
	}

	dirs := []string{
		filepath.Join(metaDir, "objects"),
		filepath.Join(metaDir, "refs", "heads"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("init: mkdir %s: %w", d, err)
		}
	}

	files := []struct {
		path string
		data string
	}{
		{filepath.Join(metaDir, "HEAD"), headRefPrefix + branchRefPrefix + DefaultBranch},
		{filepath.Join(metaDir, indexFileName), ""},
		{filepath.Join(metaDir, "refs", "heads", DefaultBranch), ""},
	}
	for _, f := range files {
		if err := os.WriteFile(f.path, []byte(f.data), 0o644); err != nil {
			return nil, fmt.Errorf("init: write %s: %w", f.path, err)
		}
	}

	r := newRepo(root, opts)
	r.log.Debug("initialized repository", zap.String("root", root))
	return r, nil
}

// Open searches upward from path for a .rig/ directory and opens the
// repository. Returns ErrNotARepository if none is found.
func Open(path string, opts ...Option) (*Repo, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open: abs path: %w", err)
	}

	cur := abs
	for {
		info, err := os.Stat(metaDirOf(cur))
		if err == nil && info.IsDir() {
			return newRepo(cur, opts), nil
		}

		parent := filepath.Dir(cur)
		if parent == cur {
			return nil, fmt.Errorf("open %s: %w", abs, ErrNotARepository)
		}
		cur = parent
	}
}
