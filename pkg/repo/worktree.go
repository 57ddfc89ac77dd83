package repo

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/odvcencio/rig/pkg/object"
)

// WorkingTree hashes every regular file under the root, skipping .rig/.
// Nothing is written to the object store. Hashes of files unchanged since an
// earlier scan by the same Repo are reused.
func (r *Repo) WorkingTree() (map[string]object.Hash, error) {
	out := make(map[string]object.Hash)
	err := filepath.WalkDir(r.RootDir, func(fp string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if d.Name() == MetaDirName {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := r.relPath(fp)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		h, err := r.worktreeBlobHash(rel, fp, info)
		if err != nil {
			return err
		}
		out[rel] = h
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan working tree: %w", err)
	}
	return out, nil
}

// clearWorkingTree removes everything directly under the root except .rig/.
func (r *Repo) clearWorkingTree() error {
	entries, err := os.ReadDir(r.RootDir)
	if err != nil {
		return fmt.Errorf("clear working tree: %w", err)
	}
	for _, e := range entries {
		if e.Name() == MetaDirName {
			continue
		}
		if err := os.RemoveAll(filepath.Join(r.RootDir, e.Name())); err != nil {
			return fmt.Errorf("clear working tree: %w", err)
		}
	}
	return nil
}

// writeWorkingFile writes data to a repo-relative path, creating parent
// directories as needed.
func (r *Repo) writeWorkingFile(rel string, data []byte) error {
	abs := r.absPath(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return fmt.Errorf("mkdir for %q: %w", rel, err)
	}
	if err := os.WriteFile(abs, data, 0o644); err != nil {
		return fmt.Errorf("write %q: %w", rel, err)
	}
	return nil
}
