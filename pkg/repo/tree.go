package repo

import (
	"fmt"
	"path"

	"github.com/odvcencio/rig/pkg/object"
)

// BuildTree converts the staged entries into a hierarchy of trees, writing
// every tree to the store and returning the root tree hash.
//
// The hierarchy comes from the indexed paths alone; the working directory is
// never scanned, so the result reflects exactly what was staged.
func (r *Repo) BuildTree(idx *Index) (object.Hash, error) {
	return r.buildTreeDir(idx, "")
}

// buildTreeDir builds and writes the tree for one directory prefix.
func (r *Repo) buildTreeDir(idx *Index, dir string) (object.Hash, error) {
	files := idx.IndexedFilesInDirectory(dir)
	subdirs := idx.IndexedDirectoriesInDirectory(dir)

	entries := make([]object.TreeEntry, 0, len(files)+len(subdirs))
	names := make(map[string]struct{}, len(files))
	for _, f := range files {
		name := path.Base(f.Path)
		names[name] = struct{}{}
		entries = append(entries, object.TreeEntry{
			Mode: object.TreeModeFile,
			Name: name,
			Hash: f.Hash,
		})
	}
	for _, sub := range subdirs {
		name := path.Base(sub)
		if _, clash := names[name]; clash {
			return object.Hash{}, fmt.Errorf("build tree: %q is staged as both a file and a directory", sub)
		}
		h, err := r.buildTreeDir(idx, sub)
		if err != nil {
			return object.Hash{}, err
		}
		entries = append(entries, object.TreeEntry{
			Mode: object.TreeModeDir,
			Name: name,
			Hash: h,
		})
	}

	h, err := r.Store.WriteTree(&object.Tree{Entries: entries})
	if err != nil {
		return object.Hash{}, fmt.Errorf("write tree %q: %w", displayPath(dir), err)
	}
	return h, nil
}

// FlattenTree loads a tree and returns every file in it keyed by its
// forward-slash path.
func (r *Repo) FlattenTree(h object.Hash) (map[string]object.Hash, error) {
	tr, err := r.Store.ReadTree(h)
	if err != nil {
		return nil, fmt.Errorf("flatten tree: %w", err)
	}
	out := make(map[string]object.Hash)
	flattenInto(tr, "", out)
	return out, nil
}

// flattenInto walks a materialized tree.
func flattenInto(tr *object.Tree, prefix string, out map[string]object.Hash) {
	for _, e := range tr.Entries {
		full := joinRel(prefix, e.Name)
		if e.IsDir() {
			if sub, ok := e.Object.(*object.Tree); ok {
				flattenInto(sub, full, out)
			}
			continue
		}
		out[full] = e.Hash
	}
}
