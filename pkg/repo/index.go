package repo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

const indexFileName = "index"

// IndexEntry records the staged blob for one file. Path is relative to the
// repository root and always uses forward slashes.
type IndexEntry struct {
	Path string
	Hash object.Hash
}

// Index is the staging area: the set of paths and blob hashes that will make
// up the next commit. It is persisted as one "<path> <hex>" line per entry,
// sorted by path.
type Index struct {
	repo    *Repo
	entries map[string]object.Hash
}

func (r *Repo) indexPath() string {
	return filepath.Join(r.MetaDir, indexFileName)
}

// LoadIndex reads .rig/index. A missing file is an empty index.
func (r *Repo) LoadIndex() (*Index, error) {
	idx := &Index{repo: r, entries: make(map[string]object.Hash)}
	data, err := os.ReadFile(r.indexPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return idx, nil
		}
		return nil, fmt.Errorf("load index: %w", err)
	}
	if err := parseIndex(data, idx.entries); err != nil {
		return nil, fmt.Errorf("load index: %w", err)
	}
	return idx, nil
}

// parseIndex decodes index lines into entries. The hash is the last
// space-separated field, so paths may contain spaces.
func parseIndex(data []byte, entries map[string]object.Hash) error {
	lines := strings.Split(string(data), "\n")
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, line := range lines {
		sp := strings.LastIndexByte(line, ' ')
		if sp <= 0 {
			return fmt.Errorf("%w: line %d: %q", ErrInvalidIndexFormat, i+1, line)
		}
		h, err := object.ParseHash(line[sp+1:])
		if err != nil {
			return fmt.Errorf("%w: line %d: %v", ErrInvalidIndexFormat, i+1, err)
		}
		entries[line[:sp]] = h
	}
	return nil
}

// Marshal returns the persisted form of the index.
func (idx *Index) Marshal() []byte {
	var buf bytes.Buffer
	for _, e := range idx.Entries() {
		buf.WriteString(e.Path)
		buf.WriteByte(' ')
		buf.WriteString(e.Hash.String())
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Write replaces .rig/index with the sorted entries.
func (idx *Index) Write() error {
	if err := writeFileLocked(idx.repo.indexPath(), idx.Marshal()); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	return nil
}

// Entries returns all entries sorted by path.
func (idx *Index) Entries() []IndexEntry {
	out := make([]IndexEntry, 0, len(idx.entries))
	for p, h := range idx.entries {
		out = append(out, IndexEntry{Path: p, Hash: h})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Lookup returns the staged hash for a repo-relative path.
func (idx *Index) Lookup(p string) (object.Hash, bool) {
	h, ok := idx.entries[p]
	return h, ok
}

// Len returns the number of staged files.
func (idx *Index) Len() int { return len(idx.entries) }

// Map returns a copy of the entries keyed by path.
func (idx *Index) Map() map[string]object.Hash {
	out := make(map[string]object.Hash, len(idx.entries))
	for p, h := range idx.entries {
		out[p] = h
	}
	return out
}

// IndexedFilesInDirectory returns the entries that are direct children of
// dir ("" is the repository root), sorted by path.
func (idx *Index) IndexedFilesInDirectory(dir string) []IndexEntry {
	var out []IndexEntry
	for p, h := range idx.entries {
		if parentDir(p) == dir {
			out = append(out, IndexEntry{Path: p, Hash: h})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// IndexedDirectoriesInDirectory returns the paths of the immediate
// subdirectories of dir that contain at least one indexed file, sorted.
func (idx *Index) IndexedDirectoriesInDirectory(dir string) []string {
	seen := make(map[string]struct{})
	for p := range idx.entries {
		rest, ok := trimDirPrefix(p, dir)
		if !ok {
			continue
		}
		name, _, nested := strings.Cut(rest, "/")
		if !nested {
			continue
		}
		seen[joinRel(dir, name)] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for d := range seen {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// Add stages a file, a directory, or the removal of a deleted path, then
// rewrites the index. p is absolute or relative to the repository root.
//
//   - A file is hashed into the object store and its entry upserted.
//   - A directory is walked recursively (skipping .rig/); every regular file
//     is staged and entries under it that no longer exist are pruned.
//   - A path missing from disk drops its entry and any entries under it.
//     If nothing was indexed there, Add returns ErrNoSuchFile.
//
// Paths inside .rig/ are ignored.
func (idx *Index) Add(p string) error {
	if err := idx.stage(p); err != nil {
		return err
	}
	if err := idx.Write(); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// Remove unstages p: the exact entry, or every entry under a directory, and
// rewrites the index. The working file is left alone. ErrNoSuchFile is
// returned if nothing matched.
func (idx *Index) Remove(p string) error {
	if _, err := idx.unstage(p); err != nil {
		return err
	}
	if err := idx.Write(); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

func (idx *Index) stage(p string) error {
	rel, err := idx.repo.relPath(p)
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	if isMetaPath(rel) {
		return nil
	}

	abs := idx.repo.absPath(rel)
	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if len(idx.removeTree(rel)) == 0 {
			return fmt.Errorf("add %q: %w", displayPath(rel), ErrNoSuchFile)
		}
	case err != nil:
		return fmt.Errorf("add %q: %w", displayPath(rel), err)
	case info.IsDir():
		if err := idx.addDir(rel, abs); err != nil {
			return fmt.Errorf("add %q: %w", displayPath(rel), err)
		}
	case info.Mode().IsRegular():
		if err := idx.addFile(rel, abs); err != nil {
			return fmt.Errorf("add %q: %w", displayPath(rel), err)
		}
	default:
		return fmt.Errorf("add %q: not a regular file", displayPath(rel))
	}
	return nil
}

func (idx *Index) unstage(p string) ([]string, error) {
	rel, err := idx.repo.relPath(p)
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	removed := idx.removeTree(rel)
	if len(removed) == 0 {
		return nil, fmt.Errorf("remove %q: %w", displayPath(rel), ErrNoSuchFile)
	}
	return removed, nil
}

func (idx *Index) addFile(rel, abs string) error {
	content, err := os.ReadFile(abs)
	if err != nil {
		return err
	}
	h, err := idx.repo.Store.WriteBlob(&object.Blob{Data: content})
	if err != nil {
		return fmt.Errorf("write blob: %w", err)
	}
	idx.set(rel, h)
	idx.repo.log.Debug("staged", zap.String("path", rel), zap.Stringer("blob", h))
	return nil
}

func (idx *Index) addDir(rel, abs string) error {
	onDisk := make(map[string]struct{})
	err := filepath.WalkDir(abs, func(fp string, d fs.DirEntry, walkErr error) error {
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
		fileRel, err := idx.repo.relPath(fp)
		if err != nil {
			return err
		}
		onDisk[fileRel] = struct{}{}
		return idx.addFile(fileRel, fp)
	})
	if err != nil {
		return err
	}

	for p := range idx.entries {
		if _, ok := onDisk[p]; ok {
			continue
		}
		if _, under := trimDirPrefix(p, rel); under || p == rel {
			delete(idx.entries, p)
			idx.repo.log.Debug("pruned", zap.String("path", p))
		}
	}
	return nil
}

// set upserts an entry, dropping entries that the new file shadows: anything
// below it and any ancestor staged as a file.
func (idx *Index) set(rel string, h object.Hash) {
	for p := range idx.entries {
		if _, under := trimDirPrefix(p, rel); under {
			delete(idx.entries, p)
		}
	}
	for dir := parentDir(rel); dir != ""; dir = parentDir(dir) {
		delete(idx.entries, dir)
	}
	idx.entries[rel] = h
}

// removeTree drops rel and everything below it, returning the removed paths
// in sorted order.
func (idx *Index) removeTree(rel string) []string {
	var removed []string
	for p := range idx.entries {
		if _, under := trimDirPrefix(p, rel); under || p == rel {
			delete(idx.entries, p)
			removed = append(removed, p)
		}
	}
	sort.Strings(removed)
	return removed
}

// relPath converts an absolute or root-relative path to a clean,
// forward-slash path relative to the root. The root itself is "".
func (r *Repo) relPath(p string) (string, error) {
	abs := p
	if !filepath.IsAbs(abs) {
		abs = filepath.Join(r.RootDir, p)
	}
	rel, err := filepath.Rel(r.RootDir, filepath.Clean(abs))
	if err != nil {
		return "", fmt.Errorf("%q: %w", p, ErrPathOutsideRepository)
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", fmt.Errorf("%q: %w", p, ErrPathOutsideRepository)
	}
	if rel == "." {
		return "", nil
	}
	return rel, nil
}

func (r *Repo) absPath(rel string) string {
	return filepath.Join(r.RootDir, filepath.FromSlash(rel))
}

func isMetaPath(rel string) bool {
	return rel == MetaDirName || strings.HasPrefix(rel, MetaDirName+"/")
}

// trimDirPrefix reports whether p lies strictly below dir and returns the
// remainder. Every non-empty path lies below the root "".
func trimDirPrefix(p, dir string) (string, bool) {
	if dir == "" {
		return p, p != ""
	}
	return strings.CutPrefix(p, dir+"/")
}

func parentDir(p string) string {
	d := path.Dir(p)
	if d == "." {
		return ""
	}
	return d
}

func joinRel(dir, name string) string {
	if dir == "" {
		return name
	}
	return dir + "/" + name
}

func displayPath(rel string) string {
	if rel == "" {
		return "."
	}
	return rel
}
