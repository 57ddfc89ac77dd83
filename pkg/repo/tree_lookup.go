package repo

import (
	"sort"
	"strings"

	"github.com/odvcencio/rig/pkg/object"
)

// FindInTree resolves a forward-slash path to a file entry of a tree loaded
// by Store.ReadTree. Directories and missing paths report false.
func FindInTree(tr *object.Tree, relPath string) (*object.TreeEntry, bool) {
	if tr == nil || relPath == "" {
		return nil, false
	}
	parts := strings.Split(relPath, "/")
	cur := tr
	for i, part := range parts {
		j := sort.Search(len(cur.Entries), func(k int) bool { return cur.Entries[k].Name >= part })
		if j == len(cur.Entries) || cur.Entries[j].Name != part {
			return nil, false
		}
		entry := &cur.Entries[j]

		if i == len(parts)-1 {
			if entry.IsDir() {
				return nil, false
			}
			return entry, true
		}
		sub, ok := entry.Object.(*object.Tree)
		if !entry.IsDir() || !ok {
			return nil, false
		}
		cur = sub
	}
	return nil, false
}
