package repo

import "fmt"

// Add stages each path (see Index.Add) and writes the index once.
func (r *Repo) Add(paths ...string) error {
	idx, err := r.LoadIndex()
	if err != nil {
		return fmt.Errorf("add: %w", err)
	}
	for _, p := range paths {
		if err := idx.stage(p); err != nil {
			return err
		}
	}
	if err := idx.Write(); err != nil {
		return fmt.Errorf("add: %w", err)
	}
	return nil
}

// Remove unstages each path (see Index.Remove) and writes the index once.
// It returns the root-relative paths of the entries that were dropped.
func (r *Repo) Remove(paths ...string) ([]string, error) {
	idx, err := r.LoadIndex()
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	var removed []string
	for _, p := range paths {
		rels, err := idx.unstage(p)
		if err != nil {
			return nil, err
		}
		removed = append(removed, rels...)
	}
	if err := idx.Write(); err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	return removed, nil
}
