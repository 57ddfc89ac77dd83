package repo

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

const reflogDirName = "logs"

// ReflogEntry is one recorded movement of a ref. A zero OldHash means the
// ref had no commit before.
type ReflogEntry struct {
	Ref       string
	OldHash   object.Hash
	NewHash   object.Hash
	Timestamp int64
	Reason    string
}

func (r *Repo) reflogPath(ref string) string {
	return filepath.Join(r.MetaDir, reflogDirName, filepath.FromSlash(ref))
}

// line encodes the entry as "<old> <new> <unix> <reason>\n".
func (e ReflogEntry) line() string {
	reason := strings.Join(strings.Fields(e.Reason), " ")
	if reason == "" {
		reason = "update"
	}
	return e.OldHash.String() + " " + e.NewHash.String() + " " +
		strconv.FormatInt(e.Timestamp, 10) + " " + reason + "\n"
}

// parseReflogLine is the inverse of line. ok is false for lines that do not
// carry two hashes and a timestamp.
func parseReflogLine(ref, text string) (e ReflogEntry, ok bool) {
	fields := strings.SplitN(strings.TrimSpace(text), " ", 4)
	if len(fields) != 4 {
		return e, false
	}
	var err error
	if e.OldHash, err = object.ParseHash(fields[0]); err != nil {
		return e, false
	}
	if e.NewHash, err = object.ParseHash(fields[1]); err != nil {
		return e, false
	}
	if e.Timestamp, err = strconv.ParseInt(fields[2], 10, 64); err != nil {
		return e, false
	}
	e.Ref = ref
	e.Reason = fields[3]
	return e, true
}

func (r *Repo) appendReflog(ref string, oldHash, newHash object.Hash, reason string) error {
	entry := ReflogEntry{OldHash: oldHash, NewHash: newHash, Timestamp: time.Now().Unix(), Reason: reason}
	path := r.reflogPath(ref)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("reflog %s: %w", ref, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("reflog %s: %w", ref, err)
	}
	if _, err := f.WriteString(entry.line()); err != nil {
		f.Close()
		return fmt.Errorf("reflog %s: %w", ref, err)
	}
	return f.Close()
}

// ReadReflog returns the movements of ref, newest first. ref may be "HEAD",
// a branch name or a full "refs/..." name. limit <= 0 means no limit.
// Malformed lines are skipped.
func (r *Repo) ReadReflog(ref string, limit int) ([]ReflogEntry, error) {
	name := resolveReflogRefName(ref)
	f, err := os.Open(r.reflogPath(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read reflog %s: %w", name, err)
	}
	defer f.Close()

	var entries []ReflogEntry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if e, ok := parseReflogLine(name, sc.Text()); ok {
			entries = append(entries, e)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read reflog %s: %w", name, err)
	}

	slices.Reverse(entries)
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func resolveReflogRefName(ref string) string {
	ref = strings.TrimSpace(ref)
	switch {
	case ref == "" || ref == "HEAD":
		return "HEAD"
	case strings.HasPrefix(ref, "refs/"):
		return ref
	default:
		return branchRef(ref)
	}
}

// recordRefUpdate appends to the ref's log and to HEAD's log when ref is
// the current branch. Failures are logged, not returned: the ref itself has
// already moved.
func (r *Repo) recordRefUpdate(ref string, oldHash, newHash object.Hash, reason string) {
	refs := []string{ref}
	if head, err := r.Head(); err == nil && head == ref {
		refs = append(refs, "HEAD")
	}
	for _, name := range refs {
		if err := r.appendReflog(name, oldHash, newHash, reason); err != nil {
			r.log.Warn("reflog append failed", zap.String("ref", name), zap.Error(err))
		}
	}
}
