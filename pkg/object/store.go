package object

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

// DefaultCacheSize is the number of decoded objects a Store keeps in memory.
const DefaultCacheSize = 1024

// Store is a content-addressed object store with a 2-character fan-out
// directory layout: objects/ab/cdef0123... Every file holds the
// zlib-compressed envelope "type len\0payload".
type Store struct {
	root  string
	cache *lru.Cache[Hash, Object]
	log   *zap.Logger
}

// NewStore creates a Store whose objects/ directory lives under root. The
// directory is created lazily on first write. A nil logger disables logging.
func NewStore(root string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	cache, err := lru.New[Hash, Object](DefaultCacheSize)
	if err != nil {
		// Only reachable with a non-positive size.
		panic(err)
	}
	return &Store{root: root, cache: cache, log: logger}
}

// objectPath returns the filesystem path for a given hash.
func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.root, "objects", h.StoragePath())
}

// Has reports whether the store contains an object with the given hash.
func (s *Store) Has(h Hash) bool {
	_, err := os.Stat(s.objectPath(h))
	return err == nil
}

// Write stores an object and returns its content hash. Existing objects are
// never rewritten; new ones are written to a temp file and renamed into
// place so concurrent writers of the same object cannot tear it.
func (s *Store) Write(objType ObjectType, payload []byte) (Hash, error) {
	raw := Envelope(objType, payload)
	h := HashBytes(raw)

	if s.Has(h) {
		s.log.Debug("object exists", zap.Stringer("hash", h), zap.String("type", string(objType)))
		return h, nil
	}

	compressed, err := Compress(raw)
	if err != nil {
		return Hash{}, fmt.Errorf("object write %s: %w", h, err)
	}

	dest := s.objectPath(h)
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Hash{}, fmt.Errorf("object write mkdir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return Hash{}, fmt.Errorf("object write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(compressed); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return Hash{}, fmt.Errorf("object write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Hash{}, fmt.Errorf("object write close: %w", err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return Hash{}, fmt.Errorf("object write rename: %w", err)
	}

	s.log.Debug("object written",
		zap.Stringer("hash", h),
		zap.String("type", string(objType)),
		zap.Int("size", len(payload)),
	)
	return h, nil
}

// Read retrieves an object by hash, returning its type and payload.
func (s *Store) Read(h Hash) (ObjectType, []byte, error) {
	compressed, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, fmt.Errorf("object read %s: %w", h, ErrObjectNotFound)
		}
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	raw, err := Decompress(compressed)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	objType, payload, err := ParseEnvelope(raw)
	if err != nil {
		return "", nil, fmt.Errorf("object read %s: %w", h, err)
	}
	return objType, payload, nil
}

// readTyped reads h and checks that it has the wanted type.
func (s *Store) readTyped(h Hash, want ObjectType) ([]byte, error) {
	objType, data, err := s.Read(h)
	if err != nil {
		return nil, err
	}
	if objType != want {
		return nil, fmt.Errorf("object %s: %w", h, formatErrorf(want, "type mismatch: got %q", objType))
	}
	return data, nil
}

// ---------------------------------------------------------------------------
// Typed convenience methods
// ---------------------------------------------------------------------------

// WriteBlob serializes and stores a Blob.
func (s *Store) WriteBlob(b *Blob) (Hash, error) {
	return s.Write(TypeBlob, MarshalBlob(b))
}

// ReadBlob reads and deserializes a Blob.
func (s *Store) ReadBlob(h Hash) (*Blob, error) {
	if obj, ok := s.cache.Get(h); ok {
		if b, ok := obj.(*Blob); ok {
			return b, nil
		}
	}
	data, err := s.readTyped(h, TypeBlob)
	if err != nil {
		return nil, err
	}
	b, err := UnmarshalBlob(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	s.cache.Add(h, b)
	return b, nil
}

// WriteTree serializes and stores a Tree.
func (s *Store) WriteTree(tr *Tree) (Hash, error) {
	return s.Write(TypeTree, MarshalTree(tr))
}

// ReadTree reads a Tree and recursively loads every child, so each entry's
// Object is a *Blob or a fully materialized *Tree.
func (s *Store) ReadTree(h Hash) (*Tree, error) {
	if obj, ok := s.cache.Get(h); ok {
		if tr, ok := obj.(*Tree); ok {
			return tr, nil
		}
	}
	data, err := s.readTyped(h, TypeTree)
	if err != nil {
		return nil, err
	}
	tr, err := UnmarshalTree(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}

	for i := range tr.Entries {
		e := &tr.Entries[i]
		switch e.Mode {
		case TreeModeDir:
			sub, err := s.ReadTree(e.Hash)
			if err != nil {
				return nil, fmt.Errorf("tree %s: entry %q: %w", h, e.Name, err)
			}
			e.Object = sub
		default:
			b, err := s.ReadBlob(e.Hash)
			if err != nil {
				return nil, fmt.Errorf("tree %s: entry %q: %w", h, e.Name, err)
			}
			e.Object = b
		}
	}

	s.cache.Add(h, tr)
	return tr, nil
}

// WriteCommit serializes and stores a Commit. Signatures that would not
// parse back unchanged are rejected before anything is written.
func (s *Store) WriteCommit(c *Commit) (Hash, error) {
	if err := c.Author.Validate(); err != nil {
		return Hash{}, fmt.Errorf("author: %w", err)
	}
	if err := c.Committer.Validate(); err != nil {
		return Hash{}, fmt.Errorf("committer: %w", err)
	}
	return s.Write(TypeCommit, MarshalCommit(c))
}

// ReadCommit reads and deserializes a Commit.
func (s *Store) ReadCommit(h Hash) (*Commit, error) {
	if obj, ok := s.cache.Get(h); ok {
		if c, ok := obj.(*Commit); ok {
			return c, nil
		}
	}
	data, err := s.readTyped(h, TypeCommit)
	if err != nil {
		return nil, err
	}
	c, err := UnmarshalCommit(data)
	if err != nil {
		return nil, fmt.Errorf("object %s: %w", h, err)
	}
	s.cache.Add(h, c)
	return c, nil
}
