package object

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// ---------------------------------------------------------------------------
// Envelope
// ---------------------------------------------------------------------------

// Envelope returns the canonical stored form "type len\0payload". Object
// hashes are computed over exactly these bytes.
func Envelope(objType ObjectType, payload []byte) []byte {
	header := envelopeHeader(objType, len(payload))
	out := make([]byte, 0, len(header)+len(payload))
	out = append(out, header...)
	return append(out, payload...)
}

// ParseEnvelope splits raw envelope bytes into type and payload, validating
// the type tag and the length field.
func ParseEnvelope(raw []byte) (ObjectType, []byte, error) {
	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, formatErrorf("", "missing header terminator")
	}
	typ, lenField, ok := strings.Cut(string(raw[:nul]), " ")
	if !ok {
		return "", nil, formatErrorf("", "malformed header %q", raw[:nul])
	}

	objType := ObjectType(typ)
	switch objType {
	case TypeBlob, TypeTree, TypeCommit:
	default:
		return "", nil, formatErrorf("", "unknown type tag %q", typ)
	}

	n, err := strconv.Atoi(lenField)
	if err != nil || n < 0 {
		return "", nil, formatErrorf(objType, "bad length field %q", lenField)
	}
	payload := raw[nul+1:]
	if len(payload) != n {
		return "", nil, formatErrorf(objType, "length mismatch (header=%d, actual=%d)", n, len(payload))
	}
	return objType, payload, nil
}

// ---------------------------------------------------------------------------
// Blob
// ---------------------------------------------------------------------------

// MarshalBlob serializes a Blob payload (identity).
func MarshalBlob(b *Blob) []byte {
	out := make([]byte, len(b.Data))
	copy(out, b.Data)
	return out
}

// UnmarshalBlob deserializes a Blob payload.
func UnmarshalBlob(data []byte) (*Blob, error) {
	out := make([]byte, len(data))
	copy(out, data)
	return &Blob{Data: out}, nil
}

// ---------------------------------------------------------------------------
// Tree
// ---------------------------------------------------------------------------

// MarshalTree serializes a Tree payload. Entries are sorted by Name so that
// equal directory contents always produce the same bytes:
//
//	<mode> <name>\0<20 raw hash bytes>
//	...
func MarshalTree(tr *Tree) []byte {
	sorted := make([]TreeEntry, len(tr.Entries))
	copy(sorted, tr.Entries)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	var buf bytes.Buffer
	for _, e := range sorted {
		buf.WriteString(string(e.Mode))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte(0)
		buf.Write(e.Hash[:])
	}
	return buf.Bytes()
}

// UnmarshalTree parses a Tree payload. The returned entries carry hashes
// only; Store.ReadTree materializes the children.
func UnmarshalTree(data []byte) (*Tree, error) {
	tr := &Tree{}
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, formatErrorf(TypeTree, "missing mode terminator")
		}
		mode := TreeMode(data[:sp])
		if mode != TreeModeFile && mode != TreeModeDir {
			return nil, formatErrorf(TypeTree, "unknown mode %q", mode)
		}
		data = data[sp+1:]

		nul := bytes.IndexByte(data, 0)
		if nul < 0 {
			return nil, formatErrorf(TypeTree, "unterminated entry name")
		}
		name := string(data[:nul])
		if name == "" {
			return nil, formatErrorf(TypeTree, "empty entry name")
		}
		data = data[nul+1:]

		if len(data) < HashSize {
			return nil, formatErrorf(TypeTree, "short hash for %q (%d bytes)", name, len(data))
		}
		var h Hash
		copy(h[:], data[:HashSize])
		data = data[HashSize:]

		tr.Entries = append(tr.Entries, TreeEntry{Mode: mode, Name: name, Hash: h})
	}
	return tr, nil
}

// ---------------------------------------------------------------------------
// Commit
// ---------------------------------------------------------------------------

// MarshalCommit serializes a Commit payload:
//
//	tree H
//	parent H        (zero or more)
//	author A
//	committer C
//
//	message
func MarshalCommit(c *Commit) []byte {
	var buf bytes.Buffer
	buf.WriteString("tree " + c.TreeHash.String() + "\n")
	for _, p := range c.Parents {
		buf.WriteString("parent " + p.String() + "\n")
	}
	buf.WriteString(c.Author.marshal("author") + "\n")
	buf.WriteString(c.Committer.marshal("committer") + "\n")
	buf.WriteByte('\n')
	buf.WriteString(c.Message)
	return buf.Bytes()
}

// UnmarshalCommit parses a Commit payload.
func UnmarshalCommit(data []byte) (*Commit, error) {
	idx := bytes.Index(data, []byte("\n\n"))
	if idx < 0 {
		return nil, formatErrorf(TypeCommit, "missing header/message separator")
	}
	header := string(data[:idx])
	c := &Commit{Message: string(data[idx+2:])}

	var haveTree, haveAuthor, haveCommitter bool
	for _, line := range strings.Split(header, "\n") {
		key, val, ok := strings.Cut(line, " ")
		if !ok {
			return nil, formatErrorf(TypeCommit, "malformed header line %q", line)
		}
		switch key {
		case "tree":
			h, err := ParseHash(val)
			if err != nil {
				return nil, formatErrorf(TypeCommit, "tree: %v", err)
			}
			c.TreeHash = h
			haveTree = true
		case "parent":
			h, err := ParseHash(val)
			if err != nil {
				return nil, formatErrorf(TypeCommit, "parent: %v", err)
			}
			c.Parents = append(c.Parents, h)
		case "author", "committer":
			sig, err := parseSignature(key, line)
			if err != nil {
				return nil, formatErrorf(TypeCommit, "%s: %v", key, err)
			}
			if key == "author" {
				c.Author, haveAuthor = sig, true
			} else {
				c.Committer, haveCommitter = sig, true
			}
		default:
			return nil, formatErrorf(TypeCommit, "unknown header key %q", key)
		}
	}
	if !haveTree || !haveAuthor || !haveCommitter {
		return nil, formatErrorf(TypeCommit, "missing tree, author or committer")
	}
	return c, nil
}
