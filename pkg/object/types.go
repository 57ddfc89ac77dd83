package object

// ObjectType identifies the kind of object stored.
type ObjectType string

const (
	TypeBlob   ObjectType = "blob"
	TypeTree   ObjectType = "tree"
	TypeCommit ObjectType = "commit"
)

// TreeMode is the mode token of a tree entry.
type TreeMode string

const (
	TreeModeFile TreeMode = "100644"
	TreeModeDir  TreeMode = "40000"
)

// Object is implemented by *Blob, *Tree and *Commit. Objects returned by a
// Store are shared through its cache and must not be mutated.
type Object interface {
	Type() ObjectType
}

// Blob holds raw file data.
type Blob struct {
	Data []byte
}

func (*Blob) Type() ObjectType { return TypeBlob }

// TreeEntry is one named child of a tree.
type TreeEntry struct {
	Mode TreeMode
	Name string
	Hash Hash

	// Object is the materialized child (*Blob for files, *Tree for
	// directories). It is set by Store.ReadTree and ignored by MarshalTree.
	Object Object
}

// IsDir reports whether the entry names a subtree.
func (e TreeEntry) IsDir() bool { return e.Mode == TreeModeDir }

// Tree holds the entries of one directory, sorted by Name.
type Tree struct {
	Entries []TreeEntry
}

func (*Tree) Type() ObjectType { return TypeTree }

// Commit points to a tree with authorship metadata and zero or more parents.
type Commit struct {
	TreeHash  Hash
	Parents   []Hash
	Author    Signature
	Committer Signature
	Message   string
}

func (*Commit) Type() ObjectType { return TypeCommit }
