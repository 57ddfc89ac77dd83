package repo

import "errors"

var (
	ErrNotARepository        = errors.New("not a rig repository (or any parent up to /)")
	ErrAlreadyInitialized    = errors.New("repository already exists")
	ErrInvalidIndexFormat    = errors.New("invalid index format")
	ErrMissingHead           = errors.New("missing HEAD")
	ErrInvalidRef            = errors.New("missing or invalid ref")
	ErrBranchNotFound        = errors.New("branch not found")
	ErrBranchExists          = errors.New("branch already exists")
	ErrInvalidBranchName     = errors.New("invalid branch name")
	ErrPathOutsideRepository = errors.New("path is outside repository")
	ErrNoSuchFile            = errors.New("no such file")
	ErrUncommittedChanges    = errors.New("working tree has uncommitted changes")
	ErrLockTimeout           = errors.New("timeout waiting for lock")
)
