package repo

import (
	"sync"

	"go.uber.org/zap"

	"github.com/odvcencio/rig/pkg/object"
)

const (
	// MetaDirName is the name of the metadata directory at the repository root.
	MetaDirName = ".rig"
	// DefaultBranch is the branch HEAD points at after Init.
	DefaultBranch = "master"
)

// Repo represents an opened rig repository. It carries everything an
// operation needs, so several repositories can be used in one process.
type Repo struct {
	RootDir string        // working directory root
	MetaDir string        // .rig/ directory
	Store   *object.Store // content-addressed object store

	log *zap.Logger

	hashCacheMu sync.Mutex
	hashCache   map[string]fileHashCacheEntry
}

// Option configures a Repo returned by Init or Open.
type Option func(*options)

type options struct {
	logger *zap.Logger
}

// WithLogger sets the logger used by the repository and its object store.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

func newRepo(root string, opts []Option) *Repo {
	o := options{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	metaDir := metaDirOf(root)
	return &Repo{
		RootDir: root,
		MetaDir: metaDir,
		Store:   object.NewStore(metaDir, o.logger.Named("store")),
		log:     o.logger,
	}
}

// Logger returns the repository logger.
func (r *Repo) Logger() *zap.Logger { return r.log }
