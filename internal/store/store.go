package store

import "context"

// Document is the full replicated tree, keyed by top-level subtree path
// (see models.Path*). Subtree values are raw decoded JSON: collections may
// arrive as dense arrays or sparse keyed maps depending on which indices
// have ever been written; the syncer owns normalizing them.
type Document map[string]interface{}

// Store is the one shared mutable resource of the platform. It offers no
// compare-and-swap and no field-level merge: ReplaceSubtree overwrites the
// whole named subtree, last write wins. Two clients that both read state S
// and write independently will silently discard each other's update; that
// is the documented contract, not an implementation accident.
type Store interface {
	// ReadAll returns the entire document.
	ReadAll(ctx context.Context) (Document, error)

	// ReplaceSubtree overwrites the subtree at path with value.
	ReplaceSubtree(ctx context.Context, path string, value interface{}) error

	// Subscribe delivers the full document after every accepted write,
	// in write order, until ctx is cancelled.
	Subscribe(ctx context.Context) (<-chan Document, error)
}
