// Package cloudwriter streams order-backup objects to a storage target.
// A factory is bound to one bucket (or local base directory) at
// construction; writers buffer locally and publish the whole object on
// Close, so a failed export never leaves a partial backup behind.
package cloudwriter

import "context"

// ObjectWriter accumulates one backup object. Nothing is visible at the
// destination until Close succeeds.
type ObjectWriter interface {
	Write(p []byte) (int, error)
	Close(ctx context.Context) error
}

// Factory creates writers addressing the destination it was configured
// with.
type Factory interface {
	NewWriter(ctx context.Context, objectPath string) (ObjectWriter, error)
}
