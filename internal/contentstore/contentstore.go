// Package contentstore abstracts the content-addressed artifact store.
// Writes return a reference (content hash); reads require one. The store
// never indexes by anything but the reference.
package contentstore

import (
	"context"
	"io"
)

// Store puts and gets artifact bytes by content reference.
type Store interface {
	Add(ctx context.Context, r io.Reader) (string, error)
	Get(ctx context.Context, ref string) ([]byte, error)
}
