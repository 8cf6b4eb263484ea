// Package draft persists in-progress enrollment forms so a returning
// visitor can pick up where they left off. There is no conflict resolution
// between concurrent editors; last writer wins.
package draft

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("draft not found")

// Store is the key-value surface the form state holder writes through. The
// payload is the JSON-serialized form as the client last sent it.
type Store interface {
	Load(ctx context.Context, id string) ([]byte, error)
	Save(ctx context.Context, id string, data []byte) error
	Clear(ctx context.Context, id string) error
}
