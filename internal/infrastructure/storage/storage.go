package storage

import (
	"context"
	"errors"
	"io"
	"time"
)

// ErrNoCredentials reports that the storage backend cannot authenticate.
// Callers treat it as an infrastructure fault, distinct from any
// user-correctable validation failure.
var ErrNoCredentials = errors.New("storage credentials unavailable")

// ObjectStorage is the object-store surface the application depends on.
// Implementations are constructed by the caller and injected; there is no
// process-wide client.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignGet(ctx context.Context, key string, expires time.Duration) (string, error)
}
