package offline

import (
	"context"
	"net/http"
	"time"
)

// Entry is a stored response snapshot.
type Entry struct {
	Status   int         `msgpack:"status"`
	Header   http.Header `msgpack:"header"`
	Body     []byte      `msgpack:"body"`
	StoredAt time.Time   `msgpack:"stored_at"`
}

func (e *Entry) clone() *Entry {
	body := make([]byte, len(e.Body))
	copy(body, e.Body)
	return &Entry{
		Status:   e.Status,
		Header:   e.Header.Clone(),
		Body:     body,
		StoredAt: e.StoredAt,
	}
}

// Cache is one named key to response store. Each call is atomic on its own;
// sequences of calls are not.
type Cache interface {
	Match(ctx context.Context, key string) (*Entry, bool, error)
	Put(ctx context.Context, key string, entry *Entry) error
	Delete(ctx context.Context, key string) error
}

// Storage enumerates and manages named caches.
type Storage interface {
	// Open returns the named cache, creating it if needed.
	Open(ctx context.Context, name string) (Cache, error)
	Keys(ctx context.Context) ([]string, error)
	// Delete drops a cache and every entry in it.
	Delete(ctx context.Context, name string) (bool, error)
}

// RequestKey is the identity a GET request is cached under.
func RequestKey(method, rawURL string) string {
	return method + " " + rawURL
}
