package content

import (
	"context"
	"errors"
	"sync"

	"github.com/certempire/certportal/internal/practice"
)

// ErrStale marks a fetch that resolved after a newer one was requested.
var ErrStale = errors.New("stale content fetch discarded")

// Loader serializes document loads for one viewer. Each Load bumps a
// generation counter; a fetch whose generation is no longer current by the
// time it resolves is discarded, closing the race where a slow response
// for an old file lands after the user has navigated away.
type Loader struct {
	src Source

	mu  sync.Mutex
	gen uint64
}

func NewLoader(src Source) *Loader {
	return &Loader{src: src}
}

func (l *Loader) Load(ctx context.Context, fileID string) (practice.ContentDocument, error) {
	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	doc, err := l.src.Fetch(ctx, fileID)

	l.mu.Lock()
	stale := gen != l.gen
	l.mu.Unlock()
	if stale {
		return practice.ContentDocument{}, ErrStale
	}
	return doc, err
}
