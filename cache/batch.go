package cache

import (
	"context"
	"log/slog"
	"sync"

	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ardnew/bakery/log"
)

type entry struct {
	key  Key
	data []byte
}

// Batch accumulates writes in memory and commits them in one savepoint.
// It is safe for concurrent use.
type Batch struct {
	store *Store

	mu      sync.RWMutex
	entries []entry
}

// Batch returns an empty batch bound to s.
func (s *Store) Batch() *Batch { return &Batch{store: s} }

// Put queues data for key. A later Put with the same ID wins on commit.
func (b *Batch) Put(_ context.Context, key Key, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.entries = append(b.entries, entry{key: key, data: data})

	return nil
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.entries)
}

// Commit writes every queued entry in a single savepoint and empties the
// batch. On error nothing is written and the entries stay queued.
func (b *Batch) Commit(ctx context.Context) (err error) {
	s := b.store
	if s.closed.IsSet() {
		return ErrClosed
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	defer func() {
		if err == nil {
			b.entries = nil
		}
	}()

	release := sqlitex.Save(s.conn)
	defer release(&err)

	for _, e := range b.entries {
		if err = s.put(e.key, e.data); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "committed cache batch", slog.Int("entries", len(b.entries)))

	return nil
}
