package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/tevino/abool/v2"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/ardnew/bakery/log"
)

// DefaultSchema is the payload schema version assumed when none is given.
const DefaultSchema = 1

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const migration = `
CREATE TABLE IF NOT EXISTS documents (
	id      TEXT PRIMARY KEY,
	mtime   INTEGER NOT NULL,
	size    INTEGER NOT NULL,
	schema  INTEGER NOT NULL,
	data    BLOB NOT NULL,
	updated INTEGER NOT NULL
);`

const (
	queryGet = `SELECT data FROM documents
	WHERE id = $id AND mtime = $mtime AND size = $size AND schema = $schema;`
	queryPut = `INSERT INTO documents (id, mtime, size, schema, data, updated)
	VALUES ($id, $mtime, $size, $schema, $data, $updated)
	ON CONFLICT (id) DO UPDATE SET
		mtime = excluded.mtime, size = excluded.size, schema = excluded.schema,
		data = excluded.data, updated = excluded.updated;`
	queryDelete = `DELETE FROM documents WHERE id = $id;`
	queryPrune  = `DELETE FROM documents WHERE schema <> ?;`
	queryStats  = `SELECT count(*), coalesce(sum(length(data)), 0),
	coalesce(min(updated), 0), coalesce(max(updated), 0) FROM documents;`
	queryClear = `DELETE FROM documents;`
)

// Store is a sqlite-backed document cache. It is safe for concurrent use;
// the single connection is serialized internally.
type Store struct {
	path   string
	schema int64
	now    func() time.Time

	mu     sync.Mutex
	conn   *sqlite.Conn
	closed *abool.AtomicBool

	locks sync.Map // string -> *sync.RWMutex
}

// Option configures a [Store].
type Option func(*Store)

// WithSchema sets the payload schema version. Entries written under any
// other version are pruned when the store opens.
func WithSchema(version int) Option {
	return func(s *Store) {
		s.schema = int64(version)
	}
}

// WithClock replaces the time source used for entry timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

func applyDefaults(s *Store) {
	s.schema = DefaultSchema
	s.now = time.Now
	s.closed = abool.New()
}

func applyOptions(s *Store, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
}

// Open opens or creates the database at path. Use [MemoryPath] for a
// throwaway store.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{path: path}

	applyDefaults(s)
	applyOptions(s, opts...)

	flags := []sqlite.OpenFlags{sqlite.OpenReadWrite, sqlite.OpenCreate}
	if path != MemoryPath {
		flags = append(flags, sqlite.OpenWAL)
	} else {
		flags = append(flags, sqlite.OpenMemory)
	}

	conn, err := sqlite.OpenConn(path, flags...)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	if err := sqlitex.ExecuteScript(conn, migration, nil); err != nil {
		_ = conn.Close()

		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	if err := sqlitex.ExecuteTransient(conn, queryPrune, &sqlitex.ExecOptions{
		Args: []any{s.schema},
	}); err != nil {
		_ = conn.Close()

		return nil, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	s.conn = conn

	log.DebugContext(ctx, "opened cache",
		slog.String("path", path),
		slog.Int64("schema", s.schema),
		slog.Int("pruned", conn.Changes()))

	return s, nil
}

// Path returns the database path given to [Open].
func (s *Store) Path() string { return s.path }

// Schema returns the payload schema version.
func (s *Store) Schema() int { return int(s.schema) }

// Close releases the database. Further calls return [ErrClosed].
func (s *Store) Close() error {
	if !s.closed.SetToIf(false, true) {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.conn.Close()
}

// DocLock returns the lock guarding the entry with the given ID. Readers
// of an entry hold it shared; writers hold it exclusively.
func (s *Store) DocLock(id string) *sync.RWMutex {
	l, _ := s.locks.LoadOrStore(id, new(sync.RWMutex))

	return l.(*sync.RWMutex)
}

// Get returns the payload stored for key. A missing entry, or one written
// for another revision or schema, reports false without error.
func (s *Store) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	if s.closed.IsSet() {
		return nil, false, ErrClosed
	}

	l := s.DocLock(key.ID)
	l.RLock()
	defer l.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	stmt, err := s.conn.Prepare(queryGet)
	if err != nil {
		return nil, false, ErrQuery.Wrap(err)
	}

	defer func() { _ = stmt.Reset() }()

	stmt.SetText("$id", key.ID)
	stmt.SetInt64("$mtime", key.ModTime)
	stmt.SetInt64("$size", key.Size)
	stmt.SetInt64("$schema", s.schema)

	hasRow, err := stmt.Step()
	if err != nil {
		return nil, false, ErrQuery.Wrap(err).With(slog.Any("key", key))
	}

	if !hasRow {
		log.TraceContext(ctx, "cache miss", slog.Any("key", key))

		return nil, false, nil
	}

	data := make([]byte, stmt.GetLen("data"))
	stmt.GetBytes("data", data)

	log.TraceContext(ctx, "cache hit", slog.Any("key", key), slog.Int("bytes", len(data)))

	return data, true, nil
}

// Put stores data for key, replacing any entry with the same ID.
func (s *Store) Put(ctx context.Context, key Key, data []byte) error {
	if s.closed.IsSet() {
		return ErrClosed
	}

	l := s.DocLock(key.ID)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.put(key, data); err != nil {
		return err
	}

	log.TraceContext(ctx, "cache put", slog.Any("key", key), slog.Int("bytes", len(data)))

	return nil
}

func (s *Store) put(key Key, data []byte) error {
	stmt, err := s.conn.Prepare(queryPut)
	if err != nil {
		return ErrQuery.Wrap(err)
	}

	defer func() { _ = stmt.Reset() }()

	stmt.SetText("$id", key.ID)
	stmt.SetInt64("$mtime", key.ModTime)
	stmt.SetInt64("$size", key.Size)
	stmt.SetInt64("$schema", s.schema)
	stmt.SetBytes("$data", data)
	stmt.SetInt64("$updated", s.now().UnixNano())

	if _, err := stmt.Step(); err != nil {
		return ErrQuery.Wrap(err).With(slog.Any("key", key))
	}

	return nil
}

// Delete removes the entry with the given ID, if any.
func (s *Store) Delete(ctx context.Context, id string) error {
	if s.closed.IsSet() {
		return ErrClosed
	}

	l := s.DocLock(id)
	l.Lock()
	defer l.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, queryDelete, &sqlitex.ExecOptions{
		Named: map[string]any{"$id": id},
	})
	if err != nil {
		return ErrQuery.Wrap(err).With(slog.String("id", id))
	}

	log.TraceContext(ctx, "cache delete", slog.String("id", id))

	return nil
}

// Stats summarizes the store contents.
type Stats struct {
	Path    string    `json:"path"    yaml:"path"`
	Schema  int       `json:"schema"  yaml:"schema"`
	Entries int64     `json:"entries" yaml:"entries"`
	Bytes   int64     `json:"bytes"   yaml:"bytes"`
	Oldest  time.Time `json:"oldest"  yaml:"oldest"`
	Newest  time.Time `json:"newest"  yaml:"newest"`
}

// Stats reports the entry count, payload size and write time range.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	st := Stats{Path: s.path, Schema: int(s.schema)}

	if s.closed.IsSet() {
		return st, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := sqlitex.Execute(s.conn, queryStats, &sqlitex.ExecOptions{
		ResultFunc: func(stmt *sqlite.Stmt) error {
			st.Entries = stmt.ColumnInt64(0)
			st.Bytes = stmt.ColumnInt64(1)

			if st.Entries > 0 {
				st.Oldest = time.Unix(0, stmt.ColumnInt64(2))
				st.Newest = time.Unix(0, stmt.ColumnInt64(3))
			}

			return nil
		},
	})
	if err != nil {
		return st, ErrQuery.Wrap(err)
	}

	log.TraceContext(ctx, "cache stats", slog.Int64("entries", st.Entries))

	return st, nil
}

// Clear removes every entry and returns the number removed.
func (s *Store) Clear(ctx context.Context) (int, error) {
	if s.closed.IsSet() {
		return 0, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := sqlitex.ExecuteTransient(s.conn, queryClear, nil); err != nil {
		return 0, ErrQuery.Wrap(err)
	}

	n := s.conn.Changes()

	log.DebugContext(ctx, "cleared cache", slog.Int("entries", n))

	return n, nil
}
