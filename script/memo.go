package script

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/bakery/log"
)

// memo holds snapshots read in this process, keyed by file revision.
var memo sync.Map

type memoEntry struct {
	once sync.Once
	snap *Snapshot
	err  error
}

// revision identifies one version of a file on disk.
type revision struct {
	path    string
	modTime int64
	size    int64
}

func (r revision) hash() string {
	var b strings.Builder

	b.WriteString(r.path)
	b.WriteByte(0)
	b.WriteString(strconv.FormatInt(r.modTime, 10))
	b.WriteByte(0)
	b.WriteString(strconv.FormatInt(r.size, 10))

	return strconv.FormatUint(xxh3.HashString(b.String()), 36)
}

// memoSnapshot returns the snapshot of rev, reading the file at most once
// per revision. Concurrent callers for the same revision share one read.
func memoSnapshot(ctx context.Context, rev revision) (*Snapshot, error) {
	key := rev.hash()

	value, hit := memo.LoadOrStore(key, new(memoEntry))
	entry := value.(*memoEntry)

	log.TraceContext(ctx, "memo lookup",
		slog.String("path", rev.path),
		slog.String("key", key),
		slog.Bool("hit", hit))

	entry.once.Do(func() {
		entry.snap, entry.err = snapshotFile(rev.path)
	})

	if entry.err != nil {
		// Failed reads are retried on the next call.
		memo.CompareAndDelete(key, entry)

		return nil, entry.err
	}

	return entry.snap, nil
}

// storeMemo records a snapshot obtained elsewhere, such as from a
// persistent cache.
func storeMemo(rev revision, snap *Snapshot) {
	entry := new(memoEntry)
	entry.once.Do(func() { entry.snap = snap })
	memo.LoadOrStore(rev.hash(), entry)
}

// ClearMemo discards every snapshot read in this process.
func ClearMemo() {
	memo.Clear()
}
