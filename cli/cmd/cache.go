package cmd

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ardnew/bakery/cache"
	"github.com/ardnew/bakery/script"
)

// Cache inspects the parsed-document cache.
type Cache struct {
	Stats CacheStats `cmd:"" default:"1" help:"Summarize cached documents."`
	Clear CacheClear `cmd:""             help:"Remove every cached document."`
}

// CacheStats prints the cache summary.
type CacheStats struct{}

// CacheClear empties the cache.
type CacheClear struct{}

func openCache(ctx context.Context) (*cache.Store, error) {
	path := optionsFrom(ctx).CacheFile
	if path == "" {
		return nil, ErrNotFound
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}

	return cache.Open(ctx, path, cache.WithSchema(script.SnapshotSchema))
}

// Run executes the cache stats command.
func (c *CacheStats) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := openCache(ctx)
	if err != nil {
		return err
	}

	defer store.Close()

	st, err := store.Stats(ctx)
	if err != nil {
		return err
	}

	return render(ctx, outputFrom(ctx), optionsFrom(ctx).Format, st, func(w io.Writer) error {
		stamp := func(t time.Time) string {
			if t.IsZero() {
				return "-"
			}

			return t.Format(time.DateTime)
		}

		return writeTable(w, []string{"Path", "Schema", "Entries", "Bytes", "Oldest", "Newest"},
			[][]string{{
				st.Path,
				strconv.Itoa(st.Schema),
				strconv.FormatInt(st.Entries, 10),
				strconv.FormatInt(st.Bytes, 10),
				stamp(st.Oldest),
				stamp(st.Newest),
			}})
	})
}

// Run executes the cache clear command.
func (c *CacheClear) Run(ctx context.Context) (err error) {
	_, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	store, err := openCache(ctx)
	if err != nil {
		return err
	}

	defer store.Close()

	n, err := store.Clear(ctx)
	if err != nil {
		return err
	}

	result := struct {
		Removed int `json:"removed" yaml:"removed"`
	}{n}

	return render(ctx, outputFrom(ctx), optionsFrom(ctx).Format, result, func(w io.Writer) error {
		return writeNote(w, "removed %d cached documents", n)
	})
}
