package script

import (
	"context"
	"runtime"

	"github.com/ardnew/bakery/cache"
	"github.com/ardnew/bakery/command"
)

// Cache persists encoded snapshots between runs. [cache.Store] implements
// it. A miss, or data that fails to decode, means the file is read again.
type Cache interface {
	Get(ctx context.Context, key cache.Key) ([]byte, bool, error)
	Put(ctx context.Context, key cache.Key, data []byte) error
}

// batcher is implemented by caches that can group writes.
type batcher interface {
	Batch() *cache.Batch
}

// MainScriptFile is the name of a project's main script.
const MainScriptFile = "script.project"

type options struct {
	root        string
	cache       Cache
	parser      command.Parser
	concurrency int
	level       int
}

// Option configures document and project loading.
type Option func(*options)

// WithRoot sets the directory that relative document paths are taken from.
func WithRoot(dir string) Option {
	return func(o *options) {
		o.root = dir
	}
}

// WithCache enables a persistent snapshot cache.
func WithCache(c Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithParser sets the parser used to convert code sections.
func WithParser(p command.Parser) Option {
	return func(o *options) {
		if p != nil {
			o.parser = p
		}
	}
}

// WithConcurrency bounds the number of documents loaded in parallel. Values
// below one mean the number of CPUs.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithLevel sets the default build level of documents that do not declare
// one.
func WithLevel(level int) Option {
	return func(o *options) {
		o.level = level
	}
}

func applyDefaults(o *options) {
	o.parser = command.LineParser{}
	o.concurrency = runtime.NumCPU()
}

func applyOptions(o *options, opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}

	if o.concurrency < 1 {
		o.concurrency = runtime.NumCPU()
	}
}

func makeOptions(opts ...Option) options {
	var o options

	applyDefaults(&o)
	applyOptions(&o, opts...)

	return o
}
