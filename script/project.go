package script

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/edwingeng/deque"
	"golang.org/x/sync/errgroup"

	"github.com/ardnew/bakery/cache"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
)

// Project is the set of documents found under a project directory.
type Project struct {
	root string
	opts options

	mu    sync.RWMutex
	docs  []*Document
	index map[string]*Document
	main  *Document

	diags diag.Buffer
}

// entry is a path found by discovery.
type entry struct {
	path  string
	isDir bool
}

// LoadProject discovers and loads every document under root. The main
// script must exist; other documents that fail to load are recorded as
// diagnostics and skipped.
func LoadProject(ctx context.Context, root string, opts ...Option) (*Project, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, ErrOpen.Wrap(err).With(slog.String("path", root))
	}

	p := &Project{
		root:  abs,
		opts:  makeOptions(append([]Option{WithRoot(abs)}, opts...)...),
		index: make(map[string]*Document),
	}

	mainPath := filepath.Join(abs, MainScriptFile)
	if _, err := os.Stat(mainPath); err != nil {
		return nil, ErrNoMainScript.Wrap(err).With(slog.String("root", abs))
	}

	entries, err := discover(ctx, abs)
	if err != nil {
		return nil, err
	}

	var batch *cache.Batch
	if b, ok := p.opts.cache.(batcher); ok {
		batch = b.Batch()
	}

	docs := make([]*Document, len(entries))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.concurrency)

	for i, e := range entries {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			if e.isDir {
				docs[i] = NewDirectory(e.path, relPath(abs, e.path), p.opts.level)

				return nil
			}

			d, err := load(gctx, e.path, &p.opts, batch)
			if err != nil {
				if e.path == mainPath {
					return err
				}

				p.diags.Err(0, relPath(abs, e.path), err)

				return nil
			}

			docs[i] = d

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	if batch != nil {
		if err := batch.Commit(ctx); err != nil {
			log.WarnContext(ctx, "cache commit failed", slog.Any("error", err))
		}
	}

	for _, d := range docs {
		if d == nil {
			continue
		}

		p.add(d)

		if d.path == mainPath {
			p.main = d
		}
	}

	log.DebugContext(ctx, "loaded project",
		slog.String("root", abs),
		slog.Int("documents", len(p.docs)),
		slog.Int("failed", p.diags.Len()))

	return p, nil
}

// discover walks root breadth first and returns the main script, every
// script and link file, and every subdirectory, sorted by path.
func discover(ctx context.Context, root string) ([]entry, error) {
	var found []entry

	queue := deque.NewDeque()
	queue.PushBack(root)

	for !queue.Empty() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dir := queue.PopFront().(string)

		items, err := os.ReadDir(dir)
		if err != nil {
			return nil, ErrOpen.Wrap(err).With(slog.String("path", dir))
		}

		for _, item := range items {
			path := filepath.Join(dir, item.Name())

			switch {
			case item.IsDir():
				queue.PushBack(path)
				found = append(found, entry{path: path, isDir: true})

			case isScriptFile(path) || (dir == root && item.Name() == MainScriptFile):
				found = append(found, entry{path: path})
			}
		}
	}

	slices.SortFunc(found, func(a, b entry) int {
		return strings.Compare(strings.ToLower(a.path), strings.ToLower(b.path))
	})

	log.TraceContext(ctx, "discovered project", slog.String("root", root), slog.Int("entries", len(found)))

	return found, nil
}

func isScriptFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))

	return ext == ".script" || ext == ".link"
}

func (p *Project) add(d *Document) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.docs = append(p.docs, d)
	p.index[pathKey(d.path)] = d
}

func pathKey(path string) string {
	return strings.ToLower(filepath.ToSlash(filepath.Clean(path)))
}

// Root returns the absolute project directory.
func (p *Project) Root() string { return p.root }

// Main returns the main script.
func (p *Project) Main() *Document { return p.main }

// Title returns the title of the main script.
func (p *Project) Title() string { return p.main.Title() }

// Documents returns every loaded document in path order.
func (p *Project) Documents() []*Document {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return append([]*Document(nil), p.docs...)
}

// Diagnostics returns the load failures of the project.
func (p *Project) Diagnostics() []diag.Entry { return p.diags.Entries() }

// Find returns the document at path, which may be absolute or relative to
// the project root and may use either path separator. Matching ignores
// case.
func (p *Project) Find(path string) (*Document, bool) {
	path = nativePath(path)
	if !filepath.IsAbs(path) {
		path = filepath.Join(p.root, path)
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	d, ok := p.index[pathKey(path)]

	return d, ok
}

// ResolveLinks resolves the target of every link document. Targets are
// passed through expand, which may be nil, and taken relative to the
// directory of the link. A link to a link is followed to its final
// script.
//
// A link whose target cannot be loaded is removed from the project and
// recorded as a diagnostic.
func (p *Project) ResolveLinks(ctx context.Context, expand func(string) string) error {
	var (
		links   []*Document
		targets sync.Map // path key -> *loadOnce
	)

	for _, d := range p.Documents() {
		if d.kind == KindLink {
			links = append(links, d)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.concurrency)

	for _, d := range links {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			target, err := p.follow(gctx, d, expand, &targets)
			d.link.set(target, err)

			if err != nil {
				p.diags.Err(0, d.rel, err)
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.docs = slices.DeleteFunc(p.docs, func(d *Document) bool {
		if d.kind == KindLink && d.link.Err() != nil {
			delete(p.index, pathKey(d.path))

			return true
		}

		return false
	})

	log.DebugContext(ctx, "resolved links", slog.Int("links", len(links)))

	return nil
}

type loadOnce struct {
	once sync.Once
	doc  *Document
	err  error
}

// follow resolves the chain of links starting at d to a script.
func (p *Project) follow(
	ctx context.Context,
	d *Document,
	expand func(string) string,
	targets *sync.Map,
) (*Document, error) {
	seen := map[string]bool{pathKey(d.path): true}

	for cur := d; ; {
		raw := cur.link.Raw
		if expand != nil {
			raw = expand(raw)
		}

		path := nativePath(raw)
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(cur.path), path)
		}

		key := pathKey(path)
		if seen[key] {
			return nil, ErrLinkTarget.With(slog.String("link", d.rel), slog.String("cycle", raw))
		}

		seen[key] = true

		target, err := p.target(ctx, path, targets)
		if err != nil {
			return nil, ErrLinkTarget.Wrap(err).With(slog.String("link", d.rel), slog.String("target", raw))
		}

		if target.kind != KindLink {
			return target, nil
		}

		cur = target
	}
}

// target returns the document at path, loading it at most once per
// resolution pass if it is not part of the project.
func (p *Project) target(ctx context.Context, path string, targets *sync.Map) (*Document, error) {
	if d, ok := p.Find(path); ok {
		if d.kind == KindDirectory {
			return nil, errors.New("target is a directory")
		}

		return d, nil
	}

	value, _ := targets.LoadOrStore(pathKey(path), new(loadOnce))
	lo := value.(*loadOnce)

	lo.once.Do(func() {
		lo.doc, lo.err = load(ctx, path, &p.opts, nil)
		if lo.err == nil && lo.doc.kind == KindDirectory {
			lo.doc, lo.err = nil, errors.New("target is a directory")
		}
	})

	return lo.doc, lo.err
}
