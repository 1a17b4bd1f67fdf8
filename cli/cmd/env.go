package cmd

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/mung"

	"github.com/ardnew/bakery/cache"
	"github.com/ardnew/bakery/diag"
	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/macro"
	"github.com/ardnew/bakery/pkg"
	"github.com/ardnew/bakery/script"
	"github.com/ardnew/bakery/vars"
)

// PathEnv is merged into --path. Its entries follow those given as flags.
const PathEnv = pkg.EnvPrefix + "PATH"

// env is what a command has loaded: the cache, and for project commands the
// project, its variables and its macros.
type env struct {
	opts    Options
	cache   *cache.Store
	project *script.Project
	vars    *vars.Store
	macros  *macro.Resolver
	diags   diag.Buffer
}

// openEnv opens the cache if enabled. The project is not loaded.
func openEnv(ctx context.Context) (*env, error) {
	e := &env{opts: optionsFrom(ctx)}

	if e.opts.Cache && e.opts.CacheFile != "" {
		if err := os.MkdirAll(filepath.Dir(e.opts.CacheFile), 0o700); err != nil {
			return nil, err
		}

		store, err := cache.Open(ctx, e.opts.CacheFile, cache.WithSchema(script.SnapshotSchema))
		if err != nil {
			// A broken cache only costs time.
			log.WarnContext(ctx, "cache disabled", slog.Any("error", err))
		} else {
			e.cache = store
		}
	}

	return e, nil
}

// loadEnv opens the cache and loads the project with its variables and
// macros.
func loadEnv(ctx context.Context) (*env, error) {
	e, err := openEnv(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.loadProject(ctx); err != nil {
		e.Close()

		return nil, err
	}

	return e, nil
}

func (e *env) scriptOptions() []script.Option {
	opts := []script.Option{
		script.WithRoot(e.opts.Project),
		script.WithConcurrency(e.opts.Jobs),
	}

	if e.cache != nil {
		opts = append(opts, script.WithCache(e.cache))
	}

	return opts
}

func (e *env) loadProject(ctx context.Context) error {
	p, err := script.LoadProject(ctx, e.opts.Project, e.scriptOptions()...)
	if err != nil {
		return err
	}

	prec, err := vars.ParsePrecedence(e.opts.Precedence)
	if err != nil {
		return err
	}

	e.project = p
	e.vars = vars.New(vars.WithPrecedence(prec))

	if err := e.vars.LoadProject(p, e.opts.BaseDir, &e.diags); err != nil {
		return err
	}

	if err := p.ResolveLinks(ctx, e.vars.Expand); err != nil {
		return err
	}

	e.macros, err = macro.New(ctx, p, e.vars, nil, &e.diags)
	if err != nil {
		return err
	}

	e.diags.Add(p.Diagnostics()...)

	return nil
}

// searchPath returns the --path directories followed by those of PathEnv,
// without duplicates or entries that are not directories. Each --path value
// may itself be a list.
func (e *env) searchPath() []string {
	sep := string(os.PathListSeparator)

	var flags []string
	for _, p := range e.opts.Path {
		flags = append(flags, filepath.SplitList(p)...)
	}

	merged := mung.Make(
		mung.WithSubjectItems(os.Getenv(PathEnv)),
		mung.WithDelim(sep),
		mung.WithPrefixItems(flags...),
		mung.WithFilter(isDir),
	).String()

	var dirs []string

	for _, d := range strings.Split(merged, sep) {
		if d != "" {
			dirs = append(dirs, d)
		}
	}

	return dirs
}

func isDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

// locate finds name as given, then under the project directory, then under
// each search path directory.
func (e *env) locate(name string) (string, error) {
	candidates := []string{name}

	if !filepath.IsAbs(name) {
		candidates = append(candidates, filepath.Join(e.opts.Project, name))
		for _, dir := range e.searchPath() {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return filepath.Abs(c)
		}
	}

	return "", ErrNotFound.With(slog.String("name", name), slog.Any("searched", candidates))
}

// document loads the script called name. Within a loaded project the
// project's own document is returned.
func (e *env) document(ctx context.Context, name string) (*script.Document, error) {
	path, err := e.locate(name)
	if err != nil {
		return nil, err
	}

	if e.project != nil {
		if d, ok := e.project.Find(path); ok {
			return d, nil
		}
	}

	return script.Load(ctx, path, e.scriptOptions()...)
}

// switchDocument loads the variables and macros of doc.
func (e *env) switchDocument(doc *script.Document) error {
	isMain := doc == e.project.Main()

	if err := e.vars.LoadDocument(doc, isMain, &e.diags); err != nil {
		return err
	}

	return e.macros.SwitchDocument(doc, &e.diags)
}

// report logs the accumulated diagnostics.
func (e *env) report(ctx context.Context, doc *script.Document) {
	if doc != nil {
		e.diags.Add(doc.Diagnostics()...)
	}

	e.diags.Log(ctx, slog.String("project", e.opts.Project))
}

// Close releases the cache.
func (e *env) Close() error {
	if e == nil || e.cache == nil {
		return nil
	}

	err := e.cache.Close()
	if errors.Is(err, cache.ErrClosed) {
		return nil
	}

	return err
}
