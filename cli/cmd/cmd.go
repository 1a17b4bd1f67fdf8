package cmd

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"
)

type (
	contextKey struct{}
	optionsKey struct{}
	outputKey  struct{}
)

// Options are the global flags shared by every command.
type Options struct {
	Project    string   `default:"."             help:"Project directory holding script.project."                       short:"P" type:"path"`
	Path       []string `                        help:"Directories searched for script arguments, merged with ${pathEnv}." sep:"none"`
	BaseDir    string   `                        help:"Value of %BaseDir% (default: two levels above the project)."      type:"path"`
	Cache      bool     `default:"true"          help:"Use the persistent document cache."                               negatable:""`
	CacheFile  string   `default:"${cacheFile}"  help:"Path of the document cache database."                             type:"path"`
	Format     string   `default:"text"          enum:"text,json,yaml"                                                   help:"Output format." short:"o"`
	Precedence string   `default:"LocalFirst"    enum:"LocalFirst,GlobalFirst,FixedFirst"                                help:"Variable tier search order."`
	Jobs       int      `default:"0"             help:"Documents loaded in parallel (0 selects the number of CPUs)."`
}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

// WithOptions returns a new context.Context carrying the global options.
func WithOptions(ctx context.Context, opts Options) context.Context {
	return context.WithValue(ctx, optionsKey{}, opts)
}

func optionsFrom(ctx context.Context) Options {
	opts, ok := ctx.Value(optionsKey{}).(Options)
	if !ok {
		return Options{Project: ".", Format: formatText, Precedence: "LocalFirst"}
	}

	return opts
}

// WithOutput returns a new context.Context whose commands write to w
// instead of standard output.
func WithOutput(ctx context.Context, w io.Writer) context.Context {
	return context.WithValue(ctx, outputKey{}, w)
}

func outputFrom(ctx context.Context) io.Writer {
	if w, ok := ctx.Value(outputKey{}).(io.Writer); ok && w != nil {
		return w
	}

	if ktx := kongContextFrom(ctx); ktx != nil && ktx.Stdout != nil {
		return ktx.Stdout
	}

	return os.Stdout
}
