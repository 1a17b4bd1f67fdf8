package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bakery/cli/cmd"
	"github.com/ardnew/bakery/pkg"
)

// CLI is the top-level command-line interface for bakery.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Options `embed:"" group:"project"`

	Sections cmd.Sections `cmd:"" help:"List the sections of a script."`
	Controls cmd.Controls `cmd:"" help:"List the interface controls of a script."`
	Commands cmd.Commands `cmd:"" help:"List the commands of a code section."`
	Expand   cmd.Expand   `cmd:"" help:"Expand project variables in text."`
	Macros   cmd.Macros   `cmd:"" help:"List or expand project macros."`
	CacheCmd cmd.Cache    `cmd:"" help:"Inspect or clear the document cache." name:"cache"`
	Repl     cmd.Repl     `cmd:"" help:"Expand script lines interactively."`

	Version kong.VersionFlag `help:"Print version and exit." short:"V"`
}

func projectGroup() kong.Group {
	return kong.Group{Key: "project", Title: "Project options"}
}

// Run executes the bakery CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := mkdirAllRequired(); err != nil {
		return err
	}

	configFilePath := configPath(baseConfig)

	vars := kong.Vars{
		"version":             pkg.Version(),
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   cachePath(baseCache),
		cmd.PathEnvIdentifier: cmd.PathEnv,
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Configure logging before kong reports any parse error.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group(), projectGroup()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(kong.JSON, configFilePath+".json"),
		kong.Configuration(resolve(configSection), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)
	ctx = cmd.WithOptions(ctx, cli.Options)

	defer cli.Log.start(ctx)()

	// No-op unless built with tag pprof and a mode is set.
	defer cli.Pprof.start(ctx)()

	// The context provider reads ctx when a command runs, so commands see
	// the values added above.
	return ktx.Run()
}
