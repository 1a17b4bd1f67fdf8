// Package log provides a concurrency-safe structured logger based on
// [log/slog].
//
// Loggers are configured with functional options at creation time:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithTimeLayout("Kitchen"),
//		log.WithCaller(true))
//
//	logger.Info("project loaded", slog.Int("documents", n))
//
// Attributes are passed as typed [slog.Attr] values rather than alternating
// key/value arguments.
//
// A package-level logger backs the functions [Info], [Warn], [Error] and
// friends. The CLI reconfigures it once flags are parsed using [Config].
//
// # Levels
//
// In addition to the four [slog] levels, [LevelTrace] sits below
// [LevelDebug] for high-volume diagnostics such as cache lookups.
//
// # Formats
//
// [FormatText] (default) emits key=value lines and [FormatJSON] emits JSON
// objects. With [WithPretty] enabled both are rendered with color when the
// output is a terminal, and JSON records are indented.
package log
