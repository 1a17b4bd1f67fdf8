package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/bakery/log"
	"github.com/ardnew/bakery/script"
)

// configSection is the section of the configuration file holding flag
// defaults.
const configSection = "Config"

// resolve returns a [kong.ConfigurationLoader] reading flag defaults from
// one section of an ini-style file, in the same syntax as a script:
//
//	[Config]
//	project=/src/Win10PESE/Projects/Win10PESE
//	log-level=debug
//	no_cache=true
//
// Keys are flag names; underscores may stand in for hyphens. A file that
// cannot be read, or lacks the section, sets nothing. Command-line flags
// override these values.
func resolve(section string) kong.ConfigurationLoader {
	return func(r io.Reader) (kong.Resolver, error) {
		lines, err := script.ReadSection(r, section)
		if err != nil {
			log.Warn("ignoring configuration", slog.String("section", section), slog.Any("error", err))

			return config{}, nil
		}

		return config{dict: script.ParseDict(lines)}, nil
	}
}

// config implements [kong.Resolver] over a parsed section.
type config struct {
	dict *script.Dict
}

// Validate implements [kong.Resolver].
func (config) Validate(*kong.Application) error { return nil }

// Resolve implements [kong.Resolver]. A negatable flag also matches its
// "no-" form, which sets the inverse.
func (c config) Resolve(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
	if c.dict == nil {
		return nil, nil //nolint:nilnil
	}

	if value, ok := c.lookup(flag.Name); ok {
		return value, nil
	}

	if flag.Tag != nil && flag.Tag.Negatable != "" {
		if value, ok := c.lookup("no-" + flag.Name); ok {
			return invertBool(value), nil
		}
	}

	return nil, nil //nolint:nilnil
}

func (c config) lookup(name string) (string, bool) {
	if value, ok := c.dict.Get(name); ok {
		return value, true
	}

	return c.dict.Get(strings.ReplaceAll(name, "-", "_"))
}

func invertBool(value string) string {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "1", "t", "true", "yes":
		return "false"
	default:
		return "true"
	}
}
