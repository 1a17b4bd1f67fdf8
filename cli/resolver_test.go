package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type resolverCLI struct {
	Project  string   `default:"."`
	LogLevel string   `default:"warn"`
	Path     []string `sep:";"`
	Cache    bool     `default:"true" negatable:""`
	Jobs     int      `default:"0"`
}

func parseWithConfig(t *testing.T, file string, args ...string) resolverCLI {
	t.Helper()

	var cli resolverCLI

	res, err := resolve(configSection)(strings.NewReader(file))
	require.NoError(t, err)

	parser, err := kong.New(&cli, kong.Resolvers(res))
	require.NoError(t, err)

	_, err = parser.Parse(args)
	require.NoError(t, err)

	return cli
}

func TestResolve(t *testing.T) {
	const file = `[Other]
project=wrong

[Config]
// flag defaults
project=/src/Project
log_level=debug
path=a;b
no-cache=true
jobs=4
`

	tests := []struct {
		name string
		args []string
		want resolverCLI
	}{
		{
			name: "file values",
			want: resolverCLI{Project: "/src/Project", LogLevel: "debug", Path: []string{"a", "b"}, Cache: false, Jobs: 4},
		},
		{
			name: "flags override",
			args: []string{"--project=/cli", "--cache", "--jobs=2"},
			want: resolverCLI{Project: "/cli", LogLevel: "debug", Path: []string{"a", "b"}, Cache: true, Jobs: 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseWithConfig(t, file, tt.args...))
		})
	}
}

func TestResolveMissingSection(t *testing.T) {
	got := parseWithConfig(t, "[Main]\nTitle=x\n")
	assert.Equal(t, resolverCLI{Project: ".", LogLevel: "warn", Cache: true}, got)
}

func TestInvertBool(t *testing.T) {
	assert.Equal(t, "false", invertBool("True"))
	assert.Equal(t, "false", invertBool(""))
	assert.Equal(t, "true", invertBool("0"))
}
