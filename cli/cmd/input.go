package cmd

import (
	"io"
	"os"
	"path/filepath"
	"slices"
)

// stdinSource names standard input among --input sources.
const stdinSource = "-"

// openInputs returns a reader over every distinct source in order. The
// same file reached through different paths or symlinks is read once. Any
// number of "-" sources collapse into one read of stdin, placed last.
// Sources that cannot be opened are skipped. The result is nil when
// nothing could be opened.
func openInputs(sources []string, stdin io.Reader) io.Reader {
	if len(sources) == 0 {
		return nil
	}

	readers := make([]io.Reader, 0, len(sources)+1)
	seen := make([]os.FileInfo, 0, len(sources)+1)

	if f, ok := stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode().IsRegular() {
			seen = append(seen, info)
		}
	}

	stdinSeen := len(seen) == 1
	useStdin := false

	for _, src := range sources {
		if src == stdinSource {
			useStdin = true

			continue
		}

		info, ok := statSource(src)
		if !ok {
			continue
		}

		i := slices.IndexFunc(seen, func(s os.FileInfo) bool { return os.SameFile(s, info) })

		switch {
		case i == 0 && stdinSeen:
			useStdin = true

			continue
		case i >= 0:
			continue
		}

		f, err := os.Open(src)
		if err != nil {
			continue
		}

		seen = append(seen, info)
		readers = append(readers, f)
	}

	if useStdin && stdin != nil {
		readers = append(readers, stdin)
	}

	if len(readers) == 0 {
		return nil
	}

	return io.MultiReader(readers...)
}

// statSource resolves symlinks and reports the regular file at path.
func statSource(path string) (os.FileInfo, bool) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil, false
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		return nil, false
	}

	return info, true
}
