package script

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/readahead"
	"golang.org/x/text/transform"
)

// maxLineSize bounds a single physical line. Encoded attachments use long
// lines, so the limit is generous.
const maxLineSize = 16 << 20

// scanFunc receives each trimmed line with its 1-based number. Returning
// false stops the scan.
type scanFunc func(lineNo int, line string) bool

// scanFile decodes the file at path and passes each line to fn.
func scanFile(path string, fn scanFunc) (Encoding, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	defer f.Close()

	ra := readahead.NewReader(f)
	defer ra.Close()

	enc, err := scanReader(ra, fn)
	if err != nil {
		return enc, ErrOpen.Wrap(err).With(slog.String("path", path))
	}

	return enc, nil
}

// scanReader detects the encoding of r and passes each line to fn.
func scanReader(r io.Reader, fn scanFunc) (Encoding, error) {
	br := bufio.NewReaderSize(r, peekSize)

	prefix, err := br.Peek(peekSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, err
	}

	enc := DetectEncoding(prefix)

	var (
		dec      transform.Transformer = enc.decoding().NewDecoder()
		fallback *fallbackDecoder
	)

	if enc == EncodingUTF8 {
		fallback = newFallbackDecoder()
		dec = fallback
	}

	sc := bufio.NewScanner(transform.NewReader(br, dec))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for n := 1; sc.Scan(); n++ {
		if !fn(n, strings.TrimSpace(sc.Text())) {
			break
		}
	}

	if fallback != nil && fallback.fellBack {
		enc = EncodingANSI
	}

	return enc, sc.Err()
}

// sectionHeader returns the name of a "[Name]" line.
func sectionHeader(line string) (string, bool) {
	if len(line) < 2 || line[0] != '[' || line[len(line)-1] != ']' {
		return "", false
	}

	return line[1 : len(line)-1], true
}

// sectionCollector gathers the body of the first section called name.
type sectionCollector struct {
	name  string
	lines []string
	found bool
}

func (c *sectionCollector) scan(_ int, line string) bool {
	if header, ok := sectionHeader(line); ok {
		if c.found {
			return false
		}

		c.found = equalFold(header, c.name)

		return true
	}

	if c.found {
		c.lines = append(c.lines, line)
	}

	return true
}

// readSection returns the body of the named section of the file at path.
func readSection(path, name string) ([]string, error) {
	c := sectionCollector{name: name}

	if _, err := scanFile(path, c.scan); err != nil {
		return nil, err
	}

	if !c.found {
		return nil, ErrNoSection.With(slog.String("path", path), slog.String("section", name))
	}

	return c.lines, nil
}

// ReadSection returns the trimmed body lines of the named section of the
// script text read from r.
func ReadSection(r io.Reader, name string) ([]string, error) {
	c := sectionCollector{name: name}

	if _, err := scanReader(r, c.scan); err != nil {
		return nil, ErrOpen.Wrap(err)
	}

	if !c.found {
		return nil, ErrNoSection.With(slog.String("section", name))
	}

	return c.lines, nil
}
