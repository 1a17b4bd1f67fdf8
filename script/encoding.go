package script

import (
	"bytes"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding is the detected text encoding of a document.
type Encoding int

const (
	EncodingUTF8 Encoding = iota
	EncodingUTF8BOM
	EncodingUTF16LE
	EncodingUTF16BE
	// EncodingANSI is decoded as Windows-1252.
	EncodingANSI
)

// peekSize is the number of leading bytes inspected by [DetectEncoding].
const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

func (e Encoding) String() string {
	switch e {
	case EncodingUTF8:
		return "UTF-8"
	case EncodingUTF8BOM:
		return "UTF-8 (BOM)"
	case EncodingUTF16LE:
		return "UTF-16LE"
	case EncodingUTF16BE:
		return "UTF-16BE"
	case EncodingANSI:
		return "ANSI"
	default:
		return "Encoding(" + strconv.Itoa(int(e)) + ")"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (e Encoding) MarshalText() ([]byte, error) { return []byte(e.String()), nil }

// UnmarshalText implements [encoding.TextUnmarshaler].
func (e *Encoding) UnmarshalText(text []byte) error {
	return parseEnum(e, text, EncodingANSI, Encoding.String)
}

// DetectEncoding classifies a document from its leading bytes. A byte
// order mark decides; otherwise valid UTF-8 is UTF-8 and anything else is
// ANSI. A UTF-8 result is provisional: the reader still falls back to ANSI
// at the first invalid sequence past the prefix.
func DetectEncoding(prefix []byte) Encoding {
	switch {
	case bytes.HasPrefix(prefix, bomUTF8):
		return EncodingUTF8BOM
	case bytes.HasPrefix(prefix, bomUTF16LE):
		return EncodingUTF16LE
	case bytes.HasPrefix(prefix, bomUTF16BE):
		return EncodingUTF16BE
	case utf8.Valid(trimPartialRune(prefix)):
		return EncodingUTF8
	default:
		return EncodingANSI
	}
}

// trimPartialRune drops an incomplete UTF-8 sequence cut off at the end of
// a peeked prefix.
func trimPartialRune(p []byte) []byte {
	for k := len(p) - 1; k >= 0 && k >= len(p)-utf8.UTFMax; k-- {
		if utf8.RuneStart(p[k]) {
			if !utf8.FullRune(p[k:]) {
				return p[:k]
			}

			break
		}
	}

	return p
}

// decoding returns the decoder for e. Byte order marks are consumed.
func (e Encoding) decoding() encoding.Encoding {
	switch e {
	case EncodingUTF8BOM:
		return unicode.UTF8BOM
	case EncodingUTF16LE:
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case EncodingUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	case EncodingANSI:
		return charmap.Windows1252
	default:
		return unicode.UTF8
	}
}

// fallbackDecoder passes valid UTF-8 through until it meets an invalid
// sequence, then decodes the rest of the stream as Windows-1252.
type fallbackDecoder struct {
	ansi     transform.Transformer
	fellBack bool
}

func newFallbackDecoder() *fallbackDecoder {
	return &fallbackDecoder{ansi: charmap.Windows1252.NewDecoder()}
}

// Transform implements [transform.Transformer].
func (f *fallbackDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if f.fellBack {
		return f.ansi.Transform(dst, src, atEOF)
	}

	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}

			dst[nDst] = c
			nDst++
			nSrc++

			continue
		}

		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}

		r, size := utf8.DecodeRune(src[nSrc:])
		if r == utf8.RuneError && size <= 1 {
			f.fellBack = true

			n, m, err := f.ansi.Transform(dst[nDst:], src[nSrc:], atEOF)

			return nDst + n, nSrc + m, err
		}

		if nDst+size > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}

		nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
		nSrc += size
	}

	return nDst, nSrc, nil
}

// Reset implements [transform.Transformer].
func (f *fallbackDecoder) Reset() {
	f.fellBack = false
	f.ansi.Reset()
}
