package script

import (
	"log/slog"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotSchema versions the encoded [Snapshot] layout. Persistent caches
// are opened with this version so stale entries are discarded.
const SnapshotSchema = 1

// Snapshot is the raw result of reading a document: its encoding and the
// sections in file order. Bodies of unbuffered sections are omitted.
type Snapshot struct {
	Schema   int               `msgpack:"schema"`
	Encoding Encoding          `msgpack:"encoding"`
	Sections []SectionSnapshot `msgpack:"sections"`
}

// snapshotWire is [Snapshot] without its marshaling methods.
type snapshotWire Snapshot

// SectionSnapshot is one section of a [Snapshot].
type SectionSnapshot struct {
	Name string `msgpack:"name"`
	// Line is the 1-based line number of the section header.
	Line     int      `msgpack:"line"`
	Buffered bool     `msgpack:"buffered"`
	Lines    []string `msgpack:"lines,omitempty"`
}

var (
	encoder = sync.OnceValues(func() (*zstd.Encoder, error) {
		return zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedFastest))
	})
	decoder = sync.OnceValues(func() (*zstd.Decoder, error) {
		return zstd.NewReader(nil)
	})
)

// snapshotFile reads the document at path.
func snapshotFile(path string) (*Snapshot, error) {
	snap := &Snapshot{Schema: SnapshotSchema}

	var cur *SectionSnapshot

	enc, err := scanFile(path, func(n int, line string) bool {
		if name, ok := sectionHeader(line); ok {
			snap.Sections = append(snap.Sections, SectionSnapshot{
				Name:     name,
				Line:     n,
				Buffered: classify(name).buffered(),
			})
			cur = &snap.Sections[len(snap.Sections)-1]

			return true
		}

		if cur != nil && cur.Buffered {
			cur.Lines = append(cur.Lines, line)
		}

		return true
	})
	if err != nil {
		return nil, err
	}

	snap.Encoding = enc

	return snap, nil
}

// MarshalBinary encodes s with msgpack and compresses it with zstd.
func (s *Snapshot) MarshalBinary() ([]byte, error) {
	raw, err := msgpack.Marshal((*snapshotWire)(s))
	if err != nil {
		return nil, ErrSnapshot.Wrap(err)
	}

	enc, err := encoder()
	if err != nil {
		return nil, ErrSnapshot.Wrap(err)
	}

	return enc.EncodeAll(raw, make([]byte, 0, len(raw)/2)), nil
}

// UnmarshalBinary reverses [Snapshot.MarshalBinary]. Data written under
// another schema version is rejected.
func (s *Snapshot) UnmarshalBinary(data []byte) error {
	dec, err := decoder()
	if err != nil {
		return ErrSnapshot.Wrap(err)
	}

	raw, err := dec.DecodeAll(data, nil)
	if err != nil {
		return ErrSnapshot.Wrap(err)
	}

	var out Snapshot
	if err := msgpack.Unmarshal(raw, (*snapshotWire)(&out)); err != nil {
		return ErrSnapshot.Wrap(err)
	}

	if out.Schema != SnapshotSchema {
		return ErrSnapshot.With(
			slog.Int("schema", out.Schema), slog.Int("want", SnapshotSchema))
	}

	*s = out

	return nil
}
