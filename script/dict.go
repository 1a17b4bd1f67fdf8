package script

import (
	"iter"
	"strings"

	"github.com/ardnew/bakery/token"
)

// Pair is one entry of a [Dict].
type Pair struct {
	Key   string `json:"key"   yaml:"key"   msgpack:"key"`
	Value string `json:"value" yaml:"value" msgpack:"value"`
}

// Dict is an insertion-ordered map with case-insensitive keys. The zero
// value is empty and ready to use.
type Dict struct {
	pairs []Pair
	index map[string]int
}

// ParseDict reads ini-style "Key=Value" lines. Blank lines, comments and
// lines without a key are skipped. A repeated key keeps its first position
// and takes the last value.
func ParseDict(lines []string) *Dict {
	d := &Dict{}

	for _, line := range lines {
		if token.IsEmpty(line) {
			continue
		}

		if k, v, ok := token.SplitKeyValue(line); ok {
			d.Set(k, v)
		}
	}

	return d
}

// Get returns the value of key.
func (d *Dict) Get(key string) (string, bool) {
	if d == nil || d.index == nil {
		return "", false
	}

	i, ok := d.index[strings.ToLower(key)]
	if !ok {
		return "", false
	}

	return d.pairs[i].Value, true
}

// Lookup returns the value of key, or fallback if it is absent.
func (d *Dict) Lookup(key, fallback string) string {
	if v, ok := d.Get(key); ok {
		return v
	}

	return fallback
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.Get(key)

	return ok
}

// Set stores value under key. An existing key keeps its position and
// original spelling.
func (d *Dict) Set(key, value string) {
	if d.index == nil {
		d.index = make(map[string]int)
	}

	lk := strings.ToLower(key)
	if i, ok := d.index[lk]; ok {
		d.pairs[i].Value = value

		return
	}

	d.index[lk] = len(d.pairs)
	d.pairs = append(d.pairs, Pair{Key: key, Value: value})
}

// Len returns the number of keys.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}

	return len(d.pairs)
}

// All iterates the entries in insertion order.
func (d *Dict) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if d == nil {
			return
		}

		for _, p := range d.pairs {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Pairs returns a copy of the entries in insertion order.
func (d *Dict) Pairs() []Pair {
	if d == nil {
		return nil
	}

	return append([]Pair(nil), d.pairs...)
}

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }

func hasPrefixFold(s, prefix string) bool {
	return len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix)
}

// containsFold reports whether list contains s, ignoring case.
func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}

	return false
}
