package vars

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/ardnew/bakery/escape"
)

// MaxExpandDepth bounds both the passes of [Store.Expand] and the length
// of any one substitution chain.
const MaxExpandDepth = 32

// Var is one stored variable.
type Var struct {
	Tier  Tier   `json:"tier"  yaml:"tier"`
	Name  string `json:"name"  yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

type entry struct {
	name  string // spelling of the last write
	value string
}

// Store is a three-tier, case-insensitive variable namespace.
//
// A Store is safe for concurrent use, but the values of one build belong
// to one Store. Parallel builds each take their own, see [Store.Clone].
type Store struct {
	mu    sync.RWMutex
	prec  Precedence
	tiers [numTiers]map[string]entry
}

// Option configures a [Store].
type Option func(*Store)

// WithPrecedence sets the tier search order used by lookups and expansion.
func WithPrecedence(p Precedence) Option {
	return func(s *Store) { s.prec = p }
}

// New returns an empty Store.
func New(opts ...Option) *Store {
	s := &Store{prec: PrecedenceLocalFirst}
	for i := range s.tiers {
		s.tiers[i] = make(map[string]entry)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	return s
}

// Clone returns an independent copy of s.
func (s *Store) Clone() *Store {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c := &Store{prec: s.prec}
	for i, m := range s.tiers {
		c.tiers[i] = make(map[string]entry, len(m))
		for k, v := range m {
			c.tiers[i][k] = v
		}
	}

	return c
}

// Precedence returns the tier search order.
func (s *Store) Precedence() Precedence { return s.prec }

// Get returns the raw, unexpanded value of name in tier.
func (s *Store) Get(tier Tier, name string) (string, bool) {
	if !tier.valid() {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.tiers[tier][fold(TrimPercent(name))]

	return e.value, ok
}

// Lookup returns the raw value of name from the first tier, in precedence
// order, that defines it.
func (s *Store) Lookup(name string) (string, Tier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lookup(fold(TrimPercent(name)))
}

func (s *Store) lookup(key string) (string, Tier, bool) {
	for _, t := range s.prec.order() {
		if e, ok := s.tiers[t][key]; ok {
			return e.value, t, true
		}
	}

	return "", 0, false
}

// SetValue stores value under name in tier. The fixed tier is read-only
// and values that would refer back to name are rejected.
func (s *Store) SetValue(tier Tier, name, value string) error {
	if !tier.valid() {
		return ErrInvalidEnum.With(slog.Int("tier", int(tier)))
	}

	if tier == TierFixed {
		return ErrReadOnlyTier.With(slog.String("name", name))
	}

	name, err := checkName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.circular(name, value) {
		return ErrCircular.With(slog.String("name", name), slog.String("value", value))
	}

	s.tiers[tier][fold(name)] = entry{name: name, value: value}

	return nil
}

// SetFixedValue stores value under name in the fixed tier. It is the
// privileged path for built-in values and skips the circular check.
func (s *Store) SetFixedValue(name, value string) error {
	name, err := checkName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tiers[TierFixed][fold(name)] = entry{name: name, value: value}

	return nil
}

// Delete removes name from tier and reports whether it was present.
func (s *Store) Delete(tier Tier, name string) bool {
	if !tier.valid() {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := fold(TrimPercent(name))
	_, ok := s.tiers[tier][key]
	delete(s.tiers[tier], key)

	return ok
}

// Reset clears tier.
func (s *Store) Reset(tier Tier) {
	if !tier.valid() {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	clear(s.tiers[tier])
}

// Vars returns the variables of tier sorted by name.
func (s *Store) Vars(tier Tier) []Var {
	if !tier.valid() {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	vs := make([]Var, 0, len(s.tiers[tier]))
	for _, e := range s.tiers[tier] {
		vs = append(vs, Var{Tier: tier, Name: e.name, Value: e.value})
	}

	slices.SortFunc(vs, func(a, b Var) int { return cmp.Compare(fold(a.Name), fold(b.Name)) })

	return vs
}

// Names returns the distinct names visible in any tier, sorted.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]string)
	for _, t := range s.prec.order() {
		for k, e := range s.tiers[t] {
			if _, ok := seen[k]; !ok {
				seen[k] = e.name
			}
		}
	}

	names := make([]string, 0, len(seen))
	for _, n := range seen {
		names = append(names, n)
	}

	slices.SortFunc(names, func(a, b string) int { return cmp.Compare(fold(a), fold(b)) })

	return names
}

// CheckCircularReference reports whether assigning value to name would
// make name refer to itself, directly or through other variables.
func (s *Store) CheckCircularReference(name, value string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.circular(TrimPercent(name), value)
}

func (s *Store) circular(name, value string) bool {
	ref := fold("%" + name + "%")

	str := value
	for range MaxExpandDepth {
		if strings.Contains(fold(str), ref) {
			return true
		}

		next := escape.UnescapePercent(s.expand(str))
		if next == str {
			break
		}

		str = next
	}

	return false
}

// TrimPercent removes one pair of enclosing '%' from name.
func TrimPercent(name string) string {
	if len(name) >= 2 && name[0] == '%' && name[len(name)-1] == '%' {
		return name[1 : len(name)-1]
	}

	return name
}

func checkName(name string) (string, error) {
	name = strings.TrimSpace(TrimPercent(strings.TrimSpace(name)))
	if name == "" || strings.ContainsAny(name, "% ") {
		return "", ErrInvalidKey.With(slog.String("name", name))
	}

	return name, nil
}

func fold(s string) string { return strings.ToLower(s) }

func equalFold(a, b string) bool { return strings.EqualFold(a, b) }

func slogString(key, value string) slog.Attr { return slog.String(key, value) }
