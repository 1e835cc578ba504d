package mapping

import (
	"bytes"
	"errors"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Entry is one shortcut and its replacement.
type Entry struct {
	Key   string
	Value string
}

// Entries is an ordered list of mapping entries. Order is significant: the
// converter applies entries in exactly this sequence.
type Entries []Entry

// Lookup returns the value for key.
func (e Entries) Lookup(key string) (string, bool) {
	for _, entry := range e {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

// Filter returns entries whose key or value contains query, case-insensitively.
// An empty query returns a copy of all entries.
func (e Entries) Filter(query string) Entries {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make(Entries, 0, len(e))
	for _, entry := range e {
		if query == "" ||
			strings.Contains(strings.ToLower(entry.Key), query) ||
			strings.Contains(strings.ToLower(entry.Value), query) {
			out = append(out, entry)
		}
	}
	return out
}

// Tier is a string map that remembers insertion order. Overwriting an
// existing key keeps its position.
type Tier struct {
	pairs *orderedmap.OrderedMap[string, string]
}

var errNotObject = errors.New("not a JSON object")

func NewTier() *Tier {
	return &Tier{pairs: orderedmap.New[string, string]()}
}

// TierOf builds a tier from entries in order.
func TierOf(entries ...Entry) *Tier {
	t := NewTier()
	for _, e := range entries {
		t.Set(e.Key, e.Value)
	}
	return t
}

func (t *Tier) Len() int {
	if t == nil || t.pairs == nil {
		return 0
	}
	return t.pairs.Len()
}

func (t *Tier) Get(key string) (string, bool) {
	if t == nil || t.pairs == nil {
		return "", false
	}
	return t.pairs.Get(key)
}

func (t *Tier) Set(key, value string) {
	if t.pairs == nil {
		t.pairs = orderedmap.New[string, string]()
	}
	t.pairs.Set(key, value)
}

// Delete removes key and reports whether it was present.
func (t *Tier) Delete(key string) bool {
	if t == nil || t.pairs == nil {
		return false
	}
	_, present := t.pairs.Delete(key)
	return present
}

func (t *Tier) Keys() []string {
	if t.Len() == 0 {
		return nil
	}
	out := make([]string, 0, t.pairs.Len())
	for pair := t.pairs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

func (t *Tier) Entries() Entries {
	out := make(Entries, 0, t.Len())
	if t.Len() == 0 {
		return out
	}
	for pair := t.pairs.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, Entry{Key: pair.Key, Value: pair.Value})
	}
	return out
}

func (t *Tier) Clone() *Tier {
	c := NewTier()
	for _, e := range t.Entries() {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Equal compares content and order.
func (t *Tier) Equal(other *Tier) bool {
	if t.Len() != other.Len() {
		return false
	}
	a, b := t.Entries(), other.Entries()
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// MarshalJSON writes the tier as an object in insertion order. An empty
// tier is {}, never null.
func (t *Tier) MarshalJSON() ([]byte, error) {
	if t.Len() == 0 {
		return []byte("{}"), nil
	}
	return t.pairs.MarshalJSON()
}

// UnmarshalJSON reads an object of strings, keeping document order. A key
// repeated in the document keeps its first position and its last value.
func (t *Tier) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return errNotObject
	}
	pairs := orderedmap.New[string, string]()
	if err := pairs.UnmarshalJSON(data); err != nil {
		return err
	}
	t.pairs = pairs
	return nil
}
