package mapping

import (
	"encoding/json"
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Table is the two-tier mapping document. Fixed ships with the tool and is
// read-only at runtime; Custom holds user additions.
type Table struct {
	Fixed  *Tier
	Custom *Tier

	// extra holds top-level document members other than the two tiers, in
	// document order, so they survive a rewrite.
	extra *orderedmap.OrderedMap[string, json.RawMessage]
}

func NewTable() *Table {
	return &Table{
		Fixed:  NewTier(),
		Custom: NewTier(),
		extra:  orderedmap.New[string, json.RawMessage](),
	}
}

// AddCustom inserts or overwrites key in the custom tier.
func (t *Table) AddCustom(key, value string) {
	t.Custom.Set(key, value)
}

// RemoveCustom deletes key from the custom tier only. Keys that are absent or
// only present in the fixed tier are left alone.
func (t *Table) RemoveCustom(key string) bool {
	return t.Custom.Delete(key)
}

// Merged overlays custom on fixed. A custom key that also exists in fixed
// keeps the fixed position with the custom value; new custom keys follow in
// custom order.
func (t *Table) Merged() Entries {
	merged := t.Fixed.Clone()
	for _, e := range t.Custom.Entries() {
		merged.Set(e.Key, e.Value)
	}
	return merged.Entries()
}

func (t *Table) Clone() *Table {
	c := &Table{
		Fixed:  t.Fixed.Clone(),
		Custom: t.Custom.Clone(),
		extra:  orderedmap.New[string, json.RawMessage](),
	}
	for name, value := range t.extraMembers() {
		c.extra.Set(name, append(json.RawMessage(nil), value...))
	}
	return c
}

// extraMembers yields the preserved members in document order.
func (t *Table) extraMembers() iter.Seq2[string, json.RawMessage] {
	return func(yield func(string, json.RawMessage) bool) {
		if t.extra == nil {
			return
		}
		for pair := t.extra.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// Equal compares both tiers including order. Extra members are ignored.
func (t *Table) Equal(other *Table) bool {
	return t.Fixed.Equal(other.Fixed) && t.Custom.Equal(other.Custom)
}
