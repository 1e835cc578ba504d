package mapping

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func sampleTable() *Table {
	t := NewTable()
	t.Fixed.Set(";a", "α")
	t.Fixed.Set(";b", "β")
	t.Fixed.Set(";c", "γ")
	t.Custom.Set(";z", "ζ")
	t.Custom.Set(";b", "B")
	return t
}

func TestTierOverwriteKeepsPosition(t *testing.T) {
	tier := TierOf(Entry{"x", "1"}, Entry{"y", "2"})
	tier.Set("x", "3")

	assert.Equal(t, Entries{{"x", "3"}, {"y", "2"}}, tier.Entries())
}

func TestTierDelete(t *testing.T) {
	tier := TierOf(Entry{"x", "1"}, Entry{"y", "2"}, Entry{"z", "3"})

	assert.True(t, tier.Delete("y"))
	assert.False(t, tier.Delete("y"))
	assert.Equal(t, []string{"x", "z"}, tier.Keys())

	tier.Set("y", "4")
	assert.Equal(t, []string{"x", "z", "y"}, tier.Keys())
}

func TestMergedCustomWins(t *testing.T) {
	table := sampleTable()

	merged := table.Merged()

	for _, key := range table.Custom.Keys() {
		if _, inFixed := table.Fixed.Get(key); !inFixed {
			continue
		}
		want, _ := table.Custom.Get(key)
		got, ok := merged.Lookup(key)
		assert.True(t, ok)
		assert.Equal(t, want, got, key)
	}
}

func TestMergedOrderFollowsOverlay(t *testing.T) {
	want := Entries{
		{";a", "α"},
		{";b", "B"},
		{";c", "γ"},
		{";z", "ζ"},
	}
	if diff := cmp.Diff(want, sampleTable().Merged()); diff != "" {
		t.Errorf("merged view mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoveCustomAbsentKeyIsNoop(t *testing.T) {
	table := sampleTable()
	before := table.Clone()

	assert.False(t, table.RemoveCustom(";nothing"))
	assert.False(t, table.RemoveCustom(";a"), "fixed-only key must not be removable")

	assert.True(t, before.Equal(table))
}

func TestAddThenRemoveRestoresCustomTier(t *testing.T) {
	table := sampleTable()
	before := table.Clone()

	table.AddCustom(";;스타", "★")
	assert.True(t, table.RemoveCustom(";;스타"))

	assert.True(t, before.Custom.Equal(table.Custom))
	assert.True(t, before.Fixed.Equal(table.Fixed))
}

func TestRemoveOverrideRevealsFixedValue(t *testing.T) {
	table := sampleTable()

	assert.True(t, table.RemoveCustom(";b"))

	v, ok := table.Merged().Lookup(";b")
	assert.True(t, ok)
	assert.Equal(t, "β", v)
}

func TestEntriesFilter(t *testing.T) {
	entries := sampleTable().Merged()

	assert.Equal(t, Entries{{";z", "ζ"}}, entries.Filter("Z"))
	assert.Equal(t, Entries{{";c", "γ"}}, entries.Filter("γ"))
	assert.Len(t, entries.Filter("  "), len(entries))
}
