package ranking

import (
	"fmt"
	"testing"
)

func testRegistry(t *testing.T, n int) *Registry {
	t.Helper()
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: fmt.Sprintf("opt%d", i+1), Label: fmt.Sprintf("Option %d", i+1)}
	}
	reg, err := NewRegistry(items)
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	return reg
}

// placed builds an empty-slots model with ids dropped into Slot(1), Slot(2), ...
// An empty string leaves the slot empty.
func placed(t *testing.T, reg *Registry, slots int, ids ...string) Model {
	t.Helper()
	m, err := CreateInitialModel(reg, slots, PrefillEmptySlots)
	if err != nil {
		t.Fatalf("initial model: %v", err)
	}
	for i, id := range ids {
		if id == "" {
			continue
		}
		m, err = ApplyDrag(m, id, ToContainer(Slot(i+1)))
		if err != nil {
			t.Fatalf("drag %s to slot %d: %v", id, i+1, err)
		}
	}
	return m
}

// checkInvariants recounts the model from its forward mapping only.
func checkInvariants(t *testing.T, reg *Registry, m Model) {
	t.Helper()
	seen := make(map[string]ContainerID)
	record := func(id string, c ContainerID) {
		if prev, dup := seen[id]; dup {
			t.Fatalf("item %s in both %s and %s", id, prev, c)
		}
		seen[id] = c
		if got, ok := m.Locate(id); !ok || got != c {
			t.Fatalf("reverse index for %s = %v (%v), want %s", id, got, ok, c)
		}
	}
	for _, id := range m.Contents(Pool) {
		record(id, Pool)
	}
	total := len(m.Contents(Pool))
	for k := 1; k <= m.Slots(); k++ {
		ids := m.Contents(Slot(k))
		if len(ids) > 1 {
			t.Fatalf("slot %d holds %d items", k, len(ids))
		}
		for _, id := range ids {
			record(id, Slot(k))
		}
		total += len(ids)
	}
	if total != reg.Len() {
		t.Fatalf("cardinality %d, want %d", total, reg.Len())
	}
	if err := m.Covers(reg); err != nil {
		t.Fatalf("covers: %v", err)
	}
}
