package ranking

import (
	"fmt"
	"slices"
)

type targetKind int

const (
	targetNone targetKind = iota
	targetContainer
	targetItem
)

// Target is the resolved logical drop target of a drag gesture.
type Target struct {
	kind      targetKind
	container ContainerID
	item      string
}

// NoTarget is a drop that landed nowhere (or a cancelled drag).
var NoTarget = Target{}

// ToContainer targets a container directly.
func ToContainer(c ContainerID) Target {
	return Target{kind: targetContainer, container: c}
}

// ToItem targets another item; it resolves to the container holding that item.
func ToItem(id string) Target {
	if id == "" {
		return NoTarget
	}
	return Target{kind: targetItem, item: id}
}

func (t Target) IsNone() bool {
	return t.kind == targetNone
}

func (t Target) String() string {
	switch t.kind {
	case targetContainer:
		return t.container.String()
	case targetItem:
		return "item:" + t.item
	default:
		return "none"
	}
}

// OutcomeKind classifies a transfer.
type OutcomeKind string

const (
	OutcomeNoop      OutcomeKind = "noop"
	OutcomeReordered OutcomeKind = "reordered"
	OutcomeMoved     OutcomeKind = "moved"
	OutcomeEvicted   OutcomeKind = "evicted"
)

// Outcome describes what a drag did to the model.
type Outcome struct {
	Kind    OutcomeKind `json:"kind"`
	From    ContainerID `json:"from"`
	To      ContainerID `json:"to"`
	Evicted string      `json:"evicted,omitempty"`
}

// ApplyDrag returns the model produced by dropping draggedID on target.
func ApplyDrag(m Model, draggedID string, target Target) (Model, error) {
	next, _, err := Transfer(m, draggedID, target)
	return next, err
}

// Transfer is ApplyDrag that also reports the kind of transition. The input
// model is left untouched; on a no-op the input is returned as is.
func Transfer(m Model, draggedID string, target Target) (Model, Outcome, error) {
	source, ok := m.where[draggedID]
	if !ok {
		return m, Outcome{Kind: OutcomeNoop}, fmt.Errorf("%w: %q", ErrUnknownItem, draggedID)
	}
	noop := Outcome{Kind: OutcomeNoop, From: source, To: source}

	dest, ok := m.resolve(target)
	if !ok || (target.kind == targetItem && target.item == draggedID) {
		return m, noop, nil
	}

	if dest == source {
		if target.kind != targetItem || !source.IsPool() {
			return m, noop, nil
		}
		return m.reorderPool(draggedID, target.item)
	}

	next := m.clone()
	next.detach(draggedID, source)
	out := Outcome{Kind: OutcomeMoved, From: source, To: dest}
	if dest.IsPool() {
		next.appendPool(draggedID)
		return next, out, nil
	}

	k := dest.SlotIndex()
	if occupant := next.slots[k-1]; occupant != "" {
		next.detach(occupant, dest)
		next.appendPool(occupant)
		out.Kind = OutcomeEvicted
		out.Evicted = occupant
	}
	next.fillSlot(k, draggedID)
	return next, out, nil
}

func (m Model) resolve(t Target) (ContainerID, bool) {
	switch t.kind {
	case targetContainer:
		if t.container.IsPool() {
			return Pool, true
		}
		k := t.container.SlotIndex()
		return t.container, k >= 1 && k <= len(m.slots)
	case targetItem:
		c, ok := m.where[t.item]
		return c, ok
	default:
		return Pool, false
	}
}

// reorderPool moves draggedID to the index currently held by targetID.
func (m Model) reorderPool(draggedID, targetID string) (Model, Outcome, error) {
	from := slices.Index(m.pool, draggedID)
	to := slices.Index(m.pool, targetID)
	noop := Outcome{Kind: OutcomeNoop, From: Pool, To: Pool}
	if from < 0 || to < 0 || from == to {
		return m, noop, nil
	}
	next := m.clone()
	next.pool = slices.Delete(next.pool, from, from+1)
	next.pool = slices.Insert(next.pool, to, draggedID)
	return next, Outcome{Kind: OutcomeReordered, From: Pool, To: Pool}, nil
}
