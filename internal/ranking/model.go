package ranking

import (
	"encoding/json"
	"slices"
)

// PrefillMode selects the initial layout of a model.
type PrefillMode string

const (
	// PrefillEmptySlots puts every item in the pool next to N empty slots.
	PrefillEmptySlots PrefillMode = "empty-slots"
	// PrefillFlatPool puts every item in the pool with no slots; the pool order is the ranking.
	PrefillFlatPool PrefillMode = "flat-pool"
)

func (p PrefillMode) Valid() bool {
	return p == PrefillEmptySlots || p == PrefillFlatPool
}

// Model assigns every item to exactly one container. Values are never mutated
// in place: every transition returns a fresh Model.
type Model struct {
	mode  PrefillMode
	pool  []string
	slots []string // slots[k-1] holds Slot(k), "" when empty
	where map[string]ContainerID
}

// CreateInitialModel places every registry item in the pool in definition order.
func CreateInitialModel(reg *Registry, rankedPositions int, mode PrefillMode) (Model, error) {
	if rankedPositions <= 0 {
		return Model{}, configf("ranked positions must be positive, got %d", rankedPositions)
	}
	slotCount := 0
	switch mode {
	case PrefillEmptySlots:
		slotCount = rankedPositions
	case PrefillFlatPool:
	default:
		return Model{}, configf("unknown prefill mode %q", mode)
	}

	m := Model{
		mode:  mode,
		pool:  reg.IDs(),
		slots: make([]string, slotCount),
		where: make(map[string]ContainerID, reg.Len()),
	}
	for _, id := range m.pool {
		m.where[id] = Pool
	}
	return m, nil
}

// NewModel builds a model from an explicit container mapping. Duplicated ids,
// slots holding more than one item and slots outside 1..slots are rejected.
func NewModel(mode PrefillMode, slots int, contents map[ContainerID][]string) (Model, error) {
	if !mode.Valid() {
		return Model{}, configf("unknown prefill mode %q", mode)
	}
	if slots < 0 {
		return Model{}, invariantf("negative slot count %d", slots)
	}
	if mode == PrefillFlatPool && slots != 0 {
		return Model{}, invariantf("flat-pool model cannot hold %d slots", slots)
	}

	m := Model{
		mode:  mode,
		slots: make([]string, slots),
		where: make(map[string]ContainerID),
	}
	place := func(id string, c ContainerID) error {
		if id == "" {
			return invariantf("empty item id in %s", c)
		}
		if prev, dup := m.where[id]; dup {
			return invariantf("item %q appears in both %s and %s", id, prev, c)
		}
		m.where[id] = c
		return nil
	}

	for _, id := range contents[Pool] {
		if err := place(id, Pool); err != nil {
			return Model{}, err
		}
		m.pool = append(m.pool, id)
	}
	for c, ids := range contents {
		if c.IsPool() {
			continue
		}
		k := c.SlotIndex()
		if k < 1 || k > slots {
			return Model{}, invariantf("%s outside 1..%d", c, slots)
		}
		if len(ids) > 1 {
			return Model{}, invariantf("%s holds %d items", c, len(ids))
		}
		if len(ids) == 0 {
			continue
		}
		if err := place(ids[0], c); err != nil {
			return Model{}, err
		}
		m.slots[k-1] = ids[0]
	}
	return m, nil
}

func (m Model) Mode() PrefillMode {
	if m.mode == "" {
		return PrefillEmptySlots
	}
	return m.mode
}

// Slots returns N, the number of ranked slots.
func (m Model) Slots() int {
	return len(m.slots)
}

// Len returns the number of items across all containers.
func (m Model) Len() int {
	return len(m.where)
}

// Contents returns a copy of the ordered ids held by c. Unknown slots yield nil.
func (m Model) Contents(c ContainerID) []string {
	if c.IsPool() {
		return slices.Clone(m.pool)
	}
	k := c.SlotIndex()
	if k < 1 || k > len(m.slots) {
		return nil
	}
	if m.slots[k-1] == "" {
		return []string{}
	}
	return []string{m.slots[k-1]}
}

// Pool is shorthand for Contents(Pool).
func (m Model) Pool() []string {
	return m.Contents(Pool)
}

// Locate returns the container currently holding id.
func (m Model) Locate(id string) (ContainerID, bool) {
	c, ok := m.where[id]
	return c, ok
}

// Positions reads the ranked positions in order. Empty slots are "".
// In flat-pool mode the pool order is the ranking.
func (m Model) Positions() []string {
	if m.Mode() == PrefillFlatPool {
		return slices.Clone(m.pool)
	}
	return slices.Clone(m.slots)
}

// Arrangement is Positions without the empty slots.
func (m Model) Arrangement() []string {
	out := make([]string, 0, len(m.slots))
	for _, id := range m.Positions() {
		if id != "" {
			out = append(out, id)
		}
	}
	return out
}

// Covers reports an invariant violation unless the model holds exactly the registry's items.
func (m Model) Covers(reg *Registry) error {
	for id := range m.where {
		if !reg.Has(id) {
			return invariantf("item %q is not registered", id)
		}
	}
	if len(m.where) != reg.Len() {
		return invariantf("model holds %d of %d registered items", len(m.where), reg.Len())
	}
	return nil
}

// Equal compares container contents and mode.
func (m Model) Equal(o Model) bool {
	return m.Mode() == o.Mode() &&
		slices.Equal(m.pool, o.pool) &&
		slices.Equal(m.slots, o.slots)
}

// capacity is the number of rankable positions.
func (m Model) capacity() int {
	if m.Mode() == PrefillFlatPool {
		return len(m.pool)
	}
	return len(m.slots)
}

func (m Model) clone() Model {
	next := Model{
		mode:  m.mode,
		pool:  slices.Clone(m.pool),
		slots: slices.Clone(m.slots),
		where: make(map[string]ContainerID, len(m.where)),
	}
	for id, c := range m.where {
		next.where[id] = c
	}
	return next
}

// detach removes id from c. Only used on clones.
func (m *Model) detach(id string, c ContainerID) {
	if c.IsPool() {
		if i := slices.Index(m.pool, id); i >= 0 {
			m.pool = slices.Delete(m.pool, i, i+1)
		}
	} else {
		m.slots[c.SlotIndex()-1] = ""
	}
	delete(m.where, id)
}

func (m *Model) appendPool(id string) {
	m.pool = append(m.pool, id)
	m.where[id] = Pool
}

func (m *Model) fillSlot(k int, id string) {
	m.slots[k-1] = id
	m.where[id] = Slot(k)
}

type modelJSON struct {
	Mode  PrefillMode `json:"mode"`
	Pool  []string    `json:"pool"`
	Slots []string    `json:"slots"`
}

func (m Model) MarshalJSON() ([]byte, error) {
	pool := m.pool
	if pool == nil {
		pool = []string{}
	}
	slots := m.slots
	if slots == nil {
		slots = []string{}
	}
	return json.Marshal(modelJSON{Mode: m.Mode(), Pool: pool, Slots: slots})
}

// UnmarshalJSON rebuilds the model through NewModel so corrupt input is rejected.
func (m *Model) UnmarshalJSON(data []byte) error {
	var raw modelJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Mode == "" {
		raw.Mode = PrefillEmptySlots
	}
	contents := map[ContainerID][]string{Pool: raw.Pool}
	for i, id := range raw.Slots {
		if id != "" {
			contents[Slot(i+1)] = []string{id}
		}
	}
	parsed, err := NewModel(raw.Mode, len(raw.Slots), contents)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
