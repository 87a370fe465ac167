package ranking

// Item is a rankable entry shown to the player.
type Item struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

// Registry is the immutable list of items for one quiz instance.
type Registry struct {
	items []Item
	index map[string]int
}

// NewRegistry copies items and rejects empty or duplicate ids.
func NewRegistry(items []Item) (*Registry, error) {
	r := &Registry{
		items: make([]Item, len(items)),
		index: make(map[string]int, len(items)),
	}
	copy(r.items, items)
	for i, item := range r.items {
		if item.ID == "" {
			return nil, configf("item %d has an empty id", i)
		}
		if _, dup := r.index[item.ID]; dup {
			return nil, configf("duplicate item id %q", item.ID)
		}
		r.index[item.ID] = i
	}
	return r, nil
}

// Items returns a copy of the registered items in definition order.
func (r *Registry) Items() []Item {
	out := make([]Item, len(r.items))
	copy(out, r.items)
	return out
}

func (r *Registry) Len() int {
	return len(r.items)
}

func (r *Registry) Lookup(id string) (Item, bool) {
	i, ok := r.index[id]
	if !ok {
		return Item{}, false
	}
	return r.items[i], true
}

func (r *Registry) Has(id string) bool {
	_, ok := r.index[id]
	return ok
}

// IDs returns item ids in definition order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.items))
	for i, item := range r.items {
		ids[i] = item.ID
	}
	return ids
}
