package ranking

import (
	"math/rand"
	"slices"
)

// ShufflePool returns m with its pool in random order. Slots are unchanged.
func ShufflePool(m Model, rnd *rand.Rand) Model {
	next := m.clone()
	rnd.Shuffle(len(next.pool), func(i, j int) {
		next.pool[i], next.pool[j] = next.pool[j], next.pool[i]
	})
	return next
}

// Reveal returns m rearranged to match answerKey: key items take the first
// positions, everything else goes to the pool in its current reading order.
func Reveal(m Model, answerKey []string) (Model, error) {
	if err := validateAnswerKey(answerKey, m.Has, m.capacity()); err != nil {
		return Model{}, err
	}

	rest := make([]string, 0, m.Len())
	for _, id := range append(slices.Clone(m.pool), m.slots...) {
		if id != "" && !slices.Contains(answerKey, id) {
			rest = append(rest, id)
		}
	}

	next := Model{
		mode:  m.mode,
		slots: make([]string, len(m.slots)),
		where: make(map[string]ContainerID, m.Len()),
	}
	if m.Mode() == PrefillFlatPool {
		for _, id := range answerKey {
			next.appendPool(id)
		}
	} else {
		for i, id := range answerKey {
			next.fillSlot(i+1, id)
		}
	}
	for _, id := range rest {
		next.appendPool(id)
	}
	return next, nil
}
