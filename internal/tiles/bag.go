// internal/tiles/bag.go
//
// The shared tile bag of a started game.
// Responsibilities:
//   - Draw tiles for racks (initial deal, post-placement refill, exchange).
//   - Return tiles to the pool (exchange, player leaving mid-game).
//
// Draw semantics: each draw step samples uniformly among the *distinct*
// letters still present, then decrements that letter's count. Rarer letters
// are therefore over-represented relative to a physical bag; this is the
// observable behavior clients were built against and is kept on purpose.
// A letter whose count reaches zero is removed, so an empty map means an
// empty bag.
package tiles

import (
	"math/rand"
	"sort"
)

// Bag is a mutable letter-count pool. It is not safe for concurrent use;
// the dispatcher serializes all mutations of a room, bag included.
type Bag struct {
	counts map[string]int
	rng    *rand.Rand
}

// NewBag seeds a bag with the full initial inventory.
func NewBag(rng *rand.Rand) *Bag {
	return &Bag{counts: InitialQuantities(), rng: rng}
}

// NewBagFrom wraps an existing letter-count table, e.g. a room's persisted
// tilesLeft column. The map is used directly, not copied.
func NewBagFrom(counts map[string]int, rng *rand.Rand) *Bag {
	return &Bag{counts: counts, rng: rng}
}

// Counts exposes the underlying letter-count table for persistence.
func (b *Bag) Counts() map[string]int { return b.counts }

// Total reports how many tiles remain across all letters.
func (b *Bag) Total() int {
	total := 0
	for _, n := range b.counts {
		total += n
	}
	return total
}

// Empty reports whether no tiles remain.
func (b *Bag) Empty() bool { return len(b.counts) == 0 }

// Draw removes one tile, sampled uniformly over the distinct letters left.
// Returns false when the bag is empty.
func (b *Bag) Draw() (string, bool) {
	if len(b.counts) == 0 {
		return "", false
	}
	keys := make([]string, 0, len(b.counts))
	for l := range b.counts {
		keys = append(keys, l)
	}
	sort.Strings(keys)
	letter := keys[b.rng.Intn(len(keys))]
	if b.counts[letter] > 1 {
		b.counts[letter]--
	} else {
		delete(b.counts, letter)
	}
	return letter, true
}

// Return puts one tile of the given letter back into the pool.
func (b *Bag) Return(letter string) {
	b.counts[letter]++
}

// DealRacks draws an initial rack for every player in order. Racks may come
// up short if the bag runs dry mid-deal.
func (b *Bag) DealRacks(playerIDs []string) map[string][]string {
	racks := make(map[string][]string, len(playerIDs))
	for _, id := range playerIDs {
		rack := make([]string, 0, RackSize)
		for len(rack) < RackSize {
			letter, ok := b.Draw()
			if !ok {
				break
			}
			rack = append(rack, letter)
		}
		racks[id] = rack
	}
	return racks
}

// Refill draws replacements into the given rack slots. Slots that cannot be
// refilled because the bag is short are dropped from the rack entirely, so
// the returned rack never carries blank entries. Callers exchanging tiles
// must Return the outgoing letters before calling Refill.
func (b *Bag) Refill(rack []string, slots []int) []string {
	out := make([]string, len(rack))
	copy(out, rack)

	refillable := slots
	if total := b.Total(); total < len(slots) {
		refillable = slots[:total]
		for _, idx := range slots[total:] {
			out[idx] = ""
		}
	}
	for _, idx := range refillable {
		letter, ok := b.Draw()
		if !ok {
			out[idx] = ""
			continue
		}
		out[idx] = letter
	}

	filtered := out[:0:len(out)]
	for _, l := range out {
		if l != "" {
			filtered = append(filtered, l)
		}
	}
	return filtered
}
