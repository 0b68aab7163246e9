package cart

import "sort"

// Cart is the ephemeral per-session mapping of dish id to quantity.
// All mutation happens through these value operations; persistence is
// the store's concern.
type Cart map[int64]int

// Count returns the sum of all quantities, used for the badge display.
func (c Cart) Count() int {
	total := 0
	for _, qty := range c {
		total += qty
	}
	return total
}

// Add increments the quantity for dishID (starting from zero) and
// returns the new quantity.
func (c Cart) Add(dishID int64) int {
	c[dishID]++
	return c[dishID]
}

// Set replaces the quantity for dishID. Quantities at or below zero
// remove the entry.
func (c Cart) Set(dishID int64, qty int) {
	if qty <= 0 {
		delete(c, dishID)
		return
	}
	c[dishID] = qty
}

// Remove deletes the entry if present; no-op otherwise.
func (c Cart) Remove(dishID int64) {
	delete(c, dishID)
}

// IDs returns the dish ids in ascending order so lookups and logs stay
// deterministic.
func (c Cart) IDs() []int64 {
	ids := make([]int64, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
