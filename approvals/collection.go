package approvals

import (
	"sync"
)

// Collection is the in-memory set of normalized approvals for the wallet
// currently being inspected. It is the single shared mutable resource of the
// pipeline: a fresh fetch replaces it wholesale, a confirmed revocation
// patches one entry. Both happen under the lock so a concurrent
// sort/filter read never observes a half-applied update.
//
// Entries are keyed by (token, spender); within one snapshot no two entries
// share a key.
type Collection struct {
	mu    sync.RWMutex
	items []Approval
}

func NewCollection() *Collection {
	return &Collection{}
}

// Replace swaps the whole collection for a freshly normalized snapshot.
// Duplicate keys within the snapshot violate the source's own contract;
// the first occurrence wins and the rest are dropped.
func (c *Collection) Replace(items []Approval) {
	seen := make(map[Key]bool, len(items))
	deduped := make([]Approval, 0, len(items))
	for _, a := range items {
		k := a.Key()
		if seen[k] {
			continue
		}
		seen[k] = true
		deduped = append(deduped, a)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = deduped
}

// Snapshot returns a copy of the current entries. Callers may sort and
// filter the copy freely without aliasing the shared state.
func (c *Collection) Snapshot() []Approval {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Approval, len(c.items))
	copy(out, c.items)
	return out
}

// Get looks an approval up by key.
func (c *Collection) Get(k Key) (Approval, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, a := range c.items {
		if a.Key() == k {
			return a, true
		}
	}
	return Approval{}, false
}

// ZeroOut marks the approval under k as revoked: allowance zero, not
// unlimited, nothing at risk anymore. The entry stays in the collection so
// the user sees the row flip to zero rather than vanish. Returns false when
// no entry matches.
func (c *Collection) ZeroOut(k Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Key() == k {
			c.items[i].ApprovedAmount = 0
			c.items[i].Unlimited = false
			c.items[i].USDAtRisk = nil
			return true
		}
	}
	return false
}

// TotalApprovals is the headline approval count, always computed over the
// full unfiltered set regardless of the display policy in effect.
func (c *Collection) TotalApprovals() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// TotalValueAtRisk is the headline USD sum over the full unfiltered set,
// counting unknown risk as 0.
func (c *Collection) TotalValueAtRisk() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0.0
	for _, a := range c.items {
		total += a.RiskUSD()
	}
	return total
}
