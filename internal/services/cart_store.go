package services

import (
	"github.com/shopspring/decimal"

	"cryptobazaar/internal/domain"
)

// CartChangeOp describes what a CartStore mutation did.
type CartChangeOp int

const (
	CartNoop CartChangeOp = iota
	CartLineAdded
	CartLineUpdated
	CartLineRemoved
	CartCleared
	CartHydrated
)

// CartChange is returned by every mutation. Dirty means the remote mirror
// no longer matches the in-session state and the caller should sync; the
// store itself never talks to persistence.
type CartChange struct {
	Op        CartChangeOp
	ProductID string
	Quantity  int
	Dirty     bool
}

// CartStore holds the authoritative in-session cart lines. Invariants: at
// most one line per product id, every quantity >= 1.
type CartStore struct {
	items []domain.CartItem
}

func NewCartStore() *CartStore { return &CartStore{} }

// Initialize replaces the state wholesale from server-fetched rows. It
// reflects existing remote state, so it never marks the store dirty.
// Duplicate ids are merged and non-positive quantities dropped to restore
// the invariants regardless of what was handed in.
func (s *CartStore) Initialize(items []domain.CartItem) CartChange {
	s.items = s.items[:0]
	for _, it := range items {
		if it.Quantity < 1 {
			continue
		}
		if idx := s.index(it.Product.ID); idx >= 0 {
			s.items[idx].Quantity += it.Quantity
			continue
		}
		s.items = append(s.items, it)
	}
	return CartChange{Op: CartHydrated}
}

// Add increments an existing line by 1 or appends a new line with quantity 1.
func (s *CartStore) Add(p domain.Product) CartChange {
	if idx := s.index(p.ID); idx >= 0 {
		s.items[idx].Quantity++
		return CartChange{Op: CartLineUpdated, ProductID: p.ID, Quantity: s.items[idx].Quantity, Dirty: true}
	}
	s.items = append(s.items, domain.CartItem{Product: p, Quantity: 1})
	return CartChange{Op: CartLineAdded, ProductID: p.ID, Quantity: 1, Dirty: true}
}

// Remove drops the line for productID. Absent lines are a no-op, not an error.
func (s *CartStore) Remove(productID string) CartChange {
	idx := s.index(productID)
	if idx < 0 {
		return CartChange{Op: CartNoop, ProductID: productID}
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	return CartChange{Op: CartLineRemoved, ProductID: productID, Dirty: true}
}

// SetQuantity replaces a line's quantity. Quantity <= 0 behaves as Remove.
// A missing line with a positive quantity is a no-op: only Add inserts.
func (s *CartStore) SetQuantity(productID string, quantity int) CartChange {
	if quantity <= 0 {
		return s.Remove(productID)
	}
	idx := s.index(productID)
	if idx < 0 {
		return CartChange{Op: CartNoop, ProductID: productID}
	}
	s.items[idx].Quantity = quantity
	return CartChange{Op: CartLineUpdated, ProductID: productID, Quantity: quantity, Dirty: true}
}

// Clear empties the in-session list without touching the mirror; used
// post-checkout where the orchestrator already cleared the remote rows.
func (s *CartStore) Clear() CartChange {
	s.items = s.items[:0]
	return CartChange{Op: CartCleared}
}

// Items returns a copy of the current lines.
func (s *CartStore) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

func (s *CartStore) TotalItems() int {
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

func (s *CartStore) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.items {
		total = total.Add(it.Subtotal())
	}
	return total
}

func (s *CartStore) index(productID string) int {
	for i, it := range s.items {
		if it.Product.ID == productID {
			return i
		}
	}
	return -1
}
