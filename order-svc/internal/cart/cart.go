// Package cart holds the per-session shopping carts. Carts live in memory
// only and are lost on restart.
package cart

import (
	"sync"
	"time"

	"gourmet-ordering/order-svc/internal/domain"
)

type Cart struct {
	mu         sync.RWMutex
	items      []domain.CartItem
	isOpen     bool
	submitting bool
}

func New() *Cart {
	return &Cart{items: []domain.CartItem{}}
}

// AddItem increments the quantity of an existing entry or appends a new one
// with quantity 1. The stored entry keeps the fields it was first added with.
func (c *Cart) AddItem(item domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		if c.items[i].ID == item.ID {
			c.items[i].Quantity++
			return
		}
	}
	item.Quantity = 1
	c.items = append(c.items, item)
}

func (c *Cart) RemoveItem(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.remove(id)
}

// UpdateQuantity sets the quantity of id; quantity <= 0 removes the entry.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id string, quantity int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if quantity <= 0 {
		c.remove(id)
		return
	}
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = []domain.CartItem{}
}

// RemoveLines takes the given quantities out of the cart. Entries that reach
// zero are removed; anything added since the lines were read stays.
func (c *Cart) RemoveLines(lines []domain.CartItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range lines {
		for i := range c.items {
			if c.items[i].ID != line.ID {
				continue
			}
			c.items[i].Quantity -= line.Quantity
			if c.items[i].Quantity <= 0 {
				c.remove(line.ID)
			}
			break
		}
	}
}

// BeginCheckout marks the cart as being checked out. It returns false if a
// checkout is already running.
func (c *Cart) BeginCheckout() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

func (c *Cart) EndCheckout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
}

func (c *Cart) Open() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = true
}

func (c *Cart) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isOpen = false
}

func (c *Cart) IsOpen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isOpen
}

func (c *Cart) Items() []domain.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.CartItem{}, c.items...)
}

// Total is the sum of price x quantity. Discounts are not applied.
func (c *Cart) Total() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.total()
}

// DiscountedTotal applies each entry's discount. It is for display only.
func (c *Cart) DiscountedTotal() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.discountedTotal()
}

func (c *Cart) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count()
}

func (c *Cart) State() domain.CartState {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return domain.CartState{
		Items:           append([]domain.CartItem{}, c.items...),
		Total:           c.total(),
		DiscountedTotal: c.discountedTotal(),
		Count:           c.count(),
		IsOpen:          c.isOpen,
	}
}

func (c *Cart) total() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}

func (c *Cart) discountedTotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.DiscountedPrice() * float64(item.Quantity)
	}
	return total
}

func (c *Cart) count() int {
	count := 0
	for _, item := range c.items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) remove(id string) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Registry hands out one Cart per session id. Carts not requested since a
// Sweep cutoff are dropped.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*entry
}

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

func NewRegistry() *Registry {
	return &Registry{carts: make(map[string]*entry)}
}

func (r *Registry) Get(sessionID string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.carts[sessionID]
	if !ok {
		e = &entry{cart: New()}
		r.carts[sessionID] = e
	}
	e.lastSeen = time.Now()
	return e.cart
}

// Sweep drops carts last requested before cutoff and returns how many went.
func (r *Registry) Sweep(cutoff time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, e := range r.carts {
		if e.lastSeen.Before(cutoff) {
			delete(r.carts, id)
			removed++
		}
	}
	return removed
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}
