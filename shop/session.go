// Package shop holds the per-client cart and order history.
package shop

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/localrivet/storefront/catalog"
)

// DefaultCurrency is used when Settings leaves Currency empty.
const DefaultCurrency = "USD"

var (
	// ErrNoOrderHistory is returned by LastOrder before the first checkout.
	ErrNoOrderHistory = errors.New("no order history yet")
	// ErrInvalidQuantity is returned for quantities below the allowed minimum.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

// NotStockedError reports an item name that matches nothing in the catalog.
type NotStockedError struct {
	Name string
}

func (e *NotStockedError) Error() string {
	return "Brand Z Sports store does not stock " + e.Name
}

// Settings configures the values a Session stamps onto cart and order lines.
type Settings struct {
	Currency        string
	ImagesServerURL string

	// Now and NewOrderNumber default to time.Now and "ORD-" plus a random UUID.
	Now            func() time.Time
	NewOrderNumber func() string
}

func (s Settings) withDefaults() Settings {
	if s.Currency == "" {
		s.Currency = DefaultCurrency
	}
	if s.Now == nil {
		s.Now = time.Now
	}
	if s.NewOrderNumber == nil {
		s.NewOrderNumber = func() string { return "ORD-" + uuid.NewString() }
	}
	return s
}

// Session is the cart and order history of one client. It is safe for
// concurrent use, though a client normally issues one call at a time.
type Session struct {
	catalog  *catalog.Catalog
	settings Settings

	mu      sync.Mutex
	order   []catalog.ItemID
	qty     map[catalog.ItemID]int
	history []*Order
}

// NewSession creates an empty session.
func NewSession(cat *catalog.Catalog, settings Settings) *Session {
	return &Session{
		catalog:  cat,
		settings: settings.withDefaults(),
		qty:      make(map[catalog.ItemID]int),
	}
}

// Currency returns the currency of all prices in this session.
func (s *Session) Currency() string { return s.settings.Currency }

func (s *Session) lookup(name string) (catalog.Item, error) {
	it, ok := s.catalog.Lookup(name)
	if !ok {
		return catalog.Item{}, &NotStockedError{Name: name}
	}
	return it, nil
}

// AddToCart adds quantity units of the named item, merging with any units
// already in the cart.
func (s *Session) AddToCart(name string, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w %d: must be at least 1", ErrInvalidQuantity, quantity)
	}
	it, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(it.ID, s.qty[it.ID]+quantity)
	return nil
}

// ChangeQuantity sets the quantity of the named item. Zero removes it.
func (s *Session) ChangeQuantity(name string, quantity int) error {
	if quantity < 0 {
		return fmt.Errorf("%w %d: must not be negative", ErrInvalidQuantity, quantity)
	}
	it, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(it.ID, quantity)
	return nil
}

// Remove drops the named item from the cart. Removing an item that is not
// in the cart is not an error.
func (s *Session) Remove(name string) error {
	it, err := s.lookup(name)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(it.ID, 0)
	return nil
}

func (s *Session) setLocked(id catalog.ItemID, quantity int) {
	_, present := s.qty[id]
	switch {
	case quantity <= 0:
		if !present {
			return
		}
		delete(s.qty, id)
		for i, o := range s.order {
			if o == id {
				s.order = append(s.order[:i], s.order[i+1:]...)
				break
			}
		}
	default:
		if !present {
			s.order = append(s.order, id)
		}
		s.qty[id] = quantity
	}
}

// Cart returns a snapshot of the cart in the order items were first added.
func (s *Session) Cart() *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return newCart(s.itemsLocked(), s.settings.Currency)
}

func (s *Session) itemsLocked() []OrderItem {
	items := make([]OrderItem, 0, len(s.order))
	for _, id := range s.order {
		it, ok := s.catalog.ByID(id)
		if !ok {
			continue
		}
		q := s.qty[id]
		items = append(items, OrderItem{
			ItemName: it.Label,
			Qty:      q,
			Rate:     it.Price,
			Cost:     roundCents(it.Price * float64(q)),
			Image:    s.settings.ImagesServerURL + it.ImageFile(),
			Currency: s.settings.Currency,
		})
	}
	return items
}

// Checkout turns the cart into an order, records it and empties the cart.
// An empty cart still produces an order with no items.
func (s *Session) Checkout() *Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	o := newOrder(s.settings.NewOrderNumber(), s.settings.Now(), s.itemsLocked(), s.settings.Currency)
	s.history = append(s.history, o)
	s.order = nil
	s.qty = make(map[catalog.ItemID]int)
	return o
}

// LastOrder returns the most recent order.
func (s *Session) LastOrder() (*Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.history) == 0 {
		return nil, ErrNoOrderHistory
	}
	return s.history[len(s.history)-1], nil
}

// Orders returns the number of orders placed so far.
func (s *Session) Orders() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.history)
}
