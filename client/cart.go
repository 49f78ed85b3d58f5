package client

import (
	"encoding/json"

	"github.com/kdiomande/maillots/app/models"
)

// Jersey is a catalogue item as the storefront sees it. The ID exists only
// client-side; orders capture a name/price snapshot instead.
type Jersey struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartEntry is one selected jersey with its quantity.
type CartEntry struct {
	Jersey   Jersey `json:"jersey"`
	Quantity int    `json:"quantity"`
}

// Cart manages the pre-checkout selection. Every mutation synchronously
// persists the full snapshot under CartKey, so the cart survives restarts.
// The cart never talks to the server; checkout converts it to line items.
type Cart struct {
	storage Storage
	entries []CartEntry
}

// NewCart rehydrates the cart from storage, starting empty when the stored
// snapshot is absent or corrupt.
func NewCart(storage Storage) *Cart {
	c := &Cart{storage: storage}

	raw, ok := storage.Get(CartKey)
	if !ok {
		return c
	}
	if err := json.Unmarshal([]byte(raw), &c.entries); err != nil {
		c.entries = nil
	}
	return c
}

// Add merges qty into the existing entry for the same jersey ID, or
// appends a new entry. Quantities below 1 count as 1.
func (c *Cart) Add(jersey Jersey, qty int) error {
	if qty < 1 {
		qty = 1
	}

	for i := range c.entries {
		if c.entries[i].Jersey.ID == jersey.ID {
			c.entries[i].Quantity += qty
			return c.persist()
		}
	}

	c.entries = append(c.entries, CartEntry{Jersey: jersey, Quantity: qty})
	return c.persist()
}

// Remove drops the entry for id; removing an absent id is a no-op.
func (c *Cart) Remove(id int) error {
	for i := range c.entries {
		if c.entries[i].Jersey.ID == id {
			c.entries = append(c.entries[:i], c.entries[i+1:]...)
			return c.persist()
		}
	}
	return nil
}

// UpdateQuantity sets the quantity directly, clamped to a minimum of 1.
// Unknown ids are ignored.
func (c *Cart) UpdateQuantity(id, qty int) error {
	if qty < 1 {
		qty = 1
	}

	for i := range c.entries {
		if c.entries[i].Jersey.ID == id {
			c.entries[i].Quantity = qty
			return c.persist()
		}
	}
	return nil
}

// Entries returns a copy of the current cart content.
func (c *Cart) Entries() []CartEntry {
	out := make([]CartEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// TotalCount returns the summed quantity across entries.
func (c *Cart) TotalCount() int {
	var n int
	for _, e := range c.entries {
		n += e.Quantity
	}
	return n
}

// TotalPrice returns the summed price × quantity across entries.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, e := range c.entries {
		total += e.Jersey.Price * float64(e.Quantity)
	}
	return total
}

// Empty reports whether the cart has no entries.
func (c *Cart) Empty() bool { return len(c.entries) == 0 }

// ClearAll empties the cart and its stored snapshot. Called only after a
// successful order submission.
func (c *Cart) ClearAll() error {
	c.entries = nil
	return c.storage.Clear(CartKey)
}

// Lines converts the cart into the order line items the API expects.
func (c *Cart) Lines() []models.CartLine {
	lines := make([]models.CartLine, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, models.CartLine{
			Jersey:   models.Jersey{Name: e.Jersey.Name, Price: e.Jersey.Price},
			Quantity: e.Quantity,
		})
	}
	return lines
}

func (c *Cart) persist() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}
	return c.storage.Set(CartKey, string(data))
}
