// Package catalog defines the fixed set of sports items the store sells.
package catalog

import (
	"fmt"
	"regexp"
	"strings"
)

// ItemID is a stable identifier for a catalog entry.
type ItemID string

const (
	TennisNet    ItemID = "TENNIS_NET"
	Football     ItemID = "FOOTBALL"
	TennisRaquet ItemID = "TENNIS_RAQUET"
	TennisBall   ItemID = "TENNIS_BALL"
)

// Item is one product in the catalog. Prices are in the store currency.
type Item struct {
	ID     ItemID
	Label  string
	Price  float64
	Detail string
}

// ImageFile returns the image file name: the label lowercased with spaces
// replaced by underscores, plus ".png".
func (it Item) ImageFile() string {
	return strings.ToLower(strings.ReplaceAll(it.Label, " ", "_")) + ".png"
}

// NormalizedLabel returns the lookup key for the item.
func (it Item) NormalizedLabel() string {
	return NormalizeLabel(it.Label)
}

func (it Item) String() string { return it.Label }

var nonAlnum = regexp.MustCompile(`[^a-z0-9]`)

// NormalizeLabel lowercases s and strips everything except a-z and 0-9,
// so "Tennis-Ball", "tennis ball" and "TennisBall" all map to "tennisball".
func NormalizeLabel(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// Catalog is an immutable list of items plus a normalized-label lookup table.
type Catalog struct {
	items   []Item
	byLabel map[string]Item
	byID    map[ItemID]Item
}

// New builds a catalog. Items whose labels normalize to the same key are rejected.
func New(items ...Item) (*Catalog, error) {
	c := &Catalog{
		items:   make([]Item, 0, len(items)),
		byLabel: make(map[string]Item, len(items)),
		byID:    make(map[ItemID]Item, len(items)),
	}
	for _, it := range items {
		key := it.NormalizedLabel()
		if key == "" {
			return nil, fmt.Errorf("catalog: item %s has an empty label", it.ID)
		}
		if prev, dup := c.byLabel[key]; dup {
			return nil, fmt.Errorf("catalog: %q and %q share lookup key %q", prev.Label, it.Label, key)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate item id %s", it.ID)
		}
		c.items = append(c.items, it)
		c.byLabel[key] = it
		c.byID[it.ID] = it
	}
	return c, nil
}

// Default returns the Brand Z catalog.
func Default() *Catalog {
	c, err := New(
		Item{ID: TennisNet, Label: "Tennis net", Price: 10.0, Detail: "Standard net used while playing tennis"},
		Item{ID: Football, Label: "Football", Price: 10.1, Detail: "Also known as a soccer ball. This is not a rugby ball"},
		Item{ID: TennisRaquet, Label: "Tennis raquet", Price: 10.2, Detail: "Standard Tennis Raquet"},
		Item{ID: TennisBall, Label: "Tennis ball", Price: 10.3, Detail: "Standard Tennis ball"},
	)
	if err != nil {
		panic(err)
	}
	return c
}

// Items returns the items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Labels returns the item labels in catalog order.
func (c *Catalog) Labels() []string {
	out := make([]string, len(c.items))
	for i, it := range c.items {
		out[i] = it.Label
	}
	return out
}

// Lookup finds an item by any spelling of its label.
func (c *Catalog) Lookup(name string) (Item, bool) {
	it, ok := c.byLabel[NormalizeLabel(name)]
	return it, ok
}

// ByID finds an item by its identifier.
func (c *Catalog) ByID(id ItemID) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}
