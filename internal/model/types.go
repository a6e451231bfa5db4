// Package model defines domain types used by the service.
package model

import "strings"

// Names with dedicated aging rules.
const (
	NameSulfuras       = "Sulfuras, Hand of Ragnaros"
	NameAgedBrie       = "Aged Brie"
	NameBackstagePass  = "Backstage passes to a TAFKAL80ETC concert"
	ConjuredNamePrefix = "Conjured"
)

// Item is one stock-keeping unit.
type Item struct {
	Name    string `json:"name"`
	SellIn  int    `json:"sell_in"`
	Quality int    `json:"quality"`
}

// NewItem builds an Item. Values are not validated.
func NewItem(name string, sellIn, quality int) Item {
	return Item{Name: name, SellIn: sellIn, Quality: quality}
}

// Category returns the aging category selected by the item name.
func (it Item) Category() Category { return Classify(it.Name) }

// Category is the aging behaviour an item follows.
type Category int

const (
	Ordinary Category = iota
	AgedBrie
	BackstagePass
	Legendary
	Conjured
)

var categoryNames = [...]string{
	Ordinary:      "ordinary",
	AgedBrie:      "aged_brie",
	BackstagePass: "backstage_pass",
	Legendary:     "legendary",
	Conjured:      "conjured",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// Classify maps an item name to its Category. Names that match no special
// rule are Ordinary.
func Classify(name string) Category {
	switch name {
	case NameSulfuras:
		return Legendary
	case NameAgedBrie:
		return AgedBrie
	case NameBackstagePass:
		return BackstagePass
	}
	if strings.HasPrefix(name, ConjuredNamePrefix) {
		return Conjured
	}
	return Ordinary
}

// Event represents an incoming stock update for one item.
type Event struct {
	ItemID   string  `json:"item_id"`
	Name     *string `json:"name,omitempty"`
	SellIn   *int    `json:"sell_in,omitempty"`
	Quality  *int    `json:"quality,omitempty"`
	Sequence uint64  `json:"-"`
}

// StockItem represents the current state of a stored item.
type StockItem struct {
	ItemID string `json:"item_id"`
	Item
	Category string `json:"category"`
}
