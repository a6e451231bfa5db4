// Package aging applies the daily sell-in and quality rules to stock items.
package aging

import "github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"

// MaxQuality caps quality for every non-legendary item.
const MaxQuality = 50

// Backstage pass thresholds, compared against sell-in before it is decremented.
const (
	passDoubleBelow = 11
	passTripleBelow = 6
)

// AdvanceOneDay ages every item by one day in place. The slice is never
// resized and no input is rejected.
func AdvanceOneDay(items []model.Item) {
	for i := range items {
		Age(&items[i])
	}
}

// Age applies one day to a single item.
func Age(it *model.Item) {
	switch it.Category() {
	case model.Legendary:
		return
	case model.AgedBrie:
		ageBrie(it)
	case model.BackstagePass:
		agePass(it)
	case model.Conjured:
		ageDegrading(it, 2)
	default:
		ageDegrading(it, 1)
	}
}

func ageBrie(it *model.Item) {
	raise(it)
	it.SellIn--
	if expired(it) {
		raise(it)
	}
}

func agePass(it *model.Item) {
	if it.Quality < MaxQuality {
		raise(it)
		if it.SellIn < passDoubleBelow {
			raise(it)
		}
		if it.SellIn < passTripleBelow {
			raise(it)
		}
	}
	it.SellIn--
	if expired(it) {
		it.Quality = 0
	}
}

// ageDegrading lowers quality by rate before the deadline and by another
// rate once sell-in has gone negative.
func ageDegrading(it *model.Item, rate int) {
	lower(it, rate)
	it.SellIn--
	if expired(it) {
		lower(it, rate)
	}
}

// expired reports whether the post-deadline correction applies.
func expired(it *model.Item) bool {
	return it.SellIn < 0 && it.Quality != 0
}

func raise(it *model.Item) {
	if it.Quality < MaxQuality {
		it.Quality++
	}
}

func lower(it *model.Item, n int) {
	for ; n > 0; n-- {
		if it.Quality > 0 {
			it.Quality--
		}
	}
}
