// Package store keeps the in-memory stock inventory.
package store

import (
	"sort"
	"sync"

	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/aging"
	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"
)

type itemState struct {
	it           model.Item
	lastSequence uint64
}

// Store holds stock items keyed by item ID and the number of days passed.
type Store struct {
	mu  sync.RWMutex
	m   map[string]itemState
	day int
}

func New() *Store {
	return &Store{m: make(map[string]itemState)}
}

func (s *Store) Get(id string) (model.StockItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.m[id]
	if !ok {
		return model.StockItem{}, false
	}
	return stockItem(id, st.it), true
}

// List returns every stored item sorted by ID, with the current day.
func (s *Store) List() (int, []model.StockItem) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day, s.snapshotLocked()
}

// Len returns the number of stored items.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m)
}

// Day returns how many days have been advanced.
func (s *Store) Day() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.day
}

// Upsert applies a stock event. Events at or below the last applied
// sequence for the item are ignored.
func (s *Store) Upsert(ev model.Event) {
	if ev.ItemID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.m[ev.ItemID]
	if ok && ev.Sequence <= st.lastSequence {
		return
	}
	if ev.Name != nil {
		st.it.Name = *ev.Name
	}
	if ev.SellIn != nil {
		st.it.SellIn = *ev.SellIn
	}
	if ev.Quality != nil {
		st.it.Quality = *ev.Quality
	}
	st.lastSequence = ev.Sequence
	s.m[ev.ItemID] = st
}

// AdvanceDay ages every stored item by one day and returns the new day
// number with the resulting items.
func (s *Store) AdvanceDay() (int, []model.StockItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.sortedIDsLocked()
	items := make([]model.Item, len(ids))
	for i, id := range ids {
		items[i] = s.m[id].it
	}
	aging.AdvanceOneDay(items)
	for i, id := range ids {
		st := s.m[id]
		st.it = items[i]
		s.m[id] = st
	}
	s.day++
	return s.day, s.snapshotLocked()
}

func (s *Store) sortedIDsLocked() []string {
	ids := make([]string, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) snapshotLocked() []model.StockItem {
	ids := s.sortedIDsLocked()
	out := make([]model.StockItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, stockItem(id, s.m[id].it))
	}
	return out
}

func stockItem(id string, it model.Item) model.StockItem {
	return model.StockItem{ItemID: id, Item: it, Category: it.Category().String()}
}
