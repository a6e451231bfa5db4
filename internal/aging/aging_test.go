package aging

import (
	"testing"

	"github.com/zervanh/GildedRose-Refactoring-Kata/internal/model"
)

func TestAdvanceOneDay_SingleDay(t *testing.T) {
	cases := []struct {
		name        string
		in          model.Item
		wantSellIn  int
		wantQuality int
	}{
		{"ordinary_before_deadline", model.NewItem("foo", 2, 10), 1, 9},
		{"ordinary_before_deadline_2", model.NewItem("foo", 5, 12), 4, 11},
		{"ordinary_at_deadline", model.NewItem("foo", 0, 10), -1, 8},
		{"ordinary_after_deadline", model.NewItem("foo", -1, 4), -2, 2},
		{"ordinary_quality_floor", model.NewItem("foo", 2, 0), 1, 0},
		{"ordinary_floor_after_deadline", model.NewItem("foo", -3, 1), -4, 0},
		{"brie_before_deadline", model.NewItem(model.NameAgedBrie, 1, 1), 0, 2},
		{"brie_before_deadline_2", model.NewItem(model.NameAgedBrie, 5, 4), 4, 5},
		{"brie_at_deadline", model.NewItem(model.NameAgedBrie, 0, 2), -1, 4},
		{"brie_after_deadline", model.NewItem(model.NameAgedBrie, -1, 4), -2, 6},
		{"brie_cap", model.NewItem(model.NameAgedBrie, 1, 50), 0, 50},
		{"brie_cap_after_deadline", model.NewItem(model.NameAgedBrie, -1, 49), -2, 50},
		{"sulfuras_frozen", model.NewItem(model.NameSulfuras, 5, 80), 5, 80},
		{"sulfuras_frozen_expired", model.NewItem(model.NameSulfuras, -1, 80), -1, 80},
		{"pass_far", model.NewItem(model.NameBackstagePass, 11, 2), 10, 3},
		{"pass_ten_days", model.NewItem(model.NameBackstagePass, 10, 4), 9, 6},
		{"pass_six_days", model.NewItem(model.NameBackstagePass, 6, 6), 5, 8},
		{"pass_five_days", model.NewItem(model.NameBackstagePass, 5, 4), 4, 7},
		{"pass_one_day", model.NewItem(model.NameBackstagePass, 1, 6), 0, 9},
		{"pass_concert_over", model.NewItem(model.NameBackstagePass, 0, 10), -1, 0},
		{"pass_long_over", model.NewItem(model.NameBackstagePass, -1, 10), -2, 0},
		{"pass_cap_each_step", model.NewItem(model.NameBackstagePass, 5, 48), 4, 50},
		{"pass_cap_ten_days", model.NewItem(model.NameBackstagePass, 10, 49), 9, 50},
		{"conjured_mana_cake", model.NewItem("Conjured Mana Cake", 2, 10), 1, 8},
		{"conjured_carrot", model.NewItem("Conjured Carrot", 5, 6), 4, 4},
		{"conjured_at_deadline", model.NewItem("Conjured Mana Cake", 0, 10), -1, 6},
		{"conjured_floor", model.NewItem("Conjured Mana Cake", 0, 3), -1, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items := []model.Item{tc.in}
			AdvanceOneDay(items)
			got := items[0]
			if got.SellIn != tc.wantSellIn || got.Quality != tc.wantQuality {
				t.Fatalf("%+v: expected sell_in=%d quality=%d, got sell_in=%d quality=%d",
					tc.in, tc.wantSellIn, tc.wantQuality, got.SellIn, got.Quality)
			}
			if got.Name != tc.in.Name {
				t.Fatalf("name changed: %q", got.Name)
			}
		})
	}
}

func TestAdvanceOneDay_MutatesInPlace(t *testing.T) {
	items := []model.Item{
		model.NewItem("foo", 2, 10),
		model.NewItem(model.NameAgedBrie, 2, 0),
	}
	AdvanceOneDay(items)
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].Quality != 9 || items[1].Quality != 1 {
		t.Fatalf("unexpected: %+v", items)
	}
}

func TestAdvanceOneDay_Empty(t *testing.T) {
	AdvanceOneDay(nil)
	AdvanceOneDay([]model.Item{})
}

func TestAdvanceOneDay_QualityStaysInRange(t *testing.T) {
	names := []string{
		"foo",
		"Elixir of the Mongoose",
		model.NameAgedBrie,
		model.NameBackstagePass,
		"Conjured Mana Cake",
	}
	var items []model.Item
	for _, n := range names {
		for sellIn := -3; sellIn <= 15; sellIn += 3 {
			for q := 0; q <= 50; q += 7 {
				items = append(items, model.NewItem(n, sellIn, q))
			}
		}
	}
	for day := 0; day < 60; day++ {
		AdvanceOneDay(items)
		for _, it := range items {
			if it.Quality < 0 || it.Quality > MaxQuality {
				t.Fatalf("day %d: quality out of range: %+v", day, it)
			}
		}
	}
}

func TestAdvanceOneDay_LegendaryNeverChanges(t *testing.T) {
	items := []model.Item{model.NewItem(model.NameSulfuras, 0, 80)}
	for day := 0; day < 100; day++ {
		AdvanceOneDay(items)
	}
	if items[0].SellIn != 0 || items[0].Quality != 80 {
		t.Fatalf("legendary changed: %+v", items[0])
	}
}

func TestAdvanceOneDay_OrdinaryRates(t *testing.T) {
	it := model.NewItem("foo", 3, 20)
	items := []model.Item{it}
	want := []int{19, 18, 17, 15, 13, 11}
	for day, q := range want {
		AdvanceOneDay(items)
		if items[0].Quality != q {
			t.Fatalf("day %d: expected quality %d, got %d", day+1, q, items[0].Quality)
		}
		if items[0].SellIn != 3-(day+1) {
			t.Fatalf("day %d: expected sell_in %d, got %d", day+1, 3-(day+1), items[0].SellIn)
		}
	}
}

func TestAdvanceOneDay_BackstagePassLifecycle(t *testing.T) {
	items := []model.Item{model.NewItem(model.NameBackstagePass, 12, 10)}
	// sell_in before each call: 12, 11, 10, ..., 6, 5, ..., 1, 0
	want := []int{11, 12, 14, 16, 18, 20, 22, 25, 28, 31, 34, 37, 0}
	for day, q := range want {
		AdvanceOneDay(items)
		if items[0].Quality != q {
			t.Fatalf("day %d: expected quality %d, got %d", day+1, q, items[0].Quality)
		}
	}
}

func TestAdvanceOneDay_OutOfRangeInputsNotClamped(t *testing.T) {
	items := []model.Item{
		model.NewItem("foo", 5, 60),
		model.NewItem(model.NameAgedBrie, 5, 60),
		model.NewItem("foo", 5, -2),
	}
	AdvanceOneDay(items)
	if items[0].Quality != 59 {
		t.Fatalf("ordinary above cap: expected 59, got %d", items[0].Quality)
	}
	if items[1].Quality != 60 {
		t.Fatalf("brie above cap: expected 60, got %d", items[1].Quality)
	}
	if items[2].Quality != -2 {
		t.Fatalf("negative quality: expected -2, got %d", items[2].Quality)
	}
}

func BenchmarkAdvanceOneDay(b *testing.B) {
	items := []model.Item{
		model.NewItem("+5 Dexterity Vest", 10, 20),
		model.NewItem(model.NameAgedBrie, 2, 0),
		model.NewItem("Elixir of the Mongoose", 5, 7),
		model.NewItem(model.NameSulfuras, 0, 80),
		model.NewItem(model.NameBackstagePass, 15, 20),
		model.NewItem("Conjured Mana Cake", 3, 6),
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		AdvanceOneDay(items)
	}
}
