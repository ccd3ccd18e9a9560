package models

import "testing"

func TestRecalculatePriceWithVAT(t *testing.T) {
	cases := []struct {
		net  float64
		rate float64
		want float64
	}{
		{100, 21, 121},
		{100, 0, 100},
		{99.99, 21, 120.99},
		{0.01, 21, 0.01},
		{0, 21, 0},
	}

	for _, tc := range cases {
		item := InventoryItem{PriceWithoutVAT: tc.net, VATRate: tc.rate}
		item.RecalculatePriceWithVAT()
		if item.PriceWithVAT != tc.want {
			t.Errorf("net %v at %v%%: got %v, want %v", tc.net, tc.rate, item.PriceWithVAT, tc.want)
		}
	}
}
