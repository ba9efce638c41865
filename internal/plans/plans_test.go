package plans

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	p, ok := Get("lite")
	if !ok {
		t.Fatal("lite plan missing from catalog")
	}
	if p.Coins != 50 {
		t.Errorf("lite plan coins = %d, want 50", p.Coins)
	}

	if _, ok := Get("nope"); ok {
		t.Error("Get returned a plan for an unknown id")
	}
}

func TestEncodeDecodeOrderID(t *testing.T) {
	for _, p := range All() {
		orderID := EncodeOrderID(p.ID)
		if !strings.HasPrefix(orderID, "hb_"+p.ID+"_") {
			t.Errorf("EncodeOrderID(%q) = %q, missing prefix", p.ID, orderID)
		}
		if got := DecodePlanID(orderID); got != p.ID {
			t.Errorf("DecodePlanID(%q) = %q, want %q", orderID, got, p.ID)
		}
	}
}

func TestDecodePlanID(t *testing.T) {
	tests := []struct {
		name    string
		orderID string
		want    string
	}{
		{"well formed", "hb_lite_1700000000000_x7y2z9", "lite"},
		{"unknown plan", "hb_mega_1700000000000_x7y2z9", ""},
		{"wrong prefix", "xx_lite_1700000000000_x7y2z9", ""},
		{"too few parts", "hb_lite", ""},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodePlanID(tt.orderID); got != tt.want {
				t.Errorf("DecodePlanID(%q) = %q, want %q", tt.orderID, got, tt.want)
			}
		})
	}
}

func TestDecodePlanIDLoose(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"plain", "HistoryBox lite bundle", "lite"},
		{"mixed case", "Purchase of PRO coins", "pro"},
		{"no plan", "coin purchase", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodePlanIDLoose(tt.text); got != tt.want {
				t.Errorf("DecodePlanIDLoose(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}
