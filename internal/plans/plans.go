// Package plans defines the purchasable coin bundles and the order-id
// scheme that ties a payment-provider order back to a plan.
package plans

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Plan is one purchasable coin bundle. The catalog is fixed in code.
type Plan struct {
	ID    string `json:"id"`
	Coins int    `json:"coins"`
	// Price in IRR
	Price int64 `json:"price"`
}

var catalog = []Plan{
	{ID: "lite", Coins: 50, Price: 500000},
	{ID: "standard", Coins: 120, Price: 1000000},
	{ID: "pro", Coins: 300, Price: 2000000},
}

// All returns the catalog in display order.
func All() []Plan {
	out := make([]Plan, len(catalog))
	copy(out, catalog)
	return out
}

// Get looks up a plan by id.
func Get(id string) (Plan, bool) {
	for _, p := range catalog {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// EncodeOrderID produces hb_<planId>_<epochMillis>_<random6>.
func EncodeOrderID(planID string) string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return fmt.Sprintf("hb_%s_%d_%s", planID, time.Now().UnixMilli(), random)
}

// DecodePlanID extracts the plan id back out of an order id. Returns "" when
// the order id does not follow the hb_ scheme or names an unknown plan.
func DecodePlanID(orderID string) string {
	parts := strings.Split(orderID, "_")
	if len(parts) < 4 || parts[0] != "hb" {
		return ""
	}
	if _, ok := Get(parts[1]); !ok {
		return ""
	}
	return parts[1]
}

// DecodePlanIDLoose falls back to substring-matching known plan ids inside
// free text (the provider's description field). Used when the order id
// itself could not be decoded.
func DecodePlanIDLoose(text string) string {
	lower := strings.ToLower(text)
	for _, p := range catalog {
		if strings.Contains(lower, p.ID) {
			return p.ID
		}
	}
	return ""
}
