package services

import (
	"testing"

	"github.com/mojtabasji/HistoryBox-sub000/internal/models"
)

func TestResolveClaim(t *testing.T) {
	tests := []struct {
		name     string
		inserted bool
		existing models.PaymentTransaction
		want     claimAction
	}{
		{
			"fresh insert owns the credit",
			true,
			models.PaymentTransaction{},
			claimNew,
		},
		{
			"pending checkout row is taken over",
			false,
			models.PaymentTransaction{Status: models.PaymentStatusPending, Credited: false},
			claimPending,
		},
		{
			"credited row is a repeat, no coins move",
			false,
			models.PaymentTransaction{Status: models.PaymentStatusSuccess, Credited: true},
			claimRepeat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveClaim(tt.inserted, &tt.existing); got != tt.want {
				t.Errorf("resolveClaim(%v, credited=%v) = %d, want %d",
					tt.inserted, tt.existing.Credited, got, tt.want)
			}
		})
	}
}

func TestResolveClaimCreditsAtMostOnce(t *testing.T) {
	// Whatever interleaving reaches the row, once it is credited every later
	// attempt resolves to a repeat.
	record := models.PaymentTransaction{Status: models.PaymentStatusPending}

	if got := resolveClaim(false, &record); got != claimPending {
		t.Fatalf("first attempt = %d, want claimPending", got)
	}
	record.Credited = true
	record.Status = models.PaymentStatusSuccess

	for i := 0; i < 3; i++ {
		if got := resolveClaim(false, &record); got != claimRepeat {
			t.Fatalf("attempt %d after credit = %d, want claimRepeat", i+2, got)
		}
	}
}

func TestAlreadyProcessedResult(t *testing.T) {
	result := &VerificationResult{
		Status:        "success",
		TransactionID: "tx-123",
		Credited:      false,
	}
	result.AlreadyProcessed()

	if result.Status != "already_processed" {
		t.Errorf("Status = %q, want %q", result.Status, "already_processed")
	}
	if result.Credited {
		t.Error("a repeat verification must not report a credit")
	}
	if result.CoinsAdded != 0 {
		t.Errorf("CoinsAdded = %d, want 0", result.CoinsAdded)
	}
}
