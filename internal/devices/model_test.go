package devices

import "testing"

func TestNewEstimate(t *testing.T) {
	d := &Device{
		ID:           3,
		ModelName:    "iPhone 12",
		Category:     "Smartphone",
		Gold:         0.034,
		Silver:       0.34,
		Copper:       15,
		CreditsValue: 50,
	}

	e := NewEstimate(d, 2)
	if e.TotalCredits != 100 {
		t.Fatalf("total credits = %d, want 100", e.TotalCredits)
	}
	if e.CreditsPerUnit != 50 {
		t.Fatalf("credits per unit = %d, want 50", e.CreditsPerUnit)
	}
	if e.Materials.Copper != 30 {
		t.Fatalf("copper = %v, want 30", e.Materials.Copper)
	}
	if e.Quantity != 2 {
		t.Fatalf("quantity = %d, want 2", e.Quantity)
	}
}

func TestNewEstimateClampsQuantity(t *testing.T) {
	d := &Device{CreditsValue: 10}
	for _, q := range []int{0, -5} {
		if e := NewEstimate(d, q); e.Quantity != 1 || e.TotalCredits != 10 {
			t.Fatalf("quantity %d: got quantity=%d credits=%d, want 1 and 10", q, e.Quantity, e.TotalCredits)
		}
	}
}
