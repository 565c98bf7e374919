package odds

import (
	"errors"
	"math"
	"testing"

	"github.com/RohanChat/live-lines-finder/internal/models"
)

func TestDecimalFromAmerican(t *testing.T) {
	tests := []struct {
		name     string
		american int
		want     float64
		wantErr  bool
	}{
		{name: "positive +220", american: 220, want: 3.20},
		{name: "positive +100", american: 100, want: 2.0},
		{name: "positive +150", american: 150, want: 2.5},
		{name: "negative -110", american: -110, want: 1.9090909090909092},
		{name: "negative -200", american: -200, want: 1.5},
		{name: "zero is invalid", american: 0, wantErr: true},
		{name: "inside band is invalid", american: 50, wantErr: true},
		{name: "inside band negative is invalid", american: -99, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecimalFromAmerican(tt.american)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error for %d", tt.american)
				}
				var oddsErr *models.InvalidOddsError
				if !errors.As(err, &oddsErr) {
					t.Fatalf("expected InvalidOddsError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-12 {
				t.Fatalf("DecimalFromAmerican(%d) = %v, want %v", tt.american, got, tt.want)
			}
		})
	}
}

func TestRoundDecimalExact(t *testing.T) {
	d, err := DecimalFromAmerican(220)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if RoundDecimal(d) != 3.20 {
		t.Fatalf("expected +220 to round to exactly 3.20, got %v", RoundDecimal(d))
	}
	if RoundDecimal(1.9090909090909092) != 1.91 {
		t.Fatalf("expected -110 to round to 1.91")
	}
}

func TestAmericanFromDecimalRoundTrip(t *testing.T) {
	for a := -500; a <= 500; a++ {
		if a >= -100 && a < 100 {
			continue
		}
		d, err := DecimalFromAmerican(a)
		if err != nil {
			t.Fatalf("unexpected error for %d: %v", a, err)
		}
		back := AmericanFromDecimal(d)
		if math.Abs(float64(back-a)) > 1 {
			t.Fatalf("round trip %d -> %v -> %d drifted more than 1", a, d, back)
		}
	}
}

func TestEvenMoneyRoundTrip(t *testing.T) {
	// -100 and +100 are the same even-money price. Both map to decimal 2.0,
	// and the inverse branches at 2.0, so the round trip lands on +100.
	for _, a := range []int{-100, 100} {
		d, err := DecimalFromAmerican(a)
		if err != nil {
			t.Fatalf("unexpected error for %d: %v", a, err)
		}
		if d != 2.0 {
			t.Fatalf("DecimalFromAmerican(%d) = %v, want 2.0", a, d)
		}
		if back := AmericanFromDecimal(d); back != 100 {
			t.Fatalf("AmericanFromDecimal(2.0) = %d, want 100", back)
		}
	}
}

func TestImpliedFromAmerican(t *testing.T) {
	p, err := ImpliedFromAmerican(100)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.5) > 1e-12 {
		t.Fatalf("+100 implies 0.5, got %v", p)
	}

	p, err = ImpliedFromAmerican(150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(p-0.4) > 1e-12 {
		t.Fatalf("+150 implies 0.4, got %v", p)
	}
}
