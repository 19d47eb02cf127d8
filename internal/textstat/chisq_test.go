package textstat

import (
	"math"
	"testing"
)

func TestChiSquared(t *testing.T) {
	t.Run("identical distributions score zero", func(t *testing.T) {
		obs := LetterFrequencies(englishSample)
		if got := ChiSquared(obs, obs); got != 0 {
			t.Errorf("ChiSquared(x, x) = %.6f, want 0", got)
		}
	})

	t.Run("missing observed keys count as zero", func(t *testing.T) {
		expected := map[string]float64{"A": 50, "B": 50}
		observed := map[string]float64{"A": 100}
		// (100-50)^2/50 + (0-50)^2/50
		if got := ChiSquared(observed, expected); math.Abs(got-100) > 1e-9 {
			t.Errorf("ChiSquared = %.4f, want 100", got)
		}
	})

	t.Run("zero expected entries are skipped", func(t *testing.T) {
		expected := map[string]float64{"A": 100, "B": 0}
		observed := map[string]float64{"A": 100, "B": 50}
		if got := ChiSquared(observed, expected); got != 0 {
			t.Errorf("ChiSquared = %.4f, want 0 (B has no expected mass)", got)
		}
	})

	t.Run("observed keys outside the reference contribute nothing", func(t *testing.T) {
		expected := map[string]float64{"A": 100}
		observed := map[string]float64{"A": 100, "Z": 400}
		if got := ChiSquared(observed, expected); got != 0 {
			t.Errorf("ChiSquared = %.4f, want 0", got)
		}
	})
}

func TestUniformLetters(t *testing.T) {
	u := UniformLetters()
	if len(u) != 26 {
		t.Fatalf("expected 26 entries, got %d", len(u))
	}
	var sum float64
	for _, pct := range u {
		sum += pct
	}
	if math.Abs(sum-100) > 1e-9 {
		t.Errorf("uniform distribution sums to %.6f, want 100", sum)
	}
}

func TestMinRotationChiSquared(t *testing.T) {
	reference := LetterFrequencies(englishSample)

	t.Run("unshifted text fits at rotation zero", func(t *testing.T) {
		chi, rot := MinRotationChiSquared(reference, reference)
		if chi != 0 || rot != 0 {
			t.Errorf("got chi=%.4f rot=%d, want 0 at rotation 0", chi, rot)
		}
	})

	t.Run("caesar shift is recovered exactly", func(t *testing.T) {
		shifted := LetterFrequencies(caesarShift(englishSample, 7))
		chi, rot := MinRotationChiSquared(shifted, reference)
		if rot != 7 {
			t.Errorf("rotation = %d, want 7", rot)
		}
		if chi > 1e-9 {
			t.Errorf("chi = %.6f, want 0 (same distribution after rotation)", chi)
		}
	})

	t.Run("plain chi on shifted text is far worse", func(t *testing.T) {
		shifted := LetterFrequencies(caesarShift(englishSample, 7))
		plain := ChiSquared(shifted, reference)
		min, _ := MinRotationChiSquared(shifted, reference)
		if plain <= min {
			t.Errorf("plain chi %.2f should exceed min-rotation chi %.2f", plain, min)
		}
	})
}
