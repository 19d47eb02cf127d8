package textstat

// ChiSquared computes the goodness of fit between an observed and an
// expected percentage distribution: sum of (observed-expected)^2/expected
// over the reference keys. Reference keys missing from the observation
// count as zero observed; observed keys outside the reference contribute
// nothing. Lower is a better fit.
func ChiSquared(observed, expected map[string]float64) float64 {
	var sum float64
	for key, exp := range expected {
		if exp <= 0 {
			continue
		}
		diff := observed[key] - exp
		sum += diff * diff / exp
	}
	return sum
}

// UniformLetters is the flat A-Z reference distribution. Polyalphabetic
// output gravitates toward it while substitution output keeps the skew of
// the underlying language.
func UniformLetters() map[string]float64 {
	out := make(map[string]float64, alphabetSize)
	for r := 'A'; r <= 'Z'; r++ {
		out[string(r)] = 100.0 / alphabetSize
	}
	return out
}

// rotateLetterFreqs shifts every A-Z key back by k positions, so an
// observation produced by a Caesar shift of k lines up with the plain
// reference table.
func rotateLetterFreqs(observed map[string]float64, k int) map[string]float64 {
	out := make(map[string]float64, len(observed))
	for key, v := range observed {
		if len(key) != 1 || key[0] < 'A' || key[0] > 'Z' {
			out[key] = v
			continue
		}
		r := (int(key[0]-'A') - k + alphabetSize) % alphabetSize
		out[string(rune('A'+r))] = v
	}
	return out
}

// MinRotationChiSquared returns the best chi-squared fit between the
// observed A-Z distribution and the reference over all 26 rotations, plus
// the rotation that achieved it. The statistic is invariant under Caesar
// shifts, which is what keeps frequency-based language identification from
// being fooled by shifted text.
func MinRotationChiSquared(observed, expected map[string]float64) (float64, int) {
	best := ChiSquared(observed, expected)
	bestRot := 0
	for k := 1; k < alphabetSize; k++ {
		if v := ChiSquared(rotateLetterFreqs(observed, k), expected); v < best {
			best = v
			bestRot = k
		}
	}
	return best, bestRot
}
