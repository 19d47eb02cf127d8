package textstat

import "sort"

const (
	// minRepeatLength is the shortest repeated sequence worth factoring.
	// Bigram repeats are too common in ordinary prose to carry signal.
	minRepeatLength = 3

	// maxCandidateKeyLength bounds the divisors considered. Polyalphabetic
	// keys longer than this need more ciphertext than callers ever pass.
	maxCandidateKeyLength = 20

	// minDistanceRatio is the fraction of repeat distances a divisor must
	// explain before it becomes a candidate.
	minDistanceRatio = 0.5

	// maxKeyLengthCandidates caps the ranked list.
	maxKeyLengthCandidates = 5
)

// KeyLengthEstimate is one candidate polyalphabetic key length, ranked by
// how many repeat distances it divides.
type KeyLengthEstimate struct {
	Length  int     `json:"length"`
	Support int     `json:"support"`
	Ratio   float64 `json:"ratio"`
}

// SuggestKeyLengths runs a Kasiski examination over the text: it locates
// repeated three-letter sequences in the normalized ciphertext, collects the
// distances between successive occurrences, and ranks divisors 2 through 20
// by how many of those distances they divide. The result is nil when the
// text has no qualifying repeats, which is the usual case for short inputs.
//
// Ties on support break toward the larger length. Distances produced by a
// period-k cipher are divisible by every factor of k, so among divisors with
// identical support the largest is the one closest to the true period.
func SuggestKeyLengths(text string) []KeyLengthEstimate {
	distances := repeatDistances(Normalize(text), minRepeatLength)
	if len(distances) == 0 {
		return nil
	}

	var estimates []KeyLengthEstimate
	for length := 2; length <= maxCandidateKeyLength; length++ {
		support := 0
		for _, d := range distances {
			if d%length == 0 {
				support++
			}
		}
		ratio := float64(support) / float64(len(distances))
		if ratio < minDistanceRatio {
			continue
		}
		estimates = append(estimates, KeyLengthEstimate{
			Length:  length,
			Support: support,
			Ratio:   ratio,
		})
	}
	if len(estimates) == 0 {
		return nil
	}

	sort.SliceStable(estimates, func(i, j int) bool {
		if estimates[i].Support != estimates[j].Support {
			return estimates[i].Support > estimates[j].Support
		}
		return estimates[i].Length > estimates[j].Length
	})
	if len(estimates) > maxKeyLengthCandidates {
		estimates = estimates[:maxKeyLengthCandidates]
	}
	return estimates
}

// RepeatDistances returns the distances between successive occurrences of
// every repeated three-letter sequence in the normalized text. This is the
// raw evidence SuggestKeyLengths factors; callers use its size to judge how
// much support a key-length estimate rests on.
func RepeatDistances(text string) []int {
	return repeatDistances(Normalize(text), minRepeatLength)
}

// repeatDistances finds every sequence of the given length that occurs more
// than once in the normalized text and returns the distances between each
// pair of successive occurrences.
func repeatDistances(normalized string, seqLen int) []int {
	runes := []rune(normalized)
	if len(runes) < seqLen*2 {
		return nil
	}
	positions := make(map[string][]int)
	for i := 0; i+seqLen <= len(runes); i++ {
		seq := string(runes[i : i+seqLen])
		positions[seq] = append(positions[seq], i)
	}
	var distances []int
	for _, pos := range positions {
		for i := 1; i < len(pos); i++ {
			distances = append(distances, pos[i]-pos[i-1])
		}
	}
	return distances
}
