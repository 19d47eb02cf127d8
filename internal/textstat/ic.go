package textstat

import "math"

// Per-language expected IC baselines on the ×26 normalized scale. Languages
// without a baseline fall back to English rather than failing.
var icBaselines = map[string]float64{
	"english":    1.73,
	"spanish":    1.94,
	"french":     1.90,
	"german":     1.76,
	"italian":    1.94,
	"portuguese": 1.94,
}

const (
	// alphabetSize is fixed: IC statistics are defined over A-Z.
	alphabetSize = 26

	defaultKSigma     = 2.5
	defaultMinPercent = 5
	defaultMaxPercent = 60

	// Below shortTextLimit the sample is too small to correct; between it
	// and the discount limit the baseline gets a fixed 2% haircut.
	shortTextLimit   = 20
	discountLimit    = 50
	shortTextDiscount = 0.98
)

// ICOptions tunes expected-IC validation. The zero value selects the
// defaults (kSigma 2.5, percent clamp [5,60], per-language baseline).
type ICOptions struct {
	BaseIC     float64 // overrides the per-language baseline when > 0
	KSigma     float64
	MinPercent float64
	MaxPercent float64
}

func (o ICOptions) withDefaults() ICOptions {
	if o.KSigma <= 0 {
		o.KSigma = defaultKSigma
	}
	if o.MinPercent <= 0 {
		o.MinPercent = defaultMinPercent
	}
	if o.MaxPercent <= 0 {
		o.MaxPercent = defaultMaxPercent
	}
	return o
}

// IndexOfCoincidence returns the ×26 normalized index of coincidence of
// text after A-Z normalization. Fewer than two letters yield 0.
func IndexOfCoincidence(text string) float64 {
	return indexOfCoincidence(Normalize(text))
}

func indexOfCoincidence(normalized string) float64 {
	n := len(normalized)
	if n < 2 {
		return 0
	}
	var counts [alphabetSize]int
	for i := 0; i < n; i++ {
		counts[normalized[i]-'A']++
	}
	var sum float64
	for _, c := range counts {
		sum += float64(c) * float64(c-1)
	}
	return sum / (float64(n) * float64(n-1)) * alphabetSize
}

// BaselineIC returns the expected IC baseline for a language, falling back
// to English for unknown names.
func BaselineIC(language string) float64 {
	if ic, ok := icBaselines[language]; ok {
		return ic
	}
	return icBaselines["english"]
}

// ExpectedIC returns the sample-size-adjusted expected IC. baseIC overrides
// the per-language baseline when > 0. Texts under 20 letters keep the raw
// baseline (no correction is statistically defensible there); 20-49 letters
// get a fixed 2% downward discount; longer texts use the baseline as-is.
func ExpectedIC(length int, language string, baseIC float64) float64 {
	base := baseIC
	if base <= 0 {
		base = BaselineIC(language)
	}
	switch {
	case length < shortTextLimit:
		return base
	case length < discountLimit:
		return base * shortTextDiscount
	default:
		return base
	}
}

// ExpectedStdDev returns the standard deviation of the IC estimator for a
// text of the given length. Lengths under 2 have no defined deviation and
// return +Inf. The value strictly decreases as length grows.
func ExpectedStdDev(length int, expectedIC float64) float64 {
	if length < 2 {
		return math.Inf(1)
	}
	p := expectedIC / alphabetSize
	variance := p * (1 - p) / float64(length)
	return math.Sqrt(variance) * alphabetSize
}

// Tolerance is the acceptance band around an expected IC. Absolute and
// Percent are kept mutually consistent: percent is clamped first and the
// absolute tolerance recomputed from it.
type Tolerance struct {
	Absolute   float64 `json:"absolute"`
	Percent    float64 `json:"percent"`
	StdDev     float64 `json:"std_dev"`
	ExpectedIC float64 `json:"expected_ic"`
	KSigma     float64 `json:"k_sigma"`
}

// ToleranceFor derives the acceptance band for an expected IC at a given
// sample length.
func ToleranceFor(length int, expectedIC float64, opts ICOptions) Tolerance {
	opts = opts.withDefaults()
	stdDev := ExpectedStdDev(length, expectedIC)
	absolute := opts.KSigma * stdDev
	percent := 0.0
	if expectedIC != 0 {
		percent = absolute / expectedIC * 100
	}
	if percent < opts.MinPercent {
		percent = opts.MinPercent
	}
	if percent > opts.MaxPercent {
		percent = opts.MaxPercent
	}
	absolute = percent / 100 * expectedIC
	return Tolerance{
		Absolute:   absolute,
		Percent:    percent,
		StdDev:     stdDev,
		ExpectedIC: expectedIC,
		KSigma:     opts.KSigma,
	}
}

// ICValidation reports how an observed IC compares to the expected band.
type ICValidation struct {
	Valid      bool      `json:"valid"`
	ActualIC   float64   `json:"actual_ic"`
	ExpectedIC float64   `json:"expected_ic"`
	Difference float64   `json:"difference"`
	ZScore     float64   `json:"z_score"`
	Tolerance  Tolerance `json:"tolerance"`
	Length     int       `json:"length"`
	Language   string    `json:"language"`
}

// ValidateIC checks an observed IC against the expected band for the given
// language and length. It never fails: with fewer than two letters the
// standard deviation is infinite, the z-score collapses to 0, and
// validation passes regardless of the observed value, an intentional
// low-confidence degenerate case. The reported Tolerance still carries the
// clamped finite band so callers can display it.
func ValidateIC(actual float64, length int, language string, opts ICOptions) ICValidation {
	expected := ExpectedIC(length, language, opts.BaseIC)
	tol := ToleranceFor(length, expected, opts)
	diff := math.Abs(actual - expected)
	z := 0.0
	if tol.StdDev != 0 && !math.IsInf(tol.StdDev, 1) {
		z = diff / tol.StdDev
	}
	valid := diff <= tol.Absolute
	if math.IsInf(tol.StdDev, 1) {
		// No defined deviation means no grounds to reject.
		valid = true
	}
	return ICValidation{
		Valid:      valid,
		ActualIC:   actual,
		ExpectedIC: expected,
		Difference: diff,
		ZScore:     z,
		Tolerance:  tol,
		Length:     length,
		Language:   language,
	}
}

// ICRange is the convenience min/max form of a tolerance band;
// Max-Min always equals 2*Tolerance.
type ICRange struct {
	Min       float64 `json:"min"`
	Max       float64 `json:"max"`
	Expected  float64 `json:"expected"`
	Tolerance float64 `json:"tolerance"`
}

// ExpectedRange returns the acceptance interval around the expected IC.
func ExpectedRange(length int, language string, opts ICOptions) ICRange {
	expected := ExpectedIC(length, language, opts.BaseIC)
	tol := ToleranceFor(length, expected, opts)
	return ICRange{
		Min:       expected - tol.Absolute,
		Max:       expected + tol.Absolute,
		Expected:  expected,
		Tolerance: tol.Absolute,
	}
}
