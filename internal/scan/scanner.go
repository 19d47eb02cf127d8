// Package scan finds ciphertext-like regions inside mixed documents. Cheap
// signals (letter-run length, digit-pair groups, letter entropy) gate which
// regions are worth full statistical classification, so prose-heavy
// documents stay fast to scan.
package scan

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/classify"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/redact"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/report"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

const (
	defaultMinLetters   = 40
	defaultMaxScanBytes = 1 << 20
	maxNaturalness      = 0.3
	minLetterEntropy    = 3.0
	sampleLength        = 24
)

// digitGroupsRe matches a region made entirely of 1-5 digit pairs. Scanning
// demands six or more pairs where direct analysis accepts two, otherwise
// every small numeric table in a document turns into a finding.
var digitGroupsRe = regexp.MustCompile(`^[1-5][1-5](?:\s+[1-5][1-5]){5,}$`)

// Config controls how the scanner qualifies and classifies regions.
type Config struct {
	// Language is the reference language for classification. Empty means
	// automatic identification per region.
	Language string
	// MinLetters is the smallest letter count a region needs before it is
	// considered. Values <= 0 use the default.
	MinLetters int
	// MaxScanBytes caps how much of the document is scanned. 0 uses the
	// default cap; negative values scan everything.
	MaxScanBytes int
	// Allowlist suppresses findings: plain entries match a region's
	// normalized text, "family:<name>" entries suppress a whole family.
	Allowlist []string
	// Now stamps records; nil uses time.Now.
	Now func() time.Time
	// Logger receives a scan_finding event per emitted record when set.
	Logger *logging.AnalysisLogger
}

// Scanner applies Config over documents with a shared classifier.
type Scanner struct {
	cfg        Config
	classifier *classify.Classifier
}

// New builds a scanner, loading the built-in language packs.
func New(cfg Config) (*Scanner, error) {
	classifier, err := classify.NewClassifier()
	if err != nil {
		return nil, fmt.Errorf("building region classifier: %w", err)
	}
	return NewWithClassifier(cfg, classifier), nil
}

// NewWithClassifier builds a scanner around an existing classifier.
func NewWithClassifier(cfg Config, classifier *classify.Classifier) *Scanner {
	if cfg.MinLetters <= 0 {
		cfg.MinLetters = defaultMinLetters
	}
	if cfg.MaxScanBytes == 0 {
		cfg.MaxScanBytes = defaultMaxScanBytes
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Scanner{cfg: cfg, classifier: classifier}
}

type region struct {
	text   string
	offset int // byte offset into the scanned content
}

// Scan splits the document into regions, classifies the ones that look like
// ciphertext, and returns deduplicated records ranked by confidence.
func (s *Scanner) Scan(subject, content string) []report.Record {
	if strings.ContainsRune(content, 0) {
		// Binary payloads carry no letter statistics worth reporting.
		return nil
	}
	content = truncate(content, s.cfg.MaxScanBytes)

	allowText, allowFamily := buildAllowlist(s.cfg.Allowlist)
	seen := make(map[string]struct{})

	type hit struct {
		rec    report.Record
		offset int
	}
	var hits []hit
	for _, reg := range splitRegions(content) {
		trimmed := strings.TrimSpace(reg.text)
		normalized := textstat.Normalize(trimmed)
		digitGroups := digitGroupsRe.MatchString(trimmed)

		if !digitGroups {
			if len(normalized) < s.cfg.MinLetters {
				continue
			}
			if letterEntropy(normalized) < minLetterEntropy {
				continue
			}
		}

		dedupeKey := normalized
		if digitGroups {
			dedupeKey = strings.Join(strings.Fields(trimmed), " ")
		}
		if _, dup := seen[dedupeKey]; dup {
			continue
		}
		seen[dedupeKey] = struct{}{}

		if _, allowed := allowText[dedupeKey]; allowed {
			continue
		}

		result := s.classifier.Identify(trimmed, s.cfg.Language)
		best := result.Best()
		if best.Family == classify.FamilyUnknown {
			continue
		}
		// Readable language text is not a finding; out-of-band IC keeps a
		// region suspicious even when its trigrams look half natural.
		if !digitGroups && result.Signals != nil &&
			result.Signals.Naturalness > maxNaturalness && result.Signals.ICCheck.Valid {
			continue
		}
		if _, suppressed := allowFamily[string(best.Family)]; suppressed {
			continue
		}

		rec := report.New("scan", "region", fmt.Sprintf("ciphertext-like region: %s", best.Reason), best.Confidence)
		rec.Subject = subject
		rec.Language = result.Language
		rec.Family = string(best.Family)
		rec.CreatedAt = report.NewTimestamp(s.cfg.Now())
		rec.Metadata = map[string]string{
			"offset":  strconv.Itoa(reg.offset),
			"letters": strconv.Itoa(result.Stats.Length),
			"ic":      fmt.Sprintf("%.4f", result.Stats.IC),
			"sample":  redact.Sample(trimmed, sampleLength),
		}
		if result.Signals != nil {
			rec.Metadata["naturalness"] = fmt.Sprintf("%.3f", result.Signals.Naturalness)
		}
		if best.SuggestedKeyLength > 0 {
			rec.Metadata["suggested_key_length"] = strconv.Itoa(best.SuggestedKeyLength)
		}
		hits = append(hits, hit{rec: rec, offset: reg.offset})

		if s.cfg.Logger != nil {
			_ = s.cfg.Logger.Emit(logging.AnalysisEvent{
				EventType: logging.EventScanFinding,
				Subject:   subject,
				Reason:    rec.Summary,
				Metadata: map[string]any{
					"family":     rec.Family,
					"confidence": rec.Confidence,
					"offset":     reg.offset,
				},
			})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].rec.Confidence != hits[j].rec.Confidence {
			return hits[i].rec.Confidence > hits[j].rec.Confidence
		}
		return hits[i].offset < hits[j].offset
	})
	records := make([]report.Record, 0, len(hits))
	for _, h := range hits {
		records = append(records, h.rec)
	}
	if len(records) == 0 {
		return nil
	}
	return records
}

// splitRegions breaks a document into blank-line separated blocks, keeping
// each block's byte offset.
func splitRegions(content string) []region {
	var regions []region
	var lines []string
	start := 0

	flush := func() {
		if len(lines) == 0 {
			return
		}
		regions = append(regions, region{text: strings.Join(lines, "\n"), offset: start})
		lines = nil
	}

	pos := 0
	for pos < len(content) {
		lineEnd := strings.IndexByte(content[pos:], '\n')
		var line string
		next := len(content)
		if lineEnd < 0 {
			line = content[pos:]
		} else {
			line = content[pos : pos+lineEnd]
			next = pos + lineEnd + 1
		}
		if strings.TrimSpace(line) == "" {
			flush()
		} else {
			if len(lines) == 0 {
				start = pos
			}
			lines = append(lines, line)
		}
		pos = next
	}
	flush()
	return regions
}

// truncate caps content at limit bytes without splitting a rune.
func truncate(content string, limit int) string {
	if limit < 0 || len(content) <= limit {
		return content
	}
	cut := content[:limit]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}

func buildAllowlist(entries []string) (text, family map[string]struct{}) {
	text = make(map[string]struct{})
	family = make(map[string]struct{})
	for _, entry := range entries {
		trimmed := strings.TrimSpace(entry)
		if trimmed == "" {
			continue
		}
		if rest, ok := strings.CutPrefix(trimmed, "family:"); ok {
			family[strings.TrimSpace(rest)] = struct{}{}
			continue
		}
		if normalized := textstat.Normalize(trimmed); normalized != "" {
			text[normalized] = struct{}{}
			continue
		}
		// Digit-pair allowlist entries normalise to collapsed whitespace.
		text[strings.Join(strings.Fields(trimmed), " ")] = struct{}{}
	}
	return text, family
}

// letterEntropy is the Shannon entropy of the normalized letters, in bits.
// It filters degenerate repeats before any chi-squared work happens.
func letterEntropy(normalized string) float64 {
	if len(normalized) == 0 {
		return 0
	}
	var counts [26]int
	for _, r := range normalized {
		counts[r-'A']++
	}
	total := float64(len(normalized))
	var entropy float64
	for _, count := range counts {
		if count == 0 {
			continue
		}
		p := float64(count) / total
		entropy -= p * math.Log2(p)
	}
	return entropy
}
