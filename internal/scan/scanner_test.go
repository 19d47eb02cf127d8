package scan

import (
	"bytes"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/textstat"
)

// englishParagraph is 157 letters of ordinary prose. As readable language it
// must never be reported, while its Caesar shift must be.
const englishParagraph = "In the middle of the night the old clock on the tower " +
	"struck twelve and every person in the little town turned their eyes " +
	"toward the square where the lanterns burned with a steady golden flame."

// randomParagraph is 160 letters drawn uniformly from A-Z, fixed so the
// expected confidences stay reproducible.
const randomParagraph = "KEMUBCRDLSBQGBCNNCHCRNBSDHUUSBSSMBHBREJNERDSJRVFDSSUGLDRW" +
	"CSBTGPVRNYKOSOLJHZFWYHCSJQPKXOJTCDQNFYKEPNBVCYRSZKKWLTPSZOCCIPWVCBXWJUSVOJ" +
	"WMVLAOLFTDPBGYJEXHMMPCFOMRIEN"

const polybiusLine = "11 23 42 15 33 44 12 21"

func caesarShift(text string, shift int) string {
	normalized := textstat.Normalize(text)
	var b strings.Builder
	b.Grow(len(normalized))
	for i := 0; i < len(normalized); i++ {
		b.WriteByte(byte((int(normalized[i]-'A')+shift)%26) + 'A')
	}
	return b.String()
}

func newTestScanner(t *testing.T, cfg Config) *Scanner {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func TestScanFindsCipherRegions(t *testing.T) {
	cipherBlock := caesarShift(englishParagraph, 7)
	doc := strings.Join([]string{englishParagraph, cipherBlock, polybiusLine, randomParagraph}, "\n\n")

	ts := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	s := newTestScanner(t, Config{Language: "english", Now: func() time.Time { return ts }})

	records := s.Scan("notes.txt", doc)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3: %+v", len(records), records)
	}

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			t.Errorf("record %d invalid: %v", i, err)
		}
		if rec.Tool != "scan" || rec.Kind != "region" {
			t.Errorf("record %d tool/kind = %s/%s", i, rec.Tool, rec.Kind)
		}
		if rec.Subject != "notes.txt" {
			t.Errorf("record %d subject = %q", i, rec.Subject)
		}
		if !rec.CreatedAt.Equal(ts) {
			t.Errorf("record %d timestamp = %v", i, rec.CreatedAt.Time())
		}
	}

	// Ranked by confidence: digit pairs, then the Caesar block, then noise.
	if records[0].Confidence != 0.85 || records[0].Metadata["letters"] != "0" {
		t.Errorf("record 0 = %+v, want Polybius signature at 0.85", records[0])
	}
	if records[1].Family != "monoalphabetic-substitution" {
		t.Errorf("record 1 family = %s", records[1].Family)
	}
	if records[1].Language != "english" {
		t.Errorf("record 1 language = %q", records[1].Language)
	}
	if wantOffset := strconv.Itoa(strings.Index(doc, cipherBlock)); records[1].Metadata["offset"] != wantOffset {
		t.Errorf("record 1 offset = %s, want %s", records[1].Metadata["offset"], wantOffset)
	}
	if records[2].Family != "random-unknown" {
		t.Errorf("record 2 family = %s", records[2].Family)
	}

	sample := records[1].Metadata["sample"]
	if !strings.HasSuffix(sample, "...") || len([]rune(sample)) > 27 {
		t.Errorf("record 1 sample = %q, want bounded excerpt", sample)
	}
}

func TestScanDeduplicatesRegions(t *testing.T) {
	cipherBlock := caesarShift(englishParagraph, 7)
	doc := cipherBlock + "\n\n" + cipherBlock

	s := newTestScanner(t, Config{Language: "english"})
	records := s.Scan("stdin", doc)
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].Metadata["offset"] != "0" {
		t.Errorf("kept offset = %s, want first occurrence", records[0].Metadata["offset"])
	}
}

func TestScanAllowlist(t *testing.T) {
	cipherBlock := caesarShift(englishParagraph, 7)
	doc := strings.Join([]string{cipherBlock, polybiusLine, randomParagraph}, "\n\n")

	s := newTestScanner(t, Config{
		Language:  "english",
		Allowlist: []string{cipherBlock, "family:random-unknown"},
	})
	records := s.Scan("stdin", doc)
	if len(records) != 1 {
		t.Fatalf("got %d records, want only the digit-pair region: %+v", len(records), records)
	}
	if records[0].Confidence != 0.85 {
		t.Errorf("remaining record = %+v", records[0])
	}
}

func TestScanIgnoresProseAndShortRegions(t *testing.T) {
	doc := strings.Join([]string{
		englishParagraph,
		"XQZJW",
		strings.Repeat("AB", 30),
	}, "\n\n")

	s := newTestScanner(t, Config{Language: "english"})
	if records := s.Scan("stdin", doc); records != nil {
		t.Fatalf("got %d records, want none: %+v", len(records), records)
	}
}

func TestScanSkipsBinaryContent(t *testing.T) {
	s := newTestScanner(t, Config{Language: "english"})
	blob := "ABCDEF" + string([]byte{0x00, 0x01}) + caesarShift(englishParagraph, 7)
	if records := s.Scan("blob", blob); records != nil {
		t.Fatalf("expected binary content to be skipped, got %d records", len(records))
	}
}

func TestScanHonoursMaxBytes(t *testing.T) {
	cipherBlock := caesarShift(englishParagraph, 7)
	doc := englishParagraph + "\n\n" + cipherBlock

	cut := strings.Index(doc, cipherBlock) + 10
	s := newTestScanner(t, Config{Language: "english", MaxScanBytes: cut})
	if records := s.Scan("stdin", doc); len(records) != 0 {
		t.Fatalf("expected truncated scan to find nothing, got %d", len(records))
	}

	full := newTestScanner(t, Config{Language: "english"})
	if records := full.Scan("stdin", doc); len(records) != 1 {
		t.Fatalf("expected full scan to find the cipher block, got %d", len(records))
	}
}

func TestScanEmitsEvents(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := logging.NewAnalysisLogger("scanner", logging.WithoutStdout(), logging.WithWriter(buf))
	if err != nil {
		t.Fatalf("NewAnalysisLogger: %v", err)
	}

	s := newTestScanner(t, Config{Language: "english", Logger: logger})
	if records := s.Scan("notes.txt", polybiusLine); len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}

	line := buf.String()
	if !strings.Contains(line, string(logging.EventScanFinding)) {
		t.Fatalf("event stream missing scan_finding: %s", line)
	}
	if !strings.Contains(line, "notes.txt") {
		t.Fatalf("event stream missing subject: %s", line)
	}
}

func TestScanEmptyContent(t *testing.T) {
	s := newTestScanner(t, Config{Language: "english"})
	if records := s.Scan("stdin", ""); records != nil {
		t.Fatalf("expected nil for empty content, got %+v", records)
	}
	if records := s.Scan("stdin", "\n   \n\t\n"); records != nil {
		t.Fatalf("expected nil for blank content, got %+v", records)
	}
}
