// Package report defines the record format persisted by every analysis
// surface: one JSON object per line, strict timestamps, and a confidence
// band derived from the numeric confidence so downstream tooling can filter
// without re-implementing thresholds.
package report

import (
	"crypto/rand"
	"encoding/base32"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Band buckets a numeric confidence into the coarse verdicts shown to
// operators. The values are normalised to lowercase short codes for stable
// JSON encoding.
type Band string

const (
	BandStrong  Band = "strong"
	BandLikely  Band = "likely"
	BandWeak    Band = "weak"
	BandUnclear Band = "unclear"
)

// SchemaVersion is the canonical record schema version persisted to disk.
const SchemaVersion = "1.0"

var bandSet = map[Band]struct{}{
	BandStrong:  {},
	BandLikely:  {},
	BandWeak:    {},
	BandUnclear: {},
}

// BandFor maps a confidence in [0, 1] onto its band.
func BandFor(confidence float64) Band {
	switch {
	case confidence >= 0.75:
		return BandStrong
	case confidence >= 0.55:
		return BandLikely
	case confidence >= 0.35:
		return BandWeak
	default:
		return BandUnclear
	}
}

// MarshalJSON ensures bands are always emitted as quoted strings.
func (b Band) MarshalJSON() ([]byte, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	return json.Marshal(string(b))
}

// UnmarshalJSON performs strict validation so we catch typos during testing
// and when loading persisted records.
func (b *Band) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed := Band(strings.ToLower(strings.TrimSpace(raw)))
	if err := parsed.validate(); err != nil {
		return err
	}
	*b = parsed
	return nil
}

func (b Band) validate() error {
	if _, ok := bandSet[b]; !ok {
		return fmt.Errorf("invalid band: %q", b)
	}
	return nil
}

// Timestamp enforces RFC3339 timestamps when encoding records to disk.
type Timestamp time.Time

// NewTimestamp normalises the input time before persisting it.
func NewTimestamp(t time.Time) Timestamp {
	if t.IsZero() {
		return Timestamp{}
	}
	return Timestamp(t.UTC().Truncate(time.Second))
}

// Time exposes the underlying time value.
func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

// IsZero reports whether the timestamp has been initialised.
func (t Timestamp) IsZero() bool {
	return time.Time(t).IsZero()
}

// Equal compares the timestamp to the provided time value.
func (t Timestamp) Equal(other time.Time) bool {
	return time.Time(t).Equal(other)
}

// MarshalJSON renders the timestamp using time.RFC3339. Zero values encode
// as an empty string so Validate can flag missing timestamps explicitly.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	tt := time.Time(t)
	if tt.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(tt.UTC().Format(time.RFC3339))
}

// UnmarshalJSON enforces RFC3339 timestamps when reading persisted records.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		*t = Timestamp{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid ts timestamp: %w", err)
	}
	*t = NewTimestamp(parsed)
	return nil
}

// NewID generates a new ULID suitable for persisting as a record identifier.
func NewID() string {
	buf := make([]byte, 16)
	ts := uint64(time.Now().UTC().UnixMilli())
	for i := 5; i >= 0; i-- {
		buf[i] = byte(ts & 0xFF)
		ts >>= 8
	}
	if _, err := io.ReadFull(rand.Reader, buf[6:]); err != nil {
		// Fall back to deterministic bytes derived from the current time to
		// avoid panicking in restricted environments.
		nano := uint64(time.Now().UTC().UnixNano())
		for i := 6; i < len(buf); i++ {
			buf[i] = byte(nano & 0xFF)
			nano >>= 8
		}
	}
	return crockford.EncodeToString(buf)
}

// Record is one persisted analysis outcome.
type Record struct {
	Version    string            `json:"version"`
	ID         string            `json:"id"`
	Tool       string            `json:"tool"`
	Kind       string            `json:"kind"`
	Subject    string            `json:"subject,omitempty"`
	Language   string            `json:"language,omitempty"`
	Family     string            `json:"family,omitempty"`
	Confidence float64           `json:"confidence"` // 0.0 to 1.0
	Band       Band              `json:"band"`
	Summary    string            `json:"summary"`
	CreatedAt  Timestamp         `json:"ts"`
	Metadata   map[string]string `json:"meta,omitempty"`
}

// New builds a record with the schema version, a fresh ID, the band derived
// from confidence, and the current time filled in. Confidence is clamped to
// [0, 1] so Band and Validate agree.
func New(tool, kind, summary string, confidence float64) Record {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return Record{
		Version:    SchemaVersion,
		ID:         NewID(),
		Tool:       tool,
		Kind:       kind,
		Summary:    summary,
		Confidence: confidence,
		Band:       BandFor(confidence),
		CreatedAt:  NewTimestamp(time.Now()),
	}
}

// Validate performs sanity checks before a record is persisted or after one
// is read back.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Version) == "" {
		return errors.New("version is required")
	}
	if strings.TrimSpace(r.Version) != SchemaVersion {
		return fmt.Errorf("unsupported version %q", r.Version)
	}
	if strings.TrimSpace(r.ID) == "" {
		return errors.New("record id is required")
	}
	if _, err := decodeULID(strings.TrimSpace(r.ID)); err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	if strings.TrimSpace(r.Tool) == "" {
		return errors.New("tool is required")
	}
	if strings.TrimSpace(r.Kind) == "" {
		return errors.New("kind is required")
	}
	if strings.TrimSpace(r.Summary) == "" {
		return errors.New("summary is required")
	}
	if r.Confidence < 0 || r.Confidence > 1 {
		return fmt.Errorf("confidence %v outside [0, 1]", r.Confidence)
	}
	if err := r.Band.validate(); err != nil {
		return err
	}
	if r.Band != BandFor(r.Confidence) {
		return fmt.Errorf("band %q does not match confidence %.2f (want %q)", r.Band, r.Confidence, BandFor(r.Confidence))
	}
	if r.CreatedAt.IsZero() {
		return errors.New("ts is required")
	}
	return nil
}

// Clone returns a deep copy of the record to avoid accidental mutation when
// records are fanned out to multiple sinks.
func (r Record) Clone() Record {
	copy := r
	if len(r.Metadata) > 0 {
		copy.Metadata = make(map[string]string, len(r.Metadata))
		for k, v := range r.Metadata {
			copy.Metadata[k] = v
		}
	}
	return copy
}

// Timestamp returns the creation timestamp in UTC to simplify reporting code.
func (r Record) Timestamp() time.Time {
	return r.CreatedAt.Time().UTC()
}

var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

func decodeULID(id string) ([]byte, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.New("ulid is empty")
	}
	if len(id) != 26 {
		return nil, fmt.Errorf("ulid must be 26 characters, got %d", len(id))
	}
	upper := strings.ToUpper(id)
	if upper != id {
		return nil, errors.New("ulid must be upper-case")
	}
	decoded, err := crockford.DecodeString(upper)
	if err != nil {
		return nil, fmt.Errorf("decode ulid: %w", err)
	}
	if len(decoded) != 16 {
		return nil, fmt.Errorf("decoded ulid length %d", len(decoded))
	}
	return decoded, nil
}
