// Package logging emits the JSONL event stream for analysis runs. Events
// pass through internal/redact before encoding so submitted documents and
// service credentials never land in persisted logs.
package logging

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/redact"
)

type EventType string

const (
	EventPackLoad        EventType = "pack_load"
	EventPackTrain       EventType = "pack_train"
	EventAnalysisStart   EventType = "analysis_start"
	EventAnalysisDone    EventType = "analysis_complete"
	EventClassification  EventType = "classification"
	EventLanguageID      EventType = "language_identified"
	EventDictionaryCheck EventType = "dictionary_check"
	EventScanFinding     EventType = "scan_finding"
	EventServiceRequest  EventType = "service_request"
	EventServiceDenied   EventType = "service_denied"
	EventUpdateCheck     EventType = "update_check"
	EventUpdateApplied   EventType = "update_applied"
)

type Decision string

const (
	DecisionInfo  Decision = "info"
	DecisionAllow Decision = "allow"
	DecisionDeny  Decision = "deny"
)

// AnalysisEvent is one line in the event stream. Subject names the input
// being analysed (a path, "stdin", or a region label), never its content.
type AnalysisEvent struct {
	Timestamp time.Time      `json:"timestamp"`
	Component string         `json:"component"`
	Subject   string         `json:"subject,omitempty"`
	EventType EventType      `json:"event_type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Decision  Decision       `json:"decision,omitempty"`
	Reason    string         `json:"reason,omitempty"`
}

type Option func(*config) error

type config struct {
	writers          []io.Writer
	closers          []io.Closer
	useDefaultWriter bool
}

func defaultConfig() *config {
	return &config{writers: []io.Writer{os.Stdout}, useDefaultWriter: true}
}

func WithWriter(w io.Writer) Option {
	return func(cfg *config) error {
		if w == nil {
			return errors.New("writer cannot be nil")
		}
		cfg.writers = append(cfg.writers, w)
		return nil
	}
}

func WithFile(path string) Option {
	return func(cfg *config) error {
		if strings.TrimSpace(path) == "" {
			return errors.New("file path cannot be empty")
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		cfg.writers = append(cfg.writers, f)
		cfg.closers = append(cfg.closers, f)
		return nil
	}
}

func WithoutStdout() Option {
	return func(cfg *config) error {
		cfg.useDefaultWriter = false
		filtered := cfg.writers[:0]
		for _, w := range cfg.writers {
			if w == os.Stdout {
				continue
			}
			filtered = append(filtered, w)
		}
		cfg.writers = filtered
		return nil
	}
}

type loggerCore struct {
	mu      sync.Mutex
	encoder *json.Encoder
	closers []io.Closer
}

// AnalysisLogger writes redacted events to every configured sink. Child
// loggers from WithComponent share the encoder, so lines never interleave.
type AnalysisLogger struct {
	component   string
	core        *loggerCore
	ownsClosers bool
}

func NewAnalysisLogger(component string, opts ...Option) (*AnalysisLogger, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			for _, closer := range cfg.closers {
				_ = closer.Close()
			}
			return nil, err
		}
	}
	if !cfg.useDefaultWriter && len(cfg.writers) == 0 {
		return nil, errors.New("no writers configured for analysis logger")
	}
	writer := io.MultiWriter(cfg.writers...)
	enc := json.NewEncoder(writer)
	enc.SetEscapeHTML(false)
	return &AnalysisLogger{
		component:   component,
		core:        &loggerCore{encoder: enc, closers: cfg.closers},
		ownsClosers: true,
	}, nil
}

func MustNewAnalysisLogger(component string, opts ...Option) *AnalysisLogger {
	logger, err := NewAnalysisLogger(component, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

func (l *AnalysisLogger) Close() error {
	if l == nil || !l.ownsClosers || l.core == nil {
		return nil
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	var firstErr error
	for _, closer := range l.core.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	l.core.closers = nil
	return firstErr
}

func (l *AnalysisLogger) Emit(event AnalysisEvent) error {
	if l == nil {
		return errors.New("nil analysis logger")
	}
	if l.core == nil {
		return errors.New("nil analysis logger core")
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	} else {
		event.Timestamp = event.Timestamp.UTC()
	}
	if event.Component == "" {
		event.Component = l.component
	}
	event.Reason = redact.String(event.Reason)
	if len(event.Metadata) > 0 {
		event.Metadata = redact.Map(event.Metadata)
	}
	l.core.mu.Lock()
	defer l.core.mu.Unlock()
	return l.core.encoder.Encode(event)
}

// WithComponent returns a logger that stamps events with a different
// component while sharing the parent's sinks.
func (l *AnalysisLogger) WithComponent(component string) *AnalysisLogger {
	if l == nil || l.core == nil {
		return nil
	}
	return &AnalysisLogger{
		component:   component,
		core:        l.core,
		ownsClosers: false,
	}
}
