// Package api exposes the analysis engine over HTTP: one authenticated
// endpoint accepts a text and returns the full statistical picture
// (cipher-family ranking, language candidates, transposition analysis, and
// dictionary verdict) as JSON. The service holds only read-only pack data,
// so a single server handles concurrent requests without locking in the
// analysis path.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/classify"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/dictionary"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/langid"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/report"
)

// TokenHeader carries the static service token on every request.
const TokenHeader = "X-Nigma-Token"

// defaultMaxBodyBytes bounds request bodies. Texts worth analysing are a
// few kilobytes; anything near the cap is not a ciphertext.
const defaultMaxBodyBytes = 1 << 20

// Config configures the analysis service.
type Config struct {
	Addr string
	// Token is the static token clients must present. The service
	// refuses to start without one; there is no built-in credential.
	Token string
	// Language is the default reference language for requests that do
	// not name one. Empty means automatic identification.
	Language string
	// MaxBodyBytes caps request bodies; 0 uses the default.
	MaxBodyBytes int64
	// Logger receives service_request / service_denied events.
	Logger *logging.AnalysisLogger
	// OpLogger is the operational logger. Nil uses a text handler on
	// stdout.
	OpLogger *slog.Logger
}

// Server answers analysis requests over a shared classifier and language
// detector.
type Server struct {
	cfg        Config
	classifier *classify.Classifier
	langs      *langid.Detector
	logger     *logging.AnalysisLogger
	slog       *slog.Logger
	httpServer *http.Server

	mu         sync.Mutex
	validators map[string]*dictionary.Validator
}

// NewServer builds the service and loads the built-in language packs.
func NewServer(cfg Config) (*Server, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("service address must be provided")
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.New("service token must be provided")
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	langs, err := langid.NewBuiltinDetector()
	if err != nil {
		return nil, err
	}
	opLogger := cfg.OpLogger
	if opLogger == nil {
		opLogger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	return &Server{
		cfg:        cfg,
		classifier: classify.NewClassifierWithDetector(langs),
		langs:      langs,
		logger:     cfg.Logger,
		slog:       opLogger,
		validators: make(map[string]*dictionary.Validator),
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or
// a fatal error occurs.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()
	s.slog.Info("analysis service listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.httpServer.Shutdown(shutdownCtx)
		return <-errCh
	case err := <-errCh:
		return err
	}
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/api/v1/analyses", s.requireToken(http.HandlerFunc(s.handleAnalyze)))
	return mux
}

type analysisRequest struct {
	Text     string `json:"text"`
	Language string `json:"language,omitempty"`
}

type analysisResponse struct {
	ID             string                         `json:"id"`
	Classification classify.Result                `json:"classification"`
	Languages      []langid.Candidate             `json:"languages,omitempty"`
	Transposition  classify.TranspositionAnalysis `json:"transposition"`
	Dictionary     *dictionary.ValidationResult   `json:"dictionary,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = s.cfg.Language
	}

	classification := s.classifier.Identify(req.Text, language)
	resp := analysisResponse{
		ID:             report.NewID(),
		Classification: classification,
		Languages:      s.langs.Detect(req.Text),
		Transposition:  s.classifier.AnalyzeTransposition(req.Text, language),
	}
	if v := s.validatorFor(classification.Language); v != nil {
		result := v.Validate(req.Text)
		resp.Dictionary = &result
	}

	best := classification.Best()
	s.slog.Info("analysis served",
		"remote", r.RemoteAddr,
		"length", classification.Stats.Length,
		"family", string(best.Family),
		"confidence", best.Confidence)
	s.emit(logging.AnalysisEvent{
		EventType: logging.EventServiceRequest,
		Subject:   r.RemoteAddr,
		Decision:  logging.DecisionAllow,
		Metadata: map[string]any{
			"analysis_id": resp.ID,
			"length":      classification.Stats.Length,
			"family":      string(best.Family),
		},
	})
	s.writeJSON(w, http.StatusOK, resp)
}

// validatorFor returns a dictionary validator backed by the named pack's
// seed words, building it at most once per language. A nil return means no
// pack with words exists for the language.
func (s *Server) validatorFor(language string) *dictionary.Validator {
	name := strings.ToLower(strings.TrimSpace(language))
	if name == "" {
		name = "english"
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if v, ok := s.validators[name]; ok {
		return v
	}
	pack, ok := s.langs.Pack(name)
	if !ok || len(pack.Words) == 0 {
		s.validators[name] = nil
		return nil
	}
	v := dictionary.NewValidator(dictionary.FromPack(pack))
	s.validators[name] = v
	return v
}

func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token := strings.TrimSpace(r.Header.Get(TokenHeader)); token != s.cfg.Token {
			s.emit(logging.AnalysisEvent{
				EventType: logging.EventServiceDenied,
				Subject:   r.RemoteAddr,
				Decision:  logging.DecisionDeny,
				Reason:    "missing or invalid service token",
			})
			http.Error(w, "unauthorised", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) emit(event logging.AnalysisEvent) {
	if s.logger == nil {
		return
	}
	_ = s.logger.Emit(event)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.slog.Error("encode response", "error", err)
	}
}
