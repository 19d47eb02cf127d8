package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/classify"
	"github.com/MeGrimlock/nigmaJS-sub002/internal/logging"
)

const englishSample = "IN THE MIDDLE OF THE NIGHT THE OLD CLOCK ON THE TOWER " +
	"STRUCK TWELVE AND EVERY PERSON IN THE LITTLE TOWN TURNED THEIR EYES " +
	"TOWARD THE SQUARE WHERE THE LANTERNS BURNED WITH A STEADY GOLDEN FLAME"

func newTestServer(t *testing.T, logger *logging.AnalysisLogger) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		Addr:   "127.0.0.1:0",
		Token:  "test-token",
		Logger: logger,
	})
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	return srv
}

func TestNewServerValidation(t *testing.T) {
	if _, err := NewServer(Config{Token: "t"}); err == nil {
		t.Fatal("expected error for missing address")
	}
	if _, err := NewServer(Config{Addr: "127.0.0.1:0"}); err == nil {
		t.Fatal("expected error for missing token")
	}
}

func TestAnalyzeRequiresToken(t *testing.T) {
	var events bytes.Buffer
	logger, err := logging.NewAnalysisLogger("api-test", logging.WithWriter(&events), logging.WithoutStdout())
	if err != nil {
		t.Fatalf("NewAnalysisLogger() error = %v", err)
	}
	srv := newTestServer(t, logger)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	body := strings.NewReader(`{"text":"HELLO WORLD"}`)
	resp, err := http.Post(ts.URL+"/api/v1/analyses", "application/json", body)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnauthorized)
	}
	if !strings.Contains(events.String(), string(logging.EventServiceDenied)) {
		t.Fatalf("expected a service_denied event, got %q", events.String())
	}
}

func TestAnalyzeMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodGet, ts.URL+"/api/v1/analyses", nil)
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(TokenHeader, "test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusMethodNotAllowed)
	}
}

func TestAnalyzeClassifiesPlaintext(t *testing.T) {
	var events bytes.Buffer
	logger, err := logging.NewAnalysisLogger("api-test", logging.WithWriter(&events), logging.WithoutStdout())
	if err != nil {
		t.Fatalf("NewAnalysisLogger() error = %v", err)
	}
	srv := newTestServer(t, logger)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	payload, err := json.Marshal(analysisRequest{Text: englishSample})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/analyses", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(TokenHeader, "test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var got analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if got.ID == "" {
		t.Error("response ID is empty")
	}
	if len(got.Classification.Families) == 0 {
		t.Fatal("classification returned no families")
	}
	if len(got.Languages) == 0 || got.Languages[0].Language != "english" {
		t.Errorf("languages = %+v, want english first", got.Languages)
	}
	if got.Transposition.Recommendation == "" {
		t.Error("transposition recommendation is empty")
	}
	if got.Dictionary == nil {
		t.Fatal("dictionary verdict missing")
	}
	if !got.Dictionary.Valid {
		t.Errorf("dictionary verdict = %+v, want valid for common-word prose", got.Dictionary)
	}
	if !strings.Contains(events.String(), string(logging.EventServiceRequest)) {
		t.Fatalf("expected a service_request event, got %q", events.String())
	}
}

func TestAnalyzeEmptyTextNeverFails(t *testing.T) {
	srv := newTestServer(t, nil)
	ts := httptest.NewServer(srv.routes())
	defer ts.Close()

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/analyses", strings.NewReader(`{"text":""}`))
	if err != nil {
		t.Fatalf("NewRequest: %v", err)
	}
	req.Header.Set(TokenHeader, "test-token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	var got analysisResponse
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got.Classification.Families) == 0 {
		t.Fatal("empty text must still yield at least one family")
	}
	if got.Classification.Families[0].Family != classify.FamilyUnknown {
		t.Errorf("family = %s, want %s", got.Classification.Families[0].Family, classify.FamilyUnknown)
	}
}
