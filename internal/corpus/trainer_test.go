package corpus

import (
	"math"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/MeGrimlock/nigmaJS-sub002/internal/langpack"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestTrainerBuildsPack(t *testing.T) {
	trainer, err := NewTrainer(TrainOptions{Name: "Demo"})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	trainer.AddText("the cat sat on the mat")

	pack, err := trainer.Pack()
	if err != nil {
		t.Fatalf("build pack: %v", err)
	}

	if pack.Name != "demo" {
		t.Fatalf("expected lowercased name, got %q", pack.Name)
	}
	if pack.Script != "latin" {
		t.Fatalf("unexpected script %q", pack.Script)
	}

	// 17 letters: T x5, A x3, H x2, E x2, C/S/O/N/M x1.
	if got := trainer.Letters(); got != 17 {
		t.Fatalf("expected 17 letters, got %d", got)
	}
	if !approx(pack.Letters["T"], 29.4118) {
		t.Fatalf("unexpected T frequency: %v", pack.Letters["T"])
	}
	if !approx(pack.Letters["A"], 17.6471) {
		t.Fatalf("unexpected A frequency: %v", pack.Letters["A"])
	}

	// 16 bigram windows: AT x3, TH x2, HE x2.
	if !approx(pack.Bigrams["AT"], 18.75) {
		t.Fatalf("unexpected AT frequency: %v", pack.Bigrams["AT"])
	}
	if !approx(pack.Bigrams["TH"], 12.5) {
		t.Fatalf("unexpected TH frequency: %v", pack.Bigrams["TH"])
	}

	// 15 trigram windows, THE twice.
	if !approx(pack.Trigrams["THE"], 13.3333) {
		t.Fatalf("unexpected THE frequency: %v", pack.Trigrams["THE"])
	}

	// All 14 quadgram windows are unique.
	if len(pack.Quadgrams) != 14 {
		t.Fatalf("expected 14 quadgrams, got %d", len(pack.Quadgrams))
	}
	if !approx(pack.Quadgrams["THEC"], 7.1429) {
		t.Fatalf("unexpected THEC frequency: %v", pack.Quadgrams["THEC"])
	}

	// Sum c(c-1) = 30 over N(N-1) = 272, x26.
	if !approx(pack.IC, 2.8676) {
		t.Fatalf("unexpected IC: %v", pack.IC)
	}

	wantWords := []string{"THE", "CAT", "MAT", "ON", "SAT"}
	if !reflect.DeepEqual(pack.Words, wantWords) {
		t.Fatalf("unexpected words: %v", pack.Words)
	}
}

func TestTrainerHTMLCorpus(t *testing.T) {
	dir := t.TempDir()
	page := []byte(`<html><head><title>Cipher Notes</title>
<style>body { color: red; }</style></head>
<body><h1>attack at dawn</h1><script>var xyzzyqq = 1;</script></body></html>`)
	if err := os.WriteFile(filepath.Join(dir, "page.html"), page, 0o644); err != nil {
		t.Fatalf("write corpus file: %v", err)
	}

	trainer, err := NewTrainer(TrainOptions{Name: "demo"})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	if err := trainer.AddFile(filepath.Join(dir, "page.html")); err != nil {
		t.Fatalf("add html file: %v", err)
	}

	pack, err := trainer.Pack()
	if err != nil {
		t.Fatalf("build pack: %v", err)
	}

	words := make(map[string]bool, len(pack.Words))
	for _, w := range pack.Words {
		words[w] = true
	}
	for _, want := range []string{"CIPHER", "NOTES", "ATTACK", "DAWN"} {
		if !words[want] {
			t.Fatalf("expected word %s in %v", want, pack.Words)
		}
	}
	for _, leaked := range []string{"XYZZYQQ", "VAR", "COLOR", "RED", "BODY"} {
		if words[leaked] {
			t.Fatalf("script/style text leaked into words: %s", leaked)
		}
	}
}

func TestTrainRoundTrip(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"a.txt":    "the old man walked along the quiet road at dawn",
		"b.txt":    "every secret message hides a pattern waiting to be found",
		"skip.dat": "ZZZZZZZZZZ should not be counted",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write corpus file: %v", err)
		}
	}

	pack, err := Train(dir, TrainOptions{Name: "demo"})
	if err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, ok := pack.Letters["Z"]; ok {
		t.Fatal("non-corpus extension was counted")
	}

	data, err := yaml.Marshal(pack)
	if err != nil {
		t.Fatalf("marshal pack: %v", err)
	}
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write pack: %v", err)
	}

	loaded, err := langpack.ReadFile(path)
	if err != nil {
		t.Fatalf("read trained pack: %v", err)
	}
	if loaded.Name != pack.Name || loaded.Script != pack.Script {
		t.Fatalf("identity changed in round trip: %s/%s", loaded.Name, loaded.Script)
	}
	if !approx(loaded.IC, pack.IC) {
		t.Fatalf("IC changed in round trip: %v != %v", loaded.IC, pack.IC)
	}
	if !reflect.DeepEqual(loaded.Letters, pack.Letters) {
		t.Fatal("letter table changed in round trip")
	}
	if !reflect.DeepEqual(loaded.Trigrams, pack.Trigrams) {
		t.Fatal("trigram table changed in round trip")
	}
	if !reflect.DeepEqual(loaded.Words, pack.Words) {
		t.Fatal("word list changed in round trip")
	}
}

func TestTrainEmptyDir(t *testing.T) {
	if _, err := Train(t.TempDir(), TrainOptions{Name: "demo"}); err == nil {
		t.Fatal("expected error for empty corpus directory")
	}
}

func TestTrainerNoLetters(t *testing.T) {
	trainer, err := NewTrainer(TrainOptions{Name: "demo"})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	trainer.AddText("12345 !!! 67890")
	if _, err := trainer.Pack(); err == nil {
		t.Fatal("expected error for corpus without letters")
	}
}

func TestTrainerOptionValidation(t *testing.T) {
	if _, err := NewTrainer(TrainOptions{}); err == nil {
		t.Fatal("expected error for missing name")
	}
	if _, err := NewTrainer(TrainOptions{Name: "demo", Script: "runic"}); err == nil {
		t.Fatal("expected error for unknown script")
	}
}

func TestTrainerTopKCaps(t *testing.T) {
	trainer, err := NewTrainer(TrainOptions{Name: "demo", MaxBigrams: 2, MaxWords: 1})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	trainer.AddText("ababab cdcdcd")

	pack, err := trainer.Pack()
	if err != nil {
		t.Fatalf("build pack: %v", err)
	}

	// AB and CD appear three times each; BA and DC lose on count.
	if len(pack.Bigrams) != 2 {
		t.Fatalf("expected 2 bigrams, got %v", pack.Bigrams)
	}
	if _, ok := pack.Bigrams["AB"]; !ok {
		t.Fatalf("expected AB in %v", pack.Bigrams)
	}
	if _, ok := pack.Bigrams["CD"]; !ok {
		t.Fatalf("expected CD in %v", pack.Bigrams)
	}

	if !reflect.DeepEqual(pack.Words, []string{"ABABAB"}) {
		t.Fatalf("unexpected words: %v", pack.Words)
	}
}

func TestTrainerCyrillic(t *testing.T) {
	trainer, err := NewTrainer(TrainOptions{Name: "demo", Script: "cyrillic"})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	trainer.AddText("привет мир")

	pack, err := trainer.Pack()
	if err != nil {
		t.Fatalf("build pack: %v", err)
	}

	// 9 letters with И and Р appearing twice each.
	if !approx(pack.Letters["И"], 22.2222) {
		t.Fatalf("unexpected И frequency: %v", pack.Letters["И"])
	}
	if !approx(pack.IC, 1.4444) {
		t.Fatalf("unexpected IC: %v", pack.IC)
	}
	if !reflect.DeepEqual(pack.Words, []string{"МИР", "ПРИВЕТ"}) {
		t.Fatalf("unexpected words: %v", pack.Words)
	}
}

func TestTrainerSkipsForeignWords(t *testing.T) {
	trainer, err := NewTrainer(TrainOptions{Name: "demo"})
	if err != nil {
		t.Fatalf("new trainer: %v", err)
	}
	trainer.AddText("naïve touché café plain")

	pack, err := trainer.Pack()
	if err != nil {
		t.Fatalf("build pack: %v", err)
	}
	if !reflect.DeepEqual(pack.Words, []string{"PLAIN"}) {
		t.Fatalf("expected accented words to be dropped, got %v", pack.Words)
	}
}
