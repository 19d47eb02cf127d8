package textstat

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "mixed case with punctuation",
			input: "Hello, World!",
			want:  "HELLOWORLD",
		},
		{
			name:  "digits and whitespace stripped",
			input: "attack at 06:00\tsharp",
			want:  "ATTACKATSHARP",
		},
		{
			name:  "accented letters are not A-Z",
			input: "café",
			want:  "CAF",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
		{
			name:  "nothing survives",
			input: "1234 !?;",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.input); got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeScript(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		script Script
		want   string
	}{
		{
			name:   "cyrillic keeps only cyrillic letters",
			input:  "Привет, мир! 123",
			script: ScriptCyrillic,
			want:   "ПРИВЕТМИР",
		},
		{
			name:   "cyrillic folds yo",
			input:  "ёлка",
			script: ScriptCyrillic,
			want:   "ЕЛКА",
		},
		{
			name:   "han keeps only han runes",
			input:  "你好, world 世界",
			script: ScriptHan,
			want:   "你好世界",
		},
		{
			name:   "latin matches Normalize",
			input:  "Hello, Мир!",
			script: ScriptLatin,
			want:   "HELLO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeScript(tt.input, tt.script); got != tt.want {
				t.Errorf("NormalizeScript(%q, %s) = %q, want %q", tt.input, tt.script, got, tt.want)
			}
		})
	}
}

func TestParseScript(t *testing.T) {
	tests := []struct {
		input   string
		want    Script
		wantErr bool
	}{
		{input: "", want: ScriptLatin},
		{input: "latin", want: ScriptLatin},
		{input: " Cyrillic ", want: ScriptCyrillic},
		{input: "HAN", want: ScriptHan},
		{input: "runic", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseScript(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseScript(%q) expected error, got %q", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseScript(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseScript(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
