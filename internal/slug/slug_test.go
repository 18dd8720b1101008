package slug

import "testing"

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple two words", "Hello World", "hello-world"},
		{"title with year", "Eshop 2026", "eshop-2026"},
		{"czech diacritics", "Žluťoučký kůň", "zlutoucky-kun"},
		{"czech name", "Jana Nováková", "jana-novakova"},
		{"punctuation collapsed", "Web, mobil & API!", "web-mobil-api"},
		{"tabs and newlines", "hello\tworld\nagain", "hello-world-again"},
		{"leading and trailing hyphens", "--hello world--", "hello-world"},
		{"multiple hyphens", "hello---world", "hello-world"},
		{"non latin dropped", "Portfolio 作品", "portfolio"},
		{"empty string", "", ""},
		{"only special characters", "!@#$%^&*()", ""},
		{"single character", "A", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Generate(tt.input); got != tt.want {
				t.Errorf("Generate(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
