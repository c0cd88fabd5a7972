package catalog

import "testing"

func TestNormalizePrompt(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain", []byte("A cat pushes a cup."), "A cat pushes a cup."},
		{"newlines", []byte("A cat\npushes\r\n a cup.\n"), "A cat pushes a cup."},
		{"tabs and runs", []byte("  A\t\tcat   pushes  "), "A cat pushes"},
		{"invalid utf8 dropped", []byte("caf\xc3\xa9 \xff\xfebar"), "café bar"},
		{"empty", nil, ""},
		{"whitespace only", []byte(" \n\t "), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePrompt(tt.in)
			if got != tt.want {
				t.Errorf("NormalizePrompt(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if again := NormalizePrompt([]byte(got)); again != got {
				t.Errorf("not idempotent: %q -> %q", got, again)
			}
		})
	}
}
