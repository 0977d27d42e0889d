package util

import "testing"

func TestEscapeString(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "pass banner",
			input:    "After Instruction Selection",
			expected: "After Instruction Selection",
		},
		{
			name:     "banner with leading newlines",
			input:    "\n\n*** Code after LSR ***\n",
			expected: `\n\n*** Code after LSR ***\n`,
		},
		{
			name:     "double quotes",
			input:    `unit "main"`,
			expected: `unit \"main\"`,
		},
		{
			name:     "tab",
			input:    "a\tb",
			expected: `a\tb`,
		},
		{
			name:     "backslash is kept",
			input:    `a\b`,
			expected: `a\b`,
		},
		{
			name:     "control characters",
			input:    "x\x00\x01\r",
			expected: `x\x00\x01\x0D`,
		},
		{
			name:     "invalid utf-8",
			input:    "bad\x80byte",
			expected: `bad\xFFFDbyte`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EscapeString(tt.input)
			if got != tt.expected {
				t.Errorf("EscapeString(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
