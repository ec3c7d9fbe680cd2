package utils

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "plain name unchanged",
			input:    "greetings",
			expected: "greetings",
		},
		{
			name:     "slashes removed",
			input:    "food/drink",
			expected: "fooddrink",
		},
		{
			name:     "invalid characters removed",
			input:    `pro<verbs>: "wisdom"?`,
			expected: "proverbs wisdom",
		},
		{
			name:     "whitespace collapsed",
			input:    "family \t and\n relatives",
			expected: "family and relatives",
		},
		{
			name:     "empty becomes untitled",
			input:    "   ",
			expected: "untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
