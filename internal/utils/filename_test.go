package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFileName(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain name", "Asha", "Asha"},
		{"spaces become underscores", "Asha Khan", "Asha_Khan"},
		{"punctuation stripped", "O'Brien, Jr.", "OBrien_Jr"},
		{"slashes stripped", "a/b\\c", "abc"},
		{"unicode stripped", "Müller", "Mller"},
		{"keeps digits and dashes", "class-5B roll 12", "class-5B_roll_12"},
		{"empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, SanitizeFileName(tc.input))
		})
	}
}

func TestReceiptEntryName(t *testing.T) {
	assert.Equal(t, "Receipt_2026_08_Asha_Khan_ID42.pdf", ReceiptEntryName(2026, 8, "Asha Khan", 42, "pdf"))
	assert.Equal(t, "Receipt_2025_12_X_ID1.pdf", ReceiptEntryName(2025, 12, "X!", 1, "pdf"))
}
