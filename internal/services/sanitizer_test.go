package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizerStripsMarkup(t *testing.T) {
	san := NewSanitizer()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "take meds at 9", "take meds at 9"},
		{"script stripped", "<script>alert(1)</script>slept well", "slept well"},
		{"tags stripped, text kept", "<b>important</b> thought", "important thought"},
		{"whitespace trimmed", "  note  ", "note"},
		{"empty stays empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, san.Clean(tt.input))
		})
	}
}

func TestCleanPtr(t *testing.T) {
	san := NewSanitizer()

	assert.Nil(t, san.CleanPtr(nil))

	in := " <i>hello</i> "
	out := san.CleanPtr(&in)
	assert.Equal(t, "hello", *out)
}
