package services

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer strips markup from user-supplied free text (check-in
// notes, brain-dump content, task text, descriptions) before it is
// stored. Everything in this app is rendered as plain text, so the
// strict policy is the right fit.
type Sanitizer struct {
	policy *bluemonday.Policy
}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{policy: bluemonday.StrictPolicy()}
}

// Clean returns the text with all HTML removed and surrounding
// whitespace trimmed. Idempotent.
func (s *Sanitizer) Clean(text string) string {
	return strings.TrimSpace(s.policy.Sanitize(text))
}

// CleanPtr is Clean for optional PATCH fields. Nil passes through.
func (s *Sanitizer) CleanPtr(text *string) *string {
	if text == nil {
		return nil
	}
	cleaned := s.Clean(*text)
	return &cleaned
}
