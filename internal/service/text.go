package service

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/tmanorigins/tman-server/internal/validation"
)

// validate is the shared validator for service inputs.
var validate = validation.New()

// cleanText trims surrounding whitespace and normalizes to NFC, so visually identical input
// (for example a decomposed "é") is stored and compared identically.
func cleanText(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
