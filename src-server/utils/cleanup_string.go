package utils

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CleanupString normalizes user-supplied titles (event names, subject and
// assignment titles) before they are stored: surrounding whitespace and a
// trailing period are dropped, words are title-cased.
func CleanupString(s string) string {
	s = strings.TrimSuffix(strings.TrimSpace(s), ".")
	return cases.Title(language.English).String(s)
}
