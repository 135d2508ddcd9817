// Package slug turns display names into URL and file-name friendly tokens.
package slug

import (
	"regexp"
	"strings"
)

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

var latinFold = strings.NewReplacer(
	"à", "a", "á", "a", "â", "a", "ä", "a", "ã", "a",
	"ç", "c", "è", "e", "é", "e", "ê", "e", "ë", "e",
	"ğ", "g", "ì", "i", "í", "i", "î", "i", "ï", "i", "ı", "i",
	"ñ", "n", "ò", "o", "ó", "o", "ô", "o", "ö", "o", "õ", "o",
	"ş", "s", "ù", "u", "ú", "u", "û", "u", "ü", "u", "ẹ", "e", "ọ", "o", "ṣ", "s",
)

// Generate lowercases name, folds common accented Latin letters to ASCII and
// joins the remaining alphanumeric runs with single hyphens.
//
//	"Normal chicken/lepa" -> "normal-chicken-lepa"
//	"Crème brûlée"        -> "creme-brulee"
func Generate(name string) string {
	s := latinFold.Replace(strings.ToLower(strings.TrimSpace(name)))
	return strings.Trim(nonAlnum.ReplaceAllString(s, "-"), "-")
}
