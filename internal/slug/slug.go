// Package slug derives URL-safe guids from human-readable titles.
package slug

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// letters that do not decompose into a base letter plus a combining mark
var folds = strings.NewReplacer(
	"ı", "i",
	"ø", "o",
	"đ", "d",
	"ł", "l",
	"ß", "ss",
	"æ", "ae",
	"œ", "oe",
	"þ", "th",
)

// Make lowercases s using the casing rules of locale, folds diacritics to
// their base letters and joins the remaining alphanumeric runs with '-'.
//
//	Make("Çağrı Şükür", language.Turkish) == "cagri-sukur"
//	Make("İSTANBUL", language.Turkish)    == "istanbul"
func Make(s string, locale language.Tag) string {
	lowered := cases.Lower(locale).String(s)
	lowered = folds.Replace(lowered)

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, lowered)
	if err != nil {
		folded = lowered
	}

	var b strings.Builder
	b.Grow(len(folded))
	pendingDash := false
	for _, r := range folded {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(r)
			continue
		}
		pendingDash = true
	}
	return b.String()
}
