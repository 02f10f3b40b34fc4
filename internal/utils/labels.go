package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// LocationLabel capitalizes the first character of every space separated
// word of a location name for display. The rest of each word is kept as is,
// so "1st phase jp nagar" becomes "1st Phase Jp Nagar".
func LocationLabel(location string) string {
	upper := cases.Upper(language.English)
	words := strings.Split(location, " ")
	for i, w := range words {
		_, size := utf8.DecodeRuneInString(w)
		if size == 0 {
			continue
		}
		words[i] = upper.String(w[:size]) + w[size:]
	}
	return strings.Join(words, " ")
}
