package repositorycache

import (
	"strings"
	"unicode"
)

// toSnake converts a Go type name to a snake_case namespace. Any rune that is
// not a letter or digit separates words, so reflected names such as
// "*catalog.Product" never carry the key separator.
func toSnake(s string) string {
	runes := []rune(s)
	words := make([]string, 0, 4)
	var word []rune

	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush()
			continue
		}
		if len(word) > 0 && startsWord(runes, i) {
			flush()
		}
		word = append(word, r)
	}
	flush()

	return strings.Join(words, "_")
}

// startsWord reports whether runes[i] begins a new word given that runes[i-1]
// belongs to the current one.
func startsWord(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsDigit(r):
		return !unicode.IsDigit(prev)
	case unicode.IsDigit(prev):
		return true
	case unicode.IsUpper(r):
		if unicode.IsLower(prev) {
			return true
		}
		// last capital of an acronym followed by a lowercase word: HTTPServer
		return i+1 < len(runes) && unicode.IsLower(runes[i+1])
	}
	return false
}
