// internal/stress/stress.go
//
// Locates the stressed vowel of a word.
//
// Source words mark stress with a single upper-case vowel amid lowercase
// letters ("зАмок"). Everything here works on rune indices, so an index
// always names a character, never a byte offset.

package stress

import (
	"strings"
	"unicode"
)

// Vowels is the fixed vowel alphabet, both cases.
var Vowels = []rune{
	'а', 'е', 'ё', 'и', 'о', 'у', 'ы', 'э', 'ю', 'я',
	'А', 'Е', 'Ё', 'И', 'О', 'У', 'Ы', 'Э', 'Ю', 'Я',
}

var vowelSet = func() map[rune]struct{} {
	m := make(map[rune]struct{}, len(Vowels))
	for _, v := range Vowels {
		m[v] = struct{}{}
	}
	return m
}()

// IsVowel reports whether r belongs to the vowel alphabet (either case).
func IsVowel(r rune) bool {
	_, ok := vowelSet[r]
	return ok
}

// Locate returns the rune index of the first upper-case vowel in word.
// The boolean is false when the word carries no stress mark.
func Locate(word string) (int, bool) {
	i := 0
	for _, r := range word {
		if IsVowel(r) && unicode.IsUpper(r) {
			return i, true
		}
		i++
	}
	return -1, false
}

// Letter is one character of a word as shown to the player.
type Letter struct {
	Index int    `json:"index"`
	Char  string `json:"char"`
	Vowel bool   `json:"vowel"`
}

// Letters splits word into lowercased letters; only vowels are selectable.
func Letters(word string) []Letter {
	out := make([]Letter, 0, len(word))
	i := 0
	for _, r := range word {
		lr := unicode.ToLower(r)
		out = append(out, Letter{Index: i, Char: string(lr), Vowel: IsVowel(lr)})
		i++
	}
	return out
}

// Lower returns the display form of word, with the stress mark hidden.
func Lower(word string) string {
	return strings.ToLower(word)
}

// Stressed returns word in lowercase with the letter at idx upper-cased.
// An out-of-range idx yields the plain lowercase word.
func Stressed(word string, idx int) string {
	rs := []rune(strings.ToLower(word))
	if idx >= 0 && idx < len(rs) {
		rs[idx] = unicode.ToUpper(rs[idx])
	}
	return string(rs)
}
