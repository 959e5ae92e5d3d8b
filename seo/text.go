// Package seo computes readability scores and on-page checks for a piece of text:
// Flesch Reading Ease, Flesch-Kincaid grade, reading time, keyword density,
// meta tag lengths, heading structure and URL slugs.
package seo

import (
	"strings"
	"unicode"
)

// Words splits text into words. Apostrophes and hyphens inside a word are kept.
func Words(text string) []string {
	var (
		words []string
		b     strings.Builder
	)
	flush := func() {
		w := strings.Trim(b.String(), "'-’")
		if w != "" {
			words = append(words, w)
		}
		b.Reset()
	}
	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case (r == '\'' || r == '’' || r == '-') && b.Len() > 0:
			b.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return words
}

// Sentences counts sentence terminators. Runs of terminators ("?!", "...") count
// once and a trailing fragment without punctuation counts as a sentence.
func Sentences(text string) int {
	n := 0
	pending := false
	inTerm := false
	for _, r := range text {
		switch r {
		case '.', '!', '?', '…':
			if pending && !inTerm {
				n++
				pending = false
			}
			inTerm = true
		default:
			inTerm = false
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				pending = true
			}
		}
	}
	if pending {
		n++
	}
	return n
}

// Paragraphs counts blocks of text separated by blank lines.
func Paragraphs(text string) int {
	n := 0
	for _, block := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		if strings.TrimSpace(block) != "" {
			n++
		}
	}
	return n
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u', 'y':
		return true
	}
	return false
}

// Syllables estimates the syllable count of an English word by counting vowel
// groups, discounting a silent final "e". Every word has at least one syllable.
func Syllables(word string) int {
	w := strings.ToLower(strings.Trim(word, "'’-"))
	if w == "" {
		return 0
	}
	runes := []rune(w)
	if len(runes) <= 3 {
		return 1
	}
	count := 0
	prevVowel := false
	for _, r := range runes {
		v := isVowel(r)
		if v && !prevVowel {
			count++
		}
		prevVowel = v
	}
	n := len(runes)
	if runes[n-1] == 'e' && !(n > 2 && runes[n-2] == 'l' && !isVowel(runes[n-3])) && count > 1 {
		count--
	}
	if n > 3 && count > 1 && !isVowel(runes[n-3]) {
		switch {
		case strings.HasSuffix(w, "ed") && !strings.ContainsRune("td", runes[n-3]):
			count--
		case strings.HasSuffix(w, "es") && !strings.ContainsRune("sxzcgh", runes[n-3]):
			count--
		}
	}
	if count < 1 {
		count = 1
	}
	return count
}
