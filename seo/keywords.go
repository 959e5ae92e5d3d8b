package seo

import (
	"cmp"
	"math"
	"slices"
	"strings"
)

// Keyword is one entry of a keyword density table.
type Keyword struct {
	Word    string  `json:"word"`
	Count   int     `json:"count"`
	Density float64 `json:"density"`
}

var stopWords = map[string]struct{}{}

func init() {
	for _, w := range strings.Fields(`a about above after again against all am an and any are aren't as at
		be because been before being below between both but by can can't cannot could couldn't did didn't
		do does doesn't doing don't down during each few for from further had hadn't has hasn't have haven't
		having he he'd he'll he's her here here's hers herself him himself his how how's i i'd i'll i'm i've
		if in into is isn't it it's its itself let's me more most mustn't my myself no nor not of off on once
		only or other ought our ours ourselves out over own same shan't she she'd she'll she's should
		shouldn't so some such than that that's the their theirs them themselves then there there's these
		they they'd they'll they're they've this those through to too under until up very was wasn't we
		we'd we'll we're we've were weren't what what's when when's where where's which while who who's
		whom why why's will with won't would wouldn't you you'd you'll you're you've your yours yourself
		yourselves`) {
		stopWords[w] = struct{}{}
	}
}

// IsStopWord reports whether w is a common English function word.
func IsStopWord(w string) bool {
	_, ok := stopWords[strings.ToLower(w)]
	return ok
}

// KeywordDensity returns the top most frequent words, stop words and single
// characters excluded, with their share of the total word count in percent.
// Ties are broken alphabetically. A non positive top returns every keyword.
func KeywordDensity(text string, top int) []Keyword {
	words := Words(text)
	if len(words) == 0 {
		return nil
	}
	counts := make(map[string]int)
	for _, w := range words {
		w = strings.ToLower(strings.ReplaceAll(w, "’", "'"))
		if len([]rune(w)) < 2 || IsStopWord(w) {
			continue
		}
		counts[w]++
	}
	out := make([]Keyword, 0, len(counts))
	for w, n := range counts {
		out = append(out, Keyword{Word: w, Count: n, Density: density(n, len(words))})
	}
	slices.SortFunc(out, func(a, b Keyword) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.Word, b.Word)
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}

// PhraseDensity returns how many times the phrase occurs as a run of whole words
// and the share of the text's words it covers, in percent.
func PhraseDensity(text, phrase string) Keyword {
	words := Words(strings.ToLower(text))
	target := Words(strings.ToLower(phrase))
	k := Keyword{Word: strings.Join(target, " ")}
	if len(target) == 0 || len(words) < len(target) {
		return k
	}
	for i := 0; i+len(target) <= len(words); i++ {
		if slices.Equal(words[i:i+len(target)], target) {
			k.Count++
		}
	}
	k.Density = density(k.Count*len(target), len(words))
	return k
}

func density(n, total int) float64 {
	return math.Round(float64(n)/float64(total)*10000) / 100
}
