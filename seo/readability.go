package seo

import (
	"math"
	"time"

	"github.com/esimov/pixkit/utils"
)

// WordsPerMinute is the reading speed used for the reading time estimate.
const WordsPerMinute = 200

// complexSyllables is the syllable count from which a word is considered complex.
const complexSyllables = 3

// Stats are the raw counts a readability report is computed from.
type Stats struct {
	Words        int `json:"words"`
	Sentences    int `json:"sentences"`
	Syllables    int `json:"syllables"`
	Characters   int `json:"characters"`
	Paragraphs   int `json:"paragraphs"`
	ComplexWords int `json:"complexWords"`
}

// Report is the readability analysis of a text.
type Report struct {
	Stats
	ReadingEase float64       `json:"readingEase"`
	Grade       float64       `json:"grade"`
	Level       string        `json:"level"`
	ReadingTime time.Duration `json:"readingTime"`
}

// Count gathers the counts of text.
func Count(text string) Stats {
	words := Words(text)
	s := Stats{
		Words:      len(words),
		Sentences:  Sentences(text),
		Paragraphs: Paragraphs(text),
	}
	for _, w := range words {
		n := Syllables(w)
		s.Syllables += n
		s.Characters += len([]rune(w))
		if n >= complexSyllables {
			s.ComplexWords++
		}
	}
	if s.Words > 0 && s.Sentences == 0 {
		s.Sentences = 1
	}
	return s
}

// Analyze computes the readability report of text. An empty text scores zero everywhere.
func Analyze(text string) Report {
	s := Count(text)
	r := Report{Stats: s}
	if s.Words == 0 {
		r.Level = levelOf(0)
		return r
	}
	r.ReadingEase = round1(ReadingEase(s))
	r.Grade = round1(Grade(s))
	r.Level = levelOf(r.ReadingEase)
	r.ReadingTime = ReadingTime(s.Words)
	return r
}

// ReadingEase is the Flesch Reading Ease score clamped to [0, 100].
func ReadingEase(s Stats) float64 {
	if s.Words == 0 || s.Sentences == 0 {
		return 0
	}
	wps := float64(s.Words) / float64(s.Sentences)
	spw := float64(s.Syllables) / float64(s.Words)
	return utils.Clamp(206.835-1.015*wps-84.6*spw, 0, 100)
}

// Grade is the Flesch-Kincaid grade level, never below zero.
func Grade(s Stats) float64 {
	if s.Words == 0 || s.Sentences == 0 {
		return 0
	}
	wps := float64(s.Words) / float64(s.Sentences)
	spw := float64(s.Syllables) / float64(s.Words)
	return math.Max(0, 0.39*wps+11.8*spw-15.59)
}

// ReadingTime estimates the time needed to read the given number of words,
// rounded up to the second.
func ReadingTime(words int) time.Duration {
	if words <= 0 {
		return 0
	}
	secs := math.Ceil(float64(words) * 60 / WordsPerMinute)
	return time.Duration(secs) * time.Second
}

// levelOf maps a reading ease score to the usual Flesch bands.
func levelOf(score float64) string {
	switch {
	case score >= 90:
		return "very easy"
	case score >= 80:
		return "easy"
	case score >= 70:
		return "fairly easy"
	case score >= 60:
		return "standard"
	case score >= 50:
		return "fairly difficult"
	case score >= 30:
		return "difficult"
	}
	return "very difficult"
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }
