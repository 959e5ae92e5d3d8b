package seo

import "unicode/utf8"

// Recommended meta tag lengths, in characters.
const (
	TitleMin       = 30
	TitleMax       = 60
	DescriptionMin = 120
	DescriptionMax = 160
)

// Length verdicts.
const (
	StatusMissing  = "missing"
	StatusTooShort = "too short"
	StatusOK       = "ok"
	StatusTooLong  = "too long"
)

// MetaCheck is the verdict for one meta tag.
type MetaCheck struct {
	Length int    `json:"length"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
	Status string `json:"status"`
}

// CheckTitle rates the length of a page title.
func CheckTitle(title string) MetaCheck { return checkLength(title, TitleMin, TitleMax) }

// CheckDescription rates the length of a meta description.
func CheckDescription(desc string) MetaCheck {
	return checkLength(desc, DescriptionMin, DescriptionMax)
}

func checkLength(s string, lo, hi int) MetaCheck {
	n := utf8.RuneCountInString(s)
	c := MetaCheck{Length: n, Min: lo, Max: hi}
	switch {
	case n == 0:
		c.Status = StatusMissing
	case n < lo:
		c.Status = StatusTooShort
	case n > hi:
		c.Status = StatusTooLong
	default:
		c.Status = StatusOK
	}
	return c
}
