package seo

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Heading is one h1-h6 heading of a document.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Issue is a structural problem found in the heading outline.
type Issue struct {
	Heading int    `json:"heading"` // index into the heading list, -1 for document level issues
	Message string `json:"message"`
}

var headingAtoms = map[atom.Atom]int{
	atom.H1: 1, atom.H2: 2, atom.H3: 3, atom.H4: 4, atom.H5: 5, atom.H6: 6,
}

// ScanHTML extracts the headings of an HTML document in document order.
func ScanHTML(r io.Reader) ([]Heading, error) {
	z := html.NewTokenizer(r)
	var (
		out   []Heading
		cur   *Heading
		depth int
		text  strings.Builder
	)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return out, fmt.Errorf("scan html: %w", err)
			}
			return out, nil
		case html.StartTagToken:
			name, _ := z.TagName()
			if lvl, ok := headingAtoms[atom.Lookup(name)]; ok && cur == nil {
				cur = &Heading{Level: lvl}
				depth = 0
				text.Reset()
			} else if cur != nil {
				depth++
			}
		case html.EndTagToken:
			if cur == nil {
				continue
			}
			name, _ := z.TagName()
			if _, ok := headingAtoms[atom.Lookup(name)]; ok && depth == 0 {
				cur.Text = strings.Join(strings.Fields(text.String()), " ")
				out = append(out, *cur)
				cur = nil
			} else if depth > 0 {
				depth--
			}
		case html.TextToken:
			if cur != nil {
				text.Write(z.Text())
			}
		}
	}
}

// ScanMarkdown extracts ATX style headings ("# Title") outside fenced code blocks.
func ScanMarkdown(r io.Reader) ([]Heading, error) {
	var out []Heading
	fenced := false
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~") {
			fenced = !fenced
			continue
		}
		if fenced || !strings.HasPrefix(line, "#") {
			continue
		}
		lvl := len(line) - len(strings.TrimLeft(line, "#"))
		rest := line[lvl:]
		if lvl > 6 || (rest != "" && rest[0] != ' ' && rest[0] != '\t') {
			continue
		}
		out = append(out, Heading{Level: lvl, Text: strings.TrimSpace(strings.TrimRight(rest, "# "))})
	}
	return out, sc.Err()
}

// ScanHeadings picks the HTML or the markdown scanner depending on the content.
func ScanHeadings(doc string) ([]Heading, error) {
	if strings.Contains(doc, "<") && strings.Contains(doc, ">") {
		return ScanHTML(strings.NewReader(doc))
	}
	return ScanMarkdown(strings.NewReader(doc))
}

// CheckHeadings validates the outline: exactly one h1, first heading an h1,
// no skipped levels on the way down and no empty headings.
func CheckHeadings(hs []Heading) []Issue {
	var issues []Issue
	h1 := 0
	for _, h := range hs {
		if h.Level == 1 {
			h1++
		}
	}
	switch {
	case len(hs) == 0:
		return []Issue{{Heading: -1, Message: "no headings found"}}
	case h1 == 0:
		issues = append(issues, Issue{Heading: -1, Message: "missing h1"})
	case h1 > 1:
		issues = append(issues, Issue{Heading: -1, Message: fmt.Sprintf("%d h1 headings, expected one", h1)})
	}
	if hs[0].Level != 1 && h1 > 0 {
		issues = append(issues, Issue{Heading: 0, Message: "first heading is not an h1"})
	}
	for i, h := range hs {
		if h.Text == "" {
			issues = append(issues, Issue{Heading: i, Message: fmt.Sprintf("empty h%d", h.Level)})
		}
		if i > 0 && h.Level > hs[i-1].Level+1 {
			issues = append(issues, Issue{Heading: i,
				Message: fmt.Sprintf("h%d follows h%d, skipping a level", h.Level, hs[i-1].Level)})
		}
	}
	return issues
}
