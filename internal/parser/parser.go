// Package parser extracts labeled multiple-choice options from free-form
// question text.
package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/quizdesk/client/internal/models"
)

// Parsed is the result of splitting question text into a stem and options.
type Parsed struct {
	Stem    string
	Options []models.ParsedOption
}

// markerPattern finds candidate option markers: a letter A-E followed by ")"
// or ".", at the start of a line or after whitespace. The leading whitespace
// is part of the match, the letter is group 1.
var markerPattern = regexp.MustCompile(`(?im)(?:^|\s)([a-e])[).]`)

type marker struct {
	start   int // index of the letter
	textPos int // first byte after the separator
	letter  string
}

// Parse splits text into a stem and an ordered list of options.
//
// Each option's text runs from its marker to the next accepted marker or to
// the end of input. A letter that was already captured is not a boundary: the
// repeated marker stays as literal text inside the preceding option. Text with
// no markers is an open-ended question and yields no options.
func Parse(text string) Parsed {
	markers := findMarkers(text)
	if len(markers) == 0 {
		return Parsed{Stem: collapse(text), Options: []models.ParsedOption{}}
	}

	options := make([]models.ParsedOption, 0, len(markers))
	for i, m := range markers {
		end := len(text)
		if i+1 < len(markers) {
			end = markers[i+1].start
		}
		options = append(options, models.ParsedOption{
			Letter: m.letter,
			Text:   collapse(text[m.textPos:end]),
		})
	}

	// Every span from the first marker on belongs to some option.
	return Parsed{Stem: collapse(text[:markers[0].start]), Options: options}
}

// findMarkers returns the accepted markers in source order, first occurrence
// of each letter only.
func findMarkers(text string) []marker {
	var markers []marker
	seen := make(map[string]bool, 5)

	for _, loc := range markerPattern.FindAllStringSubmatchIndex(text, -1) {
		letterPos := loc[2]
		sepPos := letterPos + 1
		textPos := sepPos + 1

		// "e.g." and sentence-final "a." are not markers: a "." separator
		// must be followed by whitespace and then more text. ")" may end
		// the input.
		if text[sepPos] == '.' && !dotMarker(text[textPos:]) {
			continue
		}

		letter := strings.ToUpper(text[letterPos : letterPos+1])
		if seen[letter] {
			continue
		}
		seen[letter] = true
		markers = append(markers, marker{start: letterPos, textPos: textPos, letter: letter})
	}
	return markers
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func dotMarker(rest string) bool {
	return startsWithSpace(rest) && strings.TrimSpace(rest) != ""
}

func startsWithSpace(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsSpace(r)
}
