package parser

import (
	"regexp"
	"strings"

	"github.com/quizdesk/client/internal/models"
)

var validLetters = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true}

// NormalizeLetter strips surrounding whitespace and any trailing ")" or "."
// and uppercases the result, so "b." and "B)" both become "B".
func NormalizeLetter(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ").")
	return strings.ToUpper(strings.TrimSpace(s))
}

// IsValidLetter reports whether s is one of A-E after normalization.
func IsValidLetter(s string) bool {
	return validLetters[NormalizeLetter(s)]
}

var (
	// "Answer: B", "The correct answer is b because ..."
	labeledAnswer = regexp.MustCompile(`(?i)^\s*(?:the\s+)?(?:correct\s+)?answer\s*(?:is)?\s*[:\-]?\s*\(?([a-e])(?:[).:]|\s|$)`)
	// "B", "b.", "(c)", "D) 4". A letter followed by a space is an article.
	bareAnswer = regexp.MustCompile(`(?i)^\s*\(?([a-e])(?:[).:]|$)`)
)

// AnswerLetter resolves the correct-answer letter for a question from the raw
// answer returned by the generator. It accepts bare letters ("B", "b."),
// labeled answers ("B) 4", "Answer: B") and, when options are known, the
// option text itself, which is checked first. An answer that ends with an
// option's text ("a cat") resolves to that option. If nothing matches, the
// normalized raw answer is returned.
func AnswerLetter(raw string, options []models.ParsedOption) string {
	want := collapse(strings.ToLower(raw))
	if want != "" {
		for _, o := range options {
			if strings.ToLower(o.Text) == want {
				return o.Letter
			}
		}
	}

	for _, re := range []*regexp.Regexp{labeledAnswer, bareAnswer} {
		if m := re.FindStringSubmatch(raw); m != nil {
			return strings.ToUpper(m[1])
		}
	}

	// "a cat" against "B) cat"
	if letter := suffixMatch(want, options); letter != "" {
		return letter
	}
	return NormalizeLetter(raw)
}

// suffixMatch returns the option whose text ends want, preferring the
// longest such text.
func suffixMatch(want string, options []models.ParsedOption) string {
	found, longest := "", 0
	for _, o := range options {
		text := strings.ToLower(o.Text)
		if text == "" || len(text) <= longest || !strings.HasSuffix(want, " "+text) {
			continue
		}
		found, longest = o.Letter, len(text)
	}
	return found
}
