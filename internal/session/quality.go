package session

import "github.com/quizdesk/client/internal/models"

// StructuralScore holds the structural checks run on a parsed question.
type StructuralScore struct {
	StemPresent      bool
	OptionsComplete  bool // every option has text
	AnswerResolvable bool // the stored answer names one of the options
	AnswerPresent    bool
}

// ComputeStructuralScore evaluates one parsed question. Open-ended questions
// trivially pass the option checks.
func ComputeStructuralScore(q models.Question) StructuralScore {
	score := StructuralScore{
		StemPresent:      q.Stem != "",
		OptionsComplete:  true,
		AnswerResolvable: true,
		AnswerPresent:    q.RawAnswer != "",
	}
	if !q.IsMultipleChoice() {
		return score
	}

	for _, o := range q.Options {
		if o.Text == "" {
			score.OptionsComplete = false
		}
	}
	score.AnswerResolvable = hasOption(&q, q.CorrectLetter)
	return score
}

// ClassifyQuality returns "reject" when a multiple-choice question can never
// be graded correct, "flagged" when it is displayable but incomplete, and
// "passed" otherwise.
func ClassifyQuality(s StructuralScore) string {
	switch {
	case !s.AnswerResolvable || !s.AnswerPresent:
		return "reject"
	case !s.StemPresent || !s.OptionsComplete:
		return "flagged"
	}
	return "passed"
}
