package models

type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeOpenEnded      QuestionType = "open_ended"
	TypeMixed          QuestionType = "mixed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// GradeStatus is the per-question grading state. Unanswered is the only state
// that accepts a selection.
type GradeStatus string

const (
	StatusUnanswered GradeStatus = "unanswered"
	StatusCorrect    GradeStatus = "correct"
	StatusIncorrect  GradeStatus = "incorrect"
)

// ── Core Structs ───────────────────────────────────────

type ParsedOption struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

type Question struct {
	Stem      string         `json:"stem"`
	RawText   string         `json:"raw_text"`
	RawAnswer string         `json:"raw_answer"`
	Options   []ParsedOption `json:"options"`

	// CorrectLetter is the resolved A-E answer for multiple-choice questions
	// and empty for open-ended ones.
	CorrectLetter string `json:"correct_letter,omitempty"`

	// Set once by grading; never cleared.
	Selected string      `json:"selected,omitempty"`
	Status   GradeStatus `json:"status"`
}

func (q *Question) IsMultipleChoice() bool {
	return len(q.Options) > 0
}

func (q *Question) Locked() bool {
	return q.Status == StatusCorrect || q.Status == StatusIncorrect
}

// OptionTexts returns option texts in display order.
func (q *Question) OptionTexts() []string {
	texts := make([]string, len(q.Options))
	for i, o := range q.Options {
		texts[i] = o.Text
	}
	return texts
}

type QuizDraft struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	Questions   []Question `json:"questions"`

	// Generation identifies the question set the draft was built from.
	Generation uint64 `json:"-"`
}

// ── Grading ───────────────────────────────────────────

type GradeResult struct {
	Index         int    `json:"index"`
	Correct       bool   `json:"correct"`
	Selected      string `json:"selected"`
	CorrectAnswer string `json:"correct_answer"`
	Locked        bool   `json:"locked"`
}

type ScoreSummary struct {
	Correct  int `json:"correct"`
	Answered int `json:"answered"`
	Total    int `json:"total"`
}

// ── View Types (display projection) ───────────────────

type QuestionView struct {
	Index          int            `json:"index"`
	Stem           string         `json:"stem"`
	MultipleChoice bool           `json:"multiple_choice"`
	Options        []ParsedOption `json:"options,omitempty"`
	CanCheck       bool           `json:"can_check"`
	CanReveal      bool           `json:"can_reveal"`
	Status         GradeStatus    `json:"status"`
	Selected       string         `json:"selected,omitempty"`
}
