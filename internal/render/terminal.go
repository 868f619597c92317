package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/quizdesk/client/internal/models"
)

// Options controls terminal rendering.
type Options struct {
	NoColor  bool
	Cursor   string // letter under the cursor, if any
	Revealed string // answer text for a revealed open-ended question
	Feedback *models.GradeResult
}

var (
	colorStem      = lipgloss.Color("33")
	colorOption    = lipgloss.Color("252")
	colorCursor    = lipgloss.Color("212")
	colorCorrect   = lipgloss.Color("42")
	colorIncorrect = lipgloss.Color("196")
	colorMuted     = lipgloss.Color("242")
)

// RenderQuestion renders one view as a block of terminal text.
func RenderQuestion(v models.QuestionView, total int, opts Options) string {
	var b strings.Builder

	header := fmt.Sprintf("Question %d/%d", v.Index+1, total)
	b.WriteString(stylize(header, opts.NoColor, colorMuted, false))
	b.WriteString("\n")
	b.WriteString(stylize(v.Stem, opts.NoColor, colorStem, true))
	b.WriteString("\n\n")

	if !v.MultipleChoice {
		if opts.Revealed != "" {
			b.WriteString(stylize("Answer: "+opts.Revealed, opts.NoColor, colorCorrect, false))
		} else {
			b.WriteString(stylize("[r] reveal answer", opts.NoColor, colorMuted, false))
		}
		return b.String()
	}

	for _, o := range v.Options {
		prefix := "  "
		if o.Letter == opts.Cursor && v.CanCheck {
			prefix = "> "
		}
		line := fmt.Sprintf("%s%s) %s", prefix, o.Letter, o.Text)
		b.WriteString(stylize(line, opts.NoColor, optionColor(v, o.Letter, opts), false))
		b.WriteString("\n")
	}

	if opts.Feedback != nil {
		b.WriteString("\n")
		b.WriteString(renderFeedback(*opts.Feedback, opts.NoColor))
	} else if v.CanCheck {
		b.WriteString("\n")
		b.WriteString(stylize("[a-e] select  [enter] check answer", opts.NoColor, colorMuted, false))
	}
	return b.String()
}

func optionColor(v models.QuestionView, letter string, opts Options) lipgloss.Color {
	if opts.Feedback != nil {
		switch letter {
		case opts.Feedback.CorrectAnswer:
			return colorCorrect
		case opts.Feedback.Selected:
			return colorIncorrect
		}
	}
	if letter == opts.Cursor && v.CanCheck {
		return colorCursor
	}
	return colorOption
}

func renderFeedback(r models.GradeResult, noColor bool) string {
	if r.Correct {
		return stylize("Correct!", noColor, colorCorrect, true)
	}
	return stylize("Incorrect. The correct answer is "+r.CorrectAnswer+".", noColor, colorIncorrect, true)
}

// RenderSummary renders the score line.
func RenderSummary(s models.ScoreSummary, noColor bool) string {
	line := fmt.Sprintf("Score: %d/%d answered correctly (%d questions)", s.Correct, s.Answered, s.Total)
	return stylize(line, noColor, colorMuted, false)
}

func stylize(text string, noColor bool, color lipgloss.Color, bold bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Bold(bold).Render(text)
}
