// Package render turns session questions into display views.
package render

import "github.com/quizdesk/client/internal/models"

// Project maps questions to views. Multiple-choice views expose their options
// and a check affordance until locked; open-ended views only offer a reveal.
// Answers are never part of a view.
func Project(questions []models.Question) []models.QuestionView {
	views := make([]models.QuestionView, 0, len(questions))
	for i := range questions {
		q := &questions[i]
		v := models.QuestionView{
			Index:          i,
			Stem:           q.Stem,
			MultipleChoice: q.IsMultipleChoice(),
			Status:         q.Status,
			Selected:       q.Selected,
		}
		if v.Status == "" {
			v.Status = models.StatusUnanswered
		}
		if v.MultipleChoice {
			v.Options = append([]models.ParsedOption(nil), q.Options...)
			v.CanCheck = !q.Locked()
		} else {
			v.CanReveal = true
		}
		views = append(views, v)
	}
	return views
}
