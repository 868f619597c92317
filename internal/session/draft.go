package session

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/quizdesk/client/internal/client"
	"github.com/quizdesk/client/internal/models"
)

// BuildDraft assembles the outbound draft from the retained question objects,
// never from what was displayed.
func (c *Controller) BuildDraft(title string, description *string) (*models.QuizDraft, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("quiz title is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.questions) == 0 {
		return nil, invalid("generate a quiz before saving")
	}

	draft := &models.QuizDraft{
		Title:      title,
		Questions:  cloneQuestions(c.questions),
		Generation: c.setSeq,
	}
	if description != nil {
		if d := strings.TrimSpace(*description); d != "" {
			draft.Description = &d
		}
	}
	return draft, nil
}

// ToSaveRequest converts a draft to the save endpoint's payload. The correct
// answer is the option letter for multiple-choice questions and the stored
// answer text otherwise.
func ToSaveRequest(draft *models.QuizDraft) models.SaveRequest {
	req := models.SaveRequest{
		Title:     draft.Title,
		Questions: make([]models.SaveQuestion, 0, len(draft.Questions)),
	}
	if draft.Description != nil {
		req.Description = *draft.Description
	}

	for i := range draft.Questions {
		q := &draft.Questions[i]
		correct := q.RawAnswer
		if q.IsMultipleChoice() {
			correct = q.CorrectLetter
		}
		req.Questions = append(req.Questions, models.SaveQuestion{
			Text:          q.Stem,
			Options:       q.OptionTexts(),
			CorrectAnswer: correct,
		})
	}
	return req
}

// SubmitDraft sends the draft to the save endpoint. On success the session's
// question set is discarded unless a newer generation replaced it while the
// save was in flight; the caller is expected to navigate to Redirect.
func (c *Controller) SubmitDraft(ctx context.Context, draft *models.QuizDraft) (*SaveResult, error) {
	if draft == nil || strings.TrimSpace(draft.Title) == "" {
		return nil, invalid("quiz title is required")
	}
	if len(draft.Questions) == 0 {
		return nil, invalid("quiz has no questions")
	}

	outcome, err := c.backend.Save(ctx, ToSaveRequest(draft))
	if err != nil {
		return nil, saveFailure(err)
	}

	c.mu.Lock()
	if c.setSeq == draft.Generation {
		c.questions = nil
		c.warning = ""
	} else {
		log.Printf("[session] keeping generation #%d, saved draft came from #%d", c.setSeq, draft.Generation)
	}
	c.mu.Unlock()

	log.Printf("[session] saved quiz %q with %d questions", draft.Title, len(draft.Questions))
	return &SaveResult{Redirect: outcome.Redirect}, nil
}

func saveFailure(err error) error {
	if errors.Is(err, client.ErrTokenMissing) {
		return ErrSecurityTokenMissing
	}
	var se *client.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = genericSaveMessage
		}
		return &SaveError{Status: se.Status, Message: msg, Err: err}
	}
	log.Printf("[session] save failed: %v", err)
	return &SaveError{Message: genericSaveMessage, Err: err}
}
