package client

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/quizdesk/client/internal/models"
)

// Mock is an in-process backend for local development. It fabricates
// questions from the requested topics and accepts every save.
type Mock struct {
	mu    sync.Mutex
	saved []models.SaveRequest
}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) Generate(ctx context.Context, req models.GenerateRequest) (*GenerateOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	letters := []string{"A", "B", "C", "D"}
	items := make([]models.GeneratedItem, 0, req.NumQuestions)
	for i := 0; i < req.NumQuestions; i++ {
		topic := "general knowledge"
		if len(req.Topics) > 0 {
			topic = req.Topics[i%len(req.Topics)]
		}

		if req.Type == string(models.TypeOpenEnded) || (req.Type == string(models.TypeMixed) && i%2 == 1) {
			items = append(items, models.GeneratedItem{
				Question: fmt.Sprintf("[Mock] In a few sentences, explain one %s idea of %s.", req.Difficulty, topic),
				Answer:   fmt.Sprintf("[Mock] A short explanation of %s.", topic),
			})
			continue
		}

		correct := letters[i%len(letters)]
		question := fmt.Sprintf("[Mock] Which statement about %s is accurate (%s)?", topic, req.Difficulty)
		for _, l := range letters {
			label := "a distractor"
			if l == correct {
				label = "the accurate statement"
			}
			question += fmt.Sprintf("\n%s) Statement %s about %s is %s", l, l, topic, label)
		}
		items = append(items, models.GeneratedItem{Question: question, Answer: correct})
	}

	return &GenerateOutcome{Status: http.StatusOK, Questions: items}, nil
}

func (m *Mock) Save(ctx context.Context, req models.SaveRequest) (*SaveOutcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.saved = append(m.saved, req)
	m.mu.Unlock()
	return &SaveOutcome{Status: http.StatusCreated, Redirect: "/quizzes"}, nil
}

// Saved returns the save requests received so far.
func (m *Mock) Saved() []models.SaveRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.SaveRequest(nil), m.saved...)
}
