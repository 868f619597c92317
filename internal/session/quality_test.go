package session

import (
	"testing"

	"github.com/quizdesk/client/internal/models"
)

func TestClassifyQuality(t *testing.T) {
	tests := []struct {
		name     string
		question string
		answer   string
		want     string
	}{
		{"well formed", "What is 2+2? A) 3 B) 4 C) 5", "B", "passed"},
		{"answer by text", "What is 2+2? A) 3 B) 4 C) 5", "4", "passed"},
		{"unknown letter", "What is 2+2? A) 3 B) 4", "D", "reject"},
		{"missing answer", "What is 2+2? A) 3 B) 4", "", "reject"},
		{"empty option", "Pick one A) B) yes", "B", "flagged"},
		{"no stem", "A) yes B) no", "A", "flagged"},
		{"open ended", "Explain addition.", "Combining quantities.", "passed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := newQuestion(models.GeneratedItem{Question: tt.question, Answer: tt.answer})
			if got := ClassifyQuality(ComputeStructuralScore(q)); got != tt.want {
				t.Errorf("got %q, want %q (score %+v)", got, tt.want, ComputeStructuralScore(q))
			}
		})
	}
}
