package session

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// GenerationParams is the raw form input for a generation request. Count is
// kept as text because it usually comes straight from a form field.
type GenerationParams struct {
	Topics       []string
	QuestionType string
	Difficulty   string
	Count        string
}

type generationInput struct {
	Topics       []string `validate:"min=1,dive,required"`
	QuestionType string   `validate:"required"`
	Difficulty   string   `validate:"required"`
	Count        int      `validate:"min=1,max=20"`
}

var fieldMessages = map[string]string{
	"Topics":       "at least one topic is required",
	"QuestionType": "question type is required",
	"Difficulty":   "difficulty is required",
	"Count":        "number of questions must be between 1 and 20",
}

// SplitTopics splits a comma-separated topic field, dropping blank entries.
func SplitTopics(s string) []string {
	return cleanTopics(strings.Split(s, ","))
}

func cleanTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func validateParams(p GenerationParams) (generationInput, error) {
	in := generationInput{
		Topics:       cleanTopics(p.Topics),
		QuestionType: strings.TrimSpace(p.QuestionType),
		Difficulty:   strings.TrimSpace(p.Difficulty),
	}

	var errs []string

	count, err := strconv.Atoi(strings.TrimSpace(p.Count))
	if err != nil {
		errs = append(errs, fmt.Sprintf("number of questions must be a number, got %q", p.Count))
		count = 1 // checked above; keep the struct rule from reporting it twice
	}
	in.Count = count

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return in, fmt.Errorf("validate generation params: %w", err)
		}
		seen := map[string]bool{}
		for _, fe := range verrs {
			field := strings.SplitN(fe.StructField(), "[", 2)[0]
			if seen[field] {
				continue
			}
			seen[field] = true
			errs = append(errs, fieldMessages[field])
		}
	}

	if len(errs) > 0 {
		return in, &ValidationError{Errors: errs}
	}
	return in, nil
}
