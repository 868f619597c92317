package client

import (
	"net/url"
	"strconv"

	"github.com/quizdesk/client/internal/models"
)

// FormEncode renders a save request in the legacy numbered-field layout:
// question_N, option_N_M and correct_N, with N and M starting at 1.
func FormEncode(req models.SaveRequest) url.Values {
	v := url.Values{}
	v.Set("title", req.Title)
	if req.Description != "" {
		v.Set("description", req.Description)
	}
	v.Set("question_count", strconv.Itoa(len(req.Questions)))

	for i, q := range req.Questions {
		n := strconv.Itoa(i + 1)
		v.Set("question_"+n, q.Text)
		for j, opt := range q.Options {
			v.Set("option_"+n+"_"+strconv.Itoa(j+1), opt)
		}
		v.Set("correct_"+n, q.CorrectAnswer)
	}
	return v
}
