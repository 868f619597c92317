// Package session holds the state of one quiz-taking session: the generated
// question set, per-question grading and the draft sent for saving.
package session

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/quizdesk/client/internal/client"
	"github.com/quizdesk/client/internal/models"
	"github.com/quizdesk/client/internal/parser"
	"github.com/quizdesk/client/internal/render"
)

// Backend is the pair of remote collaborators the controller calls.
// *client.Client and *client.Mock satisfy it.
type Backend interface {
	Generate(ctx context.Context, req models.GenerateRequest) (*client.GenerateOutcome, error)
	Save(ctx context.Context, req models.SaveRequest) (*client.SaveOutcome, error)
}

type GenerationResult struct {
	Questions []models.Question
	Warning   string
}

type SaveResult struct {
	Redirect string
}

// Controller owns the current question set. A successful generation replaces
// the whole set; the newest generation call always wins.
type Controller struct {
	backend Backend

	mu        sync.Mutex
	questions []models.Question
	setSeq    uint64 // generation that installed questions
	warning   string
	seq       uint64
	cancel    context.CancelFunc
	loading   bool
	onLoading func(bool)

	// hookMu orders loading hook calls across generations.
	hookMu sync.Mutex
}

func NewController(backend Backend) *Controller {
	return &Controller{backend: backend}
}

// OnLoading registers a hook called when a generation request starts and
// when the newest one settles. The hook must not block.
func (c *Controller) OnLoading(fn func(bool)) {
	c.mu.Lock()
	c.onLoading = fn
	c.mu.Unlock()
}

func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Warning returns the non-fatal warning of the last accepted generation.
func (c *Controller) Warning() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.warning
}

func (c *Controller) RequestGeneration(ctx context.Context, p GenerationParams) (*GenerationResult, error) {
	in, err := validateParams(p)
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.seq++
	seq := c.seq
	c.cancel = cancel
	c.loading = true
	hook := c.onLoading
	c.mu.Unlock()

	c.notifyLoading(seq, true, hook)

	outcome, err := c.backend.Generate(reqCtx, models.GenerateRequest{
		Topics:       in.Topics,
		Type:         in.QuestionType,
		Difficulty:   in.Difficulty,
		NumQuestions: in.Count,
	})

	c.mu.Lock()
	res, settled, err := c.settleLocked(seq, outcome, err)
	c.mu.Unlock()

	if settled {
		c.notifyLoading(seq, false, hook)
	}
	return res, err
}

// notifyLoading calls hook only while seq is the newest generation, so a
// superseded call can never leave the indicator on.
func (c *Controller) notifyLoading(seq uint64, on bool, hook func(bool)) {
	if hook == nil {
		return
	}
	c.hookMu.Lock()
	defer c.hookMu.Unlock()

	c.mu.Lock()
	current := seq == c.seq
	c.mu.Unlock()

	if current {
		hook(on)
	}
}

// settleLocked applies the outcome of generation seq. It reports settled=false
// when a newer call has started, in which case the outcome is discarded.
func (c *Controller) settleLocked(seq uint64, outcome *client.GenerateOutcome, err error) (*GenerationResult, bool, error) {
	if seq != c.seq {
		log.Printf("[session] discarding result of superseded generation #%d", seq)
		return nil, false, ErrSuperseded
	}
	c.cancel = nil
	c.loading = false

	if err != nil {
		return nil, true, generationFailure(err)
	}
	if len(outcome.Questions) == 0 {
		log.Printf("[session] generation #%d returned no questions", seq)
		return nil, true, ErrEmptyResult
	}

	questions := make([]models.Question, 0, len(outcome.Questions))
	for i, item := range outcome.Questions {
		q := newQuestion(item)
		if class := ClassifyQuality(ComputeStructuralScore(q)); class != "passed" {
			log.Printf("[session] generation #%d question %d %s: answer %q, %d options", seq, i+1, class, q.RawAnswer, len(q.Options))
		}
		questions = append(questions, q)
	}
	c.questions = questions
	c.setSeq = seq
	c.warning = outcome.Warning

	if outcome.Warning != "" {
		log.Printf("[session] generation #%d partial: %s", seq, outcome.Warning)
	}
	log.Printf("[session] generation #%d accepted %d questions", seq, len(questions))

	return &GenerationResult{Questions: cloneQuestions(questions), Warning: outcome.Warning}, true, nil
}

func generationFailure(err error) error {
	if errors.Is(err, client.ErrTokenMissing) {
		return ErrSecurityTokenMissing
	}
	var se *client.StatusError
	if errors.As(err, &se) {
		msg := se.Message
		if msg == "" {
			msg = genericGenerationMessage
		}
		return &GenerationError{Status: se.Status, Message: msg, Err: err}
	}
	log.Printf("[session] generation failed: %v", err)
	return &GenerationError{Message: genericGenerationMessage, Err: err}
}

func newQuestion(item models.GeneratedItem) models.Question {
	parsed := parser.Parse(item.Question)
	q := models.Question{
		Stem:      parsed.Stem,
		RawText:   item.Question,
		RawAnswer: strings.TrimSpace(item.Answer),
		Options:   parsed.Options,
		Status:    models.StatusUnanswered,
	}
	if q.IsMultipleChoice() {
		q.CorrectLetter = parser.AnswerLetter(item.Answer, parsed.Options)
	}
	return q
}

// Questions returns a copy of the current question set.
func (c *Controller) Questions() []models.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneQuestions(c.questions)
}

// Render projects the current question set for display.
func (c *Controller) Render() []models.QuestionView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return render.Project(c.questions)
}

// GradeSelection grades a multiple-choice question and locks it. Grading a
// locked question re-reports the stored result without re-evaluating.
func (c *Controller) GradeSelection(index int, selected *string) (models.GradeResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, err := c.question(index)
	if err != nil {
		return models.GradeResult{}, err
	}
	if q.Locked() {
		return gradeResult(index, q), nil
	}
	if !q.IsMultipleChoice() {
		return models.GradeResult{}, invalid("question %d is open-ended and cannot be graded by selection", index+1)
	}
	if selected == nil || parser.NormalizeLetter(*selected) == "" {
		return models.GradeResult{}, ErrNoSelection
	}

	letter := parser.NormalizeLetter(*selected)
	if !hasOption(q, letter) {
		return models.GradeResult{}, invalid("question %d has no option %q", index+1, letter)
	}

	q.Selected = letter
	if letter == parser.NormalizeLetter(q.CorrectLetter) {
		q.Status = models.StatusCorrect
	} else {
		q.Status = models.StatusIncorrect
	}
	log.Printf("[session] question %d graded %s (selected %s, answer %s)", index+1, q.Status, letter, q.CorrectLetter)

	return gradeResult(index, q), nil
}

// Reveal returns the stored answer of an open-ended question. It never
// changes grading state.
func (c *Controller) Reveal(index int) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, err := c.question(index)
	if err != nil {
		return "", err
	}
	if q.IsMultipleChoice() {
		return "", invalid("question %d is multiple choice; check an answer instead", index+1)
	}
	return q.RawAnswer, nil
}

func (c *Controller) Score() models.ScoreSummary {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := models.ScoreSummary{Total: len(c.questions)}
	for i := range c.questions {
		switch c.questions[i].Status {
		case models.StatusCorrect:
			s.Correct++
			s.Answered++
		case models.StatusIncorrect:
			s.Answered++
		}
	}
	return s
}

func (c *Controller) question(index int) (*models.Question, error) {
	if len(c.questions) == 0 {
		return nil, invalid("no quiz has been generated")
	}
	if index < 0 || index >= len(c.questions) {
		return nil, invalid("question index %d out of range [0, %d)", index, len(c.questions))
	}
	return &c.questions[index], nil
}

func hasOption(q *models.Question, letter string) bool {
	for _, o := range q.Options {
		if o.Letter == letter {
			return true
		}
	}
	return false
}

func gradeResult(index int, q *models.Question) models.GradeResult {
	return models.GradeResult{
		Index:         index,
		Correct:       q.Status == models.StatusCorrect,
		Selected:      q.Selected,
		CorrectAnswer: q.CorrectLetter,
		Locked:        true,
	}
}

func cloneQuestions(in []models.Question) []models.Question {
	out := make([]models.Question, len(in))
	for i, q := range in {
		opts := make([]models.ParsedOption, len(q.Options))
		copy(opts, q.Options)
		q.Options = opts
		out[i] = q
	}
	return out
}
