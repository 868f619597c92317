// Package tui hosts a quiz session in a Bubble Tea terminal program.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/quizdesk/client/internal/models"
	"github.com/quizdesk/client/internal/parser"
	"github.com/quizdesk/client/internal/render"
	"github.com/quizdesk/client/internal/session"
)

// Options configures the terminal client.
type Options struct {
	NoColor bool
	// Title is used when the quiz is saved.
	Title       string
	Description *string
}

// Model is the Bubble Tea model for one quiz session.
type Model struct {
	ctx     context.Context
	ctrl    *session.Controller
	params  session.GenerationParams
	opts    Options
	spinner spinner.Model

	generating bool
	saving     bool
	current    int
	cursor     map[int]string
	feedback   map[int]models.GradeResult
	revealed   map[int]string
	status     string
	redirect   string
}

// NewModel builds a model that generates a quiz from params on start, so it
// begins in the generating state.
func NewModel(ctx context.Context, ctrl *session.Controller, params session.GenerationParams, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	if !opts.NoColor {
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	}
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		params:  params,
		opts:    opts,
		spinner: s,

		generating: true,
		cursor:     make(map[int]string),
		feedback:   make(map[int]models.GradeResult),
		revealed:   make(map[int]string),
	}
}

type generatedMsg struct {
	result *session.GenerationResult
	err    error
}

type savedMsg struct {
	result *session.SaveResult
	err    error
}

func generate(ctx context.Context, ctrl *session.Controller, params session.GenerationParams) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.RequestGeneration(ctx, params)
		return generatedMsg{result: res, err: err}
	}
}

func save(ctx context.Context, ctrl *session.Controller, draft *models.QuizDraft) tea.Cmd {
	return func() tea.Msg {
		res, err := ctrl.SubmitDraft(ctx, draft)
		return savedMsg{result: res, err: err}
	}
}

// Init kicks off the first generation.
func (m Model) Init() tea.Cmd {
	return m.startGeneration()
}

func (m *Model) startGeneration() tea.Cmd {
	m.generating = true
	return tea.Batch(m.spinner.Tick, generate(m.ctx, m.ctrl, m.params))
}

// Update handles key presses and collaborator results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(typed)
		return m, cmd
	case generatedMsg:
		return m.applyGenerated(typed), nil
	case savedMsg:
		return m.applySaved(typed), nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) busy() bool {
	return m.generating || m.saving || m.ctrl.Loading()
}

func (m Model) applyGenerated(msg generatedMsg) Model {
	if errors.Is(msg.err, session.ErrSuperseded) {
		return m
	}
	m.generating = false
	if msg.err != nil {
		m.status = session.UserMessage(msg.err)
		return m
	}
	m.current = 0
	m.cursor = make(map[int]string)
	m.feedback = make(map[int]models.GradeResult)
	m.revealed = make(map[int]string)
	m.status = msg.result.Warning
	m.redirect = ""
	return m
}

func (m Model) applySaved(msg savedMsg) Model {
	m.saving = false
	if msg.err != nil {
		m.status = session.UserMessage(msg.err)
		return m
	}
	m.redirect = msg.result.Redirect
	m.current = 0
	m.cursor = make(map[int]string)
	m.feedback = make(map[int]models.GradeResult)
	m.revealed = make(map[int]string)
	m.status = fmt.Sprintf("Quiz saved. Continue at %s", m.redirect)
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" || key == "q" || key == "esc" {
		return m, tea.Quit
	}

	// status lines last until the next key press
	m.status = ""
	if m.busy() {
		return m, nil
	}

	views := m.ctrl.Render()
	switch key {
	case "g":
		return m, m.startGeneration()
	case "s":
		return m.startSave()
	}
	if len(views) == 0 {
		return m, nil
	}

	view := views[m.current]
	switch key {
	case "right", "l", "tab", "n":
		m.current = min(m.current+1, len(views)-1)
	case "left", "h", "shift+tab", "p":
		m.current = max(m.current-1, 0)
	case "up", "k":
		m.moveCursor(view, -1)
	case "down", "j":
		m.moveCursor(view, 1)
	case "enter", " ":
		m.check(view)
	case "r":
		m.reveal(view)
	default:
		if parser.IsValidLetter(key) && view.CanCheck {
			letter := parser.NormalizeLetter(key)
			if hasLetter(view, letter) {
				m.cursor[m.current] = letter
			} else {
				m.status = fmt.Sprintf("This question has no option %s.", letter)
			}
		}
	}
	return m, nil
}

func (m *Model) moveCursor(view models.QuestionView, delta int) {
	if !view.CanCheck || len(view.Options) == 0 {
		return
	}
	pos := -1
	for i, o := range view.Options {
		if o.Letter == m.cursor[m.current] {
			pos = i
			break
		}
	}
	switch {
	case pos < 0 && delta > 0:
		pos = 0
	case pos < 0:
		pos = len(view.Options) - 1
	default:
		pos = (pos + delta + len(view.Options)) % len(view.Options)
	}
	m.cursor[m.current] = view.Options[pos].Letter
}

func (m *Model) check(view models.QuestionView) {
	if !view.MultipleChoice {
		m.status = "Open-ended questions are not checked. Press r to reveal the answer."
		return
	}
	var selected *string
	if letter, ok := m.cursor[m.current]; ok {
		selected = &letter
	}
	result, err := m.ctrl.GradeSelection(m.current, selected)
	if err != nil {
		m.status = session.UserMessage(err)
		return
	}
	m.feedback[m.current] = result
}

func (m *Model) reveal(view models.QuestionView) {
	if !view.CanReveal {
		return
	}
	answer, err := m.ctrl.Reveal(m.current)
	if err != nil {
		m.status = session.UserMessage(err)
		return
	}
	m.revealed[m.current] = answer
}

func (m Model) startSave() (tea.Model, tea.Cmd) {
	draft, err := m.ctrl.BuildDraft(m.opts.Title, m.opts.Description)
	if err != nil {
		m.status = session.UserMessage(err)
		return m, nil
	}
	m.saving = true
	return m, tea.Batch(m.spinner.Tick, save(m.ctx, m.ctrl, draft))
}

func hasLetter(view models.QuestionView, letter string) bool {
	for _, o := range view.Options {
		if o.Letter == letter {
			return true
		}
	}
	return false
}

// View renders the current question, the score and the status line.
func (m Model) View() string {
	var b strings.Builder

	views := m.ctrl.Render()
	switch {
	case m.generating || m.ctrl.Loading():
		b.WriteString(m.spinner.View() + " Generating quiz...")
	case m.saving:
		b.WriteString(m.spinner.View() + " Saving quiz...")
	case len(views) == 0:
		b.WriteString("No questions loaded. Press g to generate a quiz.")
	default:
		idx := min(m.current, len(views)-1)
		opts := render.Options{
			NoColor:  m.opts.NoColor,
			Cursor:   m.cursor[idx],
			Revealed: m.revealed[idx],
		}
		if fb, ok := m.feedback[idx]; ok {
			opts.Feedback = &fb
		}
		b.WriteString(render.RenderQuestion(views[idx], len(views), opts))
		b.WriteString("\n\n")
		b.WriteString(render.RenderSummary(m.ctrl.Score(), m.opts.NoColor))
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString("\n" + m.status + "\n")
	}
	b.WriteString("\n[←/→] question  [↑/↓] option  [g] regenerate  [s] save  [q] quit\n")
	return b.String()
}

// Redirect is the location returned by the last successful save.
func (m Model) Redirect() string {
	return m.redirect
}
