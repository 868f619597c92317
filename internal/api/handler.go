// Package api exposes quiz sessions over HTTP for a browser front end.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/quizdesk/client/internal/middleware"
	"github.com/quizdesk/client/internal/models"
	"github.com/quizdesk/client/internal/session"
)

type Handler struct {
	sessions *Sessions
}

func NewHandler(sessions *Sessions) *Handler {
	return &Handler{sessions: sessions}
}

// RegisterRoutes mounts the session endpoints on r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/sessions", h.CreateSession).Methods("POST")
	r.HandleFunc("/sessions/{id}", h.DeleteSession).Methods("DELETE")
	r.HandleFunc("/sessions/{id}/generate", h.Generate).Methods("POST")
	r.HandleFunc("/sessions/{id}/questions", h.ListQuestions).Methods("GET")
	r.HandleFunc("/sessions/{id}/questions/{index}/grade", h.Grade).Methods("POST")
	r.HandleFunc("/sessions/{id}/questions/{index}/answer", h.Reveal).Methods("GET")
	r.HandleFunc("/sessions/{id}/score", h.Score).Methods("GET")
	r.HandleFunc("/sessions/{id}/save", h.Save).Methods("POST")
}

// ── Request / Response Types ────────────────────────────

type createSessionResponse struct {
	ID string `json:"id"`
}

// generateRequest accepts topics as a list or as the raw comma-separated
// form field, and num_questions as a number or a string.
type generateRequest struct {
	Topics       json.RawMessage `json:"topics"`
	Type         string          `json:"type"`
	Difficulty   string          `json:"difficulty"`
	NumQuestions json.RawMessage `json:"num_questions"`
}

type questionsResponse struct {
	Questions []models.QuestionView `json:"questions"`
	Warning   string                `json:"warning,omitempty"`
	Loading   bool                  `json:"loading"`
}

type gradeRequest struct {
	Selected *string `json:"selected"`
}

type revealResponse struct {
	Answer string `json:"answer"`
}

type saveRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

type saveResponse struct {
	Redirect string `json:"redirect"`
}

// ── Handlers ────────────────────────────────────────────

func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	id := h.sessions.Create(middleware.Subject(r.Context()))
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: id})
}

func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(mux.Vars(r)["id"], middleware.Subject(r.Context())) {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res, err := ctrl.RequestGeneration(r.Context(), session.GenerationParams{
		Topics:       decodeTopics(req.Topics),
		QuestionType: req.Type,
		Difficulty:   req.Difficulty,
		Count:        decodeCount(req.NumQuestions),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, questionsResponse{
		Questions: ctrl.Render(),
		Warning:   res.Warning,
	})
}

func (h *Handler) ListQuestions(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, questionsResponse{
		Questions: ctrl.Render(),
		Warning:   ctrl.Warning(),
		Loading:   ctrl.Loading(),
	})
}

func (h *Handler) Grade(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	index, ok := questionIndex(w, r)
	if !ok {
		return
	}

	var req gradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	res, err := ctrl.GradeSelection(index, req.Selected)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) Reveal(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	index, ok := questionIndex(w, r)
	if !ok {
		return
	}

	answer, err := ctrl.Reveal(index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, revealResponse{Answer: answer})
}

func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, ctrl.Score())
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	ctrl, ok := h.controller(w, r)
	if !ok {
		return
	}

	var req saveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body"})
		return
	}

	draft, err := ctrl.BuildDraft(req.Title, req.Description)
	if err != nil {
		writeError(w, err)
		return
	}
	res, err := ctrl.SubmitDraft(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saveResponse{Redirect: res.Redirect})
}

// ── Helpers ─────────────────────────────────────────────

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) (*session.Controller, bool) {
	ctrl, ok := h.sessions.Get(mux.Vars(r)["id"], middleware.Subject(r.Context()))
	if !ok {
		writeJSON(w, http.StatusNotFound, models.ErrorResponse{Error: "Session not found"})
		return nil, false
	}
	return ctrl, true
}

func questionIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(mux.Vars(r)["index"])
	if err != nil {
		writeJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "Invalid question index"})
		return 0, false
	}
	return index, true
}

func decodeTopics(raw json.RawMessage) []string {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return session.SplitTopics(text)
	}
	return nil
}

func decodeCount(raw json.RawMessage) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text
	}
	return strings.TrimSpace(string(raw))
}

// writeError maps controller errors to a status and the single user-visible
// message.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var (
		ve *session.ValidationError
		ge *session.GenerationError
		se *session.SaveError
	)
	switch {
	case errors.As(err, &ve), errors.Is(err, session.ErrNoSelection):
		status = http.StatusBadRequest
	case errors.Is(err, session.ErrSecurityTokenMissing):
		status = http.StatusPreconditionRequired
	case errors.Is(err, session.ErrEmptyResult):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, session.ErrSuperseded):
		status = http.StatusConflict
	case errors.As(err, &ge), errors.As(err, &se):
		status = http.StatusBadGateway
	}

	writeJSON(w, status, models.ErrorResponse{Error: session.UserMessage(err)})
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
