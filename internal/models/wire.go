package models

// ── Request Types ─────────────────────────────────────

type GenerateRequest struct {
	Topics       []string `json:"topics"`
	Type         string   `json:"type"`
	Difficulty   string   `json:"difficulty"`
	NumQuestions int      `json:"num_questions"`
}

type SaveRequest struct {
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Questions   []SaveQuestion `json:"questions"`
}

type SaveQuestion struct {
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer"`
}

// ── Response Types ────────────────────────────────────

type GenerateResponse struct {
	Questions []GeneratedItem `json:"questions"`
	Warning   string          `json:"warning,omitempty"`
	Error     string          `json:"error,omitempty"`
	Message   string          `json:"message,omitempty"`
}

type GeneratedItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type SaveResponse struct {
	Redirect string `json:"redirect,omitempty"`
	Error    string `json:"error,omitempty"`
	Message  string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
