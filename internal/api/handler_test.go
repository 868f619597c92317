package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quizdesk/client/internal/client"
	"github.com/quizdesk/client/internal/middleware"
	"github.com/quizdesk/client/internal/models"
)

type stubBackend struct {
	outcome *client.GenerateOutcome
	err     error
	saved   []models.SaveRequest
}

func (s *stubBackend) Generate(context.Context, models.GenerateRequest) (*client.GenerateOutcome, error) {
	return s.outcome, s.err
}

func (s *stubBackend) Save(_ context.Context, req models.SaveRequest) (*client.SaveOutcome, error) {
	s.saved = append(s.saved, req)
	return &client.SaveOutcome{Status: http.StatusCreated, Redirect: "/quizzes"}, nil
}

func newTestServer(t *testing.T, backend *stubBackend, secret []byte) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(NewRouter(NewHandler(NewSessions(backend)), secret, []string{"*"}))
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, token string, body interface{}, out interface{}) int {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		json.NewDecoder(resp.Body).Decode(out)
	}
	return resp.StatusCode
}

func createSession(t *testing.T, base, token string) string {
	t.Helper()
	var created createSessionResponse
	if code := do(t, "POST", base+"/api/v1/sessions", token, nil, &created); code != http.StatusCreated {
		t.Fatalf("create session: status %d", code)
	}
	return created.ID
}

func arithmeticBackend() *stubBackend {
	return &stubBackend{outcome: &client.GenerateOutcome{
		Status: http.StatusOK,
		Questions: []models.GeneratedItem{
			{Question: "What is 2+2? A) 3 B) 4 C) 5", Answer: "B"},
			{Question: "Explain addition.", Answer: "Combining quantities."},
		},
	}}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, arithmeticBackend(), nil)
	if code := do(t, "GET", srv.URL+"/health", "", nil, nil); code != http.StatusOK {
		t.Errorf("expected 200, got %d", code)
	}
}

func TestSessionFlow(t *testing.T) {
	backend := arithmeticBackend()
	srv := newTestServer(t, backend, nil)
	base := srv.URL + "/api/v1/sessions/" + createSession(t, srv.URL, "")

	var gen questionsResponse
	code := do(t, "POST", base+"/generate", "", map[string]interface{}{
		"topics": "math, ", "type": "mixed", "difficulty": "easy", "num_questions": "2",
	}, &gen)
	if code != http.StatusOK {
		t.Fatalf("generate: status %d", code)
	}
	if len(gen.Questions) != 2 || !gen.Questions[0].MultipleChoice || gen.Questions[1].MultipleChoice {
		t.Fatalf("unexpected questions %+v", gen.Questions)
	}

	var grade models.GradeResult
	code = do(t, "POST", base+"/questions/0/grade", "", map[string]string{"selected": "b."}, &grade)
	if code != http.StatusOK || !grade.Correct || !grade.Locked {
		t.Fatalf("grade: status %d result %+v", code, grade)
	}

	var reveal revealResponse
	code = do(t, "GET", base+"/questions/1/answer", "", nil, &reveal)
	if code != http.StatusOK || reveal.Answer != "Combining quantities." {
		t.Fatalf("reveal: status %d result %+v", code, reveal)
	}

	var score models.ScoreSummary
	do(t, "GET", base+"/score", "", nil, &score)
	if score.Correct != 1 || score.Answered != 1 || score.Total != 2 {
		t.Errorf("unexpected score %+v", score)
	}

	var saved saveResponse
	code = do(t, "POST", base+"/save", "", map[string]string{"title": "Sums"}, &saved)
	if code != http.StatusOK || saved.Redirect != "/quizzes" {
		t.Fatalf("save: status %d result %+v", code, saved)
	}
	if len(backend.saved) != 1 || backend.saved[0].Questions[0].CorrectAnswer != "B" {
		t.Errorf("unexpected save payload %+v", backend.saved)
	}
}

func TestErrorMapping(t *testing.T) {
	backend := arithmeticBackend()
	srv := newTestServer(t, backend, nil)
	base := srv.URL + "/api/v1/sessions/" + createSession(t, srv.URL, "")

	var errResp models.ErrorResponse
	code := do(t, "POST", base+"/generate", "", map[string]interface{}{
		"topics": []string{"math"}, "type": "mixed", "difficulty": "easy", "num_questions": 21,
	}, &errResp)
	if code != http.StatusBadRequest || errResp.Error == "" {
		t.Errorf("count out of range: status %d %+v", code, errResp)
	}

	code = do(t, "POST", base+"/save", "", map[string]string{"title": ""}, &errResp)
	if code != http.StatusBadRequest {
		t.Errorf("empty title: expected 400, got %d", code)
	}
	if len(backend.saved) != 0 {
		t.Error("no save should reach the backend")
	}

	do(t, "POST", base+"/generate", "", map[string]interface{}{
		"topics": []string{"math"}, "type": "mixed", "difficulty": "easy", "num_questions": 2,
	}, nil)

	code = do(t, "POST", base+"/questions/0/grade", "", map[string]interface{}{}, &errResp)
	if code != http.StatusBadRequest || errResp.Error != "Please select an answer first." {
		t.Errorf("no selection: status %d %+v", code, errResp)
	}

	backend.outcome = &client.GenerateOutcome{Status: http.StatusOK}
	code = do(t, "POST", base+"/generate", "", map[string]interface{}{
		"topics": []string{"math"}, "type": "mixed", "difficulty": "easy", "num_questions": 2,
	}, &errResp)
	if code != http.StatusUnprocessableEntity {
		t.Errorf("empty result: expected 422, got %d", code)
	}

	backend.err = client.ErrTokenMissing
	code = do(t, "POST", base+"/generate", "", map[string]interface{}{
		"topics": []string{"math"}, "type": "mixed", "difficulty": "easy", "num_questions": 2,
	}, &errResp)
	if code != http.StatusPreconditionRequired {
		t.Errorf("token missing: expected 428, got %d", code)
	}

	if code := do(t, "GET", srv.URL+"/api/v1/sessions/not-a-session/questions", "", nil, nil); code != http.StatusNotFound {
		t.Errorf("unknown session: expected 404, got %d", code)
	}
}

func TestSessionOwnership(t *testing.T) {
	secret := []byte("s3cret")
	srv := newTestServer(t, arithmeticBackend(), secret)

	alice, _ := middleware.IssueToken(secret, "alice", time.Hour)
	bob, _ := middleware.IssueToken(secret, "bob", time.Hour)

	if code := do(t, "POST", srv.URL+"/api/v1/sessions", "", nil, nil); code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", code)
	}

	id := createSession(t, srv.URL, alice)
	url := srv.URL + "/api/v1/sessions/" + id + "/questions"

	if code := do(t, "GET", url, alice, nil, nil); code != http.StatusOK {
		t.Errorf("owner: expected 200, got %d", code)
	}
	if code := do(t, "GET", url, bob, nil, nil); code != http.StatusNotFound {
		t.Errorf("other subject: expected 404, got %d", code)
	}
	if code := do(t, "DELETE", srv.URL+"/api/v1/sessions/"+id, alice, nil, nil); code != http.StatusNoContent {
		t.Errorf("delete: expected 204, got %d", code)
	}
}

func TestSessionsSweep(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s := NewSessions(arithmeticBackend())
	s.now = func() time.Time { return now }

	stale := s.Create("")
	now = now.Add(90 * time.Minute)
	fresh := s.Create("")
	now = now.Add(60 * time.Minute)

	if n := s.Sweep(2 * time.Hour); n != 1 {
		t.Fatalf("expected 1 swept session, got %d", n)
	}
	if _, ok := s.Get(stale, ""); ok {
		t.Error("stale session should be gone")
	}
	if _, ok := s.Get(fresh, ""); !ok {
		t.Error("fresh session should remain")
	}
}
