// Package client talks to the quiz generation and save endpoints.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/quizdesk/client/internal/config"
	"github.com/quizdesk/client/internal/models"
)

// TokenHeader carries the anti-forgery token on outbound requests.
const TokenHeader = "X-CSRFToken"

const maxBodyBytes = 4 << 20

// ErrTokenMissing is returned before any request is sent when the backend
// requires an anti-forgery token and none is configured.
var ErrTokenMissing = errors.New("anti-forgery token is required but missing")

// StatusError is a response outside the accepted status range.
type StatusError struct {
	Status  int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Status)
	}
	return fmt.Sprintf("status %d: %s", e.Status, e.Message)
}

// GenerateOutcome is a displayable generation response. Partial is set for a
// 207 Multi-Status reply.
type GenerateOutcome struct {
	Status    int
	Partial   bool
	Questions []models.GeneratedItem
	Warning   string
}

type SaveOutcome struct {
	Status   int
	Redirect string
}

// Client is the HTTP implementation of the session backend.
type Client struct {
	http         *http.Client
	baseURL      string
	generatePath string
	savePath     string
	listPath     string
	token        string
	requireToken bool
	encoding     string
}

func New(cfg config.BackendConfig) *Client {
	return NewWithHTTPClient(cfg, &http.Client{Timeout: cfg.Timeout})
}

func NewWithHTTPClient(cfg config.BackendConfig, hc *http.Client) *Client {
	encoding := cfg.SaveEncoding
	if encoding == "" {
		encoding = config.EncodingJSON
	}
	return &Client{
		http:         hc,
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		generatePath: cfg.GeneratePath,
		savePath:     cfg.SavePath,
		listPath:     cfg.ListPath,
		token:        cfg.CSRFToken,
		requireToken: cfg.RequireToken,
		encoding:     encoding,
	}
}

func (c *Client) Generate(ctx context.Context, req models.GenerateRequest) (*GenerateOutcome, error) {
	if c.requireToken && c.token == "" {
		return nil, ErrTokenMissing
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode generate request: %w", err)
	}

	status, data, err := c.post(ctx, c.generatePath, "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var resp models.GenerateResponse
	decodeErr := json.Unmarshal(data, &resp)

	if !accepted(status) {
		return nil, &StatusError{Status: status, Message: firstNonEmpty(resp.Error, resp.Message)}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode generate response: %w", decodeErr)
	}

	out := &GenerateOutcome{
		Status:    status,
		Partial:   status == http.StatusMultiStatus,
		Questions: resp.Questions,
		Warning:   resp.Warning,
	}
	if out.Partial && out.Warning == "" {
		out.Warning = "Some questions could not be generated."
	}
	return out, nil
}

func (c *Client) Save(ctx context.Context, req models.SaveRequest) (*SaveOutcome, error) {
	if c.requireToken && c.token == "" {
		return nil, ErrTokenMissing
	}

	var (
		body        io.Reader
		contentType string
	)
	if c.encoding == config.EncodingForm {
		body = strings.NewReader(FormEncode(req).Encode())
		contentType = "application/x-www-form-urlencoded"
	} else {
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("encode save request: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	status, data, err := c.post(ctx, c.savePath, contentType, body)
	if err != nil {
		return nil, err
	}

	// Some save endpoints answer with a page instead of JSON; the redirect
	// then falls back to the list path.
	var resp models.SaveResponse
	if err := json.Unmarshal(data, &resp); err != nil && len(bytes.TrimSpace(data)) > 0 {
		log.Printf("[client] decode save response (status %d): %v", status, err)
	}

	if status < 200 || status > 299 {
		return nil, &StatusError{Status: status, Message: firstNonEmpty(resp.Error, resp.Message)}
	}

	redirect := resp.Redirect
	if redirect == "" {
		redirect = c.listPath
	}
	return &SaveOutcome{Status: status, Redirect: redirect}, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	httpReq.Header.Set("Accept", "application/json")
	if c.token != "" {
		httpReq.Header.Set(TokenHeader, c.token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("POST %s: %w", path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read %s response: %w", path, err)
	}
	log.Printf("[client] POST %s -> %d (%d bytes)", path, resp.StatusCode, len(data))
	return resp.StatusCode, data, nil
}

// accepted reports whether a generation status is displayable. 207 is the
// legacy partial-success reply.
func accepted(status int) bool {
	return status >= 200 && status <= 299
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
