package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/xpanvictor/callpad/pkg/Logger"
	"github.com/xpanvictor/callpad/pkg/voice"
)

const (
	DefaultBaseURL = "https://api.vapi.ai"

	maxErrorBody    = 8192
	maxResponseBody = 1 << 20
)

var ErrNotConfigured = errors.New("vapi public key is not configured")

// APIError is a non-2xx answer from the service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vapi error (status %d): %s", e.StatusCode, e.Message)
}

// Client talks to the hosted voice-agent REST API with a public key. It
// remembers the call it started so Stop needs no arguments.
type Client struct {
	publicKey  string
	baseURL    string
	httpClient *http.Client
	logger     *Logger.Logger

	mu      sync.Mutex
	current *voice.Call
}

var _ voice.Client = (*Client)(nil)

func NewClient(publicKey, baseURL string, httpClient *http.Client, logger *Logger.Logger) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = Logger.NewNop()
	}
	return &Client{
		publicKey:  strings.TrimSpace(publicKey),
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

func (c *Client) Configured() bool {
	return c.publicKey != ""
}

// Current returns a copy of the call in progress, or nil.
func (c *Client) Current() *voice.Call {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return nil
	}
	cp := *c.current
	return &cp
}

type webCallResponse struct {
	ID          string    `json:"id"`
	AssistantID string    `json:"assistantId"`
	WebCallURL  string    `json:"webCallUrl"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	Monitor     struct {
		ControlURL string `json:"controlUrl"`
	} `json:"monitor"`
}

// Start creates a web call for the assistant.
func (c *Client) Start(ctx context.Context, assistantID string) (*voice.Call, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	assistantID = strings.TrimSpace(assistantID)
	if assistantID == "" {
		return nil, fmt.Errorf("assistant id is required")
	}

	body, err := json.Marshal(map[string]any{"assistantId": assistantID})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, c.baseURL+"/call/web", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, readAPIError(resp)
	}

	var decoded webCallResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBody)).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if decoded.ID == "" {
		return nil, fmt.Errorf("vapi: response carried no call id")
	}

	call := &voice.Call{
		ID:          decoded.ID,
		AssistantID: decoded.AssistantID,
		WebCallURL:  decoded.WebCallURL,
		ControlURL:  decoded.Monitor.ControlURL,
		Status:      decoded.Status,
		CreatedAt:   decoded.CreatedAt,
	}
	if call.AssistantID == "" {
		call.AssistantID = assistantID
	}
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now()
	}

	c.mu.Lock()
	if prev := c.current; prev != nil {
		c.logger.Warnf("replacing call %s that was never stopped", prev.ID)
	}
	c.current = call
	c.mu.Unlock()

	c.logger.Infof("web call %s created for assistant %s", call.ID, call.AssistantID)
	cp := *call
	return &cp, nil
}

// Stop ends the current call. The call is forgotten even when the request
// fails; the service times abandoned calls out on its own.
func (c *Client) Stop(ctx context.Context) error {
	c.mu.Lock()
	call := c.current
	c.current = nil
	c.mu.Unlock()

	if call == nil {
		return nil
	}

	var (
		resp *http.Response
		err  error
	)
	if call.ControlURL != "" {
		body, _ := json.Marshal(map[string]string{"type": "end-call"})
		resp, err = c.do(ctx, http.MethodPost, call.ControlURL, body)
	} else {
		// best-effort: DELETE drops the call record and needs the private key
		resp, err = c.do(ctx, http.MethodDelete, c.baseURL+"/call/"+url.PathEscape(call.ID), nil)
	}
	if err != nil {
		return fmt.Errorf("stop call %s: %w", call.ID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stop call %s: %w", call.ID, readAPIError(resp))
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBody))

	c.logger.Infof("web call %s stopped", call.ID)
	return nil
}

func (c *Client) do(ctx context.Context, method, target string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.publicKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	return resp, nil
}

func readAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{StatusCode: resp.StatusCode, Message: errorMessage(raw)}
}

// errorMessage digs the human readable part out of an error body. The
// service sends "message" as either a string or a list of strings.
func errorMessage(raw []byte) string {
	var decoded struct {
		Message json.RawMessage `json:"message"`
		Error   string          `json:"error"`
	}
	if err := json.Unmarshal(raw, &decoded); err == nil {
		var single string
		if json.Unmarshal(decoded.Message, &single) == nil && single != "" {
			return single
		}
		var many []string
		if json.Unmarshal(decoded.Message, &many) == nil && len(many) > 0 {
			return strings.Join(many, "; ")
		}
		if decoded.Error != "" {
			return decoded.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		return "empty response body"
	}
	return msg
}
