// Package counsellor is the conversational companion's API client: one
// stateless request per exchange, a fixed system instruction, and either a
// text completion or a structured failure back. No session state lives
// server-side; multi-turn context is only what the caller resubmits.
package counsellor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/hashicorp/go-retryablehttp"
)

// SystemInstruction frames every exchange. It is fixed: the companion is a
// non-judgmental listener, not an advisor.
const SystemInstruction = `You are "Solace", a supportive and empathetic AI companion. Your primary role is to be a non-judgmental listener. Use techniques from active listening and motivational interviewing. Ask clarifying questions, validate feelings (e.g., "It sounds like that was really difficult"), and gently guide the user to explore their thoughts. Do not give direct advice unless explicitly asked. Keep responses concise and conversational.`

// Client talks to the completion endpoint. Transient HTTP failures are
// retried by the underlying client; a non-2xx response is a structured
// failure surfaced as an error.
type Client struct {
	http     *retryablehttp.Client
	endpoint string
	apiKey   string
}

// New creates a client for the given completion endpoint and API key.
func New(endpoint, apiKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 2
	rc.Logger = nil
	return &Client{http: rc, endpoint: endpoint, apiKey: apiKey}
}

// Turn is one prior exchange entry. Role is "user" or "model".
type Turn struct {
	Role string
	Text string
}

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type request struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Send submits one message with no prior history and returns the completion.
func (c *Client) Send(ctx context.Context, message string) (string, error) {
	return c.SendConversation(ctx, []Turn{{Role: "user", Text: message}})
}

// SendConversation resubmits the full exchange history plus the latest user
// turn. The endpoint holds no session state; the caller owns the history.
func (c *Client) SendConversation(ctx context.Context, turns []Turn) (string, error) {
	if len(turns) == 0 || turns[len(turns)-1].Text == "" {
		return "", fmt.Errorf("message cannot be empty")
	}

	contents := make([]content, 0, len(turns))
	for _, turn := range turns {
		contents = append(contents, content{Role: turn.Role, Parts: []part{{Text: turn.Text}}})
	}

	body, err := json.Marshal(request{
		Contents:          contents,
		SystemInstruction: content{Parts: []part{{Text: SystemInstruction}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("companion request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var parsed response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return "", fmt.Errorf("companion request rejected: %s", parsed.Error.Message)
		}
		return "", fmt.Errorf("companion request failed with status %d", resp.StatusCode)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("companion returned an empty completion")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}
