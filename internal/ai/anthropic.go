package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-5-20250929"
	defaultMaxTokens      = 1024
	apiURL                = "https://api.anthropic.com/v1/messages"
	apiVersion            = "2023-06-01"
)

// Anthropic is a Completer backed by the Claude Messages API.
type Anthropic struct {
	apiKey    string
	model     string
	maxTokens int
	endpoint  string
	client    *http.Client
}

// NewAnthropic creates a Claude client. An empty model or non-positive
// maxTokens falls back to defaults.
func NewAnthropic(apiKey, modelName string, maxTokens int) *Anthropic {
	if modelName == "" || strings.HasPrefix(modelName, "gemini") {
		modelName = defaultAnthropicModel
	}
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	return &Anthropic{
		apiKey:    apiKey,
		model:     modelName,
		maxTokens: maxTokens,
		endpoint:  apiURL,
		client:    &http.Client{},
	}
}

// WithEndpoint points the client at a different Messages API URL.
func (a *Anthropic) WithEndpoint(url string) *Anthropic {
	a.endpoint = url
	return a
}

// Generate sends prompt as a single user message.
func (a *Anthropic) Generate(ctx context.Context, prompt string) (string, error) {
	return a.call(ctx, "", []apiMessage{textMessage(RoleUser, prompt)})
}

// Converse sends the transcript followed by the new user message.
func (a *Anthropic) Converse(ctx context.Context, req ChatRequest) (string, error) {
	history := trimLeadingAssistant(req.History)
	messages := make([]apiMessage, 0, len(history)+1)
	for _, msg := range history {
		messages = append(messages, textMessage(msg.Role, msg.Content))
	}
	messages = append(messages, textMessage(RoleUser, req.Message))

	return a.call(ctx, req.System, messages)
}

// call makes a single request to the Messages API and returns the
// concatenated text blocks of the reply.
func (a *Anthropic) call(ctx context.Context, system string, messages []apiMessage) (string, error) {
	reqBody := apiRequest{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    system,
		Messages:  messages,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling Claude API: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return "", fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var result apiResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}

	var parts []string
	for _, block := range result.Content {
		if block.Type == "text" {
			parts = append(parts, block.Text)
		}
	}
	text := strings.TrimSpace(strings.Join(parts, ""))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func textMessage(role Role, text string) apiMessage {
	return apiMessage{
		Role:    string(role),
		Content: []apiContentBlock{{Type: "text", Text: text}},
	}
}

type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string            `json:"role"`
	Content []apiContentBlock `json:"content"`
}

type apiContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

type apiResponse struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Role       string            `json:"role"`
	Content    []apiContentBlock `json:"content"`
	Model      string            `json:"model"`
	StopReason string            `json:"stop_reason"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
