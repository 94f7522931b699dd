package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const defaultGeminiModel = "gemini-1.5-pro"

// Gemini is a Completer backed by the Gemini API.
type Gemini struct {
	client    *genai.Client
	model     string
	maxTokens int32
}

// NewGemini creates a Gemini client. Call Close when done.
func NewGemini(ctx context.Context, apiKey, modelName string, maxTokens int) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client:    client,
		model:     modelName,
		maxTokens: int32(maxTokens),
	}, nil
}

// Close releases the underlying connection.
func (g *Gemini) Close() error {
	return g.client.Close()
}

func (g *Gemini) generativeModel() *genai.GenerativeModel {
	m := g.client.GenerativeModel(g.model)
	if g.maxTokens > 0 {
		m.SetMaxOutputTokens(g.maxTokens)
	}
	return m
}

// Generate sends a single prompt and returns the text of the reply.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.generativeModel().GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return responseText(resp)
}

// Converse replays the transcript as chat history and sends the new
// message.
func (g *Gemini) Converse(ctx context.Context, req ChatRequest) (string, error) {
	m := g.generativeModel()
	if req.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}

	cs := m.StartChat()
	cs.History = geminiHistory(req.History)

	resp, err := cs.SendMessage(ctx, genai.Text(req.Message))
	if err != nil {
		return "", fmt.Errorf("gemini chat: %w", err)
	}
	return responseText(resp)
}

// geminiHistory converts a transcript to Gemini contents. Gemini calls
// the assistant role "model".
func geminiHistory(history []Message) []*genai.Content {
	history = trimLeadingAssistant(history)
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := "user"
		if msg.Role == RoleAssistant {
			role = "model"
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []genai.Part{genai.Text(msg.Content)},
		})
	}
	return contents
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			sb.WriteString(string(t))
		}
	}

	text := strings.TrimSpace(sb.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
