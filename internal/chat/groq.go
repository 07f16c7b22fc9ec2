package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	groqEndpoint = "https://api.groq.com/openai/v1/chat/completions"
	groqModel    = "llama-3.3-70b-versatile"
)

// GroqCompleter talks to Groq's OpenAI-compatible chat completion API.
type GroqCompleter struct {
	apiKey string
	model  string
	client *http.Client
}

type groqRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
}

type groqResponse struct {
	ID      string `json:"id"`
	Model   string `json:"model"`
	Choices []struct {
		Index   int `json:"index"`
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func NewGroqCompleter(apiKey string) (*GroqCompleter, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("chat: Groq API key is empty")
	}
	return &GroqCompleter{
		apiKey: apiKey,
		model:  groqModel,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

func (g *GroqCompleter) Complete(ctx context.Context, messages []Message) (Message, error) {
	body, err := json.Marshal(groqRequest{Model: g.model, Messages: messages})
	if err != nil {
		return Message{}, fmt.Errorf("chat: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, groqEndpoint, bytes.NewReader(body))
	if err != nil {
		return Message{}, fmt.Errorf("chat: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return Message{}, fmt.Errorf("chat: request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Message{}, fmt.Errorf("chat: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Message{}, fmt.Errorf("chat: API returned %d: %s", resp.StatusCode, raw)
	}

	var parsed groqResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return Message{}, fmt.Errorf("chat: decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return Message{}, fmt.Errorf("chat: empty choices in response")
	}

	return Message{
		Role:    "assistant",
		Content: parsed.Choices[0].Message.Content,
	}, nil
}
