package chatbot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Wire types for an OpenAI-compatible chat completions endpoint with
// function calling.

type Message struct {
	Role       string     `json:"role"`
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type ToolDef struct {
	Type     string      `json:"type"`
	Function FunctionDef `json:"function"`
}

type FunctionDef struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
}

type ChatRequest struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []ToolDef `json:"tools,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message Message `json:"message"`
	} `json:"choices"`
}

// Client is the hosted model behind the router. Swappable in tests.
type Client interface {
	CreateChatCompletion(ctx context.Context, req ChatRequest) (Message, error)
}

type HTTPClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

func NewHTTPClient() *HTTPClient {
	baseURL := os.Getenv("CHATBOT_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}
	model := os.Getenv("CHATBOT_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &HTTPClient{
		apiKey:  os.Getenv("OPENAI_API_KEY"),
		baseURL: baseURL,
		model:   model,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (c *HTTPClient) Model() string {
	return c.model
}

func (c *HTTPClient) CreateChatCompletion(ctx context.Context, chatReq ChatRequest) (Message, error) {
	if c.apiKey == "" {
		return Message{}, errors.New("OPENAI_API_KEY is not configured")
	}
	if chatReq.Model == "" {
		chatReq.Model = c.model
	}

	payload, err := json.Marshal(chatReq)
	if err != nil {
		return Message{}, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(payload))
	if err != nil {
		return Message{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return Message{}, fmt.Errorf("model API returned %d: %s", resp.StatusCode, body)
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return Message{}, err
	}
	if len(chatResp.Choices) == 0 {
		return Message{}, errors.New("model returned no choices")
	}
	return chatResp.Choices[0].Message, nil
}

// Summarize asks the model for a concise summary of the given text. It
// backs the resource library's summarize action.
func (c *HTTPClient) Summarize(ctx context.Context, text string) (string, error) {
	msg, err := c.CreateChatCompletion(ctx, ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "You are a helpful assistant that provides concise summaries of resources. Answer in the language of the text."},
			{Role: "user", Content: "Summarize the following resource text:\n\"\"\"" + text + "\"\"\""},
		},
	})
	if err != nil {
		return "", err
	}
	if msg.Content == "" {
		return "", errors.New("model returned an empty summary")
	}
	return msg.Content, nil
}
