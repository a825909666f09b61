package chatbot

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type scriptedClient struct {
	replies  []Message
	err      error
	requests []ChatRequest
}

func (c *scriptedClient) CreateChatCompletion(ctx context.Context, req ChatRequest) (Message, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return Message{}, c.err
	}
	if len(c.replies) == 0 {
		return Message{}, errors.New("script exhausted")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

type recordingExecutor struct {
	calls   []FunctionCall
	results map[string]string
	err     error
}

func (e *recordingExecutor) Definitions() []ToolDef {
	return []ToolDef{{Type: "function", Function: FunctionDef{Name: "searchResources"}}}
}

func (e *recordingExecutor) Execute(ctx context.Context, call FunctionCall, session Session) (string, error) {
	e.calls = append(e.calls, call)
	if e.err != nil {
		return "", e.err
	}
	return e.results[call.Name], nil
}

func TestAnswerReturnsModelContent(t *testing.T) {
	client := &scriptedClient{replies: []Message{{Role: "assistant", Content: "Hola, ¿en qué puedo ayudarte?"}}}
	router := NewRouter(client, &recordingExecutor{})

	out := router.Answer(context.Background(), Input{Query: "hola"})
	if out.Answer != "Hola, ¿en qué puedo ayudarte?" {
		t.Errorf("got %q", out.Answer)
	}
	if len(client.requests) != 1 {
		t.Fatalf("expected 1 model call, got %d", len(client.requests))
	}
	if len(client.requests[0].Tools) != 1 {
		t.Errorf("tool definitions not forwarded to the model")
	}
}

func TestAnswerRunsToolsThenAnswers(t *testing.T) {
	client := &scriptedClient{replies: []Message{
		{
			Role: "assistant",
			ToolCalls: []ToolCall{{
				ID:   "call_1",
				Type: "function",
				Function: FunctionCall{
					Name:      "searchResources",
					Arguments: `{"query": "ansiedad"}`,
				},
			}},
		},
		{Role: "assistant", Content: "Encontré una guía sobre ansiedad."},
	}}
	executor := &recordingExecutor{results: map[string]string{
		"searchResources": `{"resources": [{"title": "Guía"}]}`,
	}}
	router := NewRouter(client, executor)

	out := router.Answer(context.Background(), Input{Query: "busca algo sobre ansiedad"})
	if out.Answer != "Encontré una guía sobre ansiedad." {
		t.Errorf("got %q", out.Answer)
	}
	if len(executor.calls) != 1 || executor.calls[0].Name != "searchResources" {
		t.Fatalf("expected one searchResources call, got %+v", executor.calls)
	}

	if len(client.requests) != 2 {
		t.Fatalf("expected 2 model calls, got %d", len(client.requests))
	}
	second := client.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" || last.ToolCallID != "call_1" {
		t.Errorf("tool result not threaded back: %+v", last)
	}
	if last.Content != `{"resources": [{"title": "Guía"}]}` {
		t.Errorf("tool result content %q", last.Content)
	}
}

func TestAnswerApologizesOnModelError(t *testing.T) {
	client := &scriptedClient{err: errors.New("connection refused")}
	router := NewRouter(client, &recordingExecutor{})

	out := router.Answer(context.Background(), Input{Query: "hola"})
	if out.Answer != Apology {
		t.Errorf("got %q, want apology", out.Answer)
	}
}

func TestAnswerApologizesOnEmptyContent(t *testing.T) {
	client := &scriptedClient{replies: []Message{{Role: "assistant", Content: "   "}}}
	router := NewRouter(client, &recordingExecutor{})

	out := router.Answer(context.Background(), Input{Query: "hola"})
	if out.Answer != Apology {
		t.Errorf("got %q, want apology", out.Answer)
	}
}

func TestAnswerApologizesOnBlankQuery(t *testing.T) {
	client := &scriptedClient{}
	router := NewRouter(client, &recordingExecutor{})

	out := router.Answer(context.Background(), Input{Query: "  "})
	if out.Answer != Apology {
		t.Errorf("got %q, want apology", out.Answer)
	}
	if len(client.requests) != 0 {
		t.Errorf("blank query should not reach the model")
	}
}

func TestAnswerFeedsToolErrorBackToModel(t *testing.T) {
	client := &scriptedClient{replies: []Message{
		{
			Role: "assistant",
			ToolCalls: []ToolCall{{
				ID:       "call_1",
				Type:     "function",
				Function: FunctionCall{Name: "getAnnouncements", Arguments: "{}"},
			}},
		},
		{Role: "assistant", Content: "No pude consultar los anuncios ahora mismo."},
	}}
	executor := &recordingExecutor{err: errors.New("db down")}
	router := NewRouter(client, executor)

	out := router.Answer(context.Background(), Input{Query: "¿hay anuncios?"})
	if out.Answer != "No pude consultar los anuncios ahora mismo." {
		t.Errorf("got %q", out.Answer)
	}
	second := client.requests[1].Messages
	last := second[len(second)-1]
	if last.Role != "tool" {
		t.Fatalf("expected a tool message, got %+v", last)
	}
}

func TestAnswerStopsAtTurnLimit(t *testing.T) {
	loop := Message{
		Role: "assistant",
		ToolCalls: []ToolCall{{
			ID:       "call_n",
			Type:     "function",
			Function: FunctionCall{Name: "getAnnouncements", Arguments: "{}"},
		}},
	}
	client := &scriptedClient{replies: []Message{loop, loop, loop, loop, loop, loop, loop}}
	executor := &recordingExecutor{results: map[string]string{"getAnnouncements": "{}"}}
	router := NewRouter(client, executor)

	out := router.Answer(context.Background(), Input{Query: "anuncios"})
	if out.Answer != Apology {
		t.Errorf("got %q, want apology", out.Answer)
	}
	if len(client.requests) != maxTurns {
		t.Errorf("expected %d model calls, got %d", maxTurns, len(client.requests))
	}
}

func TestBuildMessagesBoundsHistory(t *testing.T) {
	router := NewRouter(&scriptedClient{}, &recordingExecutor{})

	history := []HistoryEntry{
		{Role: "user", Text: "uno"},
		{Role: "bot", Text: "dos"},
		{Role: "user", Text: "tres"},
		{Role: "bot", Text: "cuatro"},
		{Role: "user", Text: "cinco"},
		{Role: "bot", Text: "seis"},
		{Role: "user", Text: "siete"},
	}
	messages := router.buildMessages(Input{Query: "ocho", History: history})

	// system + 5 history + current query
	if len(messages) != 7 {
		t.Fatalf("expected 7 messages, got %d", len(messages))
	}
	if messages[1].Content != "tres" {
		t.Errorf("oldest kept entry is %q, want %q", messages[1].Content, "tres")
	}
	if messages[2].Role != "assistant" {
		t.Errorf("bot entries should map to the assistant role, got %q", messages[2].Role)
	}
	if messages[6].Content != "ocho" || messages[6].Role != "user" {
		t.Errorf("query not appended last: %+v", messages[6])
	}
}

func TestBuildMessagesIncludesUserName(t *testing.T) {
	router := NewRouter(&scriptedClient{}, &recordingExecutor{})

	messages := router.buildMessages(Input{
		Query:   "hola",
		Session: Session{UserID: 7, UserName: "Ana Torres"},
	})
	if messages[0].Role != "system" {
		t.Fatalf("first message should be the system prompt")
	}
	if want := "Ana Torres"; !strings.Contains(messages[0].Content, want) {
		t.Errorf("system prompt does not mention %q", want)
	}
}
