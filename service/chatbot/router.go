package chatbot

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Apology is what the user sees whenever the model fails or produces no
// output. Router errors never escape to the caller.
const Apology = "Lo siento, algo salió mal. Por favor, inténtalo de nuevo más tarde."

const (
	// maxHistory bounds how much conversation is replayed to the model.
	maxHistory = 5
	// maxTurns bounds the tool-call loop.
	maxTurns = 5
)

const systemPrompt = `Eres un asistente virtual amable y empático de "UCV Bienestar", una plataforma de apoyo a la salud mental para estudiantes universitarios. Tu objetivo es dar respuestas útiles, breves y seguras.

NO eres un terapeuta, eres un primer punto de contacto.
- Si un usuario expresa angustia, tristeza o ansiedad, responde con empatía y sugiérele hablar con un profesional. Proporciona el número de la línea nacional de crisis: 113.
- Si un usuario pregunta por información académica de la UCV, responde de forma concisa.
- Mantén tus respuestas breves, cálidas y alentadoras.

Tienes herramientas de solo lectura para consultar recursos, citas, anuncios, talleres y rutas de navegación. Úsalas cuando aporten datos a la respuesta.
- NUNCA pidas al usuario su identificador: la sesión ya lo aporta. Si no hay sesión, simplemente no hay citas que mostrar.
- Cuando sugieras ir a una página de la aplicación, usa la herramienta getNavigationLink e incluye la ruta con la directiva [button:<etiqueta>](<ruta>) para que la interfaz muestre un botón.`

type HistoryEntry struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type Input struct {
	Query   string
	History []HistoryEntry
	Session Session
}

type Output struct {
	Answer string `json:"answer"`
}

// ToolExecutor is satisfied by Tools; stubbed in tests.
type ToolExecutor interface {
	Definitions() []ToolDef
	Execute(ctx context.Context, call FunctionCall, session Session) (string, error)
}

// Router drives the prompt-and-tools conversation: invoke the model, run
// any requested tool, feed the result back, repeat until a final answer or
// the turn limit.
type Router struct {
	client Client
	tools  ToolExecutor
}

func NewRouter(client Client, tools ToolExecutor) *Router {
	return &Router{client: client, tools: tools}
}

func (rt *Router) buildMessages(input Input) []Message {
	prompt := systemPrompt
	if input.Session.UserName != "" {
		prompt += fmt.Sprintf("\n\nEl usuario actual se llama %s.", input.Session.UserName)
	}

	messages := []Message{{Role: "system", Content: prompt}}

	history := input.History
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}
	for _, entry := range history {
		role := "user"
		if entry.Role == "bot" {
			role = "assistant"
		}
		messages = append(messages, Message{Role: role, Content: entry.Text})
	}

	return append(messages, Message{Role: "user", Content: input.Query})
}

// Answer produces the chatbot reply. It always returns a usable answer; any
// failure degrades to the fixed apology.
func (rt *Router) Answer(ctx context.Context, input Input) Output {
	if strings.TrimSpace(input.Query) == "" {
		return Output{Answer: Apology}
	}

	messages := rt.buildMessages(input)
	tools := rt.tools.Definitions()

	for turn := 0; turn < maxTurns; turn++ {
		reply, err := rt.client.CreateChatCompletion(ctx, ChatRequest{
			Messages: messages,
			Tools:    tools,
		})
		if err != nil {
			log.Printf("chatbot: model error: %v", err)
			return Output{Answer: Apology}
		}

		if len(reply.ToolCalls) == 0 {
			if strings.TrimSpace(reply.Content) == "" {
				return Output{Answer: Apology}
			}
			return Output{Answer: reply.Content}
		}

		// Tool calls are executed sequentially; a failed tool reports its
		// error back into the conversation instead of aborting it.
		messages = append(messages, reply)
		for _, call := range reply.ToolCalls {
			result, err := rt.tools.Execute(ctx, call.Function, input.Session)
			if err != nil {
				log.Printf("chatbot: tool %s error: %v", call.Function.Name, err)
				result = fmt.Sprintf(`{"error": %q}`, "the lookup failed, answer without this data")
			}
			messages = append(messages, Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    result,
			})
		}
	}

	log.Printf("chatbot: turn limit reached without a final answer")
	return Output{Answer: Apology}
}
