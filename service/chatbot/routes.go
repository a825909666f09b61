package chatbot

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/larssonfhm/UCVBienestar-server/cmd/utils"
)

type ChatbotHandler struct {
	router *Router
}

func NewChatbotHandler(router *Router) *ChatbotHandler {
	return &ChatbotHandler{router: router}
}

func (h *ChatbotHandler) RegisterRoutes(router *mux.Router) {
	// Auth is optional: anonymous visitors can chat, they just have no
	// appointments to look up.
	router.Handle("/chatbot/query", utils.OptionalAuthMiddleware(http.HandlerFunc(h.Query))).Methods("POST")
}

func (h *ChatbotHandler) Query(w http.ResponseWriter, r *http.Request) {
	var queryRequest struct {
		Query   string         `json:"query"`
		History []HistoryEntry `json:"history"`
	}
	if err := json.NewDecoder(r.Body).Decode(&queryRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if queryRequest.Query == "" {
		http.Error(w, "Query cannot be empty", http.StatusBadRequest)
		return
	}

	session := Session{}
	if userID, err := utils.GetUserIDFromContext(r); err == nil {
		session.UserID = userID
		session.UserName = utils.GetUserNameFromContext(r)
	}

	output := h.router.Answer(r.Context(), Input{
		Query:   queryRequest.Query,
		History: queryRequest.History,
		Session: session,
	})

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(output)
}
