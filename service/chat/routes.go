package chat

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
	"github.com/larssonfhm/UCVBienestar-server/cmd/utils"
	"github.com/larssonfhm/UCVBienestar-server/service/ws"
)

type ChatHandler struct {
	db  *gorm.DB
	hub *ws.Hub
}

func NewChatHandler(db *gorm.DB, hub *ws.Hub) *ChatHandler {
	return &ChatHandler{db: db, hub: hub}
}

func (h *ChatHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/chat/messages", utils.AuthMiddleware(http.HandlerFunc(h.GetMessages))).Methods("GET")
	router.Handle("/chat/messages", utils.AuthMiddleware(http.HandlerFunc(h.PostMessage))).Methods("POST")
}

// GetMessages returns room history in timestamp-ascending order, the same
// order the live subscription delivers new entries. The bound keeps the
// newest messages: the fetch runs descending and is reversed before
// encoding, so a full room still hands fresh clients the recent tail.
func (h *ChatHandler) GetMessages(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var messages []models.ChatMessage
	if err := h.db.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		http.Error(w, "Error retrieving messages", http.StatusInternalServerError)
		return
	}
	chronological(messages)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"messages": messages,
		"total":    len(messages),
	})
}

// chronological reverses a created_at-descending result in place.
func chronological(messages []models.ChatMessage) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}

func (h *ChatHandler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var messageRequest struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&messageRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(messageRequest.Content) == "" {
		http.Error(w, "Message cannot be empty", http.StatusBadRequest)
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	message := models.ChatMessage{
		UserID:    userID,
		UserName:  user.FullName,
		AvatarURL: user.AvatarURL,
		Content:   messageRequest.Content,
	}
	if err := h.db.Create(&message).Error; err != nil {
		http.Error(w, "Error saving message", http.StatusInternalServerError)
		return
	}

	// Push to live subscribers after the write committed.
	h.hub.Broadcast("message", message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(message)
}
