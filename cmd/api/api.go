package api

import (
	"log"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/service/appointment"
	"github.com/larssonfhm/UCVBienestar-server/service/chat"
	"github.com/larssonfhm/UCVBienestar-server/service/chatbot"
	"github.com/larssonfhm/UCVBienestar-server/service/notification"
	"github.com/larssonfhm/UCVBienestar-server/service/resource"
	"github.com/larssonfhm/UCVBienestar-server/service/user"
	"github.com/larssonfhm/UCVBienestar-server/service/workshop"
	"github.com/larssonfhm/UCVBienestar-server/service/ws"
)

type APIServer struct {
	address string
	db      *gorm.DB
}

func NewApiServer(address string, db *gorm.DB) *APIServer {
	return &APIServer{
		address: address,
		db:      db,
	}
}

func (s *APIServer) Run() error {
	router := mux.NewRouter()
	subrouter := router.PathPrefix("/api/v1").Subrouter()

	hub := ws.NewHub()
	go hub.Run()

	notifier := notification.NewNotifier()

	// One model client backs both the chatbot and the resource summaries.
	modelClient := chatbot.NewHTTPClient()

	userHandler := user.NewHandler(s.db)
	userHandler.RegisterRoutes(subrouter)

	appointmentHandler := appointment.NewAppointmentHandler(s.db, notifier)
	appointmentHandler.RegisterRoutes(subrouter)

	chatHandler := chat.NewChatHandler(s.db, hub)
	chatHandler.RegisterRoutes(subrouter)

	resourceHandler := resource.NewResourceHandler(modelClient)
	resourceHandler.RegisterRoutes(subrouter)

	workshopHandler := workshop.NewWorkshopHandler(s.db)
	workshopHandler.RegisterRoutes(subrouter)

	chatbotHandler := chatbot.NewChatbotHandler(chatbot.NewRouter(modelClient, chatbot.NewTools(s.db)))
	chatbotHandler.RegisterRoutes(subrouter)

	router.HandleFunc("/ws/chat", func(w http.ResponseWriter, r *http.Request) {
		ws.ServeWS(hub, w, r)
	})

	corsHandler := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)(router)

	log.Println("Server running at", s.address)
	return http.ListenAndServe(s.address, corsHandler)
}
