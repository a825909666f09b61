package resource

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
)

// Summarizer produces a short summary of a resource's text. The chatbot's
// model client satisfies this.
type Summarizer interface {
	Summarize(ctx context.Context, text string) (string, error)
}

type ResourceHandler struct {
	summarizer Summarizer
}

func NewResourceHandler(summarizer Summarizer) *ResourceHandler {
	return &ResourceHandler{summarizer: summarizer}
}

func (h *ResourceHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/resources", h.ListResources).Methods("GET")
	router.HandleFunc("/resources/search", h.SearchResources).Methods("GET")
	router.HandleFunc("/resources/{id}", h.GetResource).Methods("GET")
	router.HandleFunc("/resources/{id}/summarize", h.SummarizeResource).Methods("POST")
	router.HandleFunc("/phrases", h.GetPhrases).Methods("GET")
}

func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"resources": Catalog(),
		"total":     len(Catalog()),
	})
}

func (h *ResourceHandler) SearchResources(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "Missing search query", http.StatusBadRequest)
		return
	}

	matches := Search(query)
	if matches == nil {
		matches = []Resource{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"resources": matches,
		"total":     len(matches),
	})
}

func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, ok := ByID(vars["id"])
	if !ok {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(res)
}

// SummarizeResource asks the model for a concise summary of the resource
// content.
func (h *ResourceHandler) SummarizeResource(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	res, ok := ByID(vars["id"])
	if !ok {
		http.Error(w, "Resource not found", http.StatusNotFound)
		return
	}

	summary, err := h.summarizer.Summarize(r.Context(), res.Content)
	if err != nil {
		log.Printf("resource summarize error: %v", err)
		http.Error(w, "Summary unavailable, try again later", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"resource_id": res.ID,
		"summary":     summary,
	})
}

func (h *ResourceHandler) GetPhrases(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"phrases": Phrases(),
	})
}
