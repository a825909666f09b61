package workshop

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
	"github.com/larssonfhm/UCVBienestar-server/cmd/utils"
	"github.com/larssonfhm/UCVBienestar-server/service/resource"
)

type WorkshopHandler struct {
	db *gorm.DB
}

func NewWorkshopHandler(db *gorm.DB) *WorkshopHandler {
	return &WorkshopHandler{db: db}
}

func (h *WorkshopHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/workshops", h.GetWorkshops).Methods("GET")
	router.Handle("/workshops/activities/{id}/vote", utils.AuthMiddleware(http.HandlerFunc(h.VoteActivity))).Methods("POST")
	router.HandleFunc("/announcements", h.GetAnnouncements).Methods("GET")
}

// GetWorkshops lists all categories with their activities and vote counts.
// An optional ?q= filters categories by title containment.
func (h *WorkshopHandler) GetWorkshops(w http.ResponseWriter, r *http.Request) {
	var categories []models.WorkshopCategory
	if err := h.db.Preload("Activities", func(db *gorm.DB) *gorm.DB {
		return db.Order("workshop_activities.id ASC")
	}).Order("position ASC").Find(&categories).Error; err != nil {
		http.Error(w, "Error retrieving workshops", http.StatusInternalServerError)
		return
	}

	if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q"))); q != "" {
		filtered := categories[:0]
		for _, c := range categories {
			if strings.Contains(strings.ToLower(c.Title), q) {
				filtered = append(filtered, c)
			}
		}
		categories = filtered
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"categories": categories,
		"total":      len(categories),
	})
}

// VoteActivity casts the caller's vote for an activity. One vote per user
// per activity; the unique index backs the rule, so re-votes fail even
// across devices and sessions.
func (h *WorkshopHandler) VoteActivity(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	activityID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid activity ID", http.StatusBadRequest)
		return
	}

	var activity models.WorkshopActivity
	if err := h.db.First(&activity, activityID).Error; err != nil {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}

	var existing models.WorkshopVote
	if err := h.db.Where("user_id = ? AND activity_id = ?", userID, activity.ID).
		First(&existing).Error; err == nil {
		http.Error(w, "You have already voted for this activity", http.StatusConflict)
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Error recording vote", http.StatusInternalServerError)
		return
	}

	tx := h.db.Begin()

	vote := models.WorkshopVote{UserID: userID, ActivityID: activity.ID}
	if err := tx.Create(&vote).Error; err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "duplicate key") || strings.Contains(err.Error(), "UNIQUE constraint") {
			http.Error(w, "You have already voted for this activity", http.StatusConflict)
			return
		}
		http.Error(w, "Error recording vote", http.StatusInternalServerError)
		return
	}

	if err := tx.Model(&activity).
		Update("votes", gorm.Expr("votes + 1")).Error; err != nil {
		tx.Rollback()
		http.Error(w, "Error recording vote", http.StatusInternalServerError)
		return
	}

	if err := tx.Commit().Error; err != nil {
		http.Error(w, "Error recording vote", http.StatusInternalServerError)
		return
	}

	// Reload to pick up concurrent votes; if that fails, serve the count we
	// know is committed rather than the stale pre-increment value.
	if err := h.db.First(&activity, activity.ID).Error; err != nil {
		log.Printf("workshop: error reloading activity %d after vote: %v", activity.ID, err)
		activity.Votes++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(activity)
}

// Announcement is the dashboard's news block: the winning workshop activity
// when one has enough votes, the featured library article, and a suggested
// category as fallback while voting is still open.
type Announcement struct {
	WinningActivity   *models.WorkshopActivity `json:"winning_activity,omitempty"`
	SuggestedCategory *models.WorkshopCategory `json:"suggested_category,omitempty"`
	FeaturedResource  *resource.Resource       `json:"featured_resource,omitempty"`
}

// BuildAnnouncement assembles the announcement from the stored activities
// and the static catalog. The chatbot's announcements tool shares it.
func BuildAnnouncement(db *gorm.DB) (Announcement, error) {
	var announcement Announcement

	var activities []models.WorkshopActivity
	if err := db.Order("id ASC").Find(&activities).Error; err != nil {
		return announcement, err
	}
	announcement.WinningActivity = PickWinner(activities)

	if announcement.WinningActivity == nil {
		var first models.WorkshopCategory
		if err := db.Order("position ASC").First(&first).Error; err == nil {
			announcement.SuggestedCategory = &first
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return announcement, err
		}
	}

	if featured, ok := resource.FirstByCategory(resource.CategoryArticle); ok {
		announcement.FeaturedResource = &featured
	}

	return announcement, nil
}

func (h *WorkshopHandler) GetAnnouncements(w http.ResponseWriter, r *http.Request) {
	announcement, err := BuildAnnouncement(h.db)
	if err != nil {
		http.Error(w, "Error retrieving announcements", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(announcement)
}
