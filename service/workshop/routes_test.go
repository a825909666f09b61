package workshop

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
	"github.com/larssonfhm/UCVBienestar-server/cmd/utils"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	// A second pooled connection would get its own empty in-memory database.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.WorkshopCategory{}, &models.WorkshopActivity{}, &models.WorkshopVote{}); err != nil {
		t.Fatalf("migrating: %v", err)
	}
	return db
}

func seedActivity(t *testing.T, db *gorm.DB) models.WorkshopActivity {
	t.Helper()
	category := models.WorkshopCategory{Title: "Manejo del Estrés"}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("seeding category: %v", err)
	}
	activity := models.WorkshopActivity{CategoryID: category.ID, Title: "Mindfulness"}
	if err := db.Create(&activity).Error; err != nil {
		t.Fatalf("seeding activity: %v", err)
	}
	return activity
}

func voteRequest(t *testing.T, activityID string, userID uint) *http.Request {
	t.Helper()
	req := httptest.NewRequest("POST", "/workshops/activities/"+activityID+"/vote", nil)
	req = req.WithContext(context.WithValue(req.Context(), utils.UserIDKey, userID))
	return mux.SetURLVars(req, map[string]string{"id": activityID})
}

func TestVoteActivityIncrementsAndPersists(t *testing.T) {
	db := testDB(t)
	activity := seedActivity(t, db)
	handler := NewWorkshopHandler(db)

	rec := httptest.NewRecorder()
	handler.VoteActivity(rec, voteRequest(t, "1", 7))

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var response models.WorkshopActivity
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if response.Votes != 1 {
		t.Errorf("response votes = %d, want 1", response.Votes)
	}

	var stored models.WorkshopActivity
	if err := db.First(&stored, activity.ID).Error; err != nil {
		t.Fatalf("reloading activity: %v", err)
	}
	if stored.Votes != 1 {
		t.Errorf("stored votes = %d, want 1", stored.Votes)
	}
}

func TestVoteActivityRejectsSecondVote(t *testing.T) {
	db := testDB(t)
	activity := seedActivity(t, db)
	handler := NewWorkshopHandler(db)

	first := httptest.NewRecorder()
	handler.VoteActivity(first, voteRequest(t, "1", 7))
	if first.Code != http.StatusOK {
		t.Fatalf("first vote status %d: %s", first.Code, first.Body.String())
	}

	second := httptest.NewRecorder()
	handler.VoteActivity(second, voteRequest(t, "1", 7))
	if second.Code != http.StatusConflict {
		t.Fatalf("second vote status %d, want %d", second.Code, http.StatusConflict)
	}

	var stored models.WorkshopActivity
	if err := db.First(&stored, activity.ID).Error; err != nil {
		t.Fatalf("reloading activity: %v", err)
	}
	if stored.Votes != 1 {
		t.Errorf("stored votes = %d after rejected re-vote, want 1", stored.Votes)
	}
}

func TestVoteActivityAllowsDifferentUsers(t *testing.T) {
	db := testDB(t)
	seedActivity(t, db)
	handler := NewWorkshopHandler(db)

	for _, userID := range []uint{1, 2, 3} {
		rec := httptest.NewRecorder()
		handler.VoteActivity(rec, voteRequest(t, "1", userID))
		if rec.Code != http.StatusOK {
			t.Fatalf("vote by user %d status %d: %s", userID, rec.Code, rec.Body.String())
		}
	}

	var stored models.WorkshopActivity
	if err := db.First(&stored, 1).Error; err != nil {
		t.Fatalf("reloading activity: %v", err)
	}
	if stored.Votes != 3 {
		t.Errorf("stored votes = %d, want 3", stored.Votes)
	}
}

func TestVoteActivityUnknownActivity(t *testing.T) {
	db := testDB(t)
	handler := NewWorkshopHandler(db)

	rec := httptest.NewRecorder()
	handler.VoteActivity(rec, voteRequest(t, "99", 7))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want %d", rec.Code, http.StatusNotFound)
	}
}
