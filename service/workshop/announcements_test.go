package workshop

import (
	"testing"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
)

func activity(id uint, title string, votes int) models.WorkshopActivity {
	a := models.WorkshopActivity{Title: title, Votes: votes}
	a.ID = id
	return a
}

func TestPickWinnerRequiresThreshold(t *testing.T) {
	activities := []models.WorkshopActivity{
		activity(1, "Mindfulness", 4),
		activity(2, "Respiración", 3),
	}
	if got := PickWinner(activities); got != nil {
		t.Fatalf("PickWinner = %v, want nil below threshold", got)
	}
}

func TestPickWinnerSelectsHighestVotes(t *testing.T) {
	activities := []models.WorkshopActivity{
		activity(1, "Mindfulness", 5),
		activity(2, "Respiración", 9),
		activity(3, "Gratitud", 7),
	}
	got := PickWinner(activities)
	if got == nil || got.ID != 2 {
		t.Fatalf("PickWinner = %v, want Respiración (9 votes)", got)
	}
}

func TestPickWinnerTieKeepsFirstInOrder(t *testing.T) {
	activities := []models.WorkshopActivity{
		activity(1, "Mindfulness", 6),
		activity(2, "Respiración", 6),
	}
	got := PickWinner(activities)
	if got == nil || got.ID != 1 {
		t.Fatalf("PickWinner = %v, want first stable match on tie", got)
	}
}

func TestPickWinnerIgnoresSubThresholdLeaders(t *testing.T) {
	// An activity below the threshold never wins, even if it holds the
	// highest count overall.
	activities := []models.WorkshopActivity{
		activity(1, "Mindfulness", 4),
		activity(2, "Respiración", 5),
	}
	got := PickWinner(activities)
	if got == nil || got.ID != 2 {
		t.Fatalf("PickWinner = %v, want Respiración", got)
	}
}
