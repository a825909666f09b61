package workshop

import (
	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
)

// VoteThreshold is the minimum number of votes before an activity can be
// announced as the upcoming workshop.
const VoteThreshold = 5

// PickWinner selects the activity to announce: the highest vote count among
// activities at or above the threshold. Ties keep the first match in input
// order, so callers should pass activities in their stable catalog order.
// Returns nil when no activity has reached the threshold.
func PickWinner(activities []models.WorkshopActivity) *models.WorkshopActivity {
	var winner *models.WorkshopActivity
	for i := range activities {
		a := &activities[i]
		if a.Votes < VoteThreshold {
			continue
		}
		if winner == nil || a.Votes > winner.Votes {
			winner = a
		}
	}
	return winner
}
