package appointment

import (
	"errors"
	"strings"
	"time"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
)

// Session length and the two rule windows. Cancelling needs at least two
// full days of notice, and a cancelled session can be taken back up within
// three hours of the cancellation.
const (
	SessionDuration = 60 * time.Minute
	CancelNotice    = 48 * time.Hour
	ResumeWindow    = 3 * time.Hour
)

var (
	ErrNotScheduled   = errors.New("only scheduled appointments can be cancelled")
	ErrCancelTooLate  = errors.New("appointments can only be cancelled at least 2 days in advance")
	ErrNotCancelled   = errors.New("only cancelled appointments can be resumed")
	ErrResumeExpired  = errors.New("the period to resume this appointment has expired (3 hours after cancellation)")
	ErrNotCompleted   = errors.New("feedback can only be submitted for completed appointments")
	ErrFeedbackLocked = errors.New("feedback has already been submitted for this appointment")
	ErrFeedbackEmpty  = errors.New("feedback cannot be empty")
)

// EffectiveStatus derives the read-time status: any non-cancelled
// appointment whose end time has passed reads as completed. The stored
// status is never rewritten.
func EffectiveStatus(a *models.Appointment, now time.Time) string {
	if a.Status != models.StatusCancelled && now.After(a.EndTime) {
		return models.StatusCompleted
	}
	return a.Status
}

func CanCancel(a *models.Appointment, now time.Time) bool {
	return EffectiveStatus(a, now) == models.StatusScheduled &&
		a.StartTime.Sub(now) >= CancelNotice
}

// Cancel applies the scheduled -> cancelled transition in memory. On
// refusal the appointment is left untouched.
func Cancel(a *models.Appointment, now time.Time) error {
	if EffectiveStatus(a, now) != models.StatusScheduled {
		return ErrNotScheduled
	}
	if a.StartTime.Sub(now) < CancelNotice {
		return ErrCancelTooLate
	}
	cancelledAt := now
	a.Status = models.StatusCancelled
	a.CancelledAt = &cancelledAt
	return nil
}

func CanResume(a *models.Appointment, now time.Time) bool {
	return a.Status == models.StatusCancelled &&
		a.CancelledAt != nil &&
		now.Sub(*a.CancelledAt) < ResumeWindow
}

// Resume applies the cancelled -> scheduled transition in memory. It does
// not re-check that the original slot is still free or still in the future;
// callers opt into slot revalidation separately.
func Resume(a *models.Appointment, now time.Time) error {
	if a.Status != models.StatusCancelled || a.CancelledAt == nil {
		return ErrNotCancelled
	}
	if now.Sub(*a.CancelledAt) >= ResumeWindow {
		return ErrResumeExpired
	}
	a.Status = models.StatusScheduled
	a.CancelledAt = nil
	return nil
}

func CanSubmitFeedback(a *models.Appointment, now time.Time) bool {
	return EffectiveStatus(a, now) == models.StatusCompleted && a.Feedback == ""
}

// SubmitFeedback records the one-shot feedback text. Once set it is locked;
// there is no edit or resubmit path.
func SubmitFeedback(a *models.Appointment, now time.Time, text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrFeedbackEmpty
	}
	if EffectiveStatus(a, now) != models.StatusCompleted {
		return ErrNotCompleted
	}
	if a.Feedback != "" {
		return ErrFeedbackLocked
	}
	a.Feedback = text
	return nil
}
