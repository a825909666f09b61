package appointment

import (
	"errors"
	"testing"
	"time"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
)

var now = time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)

func scheduledAt(start time.Time) *models.Appointment {
	return &models.Appointment{
		UserID:    1,
		StartTime: start,
		EndTime:   start.Add(SessionDuration),
		Location:  "Dra. Sofía Reyes (Psicología Clínica)",
		Status:    models.StatusScheduled,
	}
}

func cancelledAgo(d time.Duration) *models.Appointment {
	cancelledAt := now.Add(-d)
	start := now.Add(5 * 24 * time.Hour)
	return &models.Appointment{
		UserID:      1,
		StartTime:   start,
		EndTime:     start.Add(SessionDuration),
		Status:      models.StatusCancelled,
		CancelledAt: &cancelledAt,
	}
}

func TestCancelRequiresTwoDaysNotice(t *testing.T) {
	tests := []struct {
		name    string
		startIn time.Duration
		wantErr error
	}{
		{"one day ahead is refused", 24 * time.Hour, ErrCancelTooLate},
		{"just under two days is refused", 48*time.Hour - time.Minute, ErrCancelTooLate},
		{"exactly two days is allowed", 48 * time.Hour, nil},
		{"three days ahead is allowed", 3 * 24 * time.Hour, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := scheduledAt(now.Add(tt.startIn))
			if got := CanCancel(a, now); got != (tt.wantErr == nil) {
				t.Errorf("CanCancel = %v, want %v", got, tt.wantErr == nil)
			}

			err := Cancel(a, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Cancel error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if a.Status != models.StatusScheduled || a.CancelledAt != nil {
					t.Errorf("refused cancel mutated the appointment: %+v", a)
				}
				return
			}
			if a.Status != models.StatusCancelled {
				t.Errorf("status = %q, want cancelled", a.Status)
			}
			if a.CancelledAt == nil || !a.CancelledAt.Equal(now) {
				t.Errorf("cancelledAt = %v, want %v", a.CancelledAt, now)
			}
		})
	}
}

func TestCancelRefusedForNonScheduled(t *testing.T) {
	a := cancelledAgo(time.Hour)
	if err := Cancel(a, now); !errors.Is(err, ErrNotScheduled) {
		t.Fatalf("Cancel on cancelled appointment = %v, want ErrNotScheduled", err)
	}

	// A derived-completed appointment reads as completed even though the
	// stored status is still "scheduled".
	done := scheduledAt(now.Add(-2 * time.Hour))
	if err := Cancel(done, now); !errors.Is(err, ErrNotScheduled) {
		t.Fatalf("Cancel on completed appointment = %v, want ErrNotScheduled", err)
	}
}

func TestResumeWindowIsThreeHours(t *testing.T) {
	tests := []struct {
		name         string
		cancelledAgo time.Duration
		wantErr      error
	}{
		{"two hours after cancelling is allowed", 2 * time.Hour, nil},
		{"exactly three hours is refused", 3 * time.Hour, ErrResumeExpired},
		{"four hours after cancelling is refused", 4 * time.Hour, ErrResumeExpired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := cancelledAgo(tt.cancelledAgo)
			if got := CanResume(a, now); got != (tt.wantErr == nil) {
				t.Errorf("CanResume = %v, want %v", got, tt.wantErr == nil)
			}

			err := Resume(a, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Resume error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				if a.Status != models.StatusCancelled || a.CancelledAt == nil {
					t.Errorf("refused resume mutated the appointment: %+v", a)
				}
				return
			}
			if a.Status != models.StatusScheduled {
				t.Errorf("status = %q, want scheduled", a.Status)
			}
			if a.CancelledAt != nil {
				t.Errorf("cancelledAt = %v, want nil", a.CancelledAt)
			}
		})
	}
}

func TestResumeRefusedWhenNotCancelled(t *testing.T) {
	a := scheduledAt(now.Add(72 * time.Hour))
	if err := Resume(a, now); !errors.Is(err, ErrNotCancelled) {
		t.Fatalf("Resume on scheduled appointment = %v, want ErrNotCancelled", err)
	}
}

// Resume does not re-check that the original slot is still free or that the
// start time is still in the future; the handler's opt-in revalidation is
// the only guard.
func TestResumeDoesNotRevalidateStartTime(t *testing.T) {
	cancelledAt := now.Add(-time.Hour)
	start := now.Add(-30 * time.Minute)
	a := &models.Appointment{
		StartTime:   start,
		EndTime:     start.Add(SessionDuration),
		Status:      models.StatusCancelled,
		CancelledAt: &cancelledAt,
	}
	if err := Resume(a, now); err != nil {
		t.Fatalf("Resume = %v, want nil even though the slot already started", err)
	}
}

func TestEffectiveStatusDerivesCompleted(t *testing.T) {
	tests := []struct {
		name string
		a    *models.Appointment
		want string
	}{
		{"upcoming stays scheduled", scheduledAt(now.Add(24 * time.Hour)), models.StatusScheduled},
		{"past end time reads completed", scheduledAt(now.Add(-2 * time.Hour)), models.StatusCompleted},
		{"cancelled never reads completed", cancelledAgo(time.Hour), models.StatusCancelled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EffectiveStatus(tt.a, now); got != tt.want {
				t.Errorf("EffectiveStatus = %q, want %q", got, tt.want)
			}
			if tt.a.Status == models.StatusCompleted {
				t.Error("derived status must never be written to the stored field")
			}
		})
	}
}

func TestEffectiveStatusOfCancelledPastAppointment(t *testing.T) {
	a := cancelledAgo(time.Hour)
	a.StartTime = now.Add(-3 * time.Hour)
	a.EndTime = a.StartTime.Add(SessionDuration)
	if got := EffectiveStatus(a, now); got != models.StatusCancelled {
		t.Errorf("EffectiveStatus = %q, want cancelled even after end time", got)
	}
}

func TestCancelledAtInvariant(t *testing.T) {
	a := scheduledAt(now.Add(72 * time.Hour))

	if err := Cancel(a, now); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if (a.CancelledAt != nil) != (a.Status == models.StatusCancelled) {
		t.Fatalf("invariant broken after cancel: status=%q cancelledAt=%v", a.Status, a.CancelledAt)
	}

	if err := Resume(a, now.Add(time.Hour)); err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if (a.CancelledAt != nil) != (a.Status == models.StatusCancelled) {
		t.Fatalf("invariant broken after resume: status=%q cancelledAt=%v", a.Status, a.CancelledAt)
	}
}

func TestSubmitFeedback(t *testing.T) {
	completed := func() *models.Appointment { return scheduledAt(now.Add(-2 * time.Hour)) }

	t.Run("rejected before completion", func(t *testing.T) {
		a := scheduledAt(now.Add(24 * time.Hour))
		if err := SubmitFeedback(a, now, "muy buena sesión"); !errors.Is(err, ErrNotCompleted) {
			t.Fatalf("SubmitFeedback = %v, want ErrNotCompleted", err)
		}
		if a.Feedback != "" {
			t.Error("refused submission must not store feedback")
		}
	})

	t.Run("rejected when empty", func(t *testing.T) {
		a := completed()
		if err := SubmitFeedback(a, now, "   "); !errors.Is(err, ErrFeedbackEmpty) {
			t.Fatalf("SubmitFeedback = %v, want ErrFeedbackEmpty", err)
		}
	})

	t.Run("accepted once then locked", func(t *testing.T) {
		a := completed()
		if err := SubmitFeedback(a, now, "muy buena sesión"); err != nil {
			t.Fatalf("SubmitFeedback: %v", err)
		}
		if a.Feedback != "muy buena sesión" {
			t.Fatalf("feedback = %q", a.Feedback)
		}
		if got := CanSubmitFeedback(a, now); got {
			t.Error("CanSubmitFeedback should be false after first submission")
		}
		if err := SubmitFeedback(a, now, "otra opinión"); !errors.Is(err, ErrFeedbackLocked) {
			t.Fatalf("second SubmitFeedback = %v, want ErrFeedbackLocked", err)
		}
		if a.Feedback != "muy buena sesión" {
			t.Error("locked feedback must not be overwritten")
		}
	})
}
