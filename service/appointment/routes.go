package appointment

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/larssonfhm/UCVBienestar-server/cmd/models"
	"github.com/larssonfhm/UCVBienestar-server/cmd/utils"
	"github.com/larssonfhm/UCVBienestar-server/service/notification"
)

// Professionals and bookable hours are a fixed catalog, mirroring the
// booking form. Weekends are not bookable.
var (
	Professionals = []string{
		"Dra. Sofía Reyes (Psicología Clínica)",
		"Lic. Carlos Solano (Consejería Académica)",
		"Dr. Mateo Vega (Psiquiatría)",
	}
	TimeSlots = []string{"09:00", "10:00", "11:00", "12:00", "14:00", "15:00", "16:00"}
)

// Notifier is the best-effort side channel fired after booking and after
// feedback submission.
type Notifier interface {
	NotifyAppointment(notification.AppointmentDetails) error
	NotifyFeedback(notification.FeedbackDetails) error
}

type AppointmentHandler struct {
	db       *gorm.DB
	notifier Notifier
	validate *validator.Validate

	// now is swappable in tests.
	now func() time.Time

	// revalidateOnResume re-checks slot availability when resuming. Off by
	// default: the product historically resumes into the original slot
	// without checking whether it was re-booked in the meantime.
	revalidateOnResume bool
}

func NewAppointmentHandler(db *gorm.DB, notifier Notifier) *AppointmentHandler {
	return &AppointmentHandler{
		db:                 db,
		notifier:           notifier,
		validate:           validator.New(),
		now:                time.Now,
		revalidateOnResume: os.Getenv("RESUME_REVALIDATES_SLOT") == "true",
	}
}

func (h *AppointmentHandler) RegisterRoutes(router *mux.Router) {
	router.Handle("/appointments", utils.AuthMiddleware(http.HandlerFunc(h.BookAppointment))).Methods("POST")
	router.Handle("/appointments", utils.AuthMiddleware(http.HandlerFunc(h.GetMyAppointments))).Methods("GET")
	router.Handle("/appointments/{id}", utils.AuthMiddleware(http.HandlerFunc(h.GetAppointment))).Methods("GET")
	router.Handle("/appointments/{id}/cancel", utils.AuthMiddleware(http.HandlerFunc(h.CancelAppointment))).Methods("PATCH")
	router.Handle("/appointments/{id}/resume", utils.AuthMiddleware(http.HandlerFunc(h.ResumeAppointment))).Methods("PATCH")
	router.Handle("/appointments/{id}/feedback", utils.AuthMiddleware(http.HandlerFunc(h.SubmitFeedback))).Methods("POST")
}

// appointmentView is an appointment plus the read-time fields the client
// renders its controls from.
type appointmentView struct {
	models.Appointment
	EffectiveStatus   string `json:"effective_status"`
	CanCancel         bool   `json:"can_cancel"`
	CanResume         bool   `json:"can_resume"`
	CanSubmitFeedback bool   `json:"can_submit_feedback"`
}

func (h *AppointmentHandler) view(a models.Appointment) appointmentView {
	now := h.now()
	return appointmentView{
		Appointment:       a,
		EffectiveStatus:   EffectiveStatus(&a, now),
		CanCancel:         CanCancel(&a, now),
		CanResume:         CanResume(&a, now),
		CanSubmitFeedback: CanSubmitFeedback(&a, now),
	}
}

func validSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

func validProfessional(name string) bool {
	for _, p := range Professionals {
		if p == name {
			return true
		}
	}
	return false
}

func (h *AppointmentHandler) BookAppointment(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var bookingRequest struct {
		Date         string `json:"date" validate:"required,datetime=2006-01-02"`
		Time         string `json:"time" validate:"required"`
		Professional string `json:"professional" validate:"required"`
		Reason       string `json:"reason" validate:"required,min=10"`
		IsVirtual    *bool  `json:"is_virtual"`
	}
	if err := json.NewDecoder(r.Body).Decode(&bookingRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(bookingRequest); err != nil {
		http.Error(w, "Invalid booking request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if !validSlot(bookingRequest.Time) {
		http.Error(w, "Invalid time slot", http.StatusBadRequest)
		return
	}
	if !validProfessional(bookingRequest.Professional) {
		http.Error(w, "Unknown professional", http.StatusBadRequest)
		return
	}

	startTime, err := time.ParseInLocation("2006-01-02 15:04", bookingRequest.Date+" "+bookingRequest.Time, time.Local)
	if err != nil {
		http.Error(w, "Invalid date or time", http.StatusBadRequest)
		return
	}
	now := h.now()
	if !startTime.After(now) {
		http.Error(w, "Appointments must be booked in the future", http.StatusBadRequest)
		return
	}
	if wd := startTime.Weekday(); wd == time.Saturday || wd == time.Sunday {
		http.Error(w, "Appointments are only available on weekdays", http.StatusBadRequest)
		return
	}

	isVirtual := true
	if bookingRequest.IsVirtual != nil {
		isVirtual = *bookingRequest.IsVirtual
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	appointment := models.Appointment{
		UserID:      userID,
		Reference:   uuid.NewString(),
		StartTime:   startTime,
		EndTime:     startTime.Add(SessionDuration),
		Location:    bookingRequest.Professional,
		Description: bookingRequest.Reason,
		IsVirtual:   isVirtual,
		Status:      models.StatusScheduled,
	}

	if err := h.db.Create(&appointment).Error; err != nil {
		http.Error(w, "Error creating appointment", http.StatusInternalServerError)
		return
	}

	// Best-effort side channel. The booking already succeeded; a failed
	// email is logged inside the notifier and never surfaces here.
	go func() {
		if err := h.notifier.NotifyAppointment(notification.AppointmentDetails{
			UserName:     user.FullName,
			UserEmail:    user.Email,
			Professional: appointment.Location,
			StartTime:    appointment.StartTime,
			EndTime:      appointment.EndTime,
			IsVirtual:    appointment.IsVirtual,
			Reason:       appointment.Description,
		}); err != nil {
			log.Printf("appointment notification error: %v", err)
		}
	}()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(h.view(appointment))
}

// GetMyAppointments lists the caller's appointments, most recently created
// first.
func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var appointments []models.Appointment
	if err := h.db.Where("user_id = ?", userID).
		Order("created_at DESC").Find(&appointments).Error; err != nil {
		http.Error(w, "Error retrieving appointments", http.StatusInternalServerError)
		return
	}

	views := make([]appointmentView, 0, len(appointments))
	for _, a := range appointments {
		views = append(views, h.view(a))
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"appointments": views,
		"total":        len(views),
	})
}

// loadOwned fetches the appointment and enforces that it belongs to the
// caller.
func (h *AppointmentHandler) loadOwned(w http.ResponseWriter, r *http.Request) (*models.Appointment, bool) {
	userID, err := utils.GetUserIDFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return nil, false
	}

	vars := mux.Vars(r)
	appointmentID, err := strconv.ParseUint(vars["id"], 10, 64)
	if err != nil {
		http.Error(w, "Invalid appointment ID", http.StatusBadRequest)
		return nil, false
	}

	var appointment models.Appointment
	if err := h.db.First(&appointment, appointmentID).Error; err != nil {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}
	if appointment.UserID != userID {
		http.Error(w, "Appointment not found", http.StatusNotFound)
		return nil, false
	}
	return &appointment, true
}

func (h *AppointmentHandler) GetAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.view(*appointment))
}

func (h *AppointmentHandler) CancelAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := Cancel(appointment, h.now()); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.db.Model(appointment).Updates(map[string]interface{}{
		"status":       appointment.Status,
		"cancelled_at": appointment.CancelledAt,
	}).Error; err != nil {
		http.Error(w, "Error cancelling appointment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.view(*appointment))
}

func (h *AppointmentHandler) ResumeAppointment(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	if err := Resume(appointment, h.now()); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if h.revalidateOnResume {
		var clash models.Appointment
		err := h.db.Where("id <> ? AND location = ? AND status = ? AND start_time = ?",
			appointment.ID, appointment.Location, models.StatusScheduled, appointment.StartTime).
			First(&clash).Error
		if err == nil {
			http.Error(w, "The original time slot is no longer available", http.StatusConflict)
			return
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Error resuming appointment", http.StatusInternalServerError)
			return
		}
	}

	if err := h.db.Model(appointment).Updates(map[string]interface{}{
		"status":       appointment.Status,
		"cancelled_at": nil,
	}).Error; err != nil {
		http.Error(w, "Error resuming appointment", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.view(*appointment))
}

func (h *AppointmentHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	appointment, ok := h.loadOwned(w, r)
	if !ok {
		return
	}

	var feedbackRequest struct {
		Feedback string `json:"feedback"`
	}
	if err := json.NewDecoder(r.Body).Decode(&feedbackRequest); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := SubmitFeedback(appointment, h.now(), feedbackRequest.Feedback); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	if err := h.db.Model(appointment).Update("feedback", appointment.Feedback).Error; err != nil {
		http.Error(w, "Error saving feedback", http.StatusInternalServerError)
		return
	}

	var user models.User
	if err := h.db.First(&user, appointment.UserID).Error; err == nil {
		go func() {
			if err := h.notifier.NotifyFeedback(notification.FeedbackDetails{
				UserName:        user.FullName,
				UserEmail:       user.Email,
				Professional:    appointment.Location,
				AppointmentTime: appointment.StartTime,
				Feedback:        appointment.Feedback,
			}); err != nil {
				log.Printf("feedback notification error: %v", err)
			}
		}()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.view(*appointment))
}
