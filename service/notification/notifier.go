package notification

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"gopkg.in/gomail.v2"
)

// AppointmentDetails is everything the operational mailbox needs to see
// about a newly booked session.
type AppointmentDetails struct {
	UserName     string
	UserEmail    string
	Professional string
	StartTime    time.Time
	EndTime      time.Time
	IsVirtual    bool
	Reason       string
}

type FeedbackDetails struct {
	UserName        string
	UserEmail       string
	Professional    string
	AppointmentTime time.Time
	Feedback        string
}

// Notifier sends best-effort emails to a fixed operational recipient. The
// persisted appointment or feedback record is the source of truth; a failed
// or skipped send is logged and reported as success so it can never block
// the primary operation.
type Notifier struct {
	host      string
	port      int
	user      string
	pass      string
	recipient string

	// send is swappable in tests.
	send func(m *gomail.Message) error
}

func NewNotifier() *Notifier {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	n := &Notifier{
		host:      os.Getenv("SMTP_HOST"),
		port:      port,
		user:      os.Getenv("SMTP_USER"),
		pass:      os.Getenv("SMTP_PASS"),
		recipient: os.Getenv("NOTIFY_RECIPIENT"),
	}
	n.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(n.host, n.port, n.user, n.pass)
		return d.DialAndSend(m)
	}
	return n
}

func (n *Notifier) configured() bool {
	return n.host != "" && n.port != 0 && n.user != "" && n.recipient != ""
}

func (n *Notifier) deliver(subject, htmlBody string) error {
	if !n.configured() {
		log.Printf("notification: SMTP not configured, skipping email %q", subject)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.user)
	m.SetHeader("To", n.recipient)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	if err := n.send(m); err != nil {
		log.Printf("notification: error sending email %q: %v", subject, err)
	}
	return nil
}

func modality(isVirtual bool) string {
	if isVirtual {
		return "Virtual"
	}
	return "Presencial"
}

// NotifyAppointment emails the operational recipient about a new booking.
// Always returns nil: delivery is a side channel.
func (n *Notifier) NotifyAppointment(d AppointmentDetails) error {
	subject := fmt.Sprintf("Nueva Cita Agendada: %s", d.UserName)
	body := fmt.Sprintf(`<p>Se ha agendado una nueva cita con los siguientes detalles:</p>
<ul>
<li><strong>Usuario:</strong> %s (%s)</li>
<li><strong>Profesional:</strong> %s</li>
<li><strong>Modalidad:</strong> %s</li>
<li><strong>Fecha y Hora de Inicio:</strong> %s</li>
<li><strong>Motivo:</strong> %s</li>
</ul>
<p>Este es un correo autogenerado.</p>`,
		d.UserName, d.UserEmail, d.Professional, modality(d.IsVirtual),
		d.StartTime.Format("02/01/2006 15:04"), d.Reason)
	return n.deliver(subject, body)
}

// NotifyFeedback emails the operational recipient when a user leaves
// feedback on a completed session. Same best-effort contract.
func (n *Notifier) NotifyFeedback(d FeedbackDetails) error {
	subject := fmt.Sprintf("Nuevo Feedback Recibido de: %s", d.UserName)
	body := fmt.Sprintf(`<p>Se ha recibido un nuevo feedback de una cita completada:</p>
<ul>
<li><strong>Usuario:</strong> %s (%s)</li>
<li><strong>Profesional:</strong> %s</li>
<li><strong>Fecha de la Cita:</strong> %s</li>
</ul>
<p><strong>Feedback del usuario:</strong></p>
<p style="border-left: 2px solid #cccccc; padding-left: 10px; font-style: italic;">%s</p>`,
		d.UserName, d.UserEmail, d.Professional,
		d.AppointmentTime.Format("02/01/2006 15:04"), d.Feedback)
	return n.deliver(subject, body)
}
