package mail

import (
	"bytes"
	"crypto/tls"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/booking_models"
	gomail "gopkg.in/gomail.v2"
)

const bookingReceivedTemplate = "templates/email/booking_received.html"

var templates fs.FS

// InitTemplates hands the embedded email templates to this package. Called
// from main before any mail is sent.
func InitTemplates(f embed.FS) {
	templates = f
}

// Mailer sends guest-facing notification emails over SMTP. Construct it with
// NewMailer; a nil Mailer means email is not configured and callers should
// skip notification.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewMailer reads SMTP settings from the environment. Returns nil when
// SMTP_HOST is unset so deployments without a mail relay still accept
// bookings.
func NewMailer() *Mailer {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		logger.WarnLogger.Warn("SMTP_HOST not set, booking confirmation emails disabled")
		return nil
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		logger.ErrorLogger.Errorf("Invalid SMTP port, booking confirmation emails disabled: %v", err)
		return nil
	}

	return &Mailer{
		host:     host,
		port:     port,
		username: os.Getenv("SMTP_USERNAME"),
		password: os.Getenv("SMTP_PASSWORD"),
		from:     os.Getenv("FROM_EMAIL"),
	}
}

func (m *Mailer) sendEmail(toEmail, subject, templatePath string, data interface{}) error {
	mailer := gomail.NewMessage()
	mailer.SetHeader("From", m.from)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)

	if templates == nil {
		return fmt.Errorf("email templates not initialized")
	}
	t, err := template.ParseFS(templates, templatePath)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to parse email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to parse email template: %w", err)
	}

	var body bytes.Buffer
	if err := t.Execute(&body, data); err != nil {
		logger.ErrorLogger.Errorf("Failed to execute email template %s: %v", templatePath, err)
		return fmt.Errorf("failed to execute email template: %w", err)
	}

	mailer.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.host, m.port, m.username, m.password)
	dialer.TLSConfig = &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         m.host,
	}

	if err := dialer.DialAndSend(mailer); err != nil {
		logger.ErrorLogger.Errorf("Failed to send email to %s: %v", toEmail, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.InfoLogger.Infof("Sent email to %s", toEmail)
	return nil
}

// SendBookingReceived emails the guest that their request landed and a
// concierge will follow up.
func (m *Mailer) SendBookingReceived(booking *booking_models.Booking) error {
	logger.InfoLogger.Infof("Sending booking received email for booking %s", booking.ID)
	data := struct {
		CustomerName string
		CheckIn      string
		CheckOut     string
		GuestCount   int
		Year         int
	}{
		CustomerName: booking.CustomerName,
		CheckIn:      booking.CheckIn.Format("January 2, 2006"),
		CheckOut:     booking.CheckOut.Format("January 2, 2006"),
		GuestCount:   booking.GuestCount,
		Year:         time.Now().Year(),
	}
	return m.sendEmail(booking.CustomerEmail, "We received your booking request", bookingReceivedTemplate, data)
}
