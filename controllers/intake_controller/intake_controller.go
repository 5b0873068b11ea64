package intake_controller

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/booking_models"
	"github.com/solemar/concierge/ratelimit"
)

// BookingStore is the persistence surface the intake handler needs.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *booking_models.Booking) (*booking_models.Booking, error)
	AddBookingServices(ctx context.Context, bookingID uuid.UUID, serviceIDs []uuid.UUID) error
}

// Notifier sends the best-effort booking confirmation. May be nil.
type Notifier interface {
	SendBookingReceived(booking *booking_models.Booking) error
}

// IntakeController serves the public booking submission endpoint.
type IntakeController struct {
	Store    BookingStore
	Limiter  *ratelimit.Limiter
	Notifier Notifier
}

// NewIntakeController creates a new instance of IntakeController.
func NewIntakeController(store BookingStore, limiter *ratelimit.Limiter, notifier Notifier) *IntakeController {
	return &IntakeController{
		Store:    store,
		Limiter:  limiter,
		Notifier: notifier,
	}
}

// SubmitBookingRequest is the public form payload. Field names are part of
// the public contract with the booking site.
type SubmitBookingRequest struct {
	CustomerName       string   `json:"customerName"`
	CustomerEmail      string   `json:"customerEmail"`
	CustomerPhone      string   `json:"customerPhone"`
	CheckIn            string   `json:"checkIn"`
	CheckOut           string   `json:"checkOut"`
	GuestCount         int      `json:"guestCount"`
	SpecialNotes       string   `json:"specialNotes"`
	OccasionType       string   `json:"occasionType"`
	BudgetRange        string   `json:"budgetRange"`
	DietaryPreferences string   `json:"dietaryPreferences"`
	VibePreferences    string   `json:"vibePreferences"`
	SurpriseElements   string   `json:"surpriseElements"`
	PropertyID         string   `json:"propertyId"`
	SelectedServices   []string `json:"selectedServices"`
	Honeypot           string   `json:"honeypot"`
}

const (
	maxNameLength  = 100
	maxEmailLength = 255
	maxNotesLength = 1000
	minGuests      = 1
	maxGuests      = 100
	dateLayout     = "2006-01-02"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SubmitBooking handles one public submission:
// rate check, bot check, validation, persistence, response. The step order is
// fixed and short-circuits.
func (ic *IntakeController) SubmitBooking(c *gin.Context) {
	clientKey := ratelimit.ClientKey(c.Request.Header)
	logger.InfoLogger.Infof("Booking submission attempt from %s", clientKey)

	res := ic.Limiter.Check(clientKey)
	if !res.Allowed {
		logger.WarnLogger.Warnf("Rate limit exceeded for %s", clientKey)
		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", fmt.Sprintf("%d", int(res.RetryAfter.Seconds())))
		c.JSON(http.StatusTooManyRequests, gin.H{
			"error": "Too many booking requests. Please try again later.",
			"code":  "RATE_LIMIT_EXCEEDED",
		})
		return
	}

	var req SubmitBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	// A filled honeypot means a bot. Answer success so the detection is not
	// observable, but persist nothing.
	if req.Honeypot != "" {
		logger.WarnLogger.Warnf("Bot detected (honeypot triggered) from %s", clientKey)
		c.JSON(http.StatusOK, gin.H{"success": true, "bookingId": uuid.NewString()})
		return
	}

	booking, errMsg := buildBooking(&req)
	if errMsg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": errMsg})
		return
	}

	ctx := c.Request.Context()
	created, err := ic.Store.CreateBooking(ctx, booking)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to create booking from %s: %v", clientKey, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	// Attaching services is best-effort: the lead is already captured, so a
	// failure here is logged and swallowed rather than rolled back.
	if serviceIDs := parseServiceIDs(req.SelectedServices); len(serviceIDs) > 0 {
		if err := ic.Store.AddBookingServices(ctx, created.ID, serviceIDs); err != nil {
			logger.ErrorLogger.Errorf("Failed to attach services to booking %s: %v", created.ID, err)
		}
	}

	if ic.Notifier != nil {
		go func(b booking_models.Booking) {
			if err := ic.Notifier.SendBookingReceived(&b); err != nil {
				logger.WarnLogger.Warnf("Confirmation email for booking %s not sent: %v", b.ID, err)
			}
		}(*created)
	}

	logger.InfoLogger.Infof("Booking %s created from %s", created.ID, clientKey)

	c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", res.Remaining))
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"bookingId": created.ID,
		"rateLimit": gin.H{"remaining": res.Remaining},
	})
}

// buildBooking validates and normalizes the payload. It returns the first
// violated constraint as a user-facing message, leaving the booking nil.
func buildBooking(req *SubmitBookingRequest) (*booking_models.Booking, string) {
	name := strings.TrimSpace(req.CustomerName)
	if name == "" || len(name) > maxNameLength {
		return nil, "Invalid name"
	}

	email := strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	if email == "" || len(email) > maxEmailLength || !emailRegex.MatchString(email) {
		return nil, "Invalid email"
	}

	if req.CheckIn == "" || req.CheckOut == "" {
		return nil, "Check-in and check-out dates are required"
	}
	checkIn, err := time.Parse(dateLayout, req.CheckIn)
	if err != nil {
		return nil, "Invalid check-in date"
	}
	checkOut, err := time.Parse(dateLayout, req.CheckOut)
	if err != nil {
		return nil, "Invalid check-out date"
	}
	if checkOut.Before(checkIn) {
		return nil, "Check-out date must not be before check-in date"
	}

	if req.GuestCount < minGuests || req.GuestCount > maxGuests {
		return nil, "Invalid guest count"
	}

	booking, err := booking_models.NewBooking(name, email, checkIn, checkOut, req.GuestCount)
	if err != nil {
		return nil, "Failed to process booking"
	}

	if req.PropertyID != "" {
		propertyID, err := uuid.Parse(req.PropertyID)
		if err != nil {
			return nil, "Invalid property"
		}
		booking.PropertyID = &propertyID
	}

	booking.CustomerPhone = optional(req.CustomerPhone, maxNameLength)
	booking.SpecialNotes = optional(req.SpecialNotes, maxNotesLength)
	booking.OccasionType = optional(req.OccasionType, maxNameLength)
	booking.BudgetRange = optional(req.BudgetRange, maxNameLength)
	booking.DietaryPreferences = optional(req.DietaryPreferences, maxNotesLength)
	booking.VibePreferences = optional(req.VibePreferences, maxNotesLength)
	booking.SurpriseElements = optional(req.SurpriseElements, maxNotesLength)

	return booking, ""
}

// optional trims free text and truncates it instead of rejecting; empty
// strings become nil.
func optional(s string, maxLen int) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}
	return &s
}

func parseServiceIDs(raw []string) []uuid.UUID {
	var ids []uuid.UUID
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			logger.WarnLogger.Warnf("Skipping invalid service id %q", s)
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
