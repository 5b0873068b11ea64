package booking_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/shared_models"
)

var (
	ErrBookingNotFound       = errors.New("booking not found")
	ErrBookingAlreadyClaimed = errors.New("booking already claimed")
)

// Booking is a customer's vacation request, the central entity of the
// concierge workflow.
type Booking struct {
	ID                 uuid.UUID                   `json:"id"`
	PropertyID         *uuid.UUID                  `json:"property_id"`
	CustomerName       string                      `json:"customer_name"`
	CustomerEmail      string                      `json:"customer_email"`
	CustomerPhone      *string                     `json:"customer_phone"`
	CheckIn            time.Time                   `json:"check_in"`
	CheckOut           time.Time                   `json:"check_out"`
	GuestCount         int                         `json:"guest_count"`
	OccasionType       *string                     `json:"occasion_type"`
	BudgetRange        *string                     `json:"budget_range"`
	DietaryPreferences *string                     `json:"dietary_preferences"`
	VibePreferences    *string                     `json:"vibe_preferences"`
	SurpriseElements   *string                     `json:"surprise_elements"`
	SpecialNotes       *string                     `json:"special_notes"`
	InternalNotes      *string                     `json:"internal_notes"`
	Status             shared_models.BookingStatus `json:"status"`
	AssignedTo         *uuid.UUID                  `json:"assigned_to"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

const bookingColumns = `
	id, property_id, customer_name, customer_email, customer_phone,
	check_in, check_out, guest_count, occasion_type, budget_range,
	dietary_preferences, vibe_preferences, surprise_elements,
	special_notes, internal_notes, status, assigned_to, created_at, updated_at`

// NewBooking builds a booking in the initial status with fresh identity and
// timestamps. Optional fields stay nil until set by the caller.
func NewBooking(name, email string, checkIn, checkOut time.Time, guestCount int) (*Booking, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate UUID for booking: %w", err)
	}
	now := time.Now()
	return &Booking{
		ID:            id,
		CustomerName:  name,
		CustomerEmail: email,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		GuestCount:    guestCount,
		Status:        shared_models.StatusNewRequest,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	err := row.Scan(
		&b.ID, &b.PropertyID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.CheckIn, &b.CheckOut, &b.GuestCount, &b.OccasionType, &b.BudgetRange,
		&b.DietaryPreferences, &b.VibePreferences, &b.SurpriseElements,
		&b.SpecialNotes, &b.InternalNotes, &b.Status, &b.AssignedTo,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// CreateBooking inserts a new booking record.
func CreateBooking(ctx context.Context, db *pgxpool.Pool, booking *Booking) (*Booking, error) {
	query := `
		INSERT INTO bookings (
			id, property_id, customer_name, customer_email, customer_phone,
			check_in, check_out, guest_count, occasion_type, budget_range,
			dietary_preferences, vibe_preferences, surprise_elements,
			special_notes, status, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		) RETURNING id`

	var insertedID uuid.UUID
	err := db.QueryRow(ctx, query,
		booking.ID, booking.PropertyID, booking.CustomerName, booking.CustomerEmail,
		booking.CustomerPhone, booking.CheckIn, booking.CheckOut, booking.GuestCount,
		booking.OccasionType, booking.BudgetRange, booking.DietaryPreferences,
		booking.VibePreferences, booking.SurpriseElements, booking.SpecialNotes,
		booking.Status, booking.CreatedAt, booking.UpdatedAt,
	).Scan(&insertedID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to insert booking for %s: %v", booking.CustomerEmail, err)
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ID = insertedID
	logger.InfoLogger.Infof("Booking %s created in status %s", booking.ID, booking.Status)
	return booking, nil
}

// GetBookingByID fetches one booking.
func GetBookingByID(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("database error fetching booking: %w", err)
	}
	return booking, nil
}

// ListBookings returns bookings newest first, optionally filtered by status
// and by a free-text search over customer name and email.
func ListBookings(ctx context.Context, db *pgxpool.Pool, status shared_models.BookingStatus, search string) ([]Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []interface{}

	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (customer_name ILIKE $%d OR customer_email ILIKE $%d)", len(args), len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings: %v", err)
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// CountBookingsByStatus returns how many bookings sit in each lifecycle stage.
func CountBookingsByStatus(ctx context.Context, db *pgxpool.Pool) (map[shared_models.BookingStatus]int, error) {
	rows, err := db.Query(ctx, `SELECT status, COUNT(*) FROM bookings GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	defer rows.Close()

	counts := make(map[shared_models.BookingStatus]int)
	for _, s := range shared_models.AllStatuses() {
		counts[s] = 0
	}
	for rows.Next() {
		var status shared_models.BookingStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("failed to scan booking count: %w", err)
		}
		counts[status] = n
	}
	return counts, rows.Err()
}

// UpdateBookingStatus sets the status unconditionally. This is the override
// path; the state machine does not restrict it.
func UpdateBookingStatus(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, status shared_models.BookingStatus) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE bookings SET status = $2, updated_at = $3 WHERE id = $1`,
		bookingID, status, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s status: %v", bookingID, err)
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	logger.InfoLogger.Infof("Booking %s status updated to %s", bookingID, status)
	return nil
}

// UpdateBookingNotes replaces the internal staff notes. Last writer wins.
func UpdateBookingNotes(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, notes string) error {
	cmdTag, err := db.Exec(ctx,
		`UPDATE bookings SET internal_notes = $2, updated_at = $3 WHERE id = $1`,
		bookingID, notes, time.Now())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to update booking %s notes: %v", bookingID, err)
		return fmt.Errorf("failed to update booking notes: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrBookingNotFound
	}
	return nil
}

// ClaimBooking assigns the booking to staffID only if nobody holds it yet.
// The write is conditioned on assigned_to being NULL so two concurrent claims
// cannot both succeed; the loser gets ErrBookingAlreadyClaimed.
func ClaimBooking(ctx context.Context, db *pgxpool.Pool, bookingID, staffID uuid.UUID) (*Booking, error) {
	query := `
		UPDATE bookings
		SET assigned_to = $2, updated_at = $3
		WHERE id = $1 AND assigned_to IS NULL
		RETURNING ` + bookingColumns

	booking, err := scanBooking(db.QueryRow(ctx, query, bookingID, staffID, time.Now()))
	if err == nil {
		logger.InfoLogger.Infof("Booking %s claimed by %s", bookingID, staffID)
		return booking, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		logger.ErrorLogger.Errorf("Failed to claim booking %s: %v", bookingID, err)
		return nil, fmt.Errorf("failed to claim booking: %w", err)
	}

	// No row matched: either the booking does not exist or someone beat us
	// to the claim.
	var exists bool
	if err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, bookingID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to check booking existence: %w", err)
	}
	if !exists {
		return nil, ErrBookingNotFound
	}
	return nil, ErrBookingAlreadyClaimed
}
