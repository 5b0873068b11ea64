package booking_service_models

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solemar/concierge/logger"
)

// BookingService links a booking to a requested service category and,
// once staff negotiate it, an assigned vendor and price. There is at most
// one row per (booking, service) pair.
type BookingService struct {
	BookingID uuid.UUID  `json:"booking_id"`
	ServiceID uuid.UUID  `json:"service_id"`
	VendorID  *uuid.UUID `json:"vendor_id"`
	Price     *float64   `json:"price"`
}

// AddBookingServices attaches the services a customer selected at intake.
// Duplicate pairs are ignored so a retried submission stays idempotent.
func AddBookingServices(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID, serviceIDs []uuid.UUID) error {
	for _, serviceID := range serviceIDs {
		_, err := db.Exec(ctx, `
			INSERT INTO booking_services (booking_id, service_id)
			VALUES ($1, $2)
			ON CONFLICT (booking_id, service_id) DO NOTHING`,
			bookingID, serviceID)
		if err != nil {
			return fmt.Errorf("failed to attach service %s to booking %s: %w", serviceID, bookingID, err)
		}
	}
	return nil
}

// UpsertBookingService writes the vendor assignment and price for a
// (booking, service) pair, keyed on that pair.
func UpsertBookingService(ctx context.Context, db *pgxpool.Pool, bs *BookingService) error {
	_, err := db.Exec(ctx, `
		INSERT INTO booking_services (booking_id, service_id, vendor_id, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (booking_id, service_id)
		DO UPDATE SET vendor_id = EXCLUDED.vendor_id, price = EXCLUDED.price`,
		bs.BookingID, bs.ServiceID, bs.VendorID, bs.Price)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to upsert booking service (%s, %s): %v", bs.BookingID, bs.ServiceID, err)
		return fmt.Errorf("failed to upsert booking service: %w", err)
	}

	logger.InfoLogger.Infof("Booking service upserted for booking %s, service %s", bs.BookingID, bs.ServiceID)
	return nil
}

// GetServicesForBooking lists the service rows attached to a booking.
func GetServicesForBooking(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) ([]BookingService, error) {
	rows, err := db.Query(ctx, `
		SELECT booking_id, service_id, vendor_id, price
		FROM booking_services
		WHERE booking_id = $1`,
		bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking services: %w", err)
	}
	defer rows.Close()

	var services []BookingService
	for rows.Next() {
		var bs BookingService
		if err := rows.Scan(&bs.BookingID, &bs.ServiceID, &bs.VendorID, &bs.Price); err != nil {
			return nil, fmt.Errorf("failed to scan booking service: %w", err)
		}
		services = append(services, bs)
	}
	return services, rows.Err()
}
