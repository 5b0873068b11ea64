package revenue_models

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solemar/concierge/logger"
)

var ErrRevenueSplitNotFound = errors.New("revenue split not found")

// RevenueSplit records the financial outcome of one completed booking.
// There is at most one per booking.
type RevenueSplit struct {
	ID                       uuid.UUID `json:"id"`
	BookingID                uuid.UUID `json:"booking_id"`
	TotalCharged             float64   `json:"total_charged"`
	VendorCost               float64   `json:"vendor_cost"`
	ConciergeSharePercentage float64   `json:"concierge_share_percentage"`
	ConciergeShareAmount     float64   `json:"concierge_share_amount"`
	Notes                    *string   `json:"notes"`
	CalculatedAt             time.Time `json:"calculated_at"`
	CreatedAt                time.Time `json:"created_at"`
	UpdatedAt                time.Time `json:"updated_at"`
}

// ComputeConciergeShare derives the concierge margin from the charged total,
// the vendor cost and the share percentage. A losing booking yields zero,
// never a negative share.
func ComputeConciergeShare(totalCharged, vendorCost, sharePercentage float64) float64 {
	profit := totalCharged - vendorCost
	share := profit * sharePercentage / 100
	if share < 0 {
		return 0
	}
	return share
}

const revenueColumns = `
	id, booking_id, total_charged, vendor_cost, concierge_share_percentage,
	concierge_share_amount, notes, calculated_at, created_at, updated_at`

func scanRevenueSplit(row pgx.Row) (*RevenueSplit, error) {
	rs := &RevenueSplit{}
	err := row.Scan(
		&rs.ID, &rs.BookingID, &rs.TotalCharged, &rs.VendorCost,
		&rs.ConciergeSharePercentage, &rs.ConciergeShareAmount,
		&rs.Notes, &rs.CalculatedAt, &rs.CreatedAt, &rs.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rs, nil
}

// UpsertRevenueSplit creates or replaces the split for a booking, recomputing
// the share amount and stamping calculated_at on every write.
func UpsertRevenueSplit(ctx context.Context, db *pgxpool.Pool, split *RevenueSplit) (*RevenueSplit, error) {
	split.ConciergeShareAmount = ComputeConciergeShare(split.TotalCharged, split.VendorCost, split.ConciergeSharePercentage)
	split.CalculatedAt = time.Now()

	if split.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate UUID for revenue split: %w", err)
		}
		split.ID = id
	}

	query := `
		INSERT INTO revenue_splits (
			id, booking_id, total_charged, vendor_cost, concierge_share_percentage,
			concierge_share_amount, notes, calculated_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, now(), now())
		ON CONFLICT (booking_id) DO UPDATE SET
			total_charged = EXCLUDED.total_charged,
			vendor_cost = EXCLUDED.vendor_cost,
			concierge_share_percentage = EXCLUDED.concierge_share_percentage,
			concierge_share_amount = EXCLUDED.concierge_share_amount,
			notes = EXCLUDED.notes,
			calculated_at = EXCLUDED.calculated_at,
			updated_at = now()
		RETURNING ` + revenueColumns

	saved, err := scanRevenueSplit(db.QueryRow(ctx, query,
		split.ID, split.BookingID, split.TotalCharged, split.VendorCost,
		split.ConciergeSharePercentage, split.ConciergeShareAmount,
		split.Notes, split.CalculatedAt))
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to upsert revenue split for booking %s: %v", split.BookingID, err)
		return nil, fmt.Errorf("failed to upsert revenue split: %w", err)
	}

	logger.InfoLogger.Infof("Revenue split for booking %s saved (share %.2f)", saved.BookingID, saved.ConciergeShareAmount)
	return saved, nil
}

// GetRevenueSplitByBooking fetches the split for one booking.
func GetRevenueSplitByBooking(ctx context.Context, db *pgxpool.Pool, bookingID uuid.UUID) (*RevenueSplit, error) {
	query := `SELECT ` + revenueColumns + ` FROM revenue_splits WHERE booking_id = $1`

	split, err := scanRevenueSplit(db.QueryRow(ctx, query, bookingID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRevenueSplitNotFound
		}
		return nil, fmt.Errorf("database error fetching revenue split: %w", err)
	}
	return split, nil
}

// ListRevenueSplits returns all splits, newest first.
func ListRevenueSplits(ctx context.Context, db *pgxpool.Pool) ([]RevenueSplit, error) {
	rows, err := db.Query(ctx, `SELECT `+revenueColumns+` FROM revenue_splits ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list revenue splits: %w", err)
	}
	defer rows.Close()

	var splits []RevenueSplit
	for rows.Next() {
		rs, err := scanRevenueSplit(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan revenue split: %w", err)
		}
		splits = append(splits, *rs)
	}
	return splits, rows.Err()
}
