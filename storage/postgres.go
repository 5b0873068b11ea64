package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/solemar/concierge/models/booking_models"
	"github.com/solemar/concierge/models/booking_service_models"
	"github.com/solemar/concierge/models/revenue_models"
	"github.com/solemar/concierge/models/settings_models"
	"github.com/solemar/concierge/models/shared_models"
)

// Postgres satisfies the controllers' store interfaces by delegating to the
// model packages. Controllers depend on the interfaces so tests can swap in
// in-memory fakes.
type Postgres struct {
	DB *pgxpool.Pool
}

// NewPostgres wraps a connection pool.
func NewPostgres(db *pgxpool.Pool) *Postgres {
	return &Postgres{DB: db}
}

func (p *Postgres) CreateBooking(ctx context.Context, booking *booking_models.Booking) (*booking_models.Booking, error) {
	return booking_models.CreateBooking(ctx, p.DB, booking)
}

func (p *Postgres) GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*booking_models.Booking, error) {
	return booking_models.GetBookingByID(ctx, p.DB, bookingID)
}

func (p *Postgres) ListBookings(ctx context.Context, status shared_models.BookingStatus, search string) ([]booking_models.Booking, error) {
	return booking_models.ListBookings(ctx, p.DB, status, search)
}

func (p *Postgres) CountBookingsByStatus(ctx context.Context) (map[shared_models.BookingStatus]int, error) {
	return booking_models.CountBookingsByStatus(ctx, p.DB)
}

func (p *Postgres) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status shared_models.BookingStatus) error {
	return booking_models.UpdateBookingStatus(ctx, p.DB, bookingID, status)
}

func (p *Postgres) UpdateBookingNotes(ctx context.Context, bookingID uuid.UUID, notes string) error {
	return booking_models.UpdateBookingNotes(ctx, p.DB, bookingID, notes)
}

func (p *Postgres) ClaimBooking(ctx context.Context, bookingID, staffID uuid.UUID) (*booking_models.Booking, error) {
	return booking_models.ClaimBooking(ctx, p.DB, bookingID, staffID)
}

func (p *Postgres) AddBookingServices(ctx context.Context, bookingID uuid.UUID, serviceIDs []uuid.UUID) error {
	return booking_service_models.AddBookingServices(ctx, p.DB, bookingID, serviceIDs)
}

func (p *Postgres) UpsertBookingService(ctx context.Context, bs *booking_service_models.BookingService) error {
	return booking_service_models.UpsertBookingService(ctx, p.DB, bs)
}

func (p *Postgres) GetServicesForBooking(ctx context.Context, bookingID uuid.UUID) ([]booking_service_models.BookingService, error) {
	return booking_service_models.GetServicesForBooking(ctx, p.DB, bookingID)
}

func (p *Postgres) UpsertRevenueSplit(ctx context.Context, split *revenue_models.RevenueSplit) (*revenue_models.RevenueSplit, error) {
	return revenue_models.UpsertRevenueSplit(ctx, p.DB, split)
}

func (p *Postgres) GetRevenueSplitByBooking(ctx context.Context, bookingID uuid.UUID) (*revenue_models.RevenueSplit, error) {
	return revenue_models.GetRevenueSplitByBooking(ctx, p.DB, bookingID)
}

func (p *Postgres) ListRevenueSplits(ctx context.Context) ([]revenue_models.RevenueSplit, error) {
	return revenue_models.ListRevenueSplits(ctx, p.DB)
}

func (p *Postgres) GetSetting(ctx context.Context, key string) (*settings_models.AppSetting, error) {
	return settings_models.GetSetting(ctx, p.DB, key)
}

func (p *Postgres) UpsertSetting(ctx context.Context, key, value string) (*settings_models.AppSetting, error) {
	return settings_models.UpsertSetting(ctx, p.DB, key, value)
}

func (p *Postgres) GetRevenueSharePercentage(ctx context.Context) float64 {
	return settings_models.GetRevenueSharePercentage(ctx, p.DB)
}
