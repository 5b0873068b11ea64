package staff_booking_controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/booking_models"
	"github.com/solemar/concierge/models/booking_service_models"
	"github.com/solemar/concierge/models/shared_models"
	"github.com/solemar/concierge/utils"
)

// BookingStore is the persistence surface the staff console needs.
type BookingStore interface {
	ListBookings(ctx context.Context, status shared_models.BookingStatus, search string) ([]booking_models.Booking, error)
	CountBookingsByStatus(ctx context.Context) (map[shared_models.BookingStatus]int, error)
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*booking_models.Booking, error)
	GetServicesForBooking(ctx context.Context, bookingID uuid.UUID) ([]booking_service_models.BookingService, error)
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status shared_models.BookingStatus) error
	UpdateBookingNotes(ctx context.Context, bookingID uuid.UUID, notes string) error
	ClaimBooking(ctx context.Context, bookingID, staffID uuid.UUID) (*booking_models.Booking, error)
	UpsertBookingService(ctx context.Context, bs *booking_service_models.BookingService) error
}

// StaffBookingController serves the concierge/admin booking console.
type StaffBookingController struct {
	Store BookingStore
}

// NewStaffBookingController creates a new instance of StaffBookingController.
func NewStaffBookingController(store BookingStore) *StaffBookingController {
	return &StaffBookingController{Store: store}
}

// ListBookings returns bookings newest first, filterable by status and a
// free-text search over customer name/email.
func (sc *StaffBookingController) ListBookings(c *gin.Context) {
	var status shared_models.BookingStatus
	if raw := c.Query("status"); raw != "" && raw != "all" {
		status = shared_models.BookingStatus(raw)
		if !status.IsValid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
	}

	bookings, err := sc.Store.ListBookings(c.Request.Context(), status, c.Query("search"))
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if bookings == nil {
		bookings = []booking_models.Booking{}
	}

	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// GetBookingCounts reports how many bookings sit in each lifecycle stage.
func (sc *StaffBookingController) GetBookingCounts(c *gin.Context) {
	counts, err := sc.Store.CountBookingsByStatus(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to count bookings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "all": total})
}

// GetBooking returns one booking with its attached service rows.
func (sc *StaffBookingController) GetBooking(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	booking, err := sc.Store.GetBookingByID(ctx, bookingID)
	if err != nil {
		respondBookingError(c, bookingID, err)
		return
	}

	services, err := sc.Store.GetServicesForBooking(ctx, bookingID)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to fetch services for booking %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if services == nil {
		services = []booking_service_models.BookingService{}
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking, "services": services})
}

type updateStatusRequest struct {
	Status shared_models.BookingStatus `json:"status" binding:"required"`
}

// UpdateStatus is the override path: any valid status can be set directly,
// regardless of the linear workflow. Used to correct mistakes.
func (sc *StaffBookingController) UpdateStatus(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status is required"})
		return
	}
	if !req.Status.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := sc.Store.UpdateBookingStatus(c.Request.Context(), bookingID, req.Status); err != nil {
		respondBookingError(c, bookingID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// AdvanceStatus moves a booking one step along the workflow. There is exactly
// one forward transition per non-terminal status; completed has none.
func (sc *StaffBookingController) AdvanceStatus(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	booking, err := sc.Store.GetBookingByID(ctx, bookingID)
	if err != nil {
		respondBookingError(c, bookingID, err)
		return
	}

	next, hasNext := booking.Status.Next()
	if !hasNext {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Booking is already completed",
			"code":  "WORKFLOW_COMPLETE",
		})
		return
	}

	if err := sc.Store.UpdateBookingStatus(ctx, bookingID, next); err != nil {
		respondBookingError(c, bookingID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": next})
}

type updateNotesRequest struct {
	InternalNotes *string `json:"internal_notes" binding:"required"`
}

// UpdateNotes replaces the internal staff notes. Concurrent edits are
// last-writer-wins; that limitation is accepted.
func (sc *StaffBookingController) UpdateNotes(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	var req updateNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "internal_notes is required"})
		return
	}

	if err := sc.Store.UpdateBookingNotes(c.Request.Context(), bookingID, *req.InternalNotes); err != nil {
		respondBookingError(c, bookingID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Claim assigns the booking to the acting staff member. First writer wins;
// a lost race is reported as a conflict, not a failure.
func (sc *StaffBookingController) Claim(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}

	staffID, err := utils.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	booking, err := sc.Store.ClaimBooking(c.Request.Context(), bookingID, staffID)
	if err != nil {
		if errors.Is(err, booking_models.ErrBookingAlreadyClaimed) {
			c.JSON(http.StatusConflict, gin.H{
				"error": "Booking already claimed",
				"code":  "ALREADY_CLAIMED",
			})
			return
		}
		respondBookingError(c, bookingID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking": booking})
}

type assignVendorRequest struct {
	VendorID *string  `json:"vendor_id"`
	Price    *float64 `json:"price"`
}

// AssignVendor upserts the vendor/price for a (booking, service) pair.
func (sc *StaffBookingController) AssignVendor(c *gin.Context) {
	bookingID, ok := parseBookingID(c)
	if !ok {
		return
	}
	serviceID, err := uuid.Parse(c.Param("service_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service id"})
		return
	}

	var req assignVendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	bs := &booking_service_models.BookingService{
		BookingID: bookingID,
		ServiceID: serviceID,
		Price:     req.Price,
	}
	if req.VendorID != nil && *req.VendorID != "" {
		vendorID, err := uuid.Parse(*req.VendorID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vendor id"})
			return
		}
		bs.VendorID = &vendorID
	}

	if err := sc.Store.UpsertBookingService(c.Request.Context(), bs); err != nil {
		logger.ErrorLogger.Errorf("Failed to assign vendor for booking %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking_service": bs})
}

func parseBookingID(c *gin.Context) (uuid.UUID, bool) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return uuid.Nil, false
	}
	return bookingID, true
}

func respondBookingError(c *gin.Context, bookingID uuid.UUID, err error) {
	if errors.Is(err, booking_models.ErrBookingNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	logger.ErrorLogger.Errorf("Booking %s operation failed: %v", bookingID, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
