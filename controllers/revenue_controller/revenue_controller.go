package revenue_controller

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solemar/concierge/logger"
	"github.com/solemar/concierge/models/booking_models"
	"github.com/solemar/concierge/models/revenue_models"
)

// RevenueStore is the persistence surface for revenue-split entry.
type RevenueStore interface {
	GetBookingByID(ctx context.Context, bookingID uuid.UUID) (*booking_models.Booking, error)
	UpsertRevenueSplit(ctx context.Context, split *revenue_models.RevenueSplit) (*revenue_models.RevenueSplit, error)
	GetRevenueSplitByBooking(ctx context.Context, bookingID uuid.UUID) (*revenue_models.RevenueSplit, error)
	ListRevenueSplits(ctx context.Context) ([]revenue_models.RevenueSplit, error)
	GetRevenueSharePercentage(ctx context.Context) float64
}

// RevenueController serves revenue-split entry and reporting.
type RevenueController struct {
	Store RevenueStore
}

// NewRevenueController creates a new instance of RevenueController.
func NewRevenueController(store RevenueStore) *RevenueController {
	return &RevenueController{Store: store}
}

type upsertSplitRequest struct {
	TotalCharged             *float64 `json:"total_charged" binding:"required"`
	VendorCost               *float64 `json:"vendor_cost" binding:"required"`
	ConciergeSharePercentage *float64 `json:"concierge_share_percentage"`
	Notes                    *string  `json:"notes"`
}

// UpsertSplit creates or replaces the revenue split for a booking. The share
// percentage defaults from app settings when the request omits it; the share
// amount is always recomputed server-side.
func (rc *RevenueController) UpsertSplit(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	var req upsertSplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "total_charged and vendor_cost are required"})
		return
	}
	if *req.TotalCharged < 0 || *req.VendorCost < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amounts must not be negative"})
		return
	}

	ctx := c.Request.Context()
	if _, err := rc.Store.GetBookingByID(ctx, bookingID); err != nil {
		if errors.Is(err, booking_models.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch booking %s for revenue entry: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	percentage := rc.Store.GetRevenueSharePercentage(ctx)
	if req.ConciergeSharePercentage != nil {
		percentage = *req.ConciergeSharePercentage
	}
	if percentage < 0 || percentage > 100 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Share percentage must be between 0 and 100"})
		return
	}

	split := &revenue_models.RevenueSplit{
		BookingID:                bookingID,
		TotalCharged:             *req.TotalCharged,
		VendorCost:               *req.VendorCost,
		ConciergeSharePercentage: percentage,
		Notes:                    req.Notes,
	}

	saved, err := rc.Store.UpsertRevenueSplit(ctx, split)
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to save revenue split for booking %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue_split": saved})
}

// GetSplit returns the revenue split for one booking.
func (rc *RevenueController) GetSplit(c *gin.Context) {
	bookingID, err := uuid.Parse(c.Param("booking_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	split, err := rc.Store.GetRevenueSplitByBooking(c.Request.Context(), bookingID)
	if err != nil {
		if errors.Is(err, revenue_models.ErrRevenueSplitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Revenue split not found"})
			return
		}
		logger.ErrorLogger.Errorf("Failed to fetch revenue split for booking %s: %v", bookingID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"revenue_split": split})
}

// ListSplits returns all revenue splits, newest first.
func (rc *RevenueController) ListSplits(c *gin.Context) {
	splits, err := rc.Store.ListRevenueSplits(c.Request.Context())
	if err != nil {
		logger.ErrorLogger.Errorf("Failed to list revenue splits: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if splits == nil {
		splits = []revenue_models.RevenueSplit{}
	}

	c.JSON(http.StatusOK, gin.H{"revenue_splits": splits})
}
