package intake_controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/solemar/concierge/controllers/intake_controller"
	"github.com/solemar/concierge/models/booking_models"
	"github.com/solemar/concierge/models/shared_models"
	"github.com/solemar/concierge/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBookingStore struct {
	mu         sync.Mutex
	bookings   []booking_models.Booking
	services   map[uuid.UUID][]uuid.UUID
	createErr  error
	serviceErr error
}

func newFakeBookingStore() *fakeBookingStore {
	return &fakeBookingStore{services: make(map[uuid.UUID][]uuid.UUID)}
}

func (f *fakeBookingStore) CreateBooking(_ context.Context, b *booking_models.Booking) (*booking_models.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.bookings = append(f.bookings, *b)
	return b, nil
}

func (f *fakeBookingStore) AddBookingServices(_ context.Context, bookingID uuid.UUID, serviceIDs []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.serviceErr != nil {
		return f.serviceErr
	}
	f.services[bookingID] = append(f.services[bookingID], serviceIDs...)
	return nil
}

func newTestRouter(store *fakeBookingStore, limiter *ratelimit.Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	controller := intake_controller.NewIntakeController(store, limiter, nil)
	r.POST("/submit-booking", controller.SubmitBooking)
	return r
}

func validPayload() map[string]interface{} {
	return map[string]interface{}{
		"customerName":  "Jane Doe",
		"customerEmail": "jane@x.com",
		"checkIn":       "2025-06-01",
		"checkOut":      "2025-06-05",
		"guestCount":    4,
		"honeypot":      "",
	}
}

func submit(r *gin.Engine, payload map[string]interface{}, ip string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req, _ := http.NewRequest("POST", "/submit-booking", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitBooking_Success(t *testing.T) {
	store := newFakeBookingStore()
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	w := submit(r, validPayload(), "203.0.113.10")

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success   bool   `json:"success"`
		BookingID string `json:"bookingId"`
		RateLimit struct {
			Remaining int `json:"remaining"`
		} `json:"rateLimit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.BookingID)
	assert.Equal(t, 4, resp.RateLimit.Remaining)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	assert.Equal(t, "Jane Doe", b.CustomerName)
	assert.Equal(t, "jane@x.com", b.CustomerEmail)
	assert.Equal(t, 4, b.GuestCount)
	assert.Equal(t, shared_models.StatusNewRequest, b.Status)
	assert.Nil(t, b.AssignedTo)
}

func TestSubmitBooking_NormalizesInput(t *testing.T) {
	store := newFakeBookingStore()
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	payload := validPayload()
	payload["customerName"] = "  Jane Doe  "
	payload["customerEmail"] = " Jane@X.COM "
	payload["specialNotes"] = strings.Repeat("n", 1500)

	w := submit(r, payload, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.bookings, 1)
	b := store.bookings[0]
	assert.Equal(t, "Jane Doe", b.CustomerName)
	assert.Equal(t, "jane@x.com", b.CustomerEmail)
	require.NotNil(t, b.SpecialNotes)
	assert.Len(t, *b.SpecialNotes, 1000, "long notes are truncated, not rejected")
}

func TestSubmitBooking_HoneypotAbsorbed(t *testing.T) {
	store := newFakeBookingStore()
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	payload := validPayload()
	payload["honeypot"] = "http://spam.example"

	w := submit(r, payload, "203.0.113.11")

	require.Equal(t, http.StatusOK, w.Code, "bots must see a success-shaped response")

	var resp struct {
		Success   bool   `json:"success"`
		BookingID string `json:"bookingId"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.BookingID)

	assert.Empty(t, store.bookings, "honeypot submissions create no rows")
}

func TestSubmitBooking_GuestCountBounds(t *testing.T) {
	cases := []struct {
		guests   int
		wantCode int
	}{
		{0, http.StatusBadRequest},
		{1, http.StatusOK},
		{100, http.StatusOK},
		{101, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("guests=%d", tc.guests), func(t *testing.T) {
			store := newFakeBookingStore()
			r := newTestRouter(store, ratelimit.New(5, time.Hour))

			payload := validPayload()
			payload["guestCount"] = tc.guests

			w := submit(r, payload, "")
			assert.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestSubmitBooking_ValidationErrors(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(map[string]interface{})
		wantMsg string
	}{
		{"empty name", func(p map[string]interface{}) { p["customerName"] = "   " }, "Invalid name"},
		{"name too long", func(p map[string]interface{}) { p["customerName"] = strings.Repeat("a", 101) }, "Invalid name"},
		{"bad email", func(p map[string]interface{}) { p["customerEmail"] = "not-an-email" }, "Invalid email"},
		{"missing dates", func(p map[string]interface{}) { p["checkIn"] = "" }, "Check-in and check-out dates are required"},
		{"inverted dates", func(p map[string]interface{}) {
			p["checkIn"] = "2025-06-10"
			p["checkOut"] = "2025-06-01"
		}, "Check-out date must not be before check-in date"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeBookingStore()
			r := newTestRouter(store, ratelimit.New(5, time.Hour))

			payload := validPayload()
			tc.mutate(payload)

			w := submit(r, payload, "")
			require.Equal(t, http.StatusBadRequest, w.Code)

			var resp map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantMsg, resp["error"])
			assert.Empty(t, store.bookings, "failed validation must not persist anything")
		})
	}
}

func TestSubmitBooking_RateLimitCeiling(t *testing.T) {
	store := newFakeBookingStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.NewWithClock(5, time.Hour, func() time.Time { return now })
	r := newTestRouter(store, limiter)

	for i := 1; i <= 5; i++ {
		w := submit(r, validPayload(), "203.0.113.55")
		require.Equal(t, http.StatusOK, w.Code, "request %d should pass", i)
	}

	w := submit(r, validPayload(), "203.0.113.55")
	require.Equal(t, http.StatusTooManyRequests, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp["code"])
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	assert.Len(t, store.bookings, 5, "the rejected request must not create a row")

	// A different client is unaffected.
	w = submit(r, validPayload(), "198.51.100.20")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitBooking_ServiceAttachFailureIsSwallowed(t *testing.T) {
	store := newFakeBookingStore()
	store.serviceErr = fmt.Errorf("booking_services insert failed")
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	payload := validPayload()
	payload["selectedServices"] = []string{uuid.NewString(), uuid.NewString()}

	w := submit(r, payload, "")

	require.Equal(t, http.StatusOK, w.Code, "losing service rows must not lose the lead")
	assert.Len(t, store.bookings, 1)
	assert.Empty(t, store.services)
}

func TestSubmitBooking_SelectedServicesAttached(t *testing.T) {
	store := newFakeBookingStore()
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	svc1, svc2 := uuid.NewString(), uuid.NewString()
	payload := validPayload()
	payload["selectedServices"] = []string{svc1, "not-a-uuid", svc2}

	w := submit(r, payload, "")
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, store.bookings, 1)
	attached := store.services[store.bookings[0].ID]
	require.Len(t, attached, 2, "invalid ids are skipped, valid ones attached")
	assert.Equal(t, svc1, attached[0].String())
	assert.Equal(t, svc2, attached[1].String())
}

func TestSubmitBooking_StoreFailure(t *testing.T) {
	store := newFakeBookingStore()
	store.createErr = fmt.Errorf("connection refused")
	r := newTestRouter(store, ratelimit.New(5, time.Hour))

	w := submit(r, validPayload(), "")

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Failed to create booking", resp["error"])
}
