package shared_models

// BookingStatus is the lifecycle stage of a booking. Both the staff workflow
// widget (linear advance) and the admin override read from this one enum.
type BookingStatus string

const (
	StatusNewRequest BookingStatus = "new_request"
	StatusInReview   BookingStatus = "in_review"
	StatusQuoteSent  BookingStatus = "quote_sent"
	StatusConfirmed  BookingStatus = "confirmed"
	StatusCompleted  BookingStatus = "completed"
)

// advance holds the single forward transition per non-terminal status.
// completed has no entry: it is the terminal state.
var advance = map[BookingStatus]BookingStatus{
	StatusNewRequest: StatusInReview,
	StatusInReview:   StatusQuoteSent,
	StatusQuoteSent:  StatusConfirmed,
	StatusConfirmed:  StatusCompleted,
}

// Next returns the status the advance action moves to, or false when the
// current status is terminal.
func (s BookingStatus) Next() (BookingStatus, bool) {
	next, ok := advance[s]
	return next, ok
}

// IsValid reports whether s is one of the five defined statuses.
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusNewRequest, StatusInReview, StatusQuoteSent, StatusConfirmed, StatusCompleted:
		return true
	}
	return false
}

// AllStatuses lists the statuses in lifecycle order.
func AllStatuses() []BookingStatus {
	return []BookingStatus{
		StatusNewRequest,
		StatusInReview,
		StatusQuoteSent,
		StatusConfirmed,
		StatusCompleted,
	}
}
