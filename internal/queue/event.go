package queue

// Event kinds carried on the booking.events queue.
const (
	KindBookingCreated       = "booking.created"
	KindBookingStatusChanged = "booking.status_changed"
)

// BookingEvent is published after a ledger write commits.  It carries
// enough for downstream consumers (notifications, analytics, the floor
// display) to act without querying the primary database.
type BookingEvent struct {
	Kind             string `json:"kind"`
	BookingID        uint64 `json:"booking_id"`
	Code             string `json:"code"`
	ResourceID       uint64 `json:"resource_id"`
	ConsoleName      string `json:"console_name"`
	StationName      string `json:"station_name"`
	UserID           uint64 `json:"user_id,omitempty"`
	CustomerName     string `json:"customer_name,omitempty"`
	BookingDate      string `json:"booking_date"` // YYYY-MM-DD
	Start            string `json:"start"`        // HH:MM
	End              string `json:"end"`          // HH:MM
	TotalAmountCents uint32 `json:"total_amount_cents"`
	Status           string `json:"status"`
	PaymentStatus    string `json:"payment_status"`
	OccurredAt       string `json:"occurred_at"` // RFC3339
}
