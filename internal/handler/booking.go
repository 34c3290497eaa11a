package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/cache"
	"github.com/hafizalkariem/rental-ps-server/internal/clock"
	"github.com/hafizalkariem/rental-ps-server/internal/config"
	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/queue"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	queue_publisher "github.com/hafizalkariem/rental-ps-server/internal/service"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

// createRetries bounds how often a create is retried after a deadlock or
// lock-wait timeout before the contention is surfaced to the client.
const createRetries = 3

// BookingHandler owns the reservation endpoints.  Creation is the only
// path that writes new ledger rows and always goes through the repo's
// serialized no-overlap check.
type BookingHandler struct {
	Cfg       config.Config
	Bookings  *repository.BookingRepo
	Resources *repository.ResourceRepo
	Cache     *cache.Cache
	Clock     clock.Clock
	Loc       *time.Location
}

func NewBookingHandler(cfg config.Config, b *repository.BookingRepo, r *repository.ResourceRepo,
	ch *cache.Cache, clk clock.Clock, loc *time.Location) *BookingHandler {
	return &BookingHandler{Cfg: cfg, Bookings: b, Resources: r, Cache: ch, Clock: clk, Loc: loc}
}

type createBookingReq struct {
	ResourceID    uint64 `json:"resource_id" validate:"required"`
	BookingDate   string `json:"booking_date" validate:"required"` // YYYY-MM-DD
	Start         string `json:"start_time" validate:"required"`   // HH:MM
	DurationHours int    `json:"duration_hours" validate:"required,min=1,max=12"`
	UserID        uint64 `json:"user_id"`
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
	Notes         string `json:"notes"`
}

type bookingResp struct {
	ID               uint64  `json:"id"`
	Code             string  `json:"code"`
	ResourceID       uint64  `json:"resource_id"`
	UserID           *uint64 `json:"user_id,omitempty"`
	CustomerName     string  `json:"customer_name,omitempty"`
	CustomerPhone    string  `json:"customer_phone,omitempty"`
	CustomerEmail    string  `json:"customer_email,omitempty"`
	BookingDate      string  `json:"booking_date"`
	Start            string  `json:"start"`
	End              string  `json:"end"`
	DurationHours    int     `json:"duration_hours"`
	TotalAmountCents uint32  `json:"total_amount_cents"`
	Status           string  `json:"status"`
	PaymentStatus    string  `json:"payment_status"`
	Notes            string  `json:"notes,omitempty"`
}

func toBookingResp(b model.Booking) bookingResp {
	return bookingResp{
		ID:               b.ID,
		Code:             b.Code,
		ResourceID:       b.ConsoleStationID,
		UserID:           b.UserID,
		CustomerName:     b.CustomerName,
		CustomerPhone:    b.CustomerPhone,
		CustomerEmail:    b.CustomerEmail,
		BookingDate:      b.BookingDate.Format("2006-01-02"),
		Start:            timeslot.Clock(b.StartMinutes),
		End:              timeslot.Clock(b.StartMinutes + b.DurationHours*timeslot.MinutesPerHour),
		DurationHours:    b.DurationHours,
		TotalAmountCents: b.TotalAmountCents,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		Notes:            b.Notes,
	}
}

// Create reserves a resource for a contiguous block of hours.  Customers
// always book for themselves; staff may book on behalf of a registered
// user or record a walk-in with name and phone, but never both on one
// booking.
func (h *BookingHandler) Create(c echo.Context) error {
	var req createBookingReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "resource_id, booking_date, start_time and duration_hours (1..12) are required")
	}

	var userID *uint64
	walkIn := false
	if isAdmin(c) {
		hasUser := req.UserID != 0
		hasWalkIn := strings.TrimSpace(req.CustomerName) != "" || strings.TrimSpace(req.CustomerPhone) != ""
		if hasUser == hasWalkIn {
			return respondErr(c, http.StatusBadRequest, "provide either user_id or walk-in customer details, not both")
		}
		if hasUser {
			userID = &req.UserID
		} else {
			if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerPhone) == "" {
				return respondErr(c, http.StatusBadRequest, "walk-in bookings need customer_name and customer_phone")
			}
			walkIn = true
		}
	} else {
		uid, err := getUserID(c)
		if err != nil {
			return respondErr(c, http.StatusUnauthorized, "unauthorized")
		}
		if req.UserID != 0 && req.UserID != uid {
			return respondErr(c, http.StatusForbidden, "customers can only book for themselves")
		}
		if req.CustomerName != "" || req.CustomerPhone != "" || req.CustomerEmail != "" {
			return respondErr(c, http.StatusBadRequest, "walk-in details are reserved for staff bookings")
		}
		userID = &uid
	}

	date, err := time.ParseInLocation("2006-01-02", req.BookingDate, h.Loc)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "booking_date must be YYYY-MM-DD")
	}
	now := h.Clock.Now().In(h.Loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, h.Loc)
	if date.Before(today) {
		return respondErr(c, http.StatusBadRequest, "booking_date must be today or later")
	}

	startMin, err := timeslot.ParseClock(req.Start)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "start_time must be HH:MM")
	}
	if startMin%timeslot.MinutesPerHour != 0 {
		return respondErr(c, http.StatusBadRequest, "start_time must be on the hour")
	}
	interval := timeslot.New(startMin, req.DurationHours)
	if startMin < h.Cfg.OpenHour*timeslot.MinutesPerHour || interval.End > h.Cfg.CloseHour*timeslot.MinutesPerHour {
		return respondErr(c, http.StatusBadRequest, "booking must fall within operating hours")
	}
	if date.Equal(today) {
		nowMin := now.Hour()*timeslot.MinutesPerHour + now.Minute()
		if interval.End <= nowMin {
			return respondErr(c, http.StatusBadRequest, "booking interval is already in the past")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Resources.GetByID(ctx, req.ResourceID)
	if err != nil {
		if err == repository.ErrNotFound {
			return respondErr(c, http.StatusNotFound, "resource not found")
		}
		return respondRepoErr(c, err)
	}
	if !res.Bookable() {
		return respondRepoErr(c, repository.ErrResourceUnavailable)
	}

	b := model.Booking{
		Code:             uuid.NewString(),
		ConsoleStationID: res.ID,
		UserID:           userID,
		BookingDate:      date,
		StartMinutes:     startMin,
		DurationHours:    req.DurationHours,
		TotalAmountCents: res.HourlyRateCents * uint32(req.DurationHours),
		Status:           model.BookingStatusPending,
		PaymentStatus:    model.PaymentStatusPending,
		Notes:            strings.TrimSpace(req.Notes),
	}
	if walkIn {
		b.CustomerName = strings.TrimSpace(req.CustomerName)
		b.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
		b.CustomerEmail = strings.ToLower(strings.TrimSpace(req.CustomerEmail))
	}

	for attempt := 0; ; attempt++ {
		err = h.Bookings.CreateNoOverlap(ctx, &b)
		if err == nil || !repository.Retryable(err) || attempt >= createRetries-1 {
			break
		}
	}
	if err != nil {
		return respondRepoErr(c, err)
	}

	h.Cache.InvalidateDate(ctx, date)
	h.publish(queue.KindBookingCreated, b, res)

	return respondOK(c, http.StatusCreated, toBookingResp(b))
}

// List returns bookings.  Staff see everything and may filter by date,
// resource, user and status; customers only ever see their own.
func (h *BookingHandler) List(c echo.Context) error {
	var f repository.BookingFilter
	if v := c.QueryParam("date"); v != "" {
		d, err := time.ParseInLocation("2006-01-02", v, h.Loc)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
		}
		f.Date = &d
	}
	if v := c.QueryParam("resource_id"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "invalid resource_id")
		}
		f.ConsoleStationID = id
	}
	if v := c.QueryParam("status"); v != "" {
		if !model.ValidBookingStatus(v) {
			return respondErr(c, http.StatusBadRequest, "unknown status")
		}
		f.Status = v
	}
	if isAdmin(c) {
		if v := c.QueryParam("user_id"); v != "" {
			id, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return respondErr(c, http.StatusBadRequest, "invalid user_id")
			}
			f.UserID = id
		}
	} else {
		uid, err := getUserID(c)
		if err != nil {
			return respondErr(c, http.StatusUnauthorized, "unauthorized")
		}
		f.UserID = uid
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Bookings.List(ctx, f)
	if err != nil {
		return respondRepoErr(c, err)
	}
	out := make([]bookingResp, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingResp(b))
	}
	return respondOK(c, http.StatusOK, out)
}

// Get returns one booking; customers may only read their own.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if !isAdmin(c) {
		uid, err := getUserID(c)
		if err != nil || b.UserID == nil || *b.UserID != uid {
			return respondErr(c, http.StatusForbidden, "forbidden")
		}
	}
	return respondOK(c, http.StatusOK, toBookingResp(b))
}

type updateStatusReq struct {
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
}

// UpdateStatus applies an explicit staff status or payment change.  The
// lifecycle rules live in the repository; this handler only validates the
// names and republishes downstream.
func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if req.Status == "" && req.PaymentStatus == "" {
		return respondErr(c, http.StatusBadRequest, "status or payment_status required")
	}
	if req.Status != "" && !model.ValidBookingStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "unknown status")
	}
	if req.PaymentStatus != "" && !model.ValidPaymentStatus(req.PaymentStatus) {
		return respondErr(c, http.StatusBadRequest, "unknown payment_status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.UpdateStatus(ctx, id, req.Status, req.PaymentStatus)
	if err != nil {
		return respondRepoErr(c, err)
	}

	h.Cache.InvalidateDate(ctx, b.BookingDate)
	h.publish(queue.KindBookingStatusChanged, b, model.Resource{ID: b.ConsoleStationID})

	return respondOK(c, http.StatusOK, toBookingResp(b))
}

// Cancel lets a customer cancel their own pending or confirmed booking.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if !isAdmin(c) {
		uid, err := getUserID(c)
		if err != nil || b.UserID == nil || *b.UserID != uid {
			return respondErr(c, http.StatusForbidden, "forbidden")
		}
	}

	b, err = h.Bookings.UpdateStatus(ctx, id, model.BookingStatusCancelled, "")
	if err != nil {
		return respondRepoErr(c, err)
	}

	h.Cache.InvalidateDate(ctx, b.BookingDate)
	h.publish(queue.KindBookingStatusChanged, b, model.Resource{ID: b.ConsoleStationID})

	return respondOK(c, http.StatusOK, toBookingResp(b))
}

// Delete hard-removes a booking and frees its slot.  Staff only.
func (h *BookingHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Bookings.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if err := h.Bookings.Delete(ctx, id); err != nil {
		return respondRepoErr(c, err)
	}
	h.Cache.InvalidateDate(ctx, b.BookingDate)
	return respondOK(c, http.StatusOK, echo.Map{"deleted": id})
}

// publish fires a booking event at the broker without blocking the
// response; a broker outage only costs the notification.
func (h *BookingHandler) publish(kind string, b model.Booking, res model.Resource) {
	ev := queue.BookingEvent{
		Kind:             kind,
		BookingID:        b.ID,
		Code:             b.Code,
		ResourceID:       b.ConsoleStationID,
		ConsoleName:      res.ConsoleName,
		StationName:      res.StationName,
		CustomerName:     b.CustomerName,
		BookingDate:      b.BookingDate.Format("2006-01-02"),
		Start:            timeslot.Clock(b.StartMinutes),
		End:              timeslot.Clock(b.StartMinutes + b.DurationHours*timeslot.MinutesPerHour),
		TotalAmountCents: b.TotalAmountCents,
		Status:           b.Status,
		PaymentStatus:    b.PaymentStatus,
		OccurredAt:       h.Clock.Now().UTC().Format(time.RFC3339),
	}
	if b.UserID != nil {
		ev.UserID = *b.UserID
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = queue_publisher.PublishBookingEvent(ctx, ev)
	}()
}
