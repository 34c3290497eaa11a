package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/clock"
	"github.com/hafizalkariem/rental-ps-server/internal/config"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

func testBookingHandler() *BookingHandler {
	cfg := config.Config{OpenHour: 10, CloseHour: 22}
	clk := clock.Fixed{T: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	return NewBookingHandler(cfg, nil, nil, nil, clk, time.UTC)
}

func newTestCtx(t *testing.T, body string, role string, uid uint64) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewRequestValidator()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set("role", role)
	c.Set("user_id", uid)
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return env
}

func TestCreateBookingRejectsPastDate(t *testing.T) {
	h := testBookingHandler()
	body := `{"resource_id":1,"booking_date":"2026-03-09","start_time":"14:00","duration_hours":2}`
	c, rec := newTestCtx(t, body, "CUSTOMER", 7)

	if err := h.Create(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Success {
		t.Fatal("expected success=false")
	}
}

func TestCreateBookingOutsideOperatingHours(t *testing.T) {
	h := testBookingHandler()
	cases := []string{
		`{"resource_id":1,"booking_date":"2026-03-11","start_time":"09:00","duration_hours":1}`,
		`{"resource_id":1,"booking_date":"2026-03-11","start_time":"21:00","duration_hours":2}`,
	}
	for _, body := range cases {
		c, rec := newTestCtx(t, body, "CUSTOMER", 7)
		if err := h.Create(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateBookingDurationBounds(t *testing.T) {
	h := testBookingHandler()
	for _, body := range []string{
		`{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":0}`,
		`{"resource_id":1,"booking_date":"2026-03-11","start_time":"10:00","duration_hours":13}`,
	} {
		c, rec := newTestCtx(t, body, "CUSTOMER", 7)
		if err := h.Create(c); err != nil {
			t.Fatalf("handler returned error: %v", err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %s: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCreateBookingRejectsOffHourStart(t *testing.T) {
	h := testBookingHandler()
	body := `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:30","duration_hours":1}`
	c, rec := newTestCtx(t, body, "CUSTOMER", 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBookingCustomerCannotUseWalkInFields(t *testing.T) {
	h := testBookingHandler()
	body := `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":1,"customer_name":"Joko","customer_phone":"0812"}`
	c, rec := newTestCtx(t, body, "CUSTOMER", 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestCreateBookingCustomerCannotBookForOthers(t *testing.T) {
	h := testBookingHandler()
	body := `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":1,"user_id":99}`
	c, rec := newTestCtx(t, body, "CUSTOMER", 7)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestCreateBookingAdminExactlyOnePayer(t *testing.T) {
	h := testBookingHandler()
	cases := []struct {
		name string
		body string
	}{
		{"both", `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":1,"user_id":5,"customer_name":"Joko","customer_phone":"0812"}`},
		{"neither", `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":1}`},
		{"walk-in without phone", `{"resource_id":1,"booking_date":"2026-03-11","start_time":"14:00","duration_hours":1,"customer_name":"Joko"}`},
	}
	for _, tc := range cases {
		c, rec := newTestCtx(t, tc.body, "ADMIN", 1)
		if err := h.Create(c); err != nil {
			t.Fatalf("%s: handler returned error: %v", tc.name, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestRespondRepoErrConflictCarriesIntervals(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/bookings", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := respondRepoErr(c, &repository.ConflictError{
		ConsoleStationID: 3,
		BookingDate:      "2026-03-11",
		Requested:        timeslot.New(14*60, 2),
		Existing:         timeslot.New(15*60, 1),
		ExistingID:       42,
	})
	if err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{`"15:00"`, `"16:00"`, `"14:00"`, `"2026-03-11"`} {
		if !strings.Contains(body, want) {
			t.Errorf("conflict payload missing %s: %s", want, body)
		}
	}
}

func TestRespondRepoErrMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{repository.ErrNotFound, http.StatusNotFound},
		{repository.ErrForbidden, http.StatusForbidden},
		{repository.ErrConflict, http.StatusConflict},
		{repository.ErrInvalidTransition, http.StatusUnprocessableEntity},
		{repository.ErrResourceUnavailable, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		e := echo.New()
		rec := httptest.NewRecorder()
		c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
		if err := respondRepoErr(c, tc.err); err != nil {
			t.Fatalf("respond failed: %v", err)
		}
		if rec.Code != tc.want {
			t.Errorf("%v: status = %d, want %d", tc.err, rec.Code, tc.want)
		}
	}
}
