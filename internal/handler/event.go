package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

// EventHandler owns the tournament/promo calendar endpoints.  Listings
// are public; everything that writes is staff-only at the routing layer.
type EventHandler struct {
	Events *repository.EventRepo
	Loc    *time.Location
}

func NewEventHandler(e *repository.EventRepo, loc *time.Location) *EventHandler {
	return &EventHandler{Events: e, Loc: loc}
}

type eventReq struct {
	Title           string `json:"title" validate:"required,min=1,max=200"`
	Description     string `json:"description"`
	Type            string `json:"type" validate:"required,min=1,max=50"`
	EventDate       string `json:"event_date" validate:"required"` // YYYY-MM-DD
	Start           string `json:"start" validate:"required"`      // HH:MM
	End             string `json:"end" validate:"required"`        // HH:MM
	MaxParticipants uint32 `json:"max_participants"`
	EntryFeeCents   uint32 `json:"entry_fee_cents"`
	PrizePoolCents  uint32 `json:"prize_pool_cents"`
	IsFeatured      bool   `json:"is_featured"`
}

type eventResp struct {
	ID              uint64 `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	Type            string `json:"type"`
	EventDate       string `json:"event_date"`
	Start           string `json:"start"`
	End             string `json:"end"`
	MaxParticipants uint32 `json:"max_participants"`
	EntryFeeCents   uint32 `json:"entry_fee_cents"`
	PrizePoolCents  uint32 `json:"prize_pool_cents"`
	Status          string `json:"status"`
	IsFeatured      bool   `json:"is_featured"`
}

func toEventResp(e model.Event) eventResp {
	return eventResp{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Type:            e.Type,
		EventDate:       e.EventDate.Format("2006-01-02"),
		Start:           timeslot.Clock(e.StartMinutes),
		End:             timeslot.Clock(e.EndMinutes),
		MaxParticipants: e.MaxParticipants,
		EntryFeeCents:   e.EntryFeeCents,
		PrizePoolCents:  e.PrizePoolCents,
		Status:          e.Status,
		IsFeatured:      e.IsFeatured,
	}
}

func (h *EventHandler) bindEvent(c echo.Context, e *model.Event) error {
	var req eventReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "title, type, event_date, start and end are required")
	}
	date, err := time.ParseInLocation("2006-01-02", req.EventDate, h.Loc)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "event_date must be YYYY-MM-DD")
	}
	start, err := timeslot.ParseClock(req.Start)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "start must be HH:MM")
	}
	end, err := timeslot.ParseClock(req.End)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "end must be HH:MM")
	}
	if end <= start {
		return respondErr(c, http.StatusBadRequest, "end must be after start")
	}
	e.Title = req.Title
	e.Description = req.Description
	e.Type = req.Type
	e.EventDate = date
	e.StartMinutes = start
	e.EndMinutes = end
	e.MaxParticipants = req.MaxParticipants
	e.EntryFeeCents = req.EntryFeeCents
	e.PrizePoolCents = req.PrizePoolCents
	e.IsFeatured = req.IsFeatured
	return nil
}

// Create adds a calendar event.  New events always start upcoming; the
// sweep moves them on from there.
func (h *EventHandler) Create(c echo.Context) error {
	var e model.Event
	if err := h.bindEvent(c, &e); err != nil {
		return err
	}
	e.Status = model.EventStatusUpcoming

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Create(ctx, &e); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusCreated, toEventResp(e))
}

// List returns events, optionally filtered by status or featured flag.
func (h *EventHandler) List(c echo.Context) error {
	status := c.QueryParam("status")
	if status != "" && !model.ValidEventStatus(status) {
		return respondErr(c, http.StatusBadRequest, "unknown status")
	}
	featured := c.QueryParam("featured") == "true"

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Events.List(ctx, status, featured)
	if err != nil {
		return respondRepoErr(c, err)
	}
	out := make([]eventResp, 0, len(list))
	for _, e := range list {
		out = append(out, toEventResp(e))
	}
	return respondOK(c, http.StatusOK, out)
}

func (h *EventHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, toEventResp(e))
}

// Update rewrites the schedule and content of an event; status changes go
// through UpdateStatus.
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if err := h.bindEvent(c, &e); err != nil {
		return err
	}
	if err := h.Events.Update(ctx, e); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, toEventResp(e))
}

type eventStatusReq struct {
	Status string `json:"status" validate:"required"`
}

// UpdateStatus applies an explicit staff status change, validated against
// the event lifecycle.
func (h *EventHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req eventStatusReq
	if err := c.Bind(&req); err != nil || req.Status == "" {
		return respondErr(c, http.StatusBadRequest, "status required")
	}
	if !model.ValidEventStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "unknown status")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	e, err := h.Events.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, toEventResp(e))
}

func (h *EventHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Events.Delete(ctx, id); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, echo.Map{"deleted": id})
}
