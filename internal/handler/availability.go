package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/availability"
	"github.com/hafizalkariem/rental-ps-server/internal/cache"
	"github.com/hafizalkariem/rental-ps-server/internal/config"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
)

// AvailabilityHandler renders the per-hour occupancy grid and the raw
// occupied intervals for a date.  Both are public reads; neither mutates.
type AvailabilityHandler struct {
	Cfg       config.Config
	Bookings  *repository.BookingRepo
	Resources *repository.ResourceRepo
	Cache     *cache.Cache
	Loc       *time.Location
}

func NewAvailabilityHandler(cfg config.Config, b *repository.BookingRepo, r *repository.ResourceRepo,
	ch *cache.Cache, loc *time.Location) *AvailabilityHandler {
	return &AvailabilityHandler{Cfg: cfg, Bookings: b, Resources: r, Cache: ch, Loc: loc}
}

type gridResp struct {
	Date      string                      `json:"date"`
	OpenHour  int                         `json:"open_hour"`
	CloseHour int                         `json:"close_hour"`
	Resources []availability.ResourceGrid `json:"resources"`
}

// Grid returns the hourly availability grid for a date, optionally
// narrowed to one resource.  The full-floor grid is cached per date;
// resource filtering is applied after the cache so one key serves every
// variant of the query.
func (h *AvailabilityHandler) Grid(c echo.Context) error {
	date, err := h.parseDate(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var resourceID uint64
	if v := c.QueryParam("resource_id"); v != "" {
		resourceID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "invalid resource_id")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	resp, err := h.grid(ctx, date)
	if err != nil {
		return respondRepoErr(c, err)
	}
	if resourceID != 0 {
		filtered := resp.Resources[:0:0]
		for _, row := range resp.Resources {
			if row.ResourceID == resourceID {
				filtered = append(filtered, row)
			}
		}
		resp.Resources = filtered
	}
	return respondOK(c, http.StatusOK, resp)
}

// Occupied returns the raw non-terminal intervals booked on a date, the
// form booking clients use for conflict pre-checks.  The answer is
// advisory; the authoritative check happens inside booking creation.
func (h *AvailabilityHandler) Occupied(c echo.Context) error {
	date, err := h.parseDate(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "date must be YYYY-MM-DD")
	}
	var resourceID uint64
	if v := c.QueryParam("resource_id"); v != "" {
		resourceID, err = strconv.ParseUint(v, 10, 64)
		if err != nil {
			return respondErr(c, http.StatusBadRequest, "invalid resource_id")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	occupied, err := h.Bookings.ListOccupied(ctx, date, resourceID)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, echo.Map{
		"date":     date.Format("2006-01-02"),
		"occupied": occupied,
	})
}

func (h *AvailabilityHandler) parseDate(c echo.Context) (time.Time, error) {
	v := c.QueryParam("date")
	if v == "" {
		return time.Time{}, echo.ErrBadRequest
	}
	return time.ParseInLocation("2006-01-02", v, h.Loc)
}

// grid renders the full-floor grid for a date, serving from the per-date
// cache when possible.
func (h *AvailabilityHandler) grid(ctx context.Context, date time.Time) (gridResp, error) {
	if payload, ok := h.Cache.Get(ctx, date); ok {
		var resp gridResp
		if err := json.Unmarshal(payload, &resp); err == nil {
			return resp, nil
		}
	}

	resources, err := h.Resources.List(ctx)
	if err != nil {
		return gridResp{}, err
	}
	occupied, err := h.Bookings.ListOccupied(ctx, date, 0)
	if err != nil {
		return gridResp{}, err
	}
	resp := gridResp{
		Date:      date.Format("2006-01-02"),
		OpenHour:  h.Cfg.OpenHour,
		CloseHour: h.Cfg.CloseHour,
		Resources: availability.Project(resources, occupied, h.Cfg.OpenHour, h.Cfg.CloseHour),
	}
	if payload, err := json.Marshal(resp); err == nil {
		h.Cache.Set(ctx, date, payload)
	}
	return resp, nil
}
