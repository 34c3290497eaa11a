package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/model"
	"github.com/hafizalkariem/rental-ps-server/internal/repository"
)

// CatalogHandler owns the console, station and console-station pairing
// endpoints.  Writes are staff-only at the routing layer; listings are
// public so booking UIs can render the floor without a session.
type CatalogHandler struct {
	Consoles  *repository.ConsoleRepo
	Stations  *repository.StationRepo
	Resources *repository.ResourceRepo
}

func NewCatalogHandler(c *repository.ConsoleRepo, s *repository.StationRepo, r *repository.ResourceRepo) *CatalogHandler {
	return &CatalogHandler{Consoles: c, Stations: s, Resources: r}
}

func catalogCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), 5*time.Second)
}

// ----- consoles -----

type consoleReq struct {
	Name            string `json:"name" validate:"required,min=1,max=100"`
	Type            string `json:"type" validate:"required"`
	HourlyRateCents uint32 `json:"hourly_rate_cents" validate:"required,gt=0"`
	Status          string `json:"status"`
	IsActive        *bool  `json:"is_active"`
}

func (h *CatalogHandler) CreateConsole(c echo.Context) error {
	var req consoleReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "name, type and hourly_rate_cents are required")
	}
	if !model.ValidConsoleType(req.Type) {
		return respondErr(c, http.StatusBadRequest, "type must be ps5, ps4 or ps3")
	}
	if req.Status == "" {
		req.Status = model.ConsoleStatusAvailable
	}
	if !model.ValidConsoleStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "unknown console status")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	con := model.Console{
		Name:            req.Name,
		Type:            req.Type,
		HourlyRateCents: req.HourlyRateCents,
		Status:          req.Status,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
	if err := h.Consoles.Create(ctx, &con); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusCreated, con)
}

func (h *CatalogHandler) ListConsoles(c echo.Context) error {
	ctx, cancel := catalogCtx(c)
	defer cancel()

	list, err := h.Consoles.List(ctx)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, list)
}

func (h *CatalogHandler) GetConsole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	con, err := h.Consoles.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, con)
}

func (h *CatalogHandler) UpdateConsole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req consoleReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "name, type and hourly_rate_cents are required")
	}
	if !model.ValidConsoleType(req.Type) {
		return respondErr(c, http.StatusBadRequest, "type must be ps5, ps4 or ps3")
	}
	if req.Status != "" && !model.ValidConsoleStatus(req.Status) {
		return respondErr(c, http.StatusBadRequest, "unknown console status")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	con, err := h.Consoles.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	con.Name = req.Name
	con.Type = req.Type
	con.HourlyRateCents = req.HourlyRateCents
	if req.Status != "" {
		con.Status = req.Status
	}
	if req.IsActive != nil {
		con.IsActive = *req.IsActive
	}
	if err := h.Consoles.Update(ctx, con); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, con)
}

func (h *CatalogHandler) DeleteConsole(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	if err := h.Consoles.Delete(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return respondErr(c, http.StatusConflict, "console still has live bookings")
		}
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, echo.Map{"deleted": id})
}

// ----- stations -----

type stationReq struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Location string `json:"location"`
	IsActive *bool  `json:"is_active"`
}

func (h *CatalogHandler) CreateStation(c echo.Context) error {
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	st := model.Station{
		Name:     req.Name,
		Location: req.Location,
		IsActive: req.IsActive == nil || *req.IsActive,
	}
	if err := h.Stations.Create(ctx, &st); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusCreated, st)
}

func (h *CatalogHandler) ListStations(c echo.Context) error {
	ctx, cancel := catalogCtx(c)
	defer cancel()

	list, err := h.Stations.List(ctx)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, list)
}

func (h *CatalogHandler) GetStation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	st, err := h.Stations.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, st)
}

func (h *CatalogHandler) UpdateStation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req stationReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "name is required")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	st, err := h.Stations.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	st.Name = req.Name
	st.Location = req.Location
	if req.IsActive != nil {
		st.IsActive = *req.IsActive
	}
	if err := h.Stations.Update(ctx, st); err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, st)
}

func (h *CatalogHandler) DeleteStation(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	if err := h.Stations.Delete(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return respondErr(c, http.StatusConflict, "station still has live bookings")
		}
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, echo.Map{"deleted": id})
}

// ----- console-station pairings -----

type assignReq struct {
	ConsoleID uint64 `json:"console_id" validate:"required"`
	StationID uint64 `json:"station_id" validate:"required"`
	IsActive  *bool  `json:"is_active"`
}

// AssignResource pairs a console with a station, creating the reservable
// resource the ledger books against.
func (h *CatalogHandler) AssignResource(c echo.Context) error {
	var req assignReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}
	if err := c.Validate(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "console_id and station_id are required")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	if _, err := h.Consoles.GetByID(ctx, req.ConsoleID); err != nil {
		if err == repository.ErrNotFound {
			return respondErr(c, http.StatusNotFound, "console not found")
		}
		return respondRepoErr(c, err)
	}
	if _, err := h.Stations.GetByID(ctx, req.StationID); err != nil {
		if err == repository.ErrNotFound {
			return respondErr(c, http.StatusNotFound, "station not found")
		}
		return respondRepoErr(c, err)
	}

	cs := model.ConsoleStation{
		ConsoleID: req.ConsoleID,
		StationID: req.StationID,
		IsActive:  req.IsActive == nil || *req.IsActive,
	}
	if err := h.Resources.Assign(ctx, &cs); err != nil {
		if err == repository.ErrConflict {
			return respondErr(c, http.StatusConflict, "console is already assigned to that station")
		}
		return respondRepoErr(c, err)
	}

	res, err := h.Resources.GetByID(ctx, cs.ID)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusCreated, res)
}

func (h *CatalogHandler) ListResources(c echo.Context) error {
	ctx, cancel := catalogCtx(c)
	defer cancel()

	list, err := h.Resources.List(ctx)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, list)
}

func (h *CatalogHandler) GetResource(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, res)
}

type setActiveReq struct {
	IsActive bool `json:"is_active"`
}

// SetResourceActive toggles a pairing without touching its bookings.
func (h *CatalogHandler) SetResourceActive(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	var req setActiveReq
	if err := c.Bind(&req); err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := catalogCtx(c)
	defer cancel()

	if err := h.Resources.SetActive(ctx, id, req.IsActive); err != nil {
		return respondRepoErr(c, err)
	}
	res, err := h.Resources.GetByID(ctx, id)
	if err != nil {
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, res)
}

// UnassignResource removes a pairing; pairings holding live bookings are
// refused.
func (h *CatalogHandler) UnassignResource(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return respondErr(c, http.StatusBadRequest, "invalid id")
	}
	ctx, cancel := catalogCtx(c)
	defer cancel()

	if err := h.Resources.Unassign(ctx, id); err != nil {
		if err == repository.ErrConflict {
			return respondErr(c, http.StatusConflict, "resource still has live bookings")
		}
		return respondRepoErr(c, err)
	}
	return respondOK(c, http.StatusOK, echo.Map{"deleted": id})
}
