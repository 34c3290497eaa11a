package handler

import (
	"database/sql"
	"net/http"

	"github.com/labstack/echo/v4"
)

// HealthHandler reports process liveness and database reachability.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{DB: db}
}

func (h *HealthHandler) Health(c echo.Context) error {
	if err := h.DB.PingContext(c.Request().Context()); err != nil {
		return respondErr(c, http.StatusServiceUnavailable, "database unreachable")
	}
	return respondOK(c, http.StatusOK, echo.Map{"status": "ok"})
}
