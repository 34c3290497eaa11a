// Package handler implements the HTTP surface of the booking engine.  All
// responses share the JSON envelope {success, data, message}; message is
// set on failures and on notable successes so booking UIs can surface it
// directly.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hafizalkariem/rental-ps-server/internal/repository"
	"github.com/hafizalkariem/rental-ps-server/internal/timeslot"
)

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func respondOK(c echo.Context, code int, data any) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondErr(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: false, Message: msg})
}

// respondRepoErr maps the repository error taxonomy onto HTTP responses.
// ConflictError carries the colliding interval so the UI can re-render
// availability without another round trip.
func respondRepoErr(c echo.Context, err error) error {
	var conflict *repository.ConflictError
	switch {
	case errors.As(err, &conflict):
		return c.JSON(http.StatusConflict, envelope{
			Success: false,
			Message: "the requested slot is already booked",
			Data: echo.Map{
				"resource_id":  conflict.ConsoleStationID,
				"booking_date": conflict.BookingDate,
				"requested":    echo.Map{"start": timeslot.Clock(conflict.Requested.Start), "end": timeslot.Clock(conflict.Requested.End)},
				"conflicting":  echo.Map{"start": timeslot.Clock(conflict.Existing.Start), "end": timeslot.Clock(conflict.Existing.End)},
			},
		})
	case errors.Is(err, repository.ErrNotFound):
		return respondErr(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrForbidden):
		return respondErr(c, http.StatusForbidden, "forbidden")
	case errors.Is(err, repository.ErrConflict):
		return respondErr(c, http.StatusConflict, "operation conflicts with existing records")
	case errors.Is(err, repository.ErrInvalidTransition):
		return respondErr(c, http.StatusUnprocessableEntity, "status transition not allowed")
	case errors.Is(err, repository.ErrResourceUnavailable):
		return respondErr(c, http.StatusUnprocessableEntity, "resource is not bookable")
	case repository.Retryable(err):
		// retries already exhausted by the caller; same request is safe once more
		return respondErr(c, http.StatusServiceUnavailable, "temporary contention, please retry")
	}
	return respondErr(c, http.StatusInternalServerError, "internal error")
}

// getUserID extracts the authenticated user id stored by the JWT
// middleware.  jwt MapClaims decode numbers as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

func isAdmin(c echo.Context) bool {
	role, _ := c.Get("role").(string)
	return role == "ADMIN"
}

func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
