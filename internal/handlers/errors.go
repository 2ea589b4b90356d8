package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/services"
)

// httpError maps service-layer errors onto HTTP statuses. Store failures get
// a generic message; the details stay server-side.
func httpError(err error) error {
	var (
		validationErr *services.ValidationError
		notFoundErr   *services.NotFoundError
		forbiddenErr  *services.ForbiddenError
		conflictErr   *services.ConflictError
		storeErr      *services.StoreError
	)
	switch {
	case errors.As(err, &validationErr):
		return echo.NewHTTPError(http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &notFoundErr):
		return echo.NewHTTPError(http.StatusNotFound, notFoundErr.Msg)
	case errors.As(err, &forbiddenErr):
		return echo.NewHTTPError(http.StatusForbidden, forbiddenErr.Msg)
	case errors.As(err, &conflictErr):
		return echo.NewHTTPError(http.StatusBadRequest, conflictErr.Msg)
	case errors.As(err, &storeErr):
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal server error")
	}
}
