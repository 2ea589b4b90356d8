package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/nexusfeed/backend/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"validation", &services.ValidationError{Msg: "content is required"}, http.StatusBadRequest, "content is required"},
		{"not found", &services.NotFoundError{Msg: "post not found"}, http.StatusNotFound, "post not found"},
		{"forbidden", &services.ForbiddenError{Msg: "not yours"}, http.StatusForbidden, "not yours"},
		{"conflict", &services.ConflictError{Msg: "post already liked"}, http.StatusBadRequest, "post already liked"},
		{"store", &services.StoreError{Err: errors.New("disk on fire")}, http.StatusInternalServerError, "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := httpError(tc.err)
			var httpErr *echo.HTTPError
			require.ErrorAs(t, err, &httpErr)
			assert.Equal(t, tc.wantStatus, httpErr.Code)
			assert.Equal(t, tc.wantMsg, httpErr.Message)
		})
	}
}
