package handler

import (
	"net/http" // status codes and response helpers

	"github.com/labstack/echo/v4" // web framework
)

// Health is the liveness endpoint used by load balancers and
// monitoring to verify the service is running.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
