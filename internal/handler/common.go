package handler // handler defines http handlers

import (
	"errors"  // errors provides sentinel values used by the claim helpers
	"strconv" // strconv converts strings to numeric types
	"strings" // strings provides trimming and case helpers

	"github.com/labstack/echo/v4" // echo defines request context types
)

// getUserID extracts the user_id from echo.Context and converts it to uint64.
// JWT claims pass through encoding/json, so numbers arrive as float64; the
// type switch also accepts the other shapes tests and middleware may set.
func getUserID(c echo.Context) (uint64, error) {
	return contextUint(c.Get("user_id"), "user_id")
}

// getTenantID extracts the tenant_id claim from echo.Context.
func getTenantID(c echo.Context) (uint64, error) {
	return contextUint(c.Get("tenant_id"), "tenant_id")
}

func contextUint(v interface{}, name string) (uint64, error) {
	switch t := v.(type) {
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
	return 0, errors.New("invalid " + name + " in context")
}

// pathID parses a numeric :id style path parameter.
func pathID(c echo.Context, name string) (uint64, error) {
	raw := strings.TrimSpace(c.Param(name))
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || n == 0 {
		return 0, errors.New("invalid " + name)
	}
	return n, nil
}
