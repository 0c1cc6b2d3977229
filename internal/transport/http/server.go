// Package http provides the HTTP server for the assistant hub.
package http

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// NewServer creates and configures the echo server. publicDir is served
// statically when it exists; an empty or missing directory is skipped.
func NewServer(h *Handler, publicDir string) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(cors)

	h.RegisterRoutes(e)

	if publicDir != "" {
		if _, err := os.Stat(publicDir); err == nil {
			e.Static("/", publicDir)
		}
	}

	return e
}

// cors allows browser clients on any origin to call the API. Preflight
// requests are answered directly with 200 and an empty body.
func cors(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		h := c.Response().Header()
		h.Set(echo.HeaderAccessControlAllowOrigin, "*")
		h.Set(echo.HeaderAccessControlAllowMethods, "GET, POST, OPTIONS")
		h.Set(echo.HeaderAccessControlAllowHeaders, echo.HeaderContentType)

		if c.Request().Method == http.MethodOptions {
			return c.NoContent(http.StatusOK)
		}
		return next(c)
	}
}
