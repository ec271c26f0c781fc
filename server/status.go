package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// startStatus starts the health/status HTTP endpoint in the background and
// returns the echo instance so Run can shut it down.
func (s *Server) startStatus() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/healthz", s.handleHealth)
	e.GET("/status", s.handleStatus)

	go func() {
		s.log.WithField("addr", s.cfg.StatusAddr).Info("Status endpoint listening")
		if err := e.Start(s.cfg.StatusAddr); err != nil && err != http.ErrServerClosed {
			s.log.WithError(err).Error("Status endpoint failed")
		}
	}()

	return e
}

// handleHealth reports process liveness.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// handleStatus reports the poller's progress snapshot.
func (s *Server) handleStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, s.Status())
}
