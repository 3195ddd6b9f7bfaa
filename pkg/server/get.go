package server

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type namer interface {
	Name() string
}

func (s *Server) handleGetRoot(c echo.Context) error {
	text := "none"
	if n, ok := s.Inferencer.(namer); ok {
		text = n.Name()
	} else if s.Inferencer != nil {
		text = "custom"
	}
	return c.JSON(http.StatusOK, map[string]any{
		"service": "Charforge Media API",
		"status":  "ok",
		"providers": map[string]any{
			"text":  text,
			"image": s.Images != nil,
			"voice": s.Voices != nil,
			"music": s.Music != nil,
		},
	})
}
