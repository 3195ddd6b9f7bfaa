package server

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/segmentio/ksuid"

	"charforge/pkg/compose"
	"charforge/pkg/inference"
	"charforge/pkg/provider"
)

// ImageProvider synthesizes an image from a prompt.
type ImageProvider interface {
	TextToImage(ctx context.Context, prompt, negativePrompt string) (*provider.Response, error)
}

// VoiceProvider designs candidate voices from a description and a sample line.
type VoiceProvider interface {
	DesignVoice(ctx context.Context, description, text string) (*provider.Response, error)
}

// MusicProvider composes a track from a prompt.
type MusicProvider interface {
	ComposeMusic(ctx context.Context, prompt string, lengthMS int) (*provider.Response, error)
}

// Options wires the server's collaborators. A nil media provider means its
// credential is missing; the matching endpoint then fails fast.
type Options struct {
	Inferencer     inference.Inferencer
	Images         ImageProvider
	Voices         VoiceProvider
	Music          MusicProvider
	MaxSampleChars int
	CORSOrigins    []string
}

type Server struct {
	Echo       *echo.Echo
	Inferencer inference.Inferencer
	Images     ImageProvider
	Voices     VoiceProvider
	Music      MusicProvider

	MaxSampleChars int
}

func NewServer(opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: func() string { return ksuid.New().String() },
	}))
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	if len(opts.CORSOrigins) > 0 {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: opts.CORSOrigins}))
	} else {
		e.Use(middleware.CORS())
	}

	maxChars := opts.MaxSampleChars
	if maxChars <= 0 {
		maxChars = compose.DefaultMaxSampleChars
	}

	s := &Server{
		Echo:           e,
		Inferencer:     opts.Inferencer,
		Images:         opts.Images,
		Voices:         opts.Voices,
		Music:          opts.Music,
		MaxSampleChars: maxChars,
	}
	e.HTTPErrorHandler = s.handleError

	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.Echo.GET("/", s.handleGetRoot)

	s.Echo.POST("/analyze-character", s.handlePostAnalyze)
	s.Echo.POST("/generate-image", s.handlePostImage)
	s.Echo.POST("/generate-voice", s.handlePostVoice)
	s.Echo.POST("/generate-music", s.handlePostMusic)
}

func (s *Server) Start(addr string) error {
	log.Info("Server listening", "addr", addr)
	return s.Echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	log.Info("Shutting down server...")
	return s.Echo.Shutdown(ctx)
}

// requestLogger tags log lines with the request id set by the middleware.
func requestLogger(c echo.Context) *log.Logger {
	return log.With("request_id", c.Response().Header().Get(echo.HeaderXRequestID), "path", c.Path())
}
