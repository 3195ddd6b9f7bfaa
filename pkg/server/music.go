package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"charforge/pkg/provider"
	"charforge/pkg/schema"
)

const (
	musicService   = "Music generation"
	defaultMusicMS = 10000
	maxMusicMS     = 30000
	musicMediaType = "audio/mpeg"
)

// embedded base64 payload keys seen across music API revisions
var musicAudioKeys = []string{"audio_base_64", "audio_base64", "audio", "track_base64"}

type musicReq struct {
	Mood     any `json:"mood"`
	LengthMS any `json:"length_ms"`
}

// musicLength defaults absent or invalid lengths and caps the rest.
func musicLength(v any) int {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || f < 1 {
		return defaultMusicMS
	}
	if f >= maxMusicMS {
		return maxMusicMS
	}
	return int(f)
}

// POST /generate-music
func (s *Server) handlePostMusic(c echo.Context) error {
	logger := requestLogger(c)

	var req musicReq
	if err := c.Bind(&req); err != nil {
		logger.Warn("invalid JSON in music request", "error", err)
		return badRequest("Music mood is required")
	}
	mood, _ := req.Mood.(string)
	mood = strings.TrimSpace(mood)
	if mood == "" {
		return badRequest("Music mood is required")
	}
	if !schema.IsMusicMood(mood) {
		return &apiError{
			Status:  http.StatusBadRequest,
			Message: "Invalid music mood",
			Extra:   map[string]any{"allowed_moods": schema.MusicMoods},
		}
	}
	if s.Music == nil {
		return configError("ElevenLabs")
	}

	prompt := moodPrompts[mood]
	length := musicLength(req.LengthMS)
	logger.Info("composing music", "mood", mood, "length_ms", length)

	resp, err := s.Music.ComposeMusic(c.Request().Context(), prompt, length)
	if err != nil {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate music",
			Details: err.Error(),
		}
	}

	music, err := musicDataURI(resp)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{
		"music":       music,
		"prompt_used": prompt,
		"mood_used":   mood,
	})
}

func musicDataURI(resp *provider.Response) (string, error) {
	if resp.OK() {
		switch resp.Kind("audio") {
		case provider.KindBinary:
			return resp.DataURI(musicMediaType), nil
		case provider.KindJSON:
			fields, _ := resp.Fields()
			for _, key := range musicAudioKeys {
				if b64, ok := fields[key].(string); ok && b64 != "" {
					return provider.DataURI(musicMediaType, b64), nil
				}
			}
			if apiErr := classifyFailure(musicService, resp); apiErr != nil {
				return "", apiErr
			}
			return "", &apiError{
				Status:  http.StatusBadGateway,
				Message: "Music provider returned no audio",
				Details: providerDetail(resp),
			}
		}
	}

	if apiErr := classifyFailure(musicService, resp); apiErr != nil {
		return "", apiErr
	}
	if !resp.OK() {
		return "", &apiError{
			Status:  http.StatusBadGateway,
			Message: "Failed to generate music",
			Details: providerDetail(resp),
		}
	}
	return "", &apiError{
		Status:  http.StatusInternalServerError,
		Message: "Unexpected response from music provider",
		Details: "content-type " + resp.MediaType,
	}
}
