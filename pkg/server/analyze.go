package server

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/openai/openai-go/v3"

	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

type analyzeReq struct {
	Text *string `json:"text"`
}

// POST /analyze-character
func (s *Server) handlePostAnalyze(c echo.Context) error {
	logger := requestLogger(c)

	var req analyzeReq
	if err := c.Bind(&req); err != nil {
		logger.Warn("invalid JSON in analyze request", "error", err)
		return badRequest("Text is required")
	}
	if req.Text == nil || strings.TrimSpace(*req.Text) == "" {
		return badRequest("Text is required")
	}
	if s.Inferencer == nil {
		return configError("Text analysis")
	}

	logger.Info("analyzing character", "chars", utils.RuneLen(*req.Text))
	reply, err := s.Inferencer.Infer(c.Request().Context(), &openai.ChatCompletionNewParams{
		ResponseFormat:      schema.StructuredOutputsResponseFormat(),
		MaxCompletionTokens: openai.Int(800),
		Temperature:         openai.Float(0.3),
	}, analyzePrompt, *req.Text)
	if err != nil {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to analyze character",
			Details: err.Error(),
		}
	}

	obj, ok := utils.ParseObject(reply)
	if !ok {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to parse character profile",
			Details: utils.LimitStr(reply, 200),
		}
	}

	profile := schema.Normalize(obj, *req.Text)
	logger.Info("character analyzed", "gender", profile.Gender, "emotion", profile.Emotion, "music_mood", profile.MusicMood)
	return c.JSON(http.StatusOK, map[string]any{"character_profile": profile})
}
