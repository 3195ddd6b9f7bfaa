package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"charforge/pkg/compose"
	"charforge/pkg/provider"
	"charforge/pkg/provider/elevenlabs"
	"charforge/pkg/schema"
	"charforge/pkg/utils"
)

const (
	voiceService     = "Voice generation"
	previewMediaType = "audio/mpeg"
)

type voiceReq struct {
	CharacterProfile *schema.CharacterProfile `json:"character_profile"`
	Text             *string                  `json:"text"`
}

type voiceOption struct {
	ID               int     `json:"id"`
	Audio            string  `json:"audio"`
	GeneratedVoiceID string  `json:"generated_voice_id"`
	Duration         float64 `json:"duration"`
	Language         string  `json:"language"`
	MediaType        string  `json:"media_type"`
}

// POST /generate-voice
func (s *Server) handlePostVoice(c echo.Context) error {
	logger := requestLogger(c)

	var req voiceReq
	if err := c.Bind(&req); err != nil {
		logger.Warn("invalid JSON in voice request", "error", err)
		return badRequest("Character profile is required")
	}
	if req.CharacterProfile == nil {
		return badRequest("Character profile is required")
	}
	if s.Voices == nil {
		return configError("ElevenLabs")
	}

	var callerText string
	if req.Text != nil {
		callerText = *req.Text
	}
	if n := utils.RuneLen(callerText); n > s.MaxSampleChars {
		return &apiError{
			Status:  http.StatusBadRequest,
			Message: fmt.Sprintf("Text too long. Maximum %d characters allowed.", s.MaxSampleChars),
			Extra: map[string]any{
				"text_length": n,
				"max_length":  s.MaxSampleChars,
			},
		}
	}

	profile := *req.CharacterProfile
	ctx := c.Request().Context()

	// only a failed model call reaches the builder; an empty draft is kept
	chain := compose.Chain[compose.VoiceDraft]{
		{Name: "model", Run: func(ctx context.Context) (compose.VoiceDraft, bool, error) {
			d, err := compose.DraftVoiceDescription(ctx, s.Inferencer, profile)
			return d, err == nil, err
		}},
		compose.Static("builder", func() compose.VoiceDraft {
			return compose.VoiceDraft{
				Description: compose.BuildVoiceDescription(compose.TraitsFromProfile(profile)),
				Language:    profile.Language,
			}
		}),
	}
	draft, source, _ := chain.Run(ctx)

	sample := compose.SelectSampleText(draft.SampleText, callerText, profile, s.MaxSampleChars)
	logger.Info("designing voice", "description_source", source, "sample_chars", utils.RuneLen(sample))

	resp, err := s.Voices.DesignVoice(ctx, draft.Description, sample)
	if err != nil {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate voice",
			Details: err.Error(),
		}
	}
	if apiErr := classifyFailure(voiceService, resp); apiErr != nil {
		return apiErr
	}
	if !resp.OK() {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate voice",
			Details: providerDetail(resp),
		}
	}

	design, err := elevenlabs.DecodeDesign(resp.Body)
	if err != nil || len(design.Previews) == 0 {
		return &apiError{Status: http.StatusInternalServerError, Message: "No voice preview generated"}
	}

	options := make([]voiceOption, len(design.Previews))
	for i, p := range design.Previews {
		options[i] = voiceOption{
			ID:               i + 1,
			Audio:            provider.DataURI(previewMediaType, p.AudioBase64),
			GeneratedVoiceID: p.GeneratedVoiceID,
			Duration:         p.DurationSecs,
			Language:         p.Language,
			MediaType:        p.MediaType,
		}
	}

	textUsed := design.Text
	if textUsed == "" {
		textUsed = sample
	}
	return c.JSON(http.StatusOK, map[string]any{
		"voice_options":          options,
		"total_options":          len(options),
		"text_used":              textUsed,
		"voice_description_used": draft.Description,
	})
}
