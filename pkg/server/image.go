package server

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"charforge/pkg/compose"
	"charforge/pkg/provider"
	"charforge/pkg/schema"
)

const imageService = "Image generation"

type imageReq struct {
	CharacterProfile *schema.CharacterProfile `json:"character_profile"`
	Options          compose.ImageOptions     `json:"options"`
}

// POST /generate-image
func (s *Server) handlePostImage(c echo.Context) error {
	logger := requestLogger(c)

	var req imageReq
	if err := c.Bind(&req); err != nil {
		logger.Warn("invalid JSON in image request", "error", err)
		return badRequest("Character profile is required")
	}
	if req.CharacterProfile == nil {
		return badRequest("Character profile is required")
	}
	if s.Images == nil {
		return configError("Hugging Face")
	}

	ctx := c.Request().Context()
	prompt := compose.BuildImagePrompt(ctx, s.Inferencer, *req.CharacterProfile, req.Options)
	logger.Info("generating image", "intent", compose.ParseIntent(req.Options.Intent), "prompt_source", prompt.Source)

	resp, err := s.Images.TextToImage(ctx, prompt.Prompt, prompt.NegativePrompt)
	if err != nil {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate image",
			Details: err.Error(),
		}
	}

	if resp.OK() && resp.Kind("image") == provider.KindBinary {
		return c.JSON(http.StatusOK, map[string]any{
			"image":                resp.DataURI("image/png"),
			"prompt_used":          prompt.Prompt,
			"negative_prompt_used": prompt.NegativePrompt,
		})
	}
	return classifyImageFailure(resp)
}

func classifyImageFailure(resp *provider.Response) error {
	if apiErr := classifyFailure(imageService, resp); apiErr != nil {
		return apiErr
	}
	if !resp.OK() {
		return &apiError{
			Status:  http.StatusInternalServerError,
			Message: imageService + " failed",
			Details: providerDetail(resp),
		}
	}
	if fields, ok := resp.Fields(); ok {
		if detail, ok := fields["error"]; ok {
			return &apiError{
				Status:  http.StatusInternalServerError,
				Message: imageService + " failed",
				Details: detail,
			}
		}
	}
	return &apiError{
		Status:  http.StatusInternalServerError,
		Message: "Unexpected response from image provider",
		Details: "content-type " + resp.MediaType,
	}
}
