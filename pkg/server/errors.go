package server

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"

	"charforge/pkg/provider"
	"charforge/pkg/utils"
)

const defaultRetryAfter = "60"

// apiError is rendered as {error, details?, retry_after?} plus any Extra fields.
type apiError struct {
	Status     int
	Message    string
	Details    any
	RetryAfter string
	Extra      map[string]any
}

func (e *apiError) Error() string {
	if e.Details != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Details)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *apiError) body() map[string]any {
	out := make(map[string]any, len(e.Extra)+3)
	for k, v := range e.Extra {
		out[k] = v
	}
	out["error"] = e.Message
	if e.Details != nil {
		out["details"] = e.Details
	}
	if e.RetryAfter != "" {
		out["retry_after"] = e.RetryAfter
	}
	return out
}

func badRequest(msg string) *apiError {
	return &apiError{Status: http.StatusBadRequest, Message: msg}
}

// configError reports a missing provider credential. It is raised before any
// network call is made and carries kind=configuration so callers can tell it
// apart from a bad request body.
func configError(service string) *apiError {
	return &apiError{
		Status:  http.StatusBadRequest,
		Message: service + " API key not configured",
		Extra:   map[string]any{"kind": "configuration"},
	}
}

// handleError renders every failure, including echo's own, in the envelope.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	var apiErr *apiError
	var he *echo.HTTPError
	switch {
	case errors.As(err, &apiErr):
	case errors.As(err, &he):
		apiErr = &apiError{Status: he.Code, Message: fmt.Sprint(he.Message)}
	default:
		apiErr = &apiError{Status: http.StatusInternalServerError, Message: "internal server error", Details: err.Error()}
	}

	if apiErr.Status >= http.StatusInternalServerError {
		requestLogger(c).Error("request failed", "status", apiErr.Status, "error", apiErr.Message, "details", apiErr.Details)
	}

	if apiErr.RetryAfter != "" {
		c.Response().Header().Set("Retry-After", apiErr.RetryAfter)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(apiErr.Status)
	} else {
		err = c.JSON(apiErr.Status, apiErr.body())
	}
	if err != nil {
		log.Error("failed to write error response", "error", err)
	}
}

// classifyFailure applies the shared provider error policy: a cold-start
// envelope or 429/5xx become 503 with a retry hint, and 401/403 pass through.
// It returns nil for failures the caller must classify itself.
func classifyFailure(service string, resp *provider.Response) *apiError {
	if retry, ok := loadingRetryAfter(resp); ok {
		return &apiError{
			Status:     http.StatusServiceUnavailable,
			Message:    service + " model is loading. Please try again shortly.",
			RetryAfter: retry,
		}
	}
	if resp.OK() {
		return nil
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError:
		retry := resp.RetryAfter
		if retry == "" {
			retry = defaultRetryAfter
		}
		return &apiError{
			Status:     http.StatusServiceUnavailable,
			Message:    service + " service temporarily unavailable. Please try again later.",
			RetryAfter: retry,
		}
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &apiError{
			Status:  resp.StatusCode,
			Message: service + " provider rejected the request",
			Details: providerDetail(resp),
		}
	}
	return nil
}

// loadingRetryAfter detects the cold-start envelope {"estimated_time": 12.4}
// and rounds the estimate up to whole seconds.
func loadingRetryAfter(resp *provider.Response) (string, bool) {
	fields, ok := resp.Fields()
	if !ok {
		return "", false
	}
	est, ok := fields["estimated_time"].(float64)
	if !ok {
		return "", false
	}
	secs := max(int(math.Ceil(est)), 1)
	return strconv.Itoa(secs), true
}

// providerDetail extracts the most specific error text a provider sent.
func providerDetail(resp *provider.Response) any {
	fields, ok := resp.Fields()
	if !ok {
		return utils.LimitStr(resp.Text(), 500)
	}
	for _, key := range []string{"detail", "error", "message"} {
		if v, ok := fields[key]; ok && v != nil {
			if m, ok := v.(map[string]any); ok && m["message"] != nil {
				return m["message"]
			}
			return v
		}
	}
	return fields
}
