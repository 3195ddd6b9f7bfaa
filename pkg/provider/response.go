// Package provider holds the transport pieces shared by the media provider
// clients: a content-type tagged response and a small HTTP helper.
package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"unicode/utf8"
)

// ErrMissingAPIKey is returned by provider clients constructed without credentials.
var ErrMissingAPIKey = errors.New("provider API key not configured")

// Kind tags how a provider response body should be read.
type Kind int

const (
	KindUnknown Kind = iota
	KindBinary
	KindJSON
)

func (k Kind) String() string {
	switch k {
	case KindBinary:
		return "binary"
	case KindJSON:
		return "json"
	default:
		return "unknown"
	}
}

// Response is a provider reply with its body fully read. The variant is
// decided from the Content-Type header alone; Fields additionally probes
// untagged bodies that happen to be JSON.
type Response struct {
	StatusCode int
	MediaType  string
	RetryAfter string
	Body       []byte

	fields map[string]any
	parsed bool
}

// NewResponse builds a Response from a status, a raw Content-Type header and a body.
func NewResponse(status int, contentType string, header http.Header, body []byte) *Response {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mt = strings.ToLower(strings.TrimSpace(contentType))
	}
	r := &Response{
		StatusCode: status,
		MediaType:  mt,
		Body:       body,
	}
	if header != nil {
		r.RetryAfter = strings.TrimSpace(header.Get("Retry-After"))
	}
	return r
}

// Kind classifies the response: binary for the given major media types
// (e.g. "image", "audio"), JSON for JSON media types, unknown otherwise.
func (r *Response) Kind(binaryMajor ...string) Kind {
	major, _, _ := strings.Cut(r.MediaType, "/")
	for _, m := range binaryMajor {
		if major == m {
			return KindBinary
		}
	}
	if r.MediaType == "application/json" || strings.HasSuffix(r.MediaType, "+json") {
		return KindJSON
	}
	return KindUnknown
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Fields parses the body as a UTF-8 JSON object. It returns false when the
// body is not valid UTF-8 or not a JSON object, whatever the content type.
func (r *Response) Fields() (map[string]any, bool) {
	if !r.parsed {
		r.parsed = true
		body := bytes.TrimSpace(r.Body)
		if len(body) > 0 && utf8.Valid(body) {
			var m map[string]any
			if err := json.Unmarshal(body, &m); err == nil && m != nil {
				r.fields = m
			}
		}
	}
	return r.fields, r.fields != nil
}

// Text returns the body as a string, for error details.
func (r *Response) Text() string {
	if !utf8.Valid(r.Body) {
		return fmt.Sprintf("<%d bytes of %s>", len(r.Body), r.MediaType)
	}
	return string(r.Body)
}

// DataURI encodes the body as a data URI using the response media type, or
// fallback when the response did not carry one.
func (r *Response) DataURI(fallback string) string {
	mt := r.MediaType
	if mt == "" {
		mt = fallback
	}
	return DataURI(mt, base64.StdEncoding.EncodeToString(r.Body))
}

// DataURI formats an already base64-encoded payload as a data URI.
func DataURI(mediaType, b64 string) string {
	return "data:" + mediaType + ";base64," + b64
}

// Do sends req and reads the whole body. Non-2xx statuses are not errors;
// only transport failures are.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*Response, error) {
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}
	return NewResponse(resp.StatusCode, resp.Header.Get("Content-Type"), resp.Header, body), nil
}
