// Package provider wraps the external AI-content-detection services. Each
// adapter performs one HTTP call, extracts a single AI-probability score from
// the provider-specific response shape, and converts every failure into an
// absent result. Failures never propagate to the caller as errors.
package provider

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"net/textproto"

	"truthscan/internal/model"
)

// Result is one provider's answer: an AI probability in [0,1] plus any
// provider-specific advisory signals derived from its raw response.
type Result struct {
	Score   float64
	Signals []model.Signal
}

// Detector is the common capability every provider adapter implements. The
// boolean reports availability: false means the provider was unreachable,
// returned an unusable payload, or declined the request. There are no partial
// or error states beyond this.
type Detector interface {
	Name() string
	Detect(ctx context.Context, req model.DetectionRequest) (Result, bool)
}

// Chain is a ranked provider list. Detectors are attempted in priority order
// and the first available score wins. The chain never retries.
type Chain struct {
	detectors []Detector
}

// NewChain builds a chain from already-configured detectors, in priority order.
func NewChain(detectors ...Detector) *Chain {
	return &Chain{detectors: detectors}
}

// Empty reports whether no provider is configured at all.
func (c *Chain) Empty() bool {
	return len(c.detectors) == 0
}

// Primary returns the display name of the highest-priority detector, or "" for
// an empty chain.
func (c *Chain) Primary() string {
	if len(c.detectors) == 0 {
		return ""
	}
	return c.detectors[0].Name()
}

// Detect tries each detector in order and returns the first available result
// together with the winning detector's name. On total exhaustion the returned
// name is the last detector attempted, so callers can still attribute the
// failure.
func (c *Chain) Detect(ctx context.Context, req model.DetectionRequest) (Result, string, bool) {
	name := ""
	for _, d := range c.detectors {
		name = d.Name()
		if res, ok := d.Detect(ctx, req); ok {
			return res, name, true
		}
		log.Printf("[Chain] %s unavailable, trying next provider", name)
	}
	return Result{}, name, false
}

// multipartBody packages one file upload the way the moderation APIs expect:
// a single form part carrying the media bytes with its declared content type.
func multipartBody(field, filename, contentType string, data []byte) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("failed to write form part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
