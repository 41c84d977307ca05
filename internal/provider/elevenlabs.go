package provider

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"truthscan/internal/model"
)

// ElevenLabs calls the speech-classifier endpoint. The endpoint is not part of
// the public API surface, so a 404/405 answer means "feature not available"
// and is handled like any other unavailability.
type ElevenLabs struct {
	apiKey string
	url    string
	client *http.Client
}

func NewElevenLabs(apiKey, url string) *ElevenLabs {
	return &ElevenLabs{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *ElevenLabs) Name() string {
	return "ElevenLabs AI Speech Classifier"
}

// elevenLabsResponse tolerates both field spellings seen in the wild.
type elevenLabsResponse struct {
	Probability   *float64 `json:"probability"`
	AIProbability *float64 `json:"ai_probability"`
}

// Detect uploads the audio and extracts the speech-classifier probability.
func (e *ElevenLabs) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	body, contentType, err := multipartBody("file", req.Filename, req.ContentType, req.Data)
	if err != nil {
		log.Printf("[ElevenLabs] failed to build request body: %v", err)
		return Result{}, false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, body)
	if err != nil {
		log.Printf("[ElevenLabs] failed to create request: %v", err)
		return Result{}, false
	}
	httpReq.Header.Set("xi-api-key", e.apiKey)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		log.Printf("[ElevenLabs] request failed: %v", err)
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusMethodNotAllowed {
		log.Printf("[ElevenLabs] detection endpoint unavailable; using fallback")
		return Result{}, false
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[ElevenLabs] unexpected status %d", resp.StatusCode)
		return Result{}, false
	}

	var parsed elevenLabsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[ElevenLabs] failed to parse response: %v", err)
		return Result{}, false
	}

	switch {
	case parsed.Probability != nil:
		return Result{Score: *parsed.Probability}, true
	case parsed.AIProbability != nil:
		return Result{Score: *parsed.AIProbability}, true
	default:
		log.Printf("[ElevenLabs] response carried no probability field")
		return Result{}, false
	}
}
