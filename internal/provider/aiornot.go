package provider

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"truthscan/internal/model"
)

// AIOrNot calls the AI-or-Not image report API for images and video frames.
type AIOrNot struct {
	apiKey string
	url    string
	client *http.Client
}

func NewAIOrNot(apiKey, url string) *AIOrNot {
	return &AIOrNot{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (a *AIOrNot) Name() string {
	return "AI-or-Not"
}

// aiOrNotResponse mirrors the report payload. The confidence is reported on a
// 0-100 scale; pointers distinguish a genuine zero from a missing field.
type aiOrNotResponse struct {
	Report struct {
		AI *struct {
			Confidence *float64 `json:"confidence"`
		} `json:"ai"`
	} `json:"report"`
}

// Detect uploads the image and extracts the AI confidence, rescaled to [0,1].
func (a *AIOrNot) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	body, contentType, err := multipartBody("object", req.Filename, req.ContentType, req.Data)
	if err != nil {
		log.Printf("[AI-or-Not] failed to build request body: %v", err)
		return Result{}, false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.url, body)
	if err != nil {
		log.Printf("[AI-or-Not] failed to create request: %v", err)
		return Result{}, false
	}
	httpReq.Header.Set("Authorization", "Bearer "+a.apiKey)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := a.client.Do(httpReq)
	if err != nil {
		log.Printf("[AI-or-Not] request failed: %v", err)
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[AI-or-Not] unexpected status %d", resp.StatusCode)
		return Result{}, false
	}

	var parsed aiOrNotResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[AI-or-Not] failed to parse response: %v", err)
		return Result{}, false
	}
	if parsed.Report.AI == nil || parsed.Report.AI.Confidence == nil {
		log.Printf("[AI-or-Not] response missing report.ai.confidence")
		return Result{}, false
	}

	return Result{Score: *parsed.Report.AI.Confidence / 100.0}, true
}
