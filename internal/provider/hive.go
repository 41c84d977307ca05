package provider

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"truthscan/internal/model"
)

// Hive calls the Hive moderation sync-task API for images and video frames.
type Hive struct {
	apiKey string
	url    string
	client *http.Client
}

// NewHive creates a Hive adapter. The caller is responsible for only
// constructing adapters whose credentials are configured.
func NewHive(apiKey, url string) *Hive {
	return &Hive{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Name returns the provider display name used in model_used attribution.
func (h *Hive) Name() string {
	return "Hive Moderation"
}

// hiveResponse mirrors the nested task-result payload. Only the classified
// scores are of interest; everything else is ignored.
type hiveResponse struct {
	Status []struct {
		Response struct {
			Output []struct {
				Classes []struct {
					Class string  `json:"class"`
					Score float64 `json:"score"`
				} `json:"classes"`
			} `json:"output"`
		} `json:"response"`
	} `json:"status"`
}

// Detect uploads the image and extracts the ai_generated class score.
func (h *Hive) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	body, contentType, err := multipartBody("image", req.Filename, req.ContentType, req.Data)
	if err != nil {
		log.Printf("[Hive] failed to build request body: %v", err)
		return Result{}, false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, body)
	if err != nil {
		log.Printf("[Hive] failed to create request: %v", err)
		return Result{}, false
	}
	httpReq.Header.Set("Authorization", "Token "+h.apiKey)
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := h.client.Do(httpReq)
	if err != nil {
		log.Printf("[Hive] request failed: %v", err)
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[Hive] unexpected status %d", resp.StatusCode)
		return Result{}, false
	}

	var parsed hiveResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[Hive] failed to parse response: %v", err)
		return Result{}, false
	}

	for _, status := range parsed.Status {
		for _, output := range status.Response.Output {
			for _, cls := range output.Classes {
				if cls.Class == "ai_generated" {
					return Result{Score: cls.Score}, true
				}
			}
		}
	}

	log.Printf("[Hive] response carried no ai_generated class")
	return Result{}, false
}
