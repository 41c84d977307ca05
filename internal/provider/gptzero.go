package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"truthscan/internal/model"
)

// GPTZero calls the GPTZero v2 text prediction API.
type GPTZero struct {
	apiKey string
	url    string
	client *http.Client
}

func NewGPTZero(apiKey, url string) *GPTZero {
	return &GPTZero{
		apiKey: apiKey,
		url:    url,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (g *GPTZero) Name() string {
	return "GPTZero v2"
}

type gptZeroRequest struct {
	Document     string `json:"document"`
	Multilingual bool   `json:"multilingual"`
}

// gptZeroDocument carries the per-document statistics used both for the score
// and for the advisory signals. Burstiness and perplexity are optional fields.
type gptZeroDocument struct {
	CompletelyGeneratedProb float64  `json:"completely_generated_prob"`
	AverageGeneratedProb    float64  `json:"average_generated_prob"`
	Burstiness              *float64 `json:"burstiness"`
	Perplexity              *float64 `json:"perplexity"`
}

type gptZeroResponse struct {
	Documents []gptZeroDocument `json:"documents"`
}

// Detect submits the document and extracts completely_generated_prob from the
// first document, with signals built from the accompanying statistics.
func (g *GPTZero) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	payload, err := json.Marshal(gptZeroRequest{Document: string(req.Data), Multilingual: false})
	if err != nil {
		log.Printf("[GPTZero] failed to encode request: %v", err)
		return Result{}, false
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[GPTZero] failed to create request: %v", err)
		return Result{}, false
	}
	httpReq.Header.Set("x-api-key", g.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(httpReq)
	if err != nil {
		log.Printf("[GPTZero] request failed: %v", err)
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[GPTZero] unexpected status %d", resp.StatusCode)
		return Result{}, false
	}

	var parsed gptZeroResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		log.Printf("[GPTZero] failed to parse response: %v", err)
		return Result{}, false
	}
	if len(parsed.Documents) == 0 {
		log.Printf("[GPTZero] response carried no documents")
		return Result{}, false
	}

	doc := parsed.Documents[0]
	return Result{
		Score:   doc.CompletelyGeneratedProb,
		Signals: gptZeroSignals(doc),
	}, true
}

// gptZeroSignals translates the document statistics into advisory signals.
// Low burstiness and low perplexity are the classic machine-text tells.
func gptZeroSignals(doc gptZeroDocument) []model.Signal {
	var signals []model.Signal
	if doc.AverageGeneratedProb > 0.6 {
		signals = append(signals, model.Signal{Label: "High AI probability score", Severity: model.SeverityHigh})
	}
	if doc.Burstiness != nil && *doc.Burstiness < 20 {
		signals = append(signals, model.Signal{Label: "Low text burstiness", Severity: model.SeverityHigh})
	}
	if doc.Perplexity != nil && *doc.Perplexity < 30 {
		signals = append(signals, model.Signal{Label: "Low perplexity score", Severity: model.SeverityHigh})
	}
	if len(signals) == 0 {
		signals = append(signals, model.Signal{Label: "Natural sentence variety", Severity: model.SeverityLow})
	}
	return signals
}
