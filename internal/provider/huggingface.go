package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"truthscan/internal/model"
)

// HuggingFace calls a hosted text-classification model on the inference API.
// Detector models publish arbitrary label taxonomies, so the adapter
// reconciles label names into an AI/human probability pair.
type HuggingFace struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

func NewHuggingFace(apiKey, baseURL, textModel string) *HuggingFace {
	return &HuggingFace{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		model:   textModel,
		client:  &http.Client{Timeout: 45 * time.Second},
	}
}

func (h *HuggingFace) Name() string {
	return fmt.Sprintf("Hugging Face (%s)", h.model)
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// aiLabelTokens and humanLabelTokens map a model's label taxonomy onto the
// two sides of the verdict. Matching is substring-based and case-insensitive.
var (
	aiLabelTokens    = []string{"fake", "ai", "generated", "machine"}
	humanLabelTokens = []string{"real", "human"}
)

// Detect classifies the text and reconciles the returned labels. The inference
// API answers with either a flat label list or a singleton batch wrapping one.
func (h *HuggingFace) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	payload, err := json.Marshal(map[string]string{"inputs": string(req.Data)})
	if err != nil {
		log.Printf("[HuggingFace] failed to encode request: %v", err)
		return Result{}, false
	}

	url := h.baseURL + "/models/" + h.model
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		log.Printf("[HuggingFace] failed to create request: %v", err)
		return Result{}, false
	}
	httpReq.Header.Set("Authorization", "Bearer "+h.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(httpReq)
	if err != nil {
		log.Printf("[HuggingFace] request failed: %v", err)
		return Result{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("[HuggingFace] unexpected status %d", resp.StatusCode)
		return Result{}, false
	}

	candidates, err := decodeHFLabels(resp.Body)
	if err != nil {
		log.Printf("[HuggingFace] failed to parse response: %v", err)
		return Result{}, false
	}

	aiProb, ok := reconcileLabels(candidates)
	if !ok {
		log.Printf("[HuggingFace] could not map labels to AI/human probabilities")
		return Result{}, false
	}

	return Result{Score: aiProb, Signals: hfSignals(aiProb)}, true
}

func decodeHFLabels(body io.Reader) ([]hfLabel, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(body).Decode(&raw); err != nil {
		return nil, err
	}

	var nested [][]hfLabel
	if err := json.Unmarshal(raw, &nested); err == nil && len(nested) > 0 {
		return nested[0], nil
	}

	var flat []hfLabel
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("unexpected response shape: %w", err)
	}
	return flat, nil
}

// reconcileLabels folds the candidate labels into a single AI probability.
// When a model only reports one side, the other is taken as its complement.
func reconcileLabels(candidates []hfLabel) (float64, bool) {
	var aiProb, humanProb *float64
	for _, c := range candidates {
		label := strings.ToLower(c.Label)
		score := c.Score
		if matchesAny(label, aiLabelTokens) {
			if aiProb == nil || score > *aiProb {
				aiProb = &score
			}
		}
		if matchesAny(label, humanLabelTokens) {
			if humanProb == nil || score > *humanProb {
				humanProb = &score
			}
		}
	}

	if aiProb == nil && humanProb == nil {
		return 0, false
	}
	var p float64
	switch {
	case aiProb != nil:
		p = *aiProb
	default:
		p = 1.0 - *humanProb
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p, true
}

func matchesAny(label string, tokens []string) bool {
	for _, token := range tokens {
		if strings.Contains(label, token) {
			return true
		}
	}
	return false
}

// hfSignals tiers the classifier output into a single advisory signal.
func hfSignals(aiProb float64) []model.Signal {
	switch {
	case aiProb > 0.7:
		return []model.Signal{{Label: "Strong classifier AI signal", Severity: model.SeverityHigh}}
	case aiProb > 0.45:
		return []model.Signal{{Label: "Moderate classifier AI signal", Severity: model.SeverityMedium}}
	default:
		return []model.Signal{{Label: "Classifier leans human-written", Severity: model.SeverityLow}}
	}
}
