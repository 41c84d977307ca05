// Package detect contains the per-media orchestrators. Each service sequences
// its ranked provider chain, falls back to the local heuristic where one
// exists, and normalizes the outcome into a DetectionVerdict.
package detect

import (
	"context"
	"log"
	"time"

	"truthscan/internal/config"
	"truthscan/internal/heuristic"
	"truthscan/internal/model"
	"truthscan/internal/provider"
	"truthscan/internal/verdict"
)

// TextService classifies raw text. Priority: Hugging Face classifier, then
// GPTZero, then the local lexical heuristic. Text always yields a verdict;
// there is no error path.
type TextService struct {
	chain *provider.Chain
}

func NewTextService(cfg *config.Config) *TextService {
	var detectors []provider.Detector
	if config.KeyConfigured(cfg.HFAPIKey) {
		detectors = append(detectors, provider.NewHuggingFace(cfg.HFAPIKey, cfg.HFBaseURL, cfg.HFTextModel))
	}
	if config.KeyConfigured(cfg.GPTZeroAPIKey) {
		detectors = append(detectors, provider.NewGPTZero(cfg.GPTZeroAPIKey, cfg.GPTZeroURL))
	}
	return &TextService{chain: provider.NewChain(detectors...)}
}

// Detect runs the text chain and falls back to the lexical heuristic when no
// provider yields a score.
func (s *TextService) Detect(ctx context.Context, text string) model.DetectionVerdict {
	start := time.Now()

	req := model.DetectionRequest{
		Data:        []byte(text),
		Filename:    "input.txt",
		ContentType: "text/plain",
	}

	if res, name, ok := s.chain.Detect(ctx, req); ok {
		return verdict.FromScore(res.Score, name, res.Signals, start)
	}

	if !s.chain.Empty() {
		log.Printf("[Text] all providers failed, using local heuristic")
	}
	h := heuristic.AnalyzeText(text)
	return verdict.FromScore(h.Probability, h.ModelLabel, h.Signals, start)
}
