package detect

import (
	"context"
	"time"

	"truthscan/internal/config"
	"truthscan/internal/media"
	"truthscan/internal/model"
	"truthscan/internal/provider"
	"truthscan/internal/verdict"
)

const imageModelFallbackLabel = "Hive / AI-or-Not"

// ImageService classifies still images. Priority: Hive moderation, then
// AI-or-Not. There is no local fallback for images; total exhaustion yields
// an error-shaped verdict.
type ImageService struct {
	chain *provider.Chain
}

func NewImageService(cfg *config.Config) *ImageService {
	return &ImageService{chain: newModerationChain(cfg)}
}

// newModerationChain builds the Hive -> AI-or-Not chain shared by the image
// and video orchestrators.
func newModerationChain(cfg *config.Config) *provider.Chain {
	var detectors []provider.Detector
	if config.KeyConfigured(cfg.HiveAPIKey) {
		detectors = append(detectors, provider.NewHive(cfg.HiveAPIKey, cfg.HiveURL))
	}
	if config.KeyConfigured(cfg.AIOrNotAPIKey) {
		detectors = append(detectors, provider.NewAIOrNot(cfg.AIOrNotAPIKey, cfg.AIOrNotURL))
	}
	return provider.NewChain(detectors...)
}

// Detect runs the moderation chain over the uploaded image. With no keys
// configured at all the request short-circuits before any network call.
func (s *ImageService) Detect(ctx context.Context, req model.DetectionRequest) model.DetectionVerdict {
	start := time.Now()

	if s.chain.Empty() {
		return verdict.Error(
			"API key not configured. Set HIVE_API_KEY or AIORNOT_API_KEY.",
			imageModelFallbackLabel, start)
	}

	hasEXIF := media.HasEXIF(req.Data)

	res, name, ok := s.chain.Detect(ctx, req)
	if !ok {
		return verdict.Error(
			"All image detection APIs failed. Check your API keys and logs.",
			name, start)
	}

	return verdict.FromScore(res.Score, name, imageSignals(res.Score, hasEXIF), start)
}

// imageSignals derives the advisory explanation from the score tier plus the
// EXIF presence check. Generated images rarely carry camera metadata.
func imageSignals(aiProb float64, hasEXIF bool) []model.Signal {
	var signals []model.Signal
	switch {
	case aiProb > 0.7:
		signals = append(signals,
			model.Signal{Label: "GAN fingerprint detected", Severity: model.SeverityHigh},
			model.Signal{Label: "Synthetic texture patterns", Severity: model.SeverityHigh},
		)
	case aiProb > 0.4:
		signals = append(signals,
			model.Signal{Label: "Possible AI upscaling", Severity: model.SeverityMedium},
			model.Signal{Label: "Inconsistent lighting gradients", Severity: model.SeverityMedium},
		)
	}

	if hasEXIF {
		signals = append(signals, model.Signal{Label: "Natural EXIF metadata present", Severity: model.SeverityLow})
	} else {
		signals = append(signals, model.Signal{Label: "No EXIF metadata found", Severity: model.SeverityMedium})
	}
	return signals
}
