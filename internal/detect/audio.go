package detect

import (
	"context"
	"log"
	"time"

	"truthscan/internal/config"
	"truthscan/internal/heuristic"
	"truthscan/internal/media"
	"truthscan/internal/model"
	"truthscan/internal/provider"
	"truthscan/internal/verdict"
)

// audioDecoder is satisfied by media.AudioDecoder; narrowed for tests.
type audioDecoder interface {
	Decode(ctx context.Context, data []byte, filename string) ([]float64, int, error)
}

// AudioService classifies speech audio. Priority: the ElevenLabs speech
// classifier, then the local signal heuristic. Audio always yields a verdict;
// even an undecodable file maps to the neutral heuristic result.
type AudioService struct {
	chain   *provider.Chain
	decoder audioDecoder
}

func NewAudioService(cfg *config.Config) *AudioService {
	var detectors []provider.Detector
	if config.KeyConfigured(cfg.ElevenLabsAPIKey) && cfg.ElevenLabsURL != "" {
		detectors = append(detectors, provider.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsURL))
	}
	return &AudioService{
		chain:   provider.NewChain(detectors...),
		decoder: media.NewAudioDecoder(cfg.FFmpegPath),
	}
}

// Detect tries the speech classifier and falls back to decoding the audio
// locally and scoring its signal features.
func (s *AudioService) Detect(ctx context.Context, req model.DetectionRequest) model.DetectionVerdict {
	start := time.Now()

	if res, name, ok := s.chain.Detect(ctx, req); ok {
		return verdict.FromScore(res.Score, name, audioSignals(res.Score), start)
	}

	samples, sampleRate, err := s.decoder.Decode(ctx, req.Data, req.Filename)
	if err != nil {
		log.Printf("[Audio] failed to decode %s: %v", req.Filename, err)
		h := heuristic.AudioUnavailable()
		return verdict.FromScore(h.Probability, h.ModelLabel, h.Signals, start)
	}

	h := heuristic.AnalyzeAudio(samples, sampleRate)
	return verdict.FromScore(h.Probability, h.ModelLabel, h.Signals, start)
}

// audioSignals tiers the provider score into the advisory explanation used on
// the classifier path. The heuristic path builds its own signals from the
// measured features instead.
func audioSignals(aiProb float64) []model.Signal {
	switch {
	case aiProb > 0.7:
		return []model.Signal{
			{Label: "Synthetic breath patterns detected", Severity: model.SeverityHigh},
			{Label: "Unnatural pitch consistency", Severity: model.SeverityHigh},
		}
	case aiProb > 0.4:
		return []model.Signal{
			{Label: "No background room noise", Severity: model.SeverityMedium},
			{Label: "Waveform irregularities found", Severity: model.SeverityMedium},
		}
	default:
		return []model.Signal{
			{Label: "Natural vocal variation detected", Severity: model.SeverityLow},
			{Label: "Background ambience present", Severity: model.SeverityLow},
		}
	}
}
