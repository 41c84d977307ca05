package detect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/samber/lo"

	"truthscan/internal/config"
	"truthscan/internal/media"
	"truthscan/internal/model"
	"truthscan/internal/provider"
	"truthscan/internal/verdict"
)

// ErrNoFrames reports a video no frames could be extracted from. The HTTP
// layer maps it to a 422, distinct from the error-shaped verdicts.
var ErrNoFrames = errors.New("could not extract frames from video")

const videoModelFallbackLabel = "Frame-based detection"

// frameSampler is satisfied by media.FrameSampler; narrowed for tests.
type frameSampler interface {
	Sample(ctx context.Context, video []byte) [][]byte
}

// VideoService classifies video by sampling evenly spaced frames and running
// each through the moderation chain independently, then aggregating the
// per-frame scores into one request-level verdict.
type VideoService struct {
	chain   *provider.Chain
	sampler frameSampler
}

func NewVideoService(cfg *config.Config) *VideoService {
	return &VideoService{
		chain:   newModerationChain(cfg),
		sampler: media.NewFrameSampler(cfg.FFmpegPath, cfg.FFprobePath, cfg.VideoFrameCount),
	}
}

// Detect samples frames and scores each one. Frames whose providers all fail
// are dropped from aggregation; zero scored frames is an error verdict, not a
// silent zero. With no keys configured the request short-circuits before any
// frame is extracted.
func (s *VideoService) Detect(ctx context.Context, req model.DetectionRequest) (model.DetectionVerdict, error) {
	start := time.Now()

	if s.chain.Empty() {
		return verdict.Error(
			"API key not configured. Set HIVE_API_KEY or AIORNOT_API_KEY.",
			videoModelFallbackLabel, start), nil
	}

	frames := s.sampler.Sample(ctx, req.Data)
	if len(frames) == 0 {
		return model.DetectionVerdict{}, ErrNoFrames
	}

	scores := lo.FilterMap(frames, func(frame []byte, i int) (float64, bool) {
		frameReq := model.DetectionRequest{
			Data:        frame,
			Filename:    fmt.Sprintf("frame_%02d.jpg", i),
			ContentType: "image/jpeg",
		}
		res, _, ok := s.chain.Detect(ctx, frameReq)
		return res.Score, ok
	})

	modelUsed := s.chain.Primary() + " (frames)"
	if len(scores) == 0 {
		log.Printf("[Video] no frame yielded a score (%d frames sampled)", len(frames))
		return verdict.Error(
			"Frame analysis API calls all failed. Check API keys and logs.",
			modelUsed, start), nil
	}

	mean, variance := aggregateFrameScores(scores)
	signals := frameSignals(mean, variance, len(scores), len(frames))
	return verdict.FromScore(mean, modelUsed, signals, start), nil
}

// aggregateFrameScores reduces the per-frame probabilities to their mean (the
// request-level probability) and population variance (the temporal
// consistency measure).
func aggregateFrameScores(scores []float64) (mean, variance float64) {
	mean, err := stats.Mean(scores)
	if err != nil {
		return 0, 0
	}
	variance, err = stats.PopulationVariance(scores)
	if err != nil {
		return mean, 0
	}
	return mean, variance
}

// frameSignals explains the aggregate. High variance means the generator's
// fingerprint comes and goes across frames; a high mean with low variance is
// the steady pattern typical of full-clip deepfakes.
func frameSignals(mean, variance float64, scored, sampled int) []model.Signal {
	var signals []model.Signal
	if variance > 0.05 {
		signals = append(signals, model.Signal{Label: "Inconsistent AI generation across frames", Severity: model.SeverityMedium})
	}
	if mean > 0.7 && variance <= 0.05 {
		signals = append(signals, model.Signal{Label: "Consistent deepfake patterns", Severity: model.SeverityHigh})
	}
	if mean > 0.5 {
		signals = append(signals, model.Signal{Label: "Synthetic facial features detected", Severity: model.SeverityHigh})
	} else {
		signals = append(signals, model.Signal{Label: "Natural motion patterns", Severity: model.SeverityLow})
	}
	signals = append(signals, model.Signal{
		Label:    fmt.Sprintf("Analyzed %d of %d frames", scored, sampled),
		Severity: model.SeverityLow,
	})
	return signals
}
