// Package verdict maps raw AI-probability scores into the uniform response
// schema shared by all four media types.
package verdict

import (
	"math"
	"time"

	"truthscan/internal/model"
)

// Threshold policy, uniform across media types. The dead zone between the two
// thresholds is wider on the human side: the gateway deliberately under-claims
// AI detection.
const (
	aiThreshold    = 0.7
	humanThreshold = 0.35
)

// Categorize maps an AI probability to a verdict category.
func Categorize(aiProb float64) string {
	switch {
	case aiProb > aiThreshold:
		return model.VerdictAI
	case aiProb < humanThreshold:
		return model.VerdictHuman
	default:
		return model.VerdictMixed
	}
}

// Round4 rounds to four decimal places, the precision of all probability
// fields on the wire.
func Round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}

// Confidence converts a probability pair into the 0-100 confidence integer.
func Confidence(aiProb float64) int {
	return int(math.Round(math.Max(aiProb, 1-aiProb) * 100))
}

// FromScore builds the full verdict for a successful detection.
func FromScore(aiProb float64, modelUsed string, signals []model.Signal, start time.Time) model.DetectionVerdict {
	if signals == nil {
		signals = []model.Signal{}
	}
	return model.DetectionVerdict{
		Verdict:          Categorize(aiProb),
		AIProbability:    Round4(aiProb),
		HumanProbability: Round4(1 - aiProb),
		Confidence:       Confidence(aiProb),
		Signals:          signals,
		ModelUsed:        modelUsed,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}
}

// Error builds the verdict-shaped error response used when every configured
// provider failed or none is configured. The error is encoded in the success
// schema so clients always receive a parseable body.
func Error(message, modelUsed string, start time.Time) model.DetectionVerdict {
	return model.DetectionVerdict{
		Verdict:          model.VerdictError,
		Message:          message,
		AIProbability:    0,
		HumanProbability: 0,
		Confidence:       0,
		Signals:          []model.Signal{},
		ModelUsed:        modelUsed,
		ProcessingTimeMS: time.Since(start).Milliseconds(),
	}
}
