// Package heuristic implements the local fallback estimators used when no
// provider is reachable or configured. Both are deterministic and make no
// network calls.
package heuristic

import (
	"strings"

	"truthscan/internal/model"
)

// Result is the outcome of a local heuristic: an AI-probability estimate,
// the provenance label for model_used, and advisory signals.
type Result struct {
	Probability float64
	ModelLabel  string
	Signals     []model.Signal
}

const textHeuristicLabel = "Local heuristic"

// Characters stripped from tokens before the vocabulary-uniqueness count.
const tokenPunctCutset = `.,!?;:"()[]{}`

// Punctuation characters counted for the density feature.
const densityPunct = ".,;:!?-"

// AnalyzeText estimates AI probability from lexical statistics alone: word
// count, vocabulary uniqueness, and punctuation density. Machine text tends
// toward a narrow vocabulary and sparse punctuation. The score starts at 0.5
// and is nudged per triggered condition, clamped to [0.05, 0.95].
func AnalyzeText(text string) Result {
	normalized := strings.TrimSpace(text)
	if normalized == "" {
		return Result{
			Probability: 0.5,
			ModelLabel:  textHeuristicLabel,
			Signals: []model.Signal{
				{Label: "Empty text content", Severity: model.SeverityMedium},
			},
		}
	}

	words := strings.Fields(normalized)
	wordCount := len(words)

	unique := make(map[string]struct{}, wordCount)
	for _, w := range words {
		token := strings.Trim(strings.ToLower(w), tokenPunctCutset)
		if token != "" {
			unique[token] = struct{}{}
		}
	}
	uniqueRatio := float64(len(unique)) / float64(wordCount)

	runes := []rune(normalized)
	punctCount := 0
	for _, r := range runes {
		if strings.ContainsRune(densityPunct, r) {
			punctCount++
		}
	}
	punctDensity := float64(punctCount) / float64(len(runes))

	score := 0.5
	if wordCount > 200 {
		score += 0.06
	}
	if uniqueRatio < 0.42 {
		score += 0.12
	}
	if punctDensity < 0.015 {
		score += 0.08
	}

	aiProb := clamp(score, 0.05, 0.95)

	signals := []model.Signal{
		{Label: "Fallback heuristic used (no valid API response)", Severity: model.SeverityMedium},
	}
	if uniqueRatio < 0.42 {
		signals = append(signals, model.Signal{Label: "Low vocabulary variety", Severity: model.SeverityMedium})
	}
	if punctDensity < 0.015 {
		signals = append(signals, model.Signal{Label: "Low punctuation density", Severity: model.SeverityMedium})
	}

	return Result{
		Probability: aiProb,
		ModelLabel:  textHeuristicLabel,
		Signals:     signals,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
