package heuristic

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
	"github.com/montanaflynn/stats"

	"truthscan/internal/model"
)

const audioHeuristicLabel = "Local signal heuristic"

// Framing used by the zero-crossing-rate and spectral-flatness features.
const (
	audioFrameLength = 2048
	audioHopLength   = 512
)

// Floor applied to power-spectrum bins before taking logarithms.
const powerFloor = 1e-10

// AudioUnavailable is the neutral result returned when the audio could not be
// decoded. Decoding failure is non-fatal and never propagated.
func AudioUnavailable() Result {
	return Result{
		Probability: 0.5,
		ModelLabel:  audioHeuristicLabel,
		Signals: []model.Signal{
			{Label: "Audio analysis unavailable", Severity: model.SeverityMedium},
		},
	}
}

// AnalyzeAudio estimates AI probability from three signal features of decoded
// mono samples: noise floor (synthetic speech often lacks room noise),
// zero-crossing-rate spread (pitch regularity is the strongest synthetic
// tell, so it is weighted double), and mean spectral flatness. The indicator
// count maps to probability as indicators/4, capped at 0.95.
func AnalyzeAudio(samples []float64, sampleRate int) Result {
	if len(samples) == 0 || sampleRate <= 0 {
		return AudioUnavailable()
	}

	var signals []model.Signal
	indicators := 0

	absSamples := make([]float64, len(samples))
	for i, s := range samples {
		absSamples[i] = math.Abs(s)
	}
	noiseFloor, err := stats.Percentile(absSamples, 5)
	if err != nil {
		noiseFloor = 0
	}
	if noiseFloor < 0.001 {
		signals = append(signals, model.Signal{Label: "No background room noise", Severity: model.SeverityMedium})
		indicators++
	} else {
		signals = append(signals, model.Signal{Label: "Natural background noise present", Severity: model.SeverityLow})
	}

	zcrStd := zeroCrossingRateStd(samples)
	if zcrStd < 0.02 {
		signals = append(signals, model.Signal{Label: "Unnatural pitch consistency", Severity: model.SeverityHigh})
		indicators += 2
	}

	if meanSpectralFlatness(samples) > 0.1 {
		signals = append(signals, model.Signal{Label: "Waveform irregularities found", Severity: model.SeverityMedium})
		indicators++
	}

	return Result{
		Probability: math.Min(0.95, float64(indicators)/4.0),
		ModelLabel:  audioHeuristicLabel,
		Signals:     signals,
	}
}

// audioFrames slices the sample stream into fixed-length frames. Audio shorter
// than one frame is analyzed as a single truncated frame.
func audioFrames(samples []float64) [][]float64 {
	if len(samples) <= audioFrameLength {
		return [][]float64{samples}
	}
	var frames [][]float64
	for start := 0; start+audioFrameLength <= len(samples); start += audioHopLength {
		frames = append(frames, samples[start:start+audioFrameLength])
	}
	return frames
}

// zeroCrossingRateStd computes the standard deviation of the per-frame
// zero-crossing rate, a cheap proxy for pitch variability.
func zeroCrossingRateStd(samples []float64) float64 {
	frames := audioFrames(samples)
	rates := make([]float64, 0, len(frames))
	for _, frame := range frames {
		if len(frame) < 2 {
			rates = append(rates, 0)
			continue
		}
		crossings := 0
		for i := 1; i < len(frame); i++ {
			if (frame[i-1] >= 0) != (frame[i] >= 0) {
				crossings++
			}
		}
		rates = append(rates, float64(crossings)/float64(len(frame)))
	}

	std, err := stats.StandardDeviation(rates)
	if err != nil {
		return 0
	}
	return std
}

// meanSpectralFlatness averages the per-frame spectral flatness: the ratio of
// the geometric to the arithmetic mean of the power spectrum. Tonal, natural
// audio scores near zero; flat noise-like spectra score near one.
func meanSpectralFlatness(samples []float64) float64 {
	frames := audioFrames(samples)
	flatness := make([]float64, 0, len(frames))
	for _, frame := range frames {
		if len(frame) == 0 {
			continue
		}
		windowed := make([]float64, len(frame))
		for i, s := range frame {
			// Hann window
			w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(len(frame))))
			windowed[i] = s * w
		}

		spectrum := fft.FFTReal(windowed)
		bins := len(frame)/2 + 1
		logSum := 0.0
		linSum := 0.0
		for i := 0; i < bins && i < len(spectrum); i++ {
			power := math.Max(powerFloor, math.Pow(real(spectrum[i]), 2)+math.Pow(imag(spectrum[i]), 2))
			logSum += math.Log(power)
			linSum += power
		}
		n := float64(bins)
		geoMean := math.Exp(logSum / n)
		arithMean := linSum / n
		if arithMean > 0 {
			flatness = append(flatness, geoMean/arithMean)
		}
	}

	mean, err := stats.Mean(flatness)
	if err != nil {
		return 0
	}
	return mean
}
