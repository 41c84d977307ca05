package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-audio/wav"
)

// transcodeTimeout bounds the ffmpeg conversion of compressed audio to WAV.
const transcodeTimeout = 60 * time.Second

// AudioDecoder turns uploaded audio bytes into normalized mono samples for
// the local heuristic. WAV input is decoded directly; everything else is
// transcoded to WAV through ffmpeg first.
type AudioDecoder struct {
	ffmpegPath string
}

func NewAudioDecoder(ffmpegPath string) *AudioDecoder {
	return &AudioDecoder{ffmpegPath: ffmpegPath}
}

// Decode returns mono samples in [-1,1] and the sample rate. Any failure is
// returned as an error for the caller to absorb into the neutral heuristic
// result; decoding problems never fail the request.
func (d *AudioDecoder) Decode(ctx context.Context, data []byte, filename string) ([]float64, int, error) {
	if mimetype.Detect(data).Is("audio/wav") {
		return decodeWAV(data)
	}

	wavBytes, err := d.transcodeToWAV(ctx, data, filename)
	if err != nil {
		return nil, 0, err
	}
	return decodeWAV(wavBytes)
}

// transcodeToWAV shells out to ffmpeg to convert compressed audio (MP3, AAC,
// FLAC, ...) into 16-bit mono WAV.
func (d *AudioDecoder) transcodeToWAV(ctx context.Context, data []byte, filename string) ([]byte, error) {
	ext := filepath.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}

	inPath, cleanupIn, err := writeTemp(data, "truthscan_audio_*"+ext)
	if err != nil {
		return nil, err
	}
	defer cleanupIn()

	outPath := inPath + ".wav"
	defer func() {
		if err := os.Remove(outPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[Media] failed to remove transcoded file %s: %v", outPath, err)
		}
	}()

	execCtx, cancel := context.WithTimeout(ctx, transcodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, d.ffmpegPath,
		"-v", "error",
		"-i", inPath,
		"-ac", "1",
		"-ar", "16000",
		"-sample_fmt", "s16",
		"-f", "wav",
		"-y", outPath,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg transcode failed: %w (%s)", err, stderr.String())
	}

	return os.ReadFile(outPath)
}

// decodeWAV decodes PCM WAV bytes into normalized mono samples.
func decodeWAV(data []byte) ([]float64, int, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	decoder.ReadInfo()
	if !decoder.IsValidFile() {
		return nil, 0, fmt.Errorf("invalid WAV file")
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read PCM data: %w", err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 || len(buf.Data) == 0 {
		return nil, 0, fmt.Errorf("WAV file carries no samples")
	}

	bitDepth := int(decoder.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}
	scale := float64(int64(1) << (bitDepth - 1))

	channels := buf.Format.NumChannels
	frames := len(buf.Data) / channels
	samples := make([]float64, frames)
	for i := 0; i < frames; i++ {
		sum := 0.0
		for ch := 0; ch < channels; ch++ {
			sum += float64(buf.Data[i*channels+ch]) / scale
		}
		samples[i] = sum / float64(channels)
	}

	return samples, buf.Format.SampleRate, nil
}
