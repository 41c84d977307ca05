package media

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Per-invocation bounds for the ffprobe/ffmpeg subprocesses.
const (
	probeTimeout       = 30 * time.Second
	frameDecodeTimeout = 30 * time.Second
)

// Frame rate assumed when the container does not report a usable one.
const defaultFrameRate = 30.0

// videoStreamInfo is what the sampler needs from the probe: how many frames
// exist and how to turn a frame index into a seekable timestamp.
type videoStreamInfo struct {
	frameCount int
	frameRate  float64
}

// FrameSampler extracts a fixed number of evenly spaced JPEG stills from a
// video byte stream for independent per-frame analysis.
type FrameSampler struct {
	ffmpegPath  string
	ffprobePath string
	frameCount  int
}

func NewFrameSampler(ffmpegPath, ffprobePath string, frameCount int) *FrameSampler {
	if frameCount < 1 {
		frameCount = 10
	}
	return &FrameSampler{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		frameCount:  frameCount,
	}
}

// Sample returns up to frameCount JPEG-encoded stills in temporal order. An
// unopenable video or one with no decodable frames yields an empty slice,
// never an error; individual frame failures are skipped.
func (s *FrameSampler) Sample(ctx context.Context, video []byte) [][]byte {
	path, cleanup, err := writeTemp(video, "truthscan_video_*.mp4")
	if err != nil {
		log.Printf("[FrameSampler] failed to stage video: %v", err)
		return nil
	}
	defer cleanup()

	info, err := s.probeStream(ctx, path)
	if err != nil || info.frameCount <= 0 {
		log.Printf("[FrameSampler] could not probe video stream: %v", err)
		return nil
	}

	var frames [][]byte
	for _, idx := range sampleIndices(info.frameCount, s.frameCount) {
		frame, err := s.decodeFrame(ctx, path, idx, info.frameRate)
		if err != nil {
			log.Printf("[FrameSampler] failed to decode frame %d: %v", idx, err)
			continue
		}
		frames = append(frames, frame)
	}
	return frames
}

// probeStream asks ffprobe for the video stream's packet count (which matches
// the decodable frame count without a full decode pass) and its average frame
// rate, used to seek per index.
func (s *FrameSampler) probeStream(ctx context.Context, path string) (videoStreamInfo, error) {
	execCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, s.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_packets",
		"-show_entries", "stream=avg_frame_rate,nb_read_packets",
		"-of", "csv=p=0",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return videoStreamInfo{}, fmt.Errorf("ffprobe failed: %w", err)
	}
	return parseStreamInfo(string(out))
}

// parseStreamInfo reads ffprobe csv output such as "30000/1001,900". Field
// order is not assumed: the fraction is the frame rate, the bare integer the
// packet count. A missing or degenerate rate falls back to the default; a
// missing count is an error.
func parseStreamInfo(out string) (videoStreamInfo, error) {
	info := videoStreamInfo{frameRate: defaultFrameRate}
	haveCount := false

	for _, field := range strings.Split(strings.TrimSpace(out), ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if num, den, found := strings.Cut(field, "/"); found {
			n, errN := strconv.ParseFloat(num, 64)
			d, errD := strconv.ParseFloat(den, 64)
			if errN == nil && errD == nil && n > 0 && d > 0 {
				info.frameRate = n / d
			}
			continue
		}
		if count, err := strconv.Atoi(field); err == nil {
			info.frameCount = count
			haveCount = true
		}
	}

	if !haveCount {
		return videoStreamInfo{}, fmt.Errorf("unexpected ffprobe output %q", strings.TrimSpace(out))
	}
	return info, nil
}

// decodeFrame seeks to one frame by index and returns it JPEG-encoded. Each
// index is an independent invocation so one bad frame cannot sink the batch.
func (s *FrameSampler) decodeFrame(ctx context.Context, path string, index int, frameRate float64) ([]byte, error) {
	execCtx, cancel := context.WithTimeout(ctx, frameDecodeTimeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, s.ffmpegPath, frameArgs(path, index, frameRate)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg failed: %w (%s)", err, stderr.String())
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no frame data")
	}
	return stdout.Bytes(), nil
}

// frameArgs builds the ffmpeg argument list for one frame. The seek is placed
// before the input so ffmpeg jumps to the index's timestamp instead of
// decoding everything up to it; extraction cost stays flat across indices.
func frameArgs(path string, index int, frameRate float64) []string {
	if frameRate <= 0 {
		frameRate = defaultFrameRate
	}
	timestamp := float64(index) / frameRate

	return []string{
		"-v", "error",
		"-ss", strconv.FormatFloat(timestamp, 'f', 6, 64),
		"-i", path,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-c:v", "mjpeg",
		"pipe:1",
	}
}

// sampleIndices spreads n indices evenly across [0, total-1] inclusive using
// integer-truncated linear interpolation. The first and last frame are always
// included; duplicates occur when total < n and are kept as-is.
func sampleIndices(total, n int) []int {
	if total < 1 || n < 1 {
		return nil
	}
	if n == 1 {
		return []int{0}
	}
	indices := make([]int, n)
	for i := 0; i < n; i++ {
		indices[i] = i * (total - 1) / (n - 1)
	}
	return indices
}
