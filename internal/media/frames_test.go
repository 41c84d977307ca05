package media

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleIndices_EvenSpread(t *testing.T) {
	indices := sampleIndices(100, 10)

	require.Len(t, indices, 10)
	assert.Equal(t, 0, indices[0])
	assert.Equal(t, 99, indices[len(indices)-1])

	for i := 1; i < len(indices); i++ {
		assert.GreaterOrEqual(t, indices[i], indices[i-1], "indices must be non-decreasing")
	}
}

func TestSampleIndices_EndpointsAlwaysIncluded(t *testing.T) {
	for _, total := range []int{2, 10, 11, 99, 1000, 123457} {
		for _, n := range []int{2, 3, 10, 25} {
			indices := sampleIndices(total, n)
			require.Len(t, indices, n, "total=%d n=%d", total, n)
			assert.Equal(t, 0, indices[0], "total=%d n=%d", total, n)
			assert.Equal(t, total-1, indices[n-1], "total=%d n=%d", total, n)
		}
	}
}

func TestSampleIndices_FewerFramesThanRequested(t *testing.T) {
	// total < n: duplicates are expected, but never negative and never past
	// the last frame.
	indices := sampleIndices(3, 10)

	require.Len(t, indices, 10)
	for _, idx := range indices {
		assert.GreaterOrEqual(t, idx, 0)
		assert.LessOrEqual(t, idx, 2)
	}
	assert.Equal(t, 0, indices[0])
	assert.Equal(t, 2, indices[9])
}

func TestSampleIndices_SingleFrameVideo(t *testing.T) {
	indices := sampleIndices(1, 10)
	require.Len(t, indices, 10)
	for _, idx := range indices {
		assert.Equal(t, 0, idx)
	}
}

func TestSampleIndices_SingleRequestedFrame(t *testing.T) {
	assert.Equal(t, []int{0}, sampleIndices(50, 1))
}

func TestSampleIndices_DegenerateInputs(t *testing.T) {
	assert.Nil(t, sampleIndices(0, 10))
	assert.Nil(t, sampleIndices(10, 0))
}

func TestFrameArgs_SeeksBeforeInput(t *testing.T) {
	args := frameArgs("/tmp/clip.mp4", 150, 30)

	ssIdx := indexOf(args, "-ss")
	inIdx := indexOf(args, "-i")
	require.GreaterOrEqual(t, ssIdx, 0)
	require.GreaterOrEqual(t, inIdx, 0)
	assert.Less(t, ssIdx, inIdx, "seek must precede the input so ffmpeg jumps instead of scanning")

	assert.Equal(t, "5.000000", args[ssIdx+1])
	assert.Equal(t, "/tmp/clip.mp4", args[inIdx+1])
	assert.Equal(t, "1", args[indexOf(args, "-frames:v")+1])
}

func TestFrameArgs_TimestampScalesWithFrameRate(t *testing.T) {
	args := frameArgs("/tmp/clip.mp4", 53999, 29.97)
	assert.Equal(t, "1801.768435", args[indexOf(args, "-ss")+1])
}

func TestFrameArgs_NonPositiveRateFallsBack(t *testing.T) {
	args := frameArgs("/tmp/clip.mp4", 60, 0)
	assert.Equal(t, "2.000000", args[indexOf(args, "-ss")+1])
}

func TestParseStreamInfo(t *testing.T) {
	t.Run("rate_and_count", func(t *testing.T) {
		info, err := parseStreamInfo("30000/1001,900\n")
		require.NoError(t, err)
		assert.Equal(t, 900, info.frameCount)
		assert.InDelta(t, 29.97, info.frameRate, 0.01)
	})

	t.Run("field_order_is_not_assumed", func(t *testing.T) {
		info, err := parseStreamInfo("900,25/1")
		require.NoError(t, err)
		assert.Equal(t, 900, info.frameCount)
		assert.InDelta(t, 25.0, info.frameRate, 1e-9)
	})

	t.Run("degenerate_rate_falls_back", func(t *testing.T) {
		info, err := parseStreamInfo("0/0,50")
		require.NoError(t, err)
		assert.Equal(t, 50, info.frameCount)
		assert.InDelta(t, defaultFrameRate, info.frameRate, 1e-9)
	})

	t.Run("missing_count_is_an_error", func(t *testing.T) {
		_, err := parseStreamInfo("25/1")
		assert.Error(t, err)
	})

	t.Run("garbage_is_an_error", func(t *testing.T) {
		_, err := parseStreamInfo("N/A")
		assert.Error(t, err)
	})
}

func indexOf(args []string, flag string) int {
	for i, a := range args {
		if a == flag {
			return i
		}
	}
	return -1
}

func TestSample_UnopenableVideoYieldsNoFrames(t *testing.T) {
	// A nonexistent ffprobe binary behaves like an unreadable video: the
	// sampler reports no frames instead of failing.
	sampler := NewFrameSampler("/nonexistent/ffmpeg", "/nonexistent/ffprobe", 10)
	frames := sampler.Sample(context.Background(), []byte("not a video"))
	assert.Empty(t, frames)
}
