package provider

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthscan/internal/model"
)

// fakeDetector scripts a single provider outcome for chain tests.
type fakeDetector struct {
	name  string
	score float64
	ok    bool
	calls int
}

func (f *fakeDetector) Name() string { return f.name }

func (f *fakeDetector) Detect(ctx context.Context, req model.DetectionRequest) (Result, bool) {
	f.calls++
	return Result{Score: f.score}, f.ok
}

func testRequest() model.DetectionRequest {
	return model.DetectionRequest{Data: []byte("payload"), Filename: "input.bin", ContentType: "application/octet-stream"}
}

func TestChain_FirstSuccessWins(t *testing.T) {
	first := &fakeDetector{name: "first", score: 0.9, ok: true}
	second := &fakeDetector{name: "second", score: 0.1, ok: true}
	chain := NewChain(first, second)

	res, name, ok := chain.Detect(context.Background(), testRequest())

	require.True(t, ok)
	assert.Equal(t, "first", name)
	assert.InDelta(t, 0.9, res.Score, 1e-9)
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 0, second.calls, "lower-priority provider must not be called")
}

func TestChain_FallsThroughOnFailure(t *testing.T) {
	first := &fakeDetector{name: "first", ok: false}
	second := &fakeDetector{name: "second", score: 0.42, ok: true}
	chain := NewChain(first, second)

	res, name, ok := chain.Detect(context.Background(), testRequest())

	require.True(t, ok)
	assert.Equal(t, "second", name)
	assert.InDelta(t, 0.42, res.Score, 1e-9)
	assert.Equal(t, 1, first.calls)
}

func TestChain_TotalExhaustion(t *testing.T) {
	first := &fakeDetector{name: "first", ok: false}
	second := &fakeDetector{name: "second", ok: false}
	chain := NewChain(first, second)

	_, name, ok := chain.Detect(context.Background(), testRequest())

	assert.False(t, ok)
	assert.Equal(t, "second", name, "failure attribution names the last attempted provider")
	assert.Equal(t, 1, first.calls)
	assert.Equal(t, 1, second.calls, "each provider is tried at most once")
}

func TestChain_Empty(t *testing.T) {
	chain := NewChain()

	assert.True(t, chain.Empty())
	assert.Empty(t, chain.Primary())

	_, name, ok := chain.Detect(context.Background(), testRequest())
	assert.False(t, ok)
	assert.Empty(t, name)
}

func TestChain_Primary(t *testing.T) {
	chain := NewChain(&fakeDetector{name: "Hive Moderation"}, &fakeDetector{name: "AI-or-Not"})
	assert.Equal(t, "Hive Moderation", chain.Primary())
}

func TestMultipartBody(t *testing.T) {
	body, contentType, err := multipartBody("image", "photo.jpg", "image/jpeg", []byte{0xFF, 0xD8})

	require.NoError(t, err)
	assert.Contains(t, contentType, "multipart/form-data; boundary=")
	payload := body.String()
	assert.Contains(t, payload, `name="image"`)
	assert.Contains(t, payload, `filename="photo.jpg"`)
	assert.Contains(t, payload, "Content-Type: image/jpeg")
}
