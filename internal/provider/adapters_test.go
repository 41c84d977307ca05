package provider

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"truthscan/internal/model"
)

const (
	testHiveURL       = "https://hive.test/api/v2/task/sync"
	testAIOrNotURL    = "https://aiornot.test/v1/reports/image"
	testGPTZeroURL    = "https://gptzero.test/v2/predict/text"
	testHFBaseURL     = "https://hf.test"
	testElevenLabsURL = "https://elevenlabs.test/v1/moderation"
)

func imageRequest() model.DetectionRequest {
	return model.DetectionRequest{Data: []byte{0xFF, 0xD8, 0xFF}, Filename: "photo.jpg", ContentType: "image/jpeg"}
}

func textRequest(text string) model.DetectionRequest {
	return model.DetectionRequest{Data: []byte(text), Filename: "input.txt", ContentType: "text/plain"}
}

func TestHive_Detect(t *testing.T) {
	hive := NewHive("key", testHiveURL)
	httpmock.ActivateNonDefault(hive.client)
	defer httpmock.DeactivateAndReset()

	t.Run("extracts_ai_generated_score", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testHiveURL, httpmock.NewStringResponder(200, `{
			"status": [{"response": {"output": [{"classes": [
				{"class": "not_ai_generated", "score": 0.13},
				{"class": "ai_generated", "score": 0.87}
			]}]}}]
		}`))

		res, ok := hive.Detect(context.Background(), imageRequest())

		require.True(t, ok)
		assert.InDelta(t, 0.87, res.Score, 1e-9)
	})

	t.Run("missing_class_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testHiveURL, httpmock.NewStringResponder(200, `{
			"status": [{"response": {"output": [{"classes": [{"class": "nsfw", "score": 0.1}]}]}}]
		}`))

		_, ok := hive.Detect(context.Background(), imageRequest())
		assert.False(t, ok)
	})

	t.Run("server_error_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testHiveURL, httpmock.NewStringResponder(500, "boom"))

		_, ok := hive.Detect(context.Background(), imageRequest())
		assert.False(t, ok)
	})

	t.Run("malformed_json_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testHiveURL, httpmock.NewStringResponder(200, `{not json`))

		_, ok := hive.Detect(context.Background(), imageRequest())
		assert.False(t, ok)
	})

	t.Run("network_error_is_absence", func(t *testing.T) {
		httpmock.Reset()

		_, ok := hive.Detect(context.Background(), imageRequest())
		assert.False(t, ok)
	})
}

func TestAIOrNot_Detect(t *testing.T) {
	aiornot := NewAIOrNot("key", testAIOrNotURL)
	httpmock.ActivateNonDefault(aiornot.client)
	defer httpmock.DeactivateAndReset()

	t.Run("rescales_confidence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testAIOrNotURL,
			httpmock.NewStringResponder(200, `{"report": {"ai": {"confidence": 92.5}}}`))

		res, ok := aiornot.Detect(context.Background(), imageRequest())

		require.True(t, ok)
		assert.InDelta(t, 0.925, res.Score, 1e-9)
	})

	t.Run("missing_confidence_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testAIOrNotURL,
			httpmock.NewStringResponder(200, `{"report": {}}`))

		_, ok := aiornot.Detect(context.Background(), imageRequest())
		assert.False(t, ok)
	})

	t.Run("zero_confidence_is_a_valid_score", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testAIOrNotURL,
			httpmock.NewStringResponder(200, `{"report": {"ai": {"confidence": 0}}}`))

		res, ok := aiornot.Detect(context.Background(), imageRequest())

		require.True(t, ok)
		assert.Zero(t, res.Score)
	})
}

func TestGPTZero_Detect(t *testing.T) {
	gptzero := NewGPTZero("key", testGPTZeroURL)
	httpmock.ActivateNonDefault(gptzero.client)
	defer httpmock.DeactivateAndReset()

	t.Run("extracts_generated_prob_and_signals", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testGPTZeroURL, httpmock.NewStringResponder(200, `{
			"documents": [{
				"completely_generated_prob": 0.91,
				"average_generated_prob": 0.88,
				"burstiness": 12.3,
				"perplexity": 21.0
			}]
		}`))

		res, ok := gptzero.Detect(context.Background(), textRequest("some document"))

		require.True(t, ok)
		assert.InDelta(t, 0.91, res.Score, 1e-9)

		labels := make([]string, 0, len(res.Signals))
		for _, s := range res.Signals {
			labels = append(labels, s.Label)
		}
		assert.Contains(t, labels, "High AI probability score")
		assert.Contains(t, labels, "Low text burstiness")
		assert.Contains(t, labels, "Low perplexity score")
	})

	t.Run("human_document_gets_natural_signal", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testGPTZeroURL, httpmock.NewStringResponder(200, `{
			"documents": [{
				"completely_generated_prob": 0.05,
				"average_generated_prob": 0.04,
				"burstiness": 85.0,
				"perplexity": 120.0
			}]
		}`))

		res, ok := gptzero.Detect(context.Background(), textRequest("a very human essay"))

		require.True(t, ok)
		require.Len(t, res.Signals, 1)
		assert.Equal(t, "Natural sentence variety", res.Signals[0].Label)
	})

	t.Run("empty_documents_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testGPTZeroURL,
			httpmock.NewStringResponder(200, `{"documents": []}`))

		_, ok := gptzero.Detect(context.Background(), textRequest("text"))
		assert.False(t, ok)
	})
}

func TestHuggingFace_Detect(t *testing.T) {
	hf := NewHuggingFace("key", testHFBaseURL, "test-org/detector")
	httpmock.ActivateNonDefault(hf.client)
	defer httpmock.DeactivateAndReset()

	modelURL := testHFBaseURL + "/models/test-org/detector"

	t.Run("nested_batch_with_fake_label", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, modelURL, httpmock.NewStringResponder(200,
			`[[{"label": "Fake", "score": 0.83}, {"label": "Real", "score": 0.17}]]`))

		res, ok := hf.Detect(context.Background(), textRequest("generated text"))

		require.True(t, ok)
		assert.InDelta(t, 0.83, res.Score, 1e-9)
	})

	t.Run("flat_list_with_human_label_only", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, modelURL, httpmock.NewStringResponder(200,
			`[{"label": "human-written", "score": 0.75}]`))

		res, ok := hf.Detect(context.Background(), textRequest("an essay"))

		require.True(t, ok)
		assert.InDelta(t, 0.25, res.Score, 1e-9)
	})

	t.Run("unmappable_labels_are_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, modelURL, httpmock.NewStringResponder(200,
			`[{"label": "POSITIVE", "score": 0.99}]`))

		_, ok := hf.Detect(context.Background(), textRequest("text"))
		assert.False(t, ok)
	})

	t.Run("name_carries_model", func(t *testing.T) {
		assert.Equal(t, "Hugging Face (test-org/detector)", hf.Name())
	})
}

func TestElevenLabs_Detect(t *testing.T) {
	eleven := NewElevenLabs("key", testElevenLabsURL)
	httpmock.ActivateNonDefault(eleven.client)
	defer httpmock.DeactivateAndReset()

	audioReq := model.DetectionRequest{Data: []byte("RIFF"), Filename: "voice.wav", ContentType: "audio/wav"}

	t.Run("probability_field", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testElevenLabsURL,
			httpmock.NewStringResponder(200, `{"probability": 0.66}`))

		res, ok := eleven.Detect(context.Background(), audioReq)

		require.True(t, ok)
		assert.InDelta(t, 0.66, res.Score, 1e-9)
	})

	t.Run("ai_probability_field", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testElevenLabsURL,
			httpmock.NewStringResponder(200, `{"ai_probability": 0.31}`))

		res, ok := eleven.Detect(context.Background(), audioReq)

		require.True(t, ok)
		assert.InDelta(t, 0.31, res.Score, 1e-9)
	})

	t.Run("endpoint_not_implemented_is_absence", func(t *testing.T) {
		for _, code := range []int{404, 405} {
			httpmock.Reset()
			httpmock.RegisterResponder(http.MethodPost, testElevenLabsURL,
				httpmock.NewStringResponder(code, "not found"))

			_, ok := eleven.Detect(context.Background(), audioReq)
			assert.False(t, ok, "status %d", code)
		}
	})

	t.Run("no_probability_field_is_absence", func(t *testing.T) {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodPost, testElevenLabsURL,
			httpmock.NewStringResponder(200, `{"status": "ok"}`))

		_, ok := eleven.Detect(context.Background(), audioReq)
		assert.False(t, ok)
	})
}
