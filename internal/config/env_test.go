package config

import (
	"testing"
	"time"

	"UIAnnotator/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	for _, key := range []string{
		"APP_PORT", "ANNOTATION_TAGS", "PREDICTOR_BACKEND", "PREDICTOR_URL", "PREDICTOR_TIMEOUT",
		"PREDICTION_UNKNOWN_TAGS", "AWS_BUCKET_NAME", "AWS_REGION", "MAX_IMAGE_BYTES",
		"RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "SESSION_IDLE_TTL", "AWS_EXPORT_PREFIX",
	} {
		t.Setenv(key, "")
	}

	env := LoadEnv()

	assert.Equal(t, "3000", env.Port)
	assert.Equal(t, entity.DefaultVocabulary, env.Tags)
	assert.Equal(t, PredictorHTTP, env.PredictorBackend)
	assert.Equal(t, "http://localhost:8000/predict/", env.PredictorURL)
	assert.Equal(t, 30*time.Second, env.PredictorTimeout)
	assert.Equal(t, UnknownTagsAccept, env.UnknownTags)
	assert.Equal(t, int64(10*1024*1024), env.MaxImageBytes)
	assert.Equal(t, 2.0, env.RateLimitRPS)
	assert.Equal(t, 5, env.RateLimitBurst)
	assert.Equal(t, 2*time.Hour, env.SessionIdleTTL)
	assert.Equal(t, "exports", env.AWSExportPrefix)
	assert.False(t, env.ExportStoreEnabled())
	require.NoError(t, env.Validate())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ANNOTATION_TAGS", "link, image ,link")
	t.Setenv("PREDICTOR_BACKEND", "GEMINI")
	t.Setenv("GEMINI_API_KEY", "key")
	t.Setenv("PREDICTOR_TIMEOUT", "5s")
	t.Setenv("AWS_BUCKET_NAME", "annotations")
	t.Setenv("AWS_REGION", "ap-southeast-1")
	t.Setenv("MAX_IMAGE_BYTES", "not-a-number")

	env := LoadEnv()

	assert.Equal(t, entity.Vocabulary{"link", "image"}, env.Tags)
	assert.Equal(t, PredictorGemini, env.PredictorBackend)
	assert.Equal(t, 5*time.Second, env.PredictorTimeout)
	assert.Equal(t, int64(10*1024*1024), env.MaxImageBytes)
	assert.True(t, env.ExportStoreEnabled())
	require.NoError(t, env.Validate())
}

func TestValidate(t *testing.T) {
	valid := Env{
		Tags:             entity.DefaultVocabulary,
		PredictorBackend: PredictorHTTP,
		PredictorURL:     "http://predictor/predict/",
		PredictorTimeout: time.Second,
		UnknownTags:      UnknownTagsAccept,
		MaxImageBytes:    1024,
		RateLimitRPS:     1,
		RateLimitBurst:   1,
		SessionIdleTTL:   time.Minute,
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(e *Env)
		want   string
	}{
		{"no tags", func(e *Env) { e.Tags = nil }, "ANNOTATION_TAGS"},
		{"unknown backend", func(e *Env) { e.PredictorBackend = "grpc" }, "PREDICTOR_BACKEND"},
		{"http without url", func(e *Env) { e.PredictorURL = "" }, "PREDICTOR_URL"},
		{"gemini without key", func(e *Env) { e.PredictorBackend = PredictorGemini }, "GEMINI_API_KEY"},
		{"bad unknown tag policy", func(e *Env) { e.UnknownTags = "drop" }, "PREDICTION_UNKNOWN_TAGS"},
		{"zero timeout", func(e *Env) { e.PredictorTimeout = 0 }, "PREDICTOR_TIMEOUT"},
		{"zero idle ttl", func(e *Env) { e.SessionIdleTTL = 0 }, "SESSION_IDLE_TTL"},
		{"zero burst", func(e *Env) { e.RateLimitBurst = 0 }, "RATE_LIMIT_BURST"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := valid
			tt.mutate(&env)
			err := env.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestNewServerRequiresPredictor(t *testing.T) {
	_, err := NewServer(WithEnv(Env{PredictorBackend: "grpc"}), WithPredictor())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown predictor backend")
}
