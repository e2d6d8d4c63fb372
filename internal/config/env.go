package config

import (
	"UIAnnotator/internal/entity"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	PredictorHTTP   = "http"
	PredictorGemini = "gemini"

	UnknownTagsAccept = "accept"
	UnknownTagsReject = "reject"
)

type Env struct {
	Port string
	Env  string

	Tags entity.Vocabulary

	PredictorBackend string
	PredictorURL     string
	PredictorTimeout time.Duration
	UnknownTags      string

	GeminiAPIKey    string
	GeminiModelName string

	AWSRegion          string
	AWSBucketName      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	AWSExportPrefix    string

	MaxImageBytes  int64
	RateLimitRPS   float64
	RateLimitBurst int
	SessionIdleTTL time.Duration
}

// LoadEnv reads the process environment into Env, filling defaults for
// anything unset. Malformed numbers fall back to their default.
func LoadEnv() Env {
	return Env{
		Port:               getString("APP_PORT", "3000"),
		Env:                getString("APP_ENV", "development"),
		Tags:               entity.ParseVocabulary(getString("ANNOTATION_TAGS", "button,input,radio,dropdown")),
		PredictorBackend:   strings.ToLower(getString("PREDICTOR_BACKEND", PredictorHTTP)),
		PredictorURL:       getString("PREDICTOR_URL", "http://localhost:8000/predict/"),
		PredictorTimeout:   getDuration("PREDICTOR_TIMEOUT", 30*time.Second),
		UnknownTags:        strings.ToLower(getString("PREDICTION_UNKNOWN_TAGS", UnknownTagsAccept)),
		GeminiAPIKey:       os.Getenv("GEMINI_API_KEY"),
		GeminiModelName:    os.Getenv("GEMINI_MODEL_NAME"),
		AWSRegion:          os.Getenv("AWS_REGION"),
		AWSBucketName:      os.Getenv("AWS_BUCKET_NAME"),
		AWSAccessKeyID:     os.Getenv("AWS_ACCESS_KEY_ID"),
		AWSSecretAccessKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		AWSExportPrefix:    getString("AWS_EXPORT_PREFIX", "exports"),
		MaxImageBytes:      getInt64("MAX_IMAGE_BYTES", 10*1024*1024),
		RateLimitRPS:       getFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:     int(getInt64("RATE_LIMIT_BURST", 5)),
		SessionIdleTTL:     getDuration("SESSION_IDLE_TTL", 2*time.Hour),
	}
}

func (e Env) Validate() error {
	var errs []error

	if len(e.Tags) == 0 {
		errs = append(errs, errors.New("ANNOTATION_TAGS must name at least one tag"))
	}

	switch e.PredictorBackend {
	case PredictorHTTP:
		if e.PredictorURL == "" {
			errs = append(errs, errors.New("PREDICTOR_URL is required for the http predictor"))
		}
	case PredictorGemini:
		if e.GeminiAPIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini predictor"))
		}
	default:
		errs = append(errs, fmt.Errorf("PREDICTOR_BACKEND %q is not one of http, gemini", e.PredictorBackend))
	}

	if e.UnknownTags != UnknownTagsAccept && e.UnknownTags != UnknownTagsReject {
		errs = append(errs, fmt.Errorf("PREDICTION_UNKNOWN_TAGS %q is not one of accept, reject", e.UnknownTags))
	}
	if e.PredictorTimeout <= 0 {
		errs = append(errs, errors.New("PREDICTOR_TIMEOUT must be positive"))
	}
	if e.MaxImageBytes <= 0 {
		errs = append(errs, errors.New("MAX_IMAGE_BYTES must be positive"))
	}
	if e.SessionIdleTTL <= 0 {
		errs = append(errs, errors.New("SESSION_IDLE_TTL must be positive"))
	}
	if e.RateLimitRPS <= 0 || e.RateLimitBurst <= 0 {
		errs = append(errs, errors.New("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive"))
	}

	return errors.Join(errs...)
}

// ExportStoreEnabled reports whether enough is set to build the S3 client.
func (e Env) ExportStoreEnabled() bool {
	return e.AWSBucketName != "" && e.AWSRegion != ""
}

func getString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getInt64(key string, fallback int64) int64 {
	v, err := strconv.ParseInt(os.Getenv(key), 10, 64)
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil {
		return fallback
	}
	return v
}
