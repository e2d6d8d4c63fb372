package s3

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestObjectKey(t *testing.T) {
	at := time.Date(2026, 3, 4, 5, 6, 7, 8_000_000, time.UTC)

	require.Equal(t, "exports/abc/20260304T050607.008Z-user_annotation.json",
		objectKey("exports", "abc", "user_annotation.json", at))
	require.Equal(t, "abc/20260304T050607.008Z-prediction.json",
		objectKey("", "abc", "prediction.json", at))
}

func TestNewRequiresBucket(t *testing.T) {
	_, err := New(Config{Region: "us-east-1"})
	require.Error(t, err)
}

func TestPresignIsOffline(t *testing.T) {
	store, err := New(Config{
		Region:          "us-east-1",
		Bucket:          "annotations",
		AccessKeyID:     "AKIDEXAMPLE",
		SecretAccessKey: "secret",
	})
	require.NoError(t, err)

	url, err := store.PresignUrl("abc/prediction.json")
	require.NoError(t, err)
	require.Contains(t, url, "annotations")
	require.Contains(t, url, "abc/prediction.json")
	require.Contains(t, url, "X-Amz-Signature=")
}
