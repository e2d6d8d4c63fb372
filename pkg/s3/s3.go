package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

const presignTTL = 15 * time.Minute

type Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Prefix          string
}

type Upload struct {
	Key       string    `json:"key"`
	Location  string    `json:"location"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ItfS3 stores exported annotation files.
type ItfS3 interface {
	UploadExport(ctx context.Context, sessionID, filename string, data []byte) (*Upload, error)
	PresignUrl(key string) (string, error)
}

type s3Client struct {
	client     *s3.S3
	session    *session.Session
	bucketName string
	prefix     string
}

func New(cfg Config) (ItfS3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket name is required")
	}

	sess, err := newSession(cfg)
	if err != nil {
		return nil, err
	}

	return &s3Client{
		client:     s3.New(sess),
		session:    sess,
		bucketName: cfg.Bucket,
		prefix:     strings.Trim(cfg.Prefix, "/"),
	}, nil
}

func (s *s3Client) UploadExport(ctx context.Context, sessionID, filename string, data []byte) (*Upload, error) {
	uploader := s3manager.NewUploader(s.session)

	key := objectKey(s.prefix, sessionID, filename, time.Now())

	out, err := uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:             aws.String(s.bucketName),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentType:        aws.String("application/json"),
		ContentDisposition: aws.String(fmt.Sprintf("attachment; filename=%q", filename)),
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	url, err := s.PresignUrl(key)
	if err != nil {
		return nil, err
	}

	return &Upload{
		Key:       key,
		Location:  out.Location,
		URL:       url,
		ExpiresAt: time.Now().Add(presignTTL),
	}, nil
}

func (s *s3Client) PresignUrl(key string) (string, error) {
	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})

	urlStr, err := req.Presign(presignTTL)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}

	return urlStr, nil
}

func newSession(cfg Config) (*session.Session, error) {
	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKeyID != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKeyID, cfg.SecretAccessKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, err
	}

	return sess, nil
}

// objectKey places each export under its session with a timestamp so
// repeated exports never overwrite each other.
func objectKey(prefix, sessionID, filename string, at time.Time) string {
	name := fmt.Sprintf("%s-%s", at.UTC().Format("20060102T150405.000Z"), filename)
	return path.Join(prefix, sessionID, name)
}
