// Package storage keeps delivery signature images in an S3-compatible
// bucket. Only object keys are persisted in the database; reads go through
// short-lived presigned URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// DefaultPresignTTL is how long a presigned GET stays valid.
const DefaultPresignTTL = 15 * time.Minute

// ErrDisabled is returned when no bucket is configured.
var ErrDisabled = errors.New("signature storage disabled")

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	presignGetObject = func(c *s3.Client, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return s3.NewPresignClient(c).PresignGetObject(ctx, in, optFns...)
	}

	now = time.Now
)

// Options configures the bucket connection. An empty Bucket disables the
// store.
type Options struct {
	Bucket       string
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
	PresignTTL   time.Duration
}

// SignatureStore uploads signature images and vends download links.
type SignatureStore struct {
	opts Options

	mu     sync.Mutex
	client *s3.Client
}

func NewSignatureStore(opts Options) *SignatureStore {
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = DefaultPresignTTL
	}
	return &SignatureStore{opts: opts}
}

// Enabled reports whether a bucket is configured.
func (s *SignatureStore) Enabled() bool {
	return s.opts.Bucket != ""
}

// getClient builds the S3 client on first use. A failed attempt is not
// cached; the next call tries again.
func (s *SignatureStore) getClient(ctx context.Context) (*s3.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		return s.client, nil
	}

	optFns := []func(*config.LoadOptions) error{config.WithRegion(s.opts.Region)}
	if s.opts.AccessKey != "" {
		optFns = append(optFns, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(s.opts.AccessKey, s.opts.SecretKey, "")))
	}

	cfg, err := loadDefaultAWSConfig(ctx, optFns...)
	if err != nil {
		return nil, err
	}

	s.client = newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.opts.Endpoint)
		}
		o.UsePathStyle = s.opts.UsePathStyle
	})
	return s.client, nil
}

// NewKey returns a fresh object key under signatures/YYYY/M/D/.
func NewKey() string {
	d := now()
	return fmt.Sprintf("signatures/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Put stores body under a new key and returns the key.
func (s *SignatureStore) Put(ctx context.Context, contentType string, body []byte) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	c, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	key := NewKey()
	err = putObject(c, ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.opts.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}
	return key, nil
}

// PresignGet returns a download URL for key valid for PresignTTL.
func (s *SignatureStore) PresignGet(ctx context.Context, key string) (string, error) {
	if !s.Enabled() {
		return "", ErrDisabled
	}
	c, err := s.getClient(ctx)
	if err != nil {
		return "", fmt.Errorf("s3 client: %w", err)
	}

	req, err := presignGetObject(c, ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return "", fmt.Errorf("presign get %s: %w", key, err)
	}
	return req.URL, nil
}
