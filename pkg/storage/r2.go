package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"sunushop-backend/pkg/utils"
)

// R2Storage stores product images and carrier logos in a Cloudflare R2 bucket
// through its S3-compatible API.
type R2Storage struct {
	client        *s3.Client
	bucketName    string
	publicURL     string
	uploadTimeout time.Duration
}

type R2Options struct {
	AccountID     string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicURL     string
	UploadTimeout time.Duration
}

func NewR2Storage(ctx context.Context, opts R2Options) (*R2Storage, error) {
	if opts.AccountID == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("r2: account id and bucket are required")
	}

	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", opts.AccountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	timeout := opts.UploadTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &R2Storage{
		client:        client,
		bucketName:    opts.Bucket,
		publicURL:     strings.TrimSuffix(opts.PublicURL, "/"),
		uploadTimeout: timeout,
	}, nil
}

// UploadImage stores data under folder with a random name and returns its public URL.
func (s *R2Storage) UploadImage(ctx context.Context, folder string, data []byte, contentType string) (string, error) {
	key := ObjectKey(folder, utils.GenerateUUID(), contentType)

	uploadCtx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	_, err := s.client.PutObject(uploadCtx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucketName),
		Key:          aws.String(key),
		Body:         bytes.NewReader(data),
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return "", fmt.Errorf("r2: put %s: %w", key, err)
	}

	return s.publicURL + "/" + key, nil
}

// DeleteImage removes an object previously returned by UploadImage.
func (s *R2Storage) DeleteImage(ctx context.Context, fileURL string) error {
	key, ok := KeyFromURL(s.publicURL, fileURL)
	if !ok {
		return fmt.Errorf("r2: %q is not served from this bucket", fileURL)
	}

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("r2: delete %s: %w", key, err)
	}
	return nil
}

func ObjectKey(folder, name, contentType string) string {
	ext := ".bin"
	switch contentType {
	case "image/webp":
		ext = ".webp"
	case "image/jpeg":
		ext = ".jpg"
	case "image/png":
		ext = ".png"
	}
	if folder == "" {
		folder = "uploads"
	}
	return path.Join(folder, name+ext)
}

func KeyFromURL(publicURL, fileURL string) (string, bool) {
	base := strings.TrimSuffix(publicURL, "/") + "/"
	if base == "/" || !strings.HasPrefix(fileURL, base) {
		return "", false
	}
	key := strings.TrimPrefix(fileURL, base)
	return key, key != ""
}
