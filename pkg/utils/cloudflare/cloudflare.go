package cloudflare

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"

	appconfig "facade_backend/pkg/config"
)

// R2 stores building media in a Cloudflare R2 bucket through its S3 API.
type R2 struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	publicURL string
}

func NewR2(ctx context.Context, cfg appconfig.R2Config) (*R2, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.r2.dev", cfg.Bucket)
	}

	return &R2{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.Bucket,
		publicURL: publicURL,
	}, nil
}

func (r *R2) Upload(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("could not upload file to R2: %w", err)
	}
	return r.PublicURL(key), nil
}

// PresignUpload returns a URL the browser can PUT the object to directly.
func (r *R2) PresignUpload(ctx context.Context, key, contentType string, ttl time.Duration) (string, error) {
	req, err := r.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("could not presign upload: %w", err)
	}
	return req.URL, nil
}

// PresignDownload returns a time-limited GET URL for a private object.
func (r *R2) PresignDownload(ctx context.Context, key string, ttl time.Duration) (string, error) {
	req, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("could not presign download: %w", err)
	}
	return req.URL, nil
}

func (r *R2) Delete(ctx context.Context, key string) error {
	_, err := r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %w", err)
	}
	return nil
}

func (r *R2) PublicURL(key string) string {
	return r.publicURL + "/" + key
}

// KeyFromURL strips the public prefix; ok is false for foreign URLs.
func (r *R2) KeyFromURL(fullURL string) (string, bool) {
	return KeyFromURL(r.publicURL, fullURL)
}

func KeyFromURL(publicURL, fullURL string) (string, bool) {
	prefix := strings.TrimSuffix(publicURL, "/") + "/"
	if !strings.HasPrefix(fullURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(fullURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	return key, key != ""
}

// ObjectKey builds buildings/<building>/<kind>s/<unique><ext>. Unknown
// buildings (media picked before the record exists) go under "unassigned".
func ObjectKey(building, kind, filename string) string {
	safeBuilding := slug.Make(building)
	if safeBuilding == "" {
		safeBuilding = "unassigned"
	}

	ext := strings.ToLower(filepath.Ext(filename))
	uniqueID := fmt.Sprintf("%d-%s", time.Now().UnixNano(), uuid.New().String())

	return path.Join("buildings", safeBuilding, slug.Make(kind)+"s", uniqueID+ext)
}
