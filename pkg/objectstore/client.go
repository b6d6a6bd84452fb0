package objectstore

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore wraps an S3-compatible bucket holding note images.
type ObjectStore struct {
	Client *s3.Client
}

type Config struct {
	AccessKey string
	SecretKey string
	Endpoint  string
	Region    string
}

func NewClient(cfg Config) (*ObjectStore, error) {
	staticResolver := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")

	awsCfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(staticResolver),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load sdk config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &ObjectStore{Client: client}, nil
}

// Upload stores the content under a generated key and returns that key.
func (o *ObjectStore) Upload(ctx context.Context, bucket, fileName string, content io.ReadSeeker) (string, error) {
	contentType, err := o.DetectMimeType(content)
	if err != nil {
		return "", err
	}

	key := o.GenerateObjectKey(fileName)

	_, err = o.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(contentType),
	})

	return key, err
}

func (o *ObjectStore) Download(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	result, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to download object from s3: %w", err)
	}

	return result.Body, nil
}

func (o *ObjectStore) Delete(ctx context.Context, bucket, key string) error {
	_, err := o.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	return err
}

// GetPresignedURL creates a temporary access link for a stored image.
func (o *ObjectStore) GetPresignedURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	presignClient := s3.NewPresignClient(o.Client)

	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiry))
	if err != nil {
		return "", err
	}
	return req.URL, nil
}

// GenerateObjectKey makes the name unique and strips unsafe characters.
func (o *ObjectStore) GenerateObjectKey(originalName string) string {
	ext := filepath.Ext(originalName)
	nameOnly := strings.TrimSuffix(originalName, ext)

	cleanName := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '_'
	}, nameOnly)

	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), cleanName, ext)
}

func (o *ObjectStore) DetectMimeType(content io.ReadSeeker) (string, error) {
	buffer := make([]byte, 512)
	_, err := content.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	// rewind so the upload reads the full stream
	_, _ = content.Seek(0, io.SeekStart)

	return http.DetectContentType(buffer), nil
}

// ValidateAllowedMime checks the stream against a mime allowlist.
func (o *ObjectStore) ValidateAllowedMime(content io.ReadSeeker, allowedTypes []string) (bool, string, error) {
	mimeType, err := o.DetectMimeType(content)
	if err != nil {
		return false, "", err
	}

	for _, t := range allowedTypes {
		if mimeType == t {
			return true, mimeType, nil
		}
	}
	return false, mimeType, nil
}
