package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/pageza/snapcal/backend/config"
)

const (
	// CompressThreshold is the size above which photos are re-encoded
	CompressThreshold = 1 << 20
	compressQuality   = 80
)

// PrepareImage re-encodes large JPEG or PNG photos as JPEG. The original
// bytes are kept when decoding fails or the result would not be smaller.
func PrepareImage(raw []byte) []byte {
	if len(raw) <= CompressThreshold {
		return raw
	}

	img, format, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		log.Printf("[ImageService] could not decode %d byte upload, sending as is: %v", len(raw), err)
		return raw
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: compressQuality}); err != nil {
		return raw
	}
	if buf.Len() >= len(raw) {
		return raw
	}

	log.Printf("[ImageService] compressed %s image from %d to %d bytes", format, len(raw), buf.Len())
	return buf.Bytes()
}

// ImageStore keeps meal photos and returns a reference to them
type ImageStore interface {
	Put(ctx context.Context, data []byte) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3ImageStore uploads meal photos to S3
type S3ImageStore struct {
	client objectPutter
	bucket string
	urlFor func(key string) string
}

var _ ImageStore = (*S3ImageStore)(nil)

// NewS3ImageStore returns nil when S3 is not configured
func NewS3ImageStore(cfg *config.S3Config) *S3ImageStore {
	if cfg == nil {
		return nil
	}
	return &S3ImageStore{client: cfg.Client, bucket: cfg.BucketName, urlFor: cfg.ObjectURL}
}

// Put uploads the photo and returns its public URL
func (s *S3ImageStore) Put(ctx context.Context, data []byte) (string, error) {
	key := fmt.Sprintf("meal-images/%s.jpg", uuid.New().String())

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	url := s.urlFor(key)
	log.Printf("[ImageService] Successfully uploaded meal photo to S3: %s", url)
	return url, nil
}
