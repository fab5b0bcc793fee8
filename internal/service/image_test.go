package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math/rand"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func noisyPNG(t *testing.T, size int) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, color.RGBA{uint8(rng.Intn(256)), uint8(rng.Intn(256)), uint8(rng.Intn(256)), 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestPrepareImage(t *testing.T) {
	t.Run("should pass small images through", func(t *testing.T) {
		raw := []byte("tiny")
		assert.Equal(t, raw, PrepareImage(raw))
	})

	t.Run("should pass undecodable large payloads through", func(t *testing.T) {
		raw := bytes.Repeat([]byte{0x01}, CompressThreshold+1)
		assert.Equal(t, raw, PrepareImage(raw))
	})

	t.Run("should compress large images to jpeg", func(t *testing.T) {
		raw := noisyPNG(t, 800)
		require.Greater(t, len(raw), CompressThreshold)

		out := PrepareImage(raw)

		assert.Less(t, len(out), len(raw))
		_, err := jpeg.Decode(bytes.NewReader(out))
		assert.NoError(t, err)
	})
}

type mockPutter struct {
	mock.Mock
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3ImageStore_Put(t *testing.T) {
	t.Run("should upload under meal-images", func(t *testing.T) {
		putter := new(mockPutter)
		putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return aws.ToString(in.Bucket) == "meals" &&
				strings.HasPrefix(aws.ToString(in.Key), "meal-images/") &&
				aws.ToString(in.ContentType) == "image/jpeg"
		})).Return(&s3.PutObjectOutput{}, nil)
		store := &S3ImageStore{client: putter, bucket: "meals", urlFor: func(k string) string { return "https://cdn/" + k }}

		url, err := store.Put(context.Background(), []byte("jpeg"))

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(url, "https://cdn/meal-images/"))
		assert.True(t, strings.HasSuffix(url, ".jpg"))
		putter.AssertExpectations(t)
	})

	t.Run("should wrap upload errors", func(t *testing.T) {
		putter := new(mockPutter)
		putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))
		store := &S3ImageStore{client: putter, bucket: "meals", urlFor: func(k string) string { return k }}

		_, err := store.Put(context.Background(), []byte("jpeg"))

		assert.ErrorContains(t, err, "access denied")
	})

	t.Run("should be disabled without config", func(t *testing.T) {
		assert.Nil(t, NewS3ImageStore(nil))
	})
}
