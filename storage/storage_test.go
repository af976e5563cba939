package storage_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sajhasahayog/relief-api/storage"
	"github.com/sajhasahayog/relief-api/storage/mocks"
)

func pngImage(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 40, B: 40, A: 255})
		}
	}
	buf := &bytes.Buffer{}
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestNormalizeShrinksLargeImages(t *testing.T) {
	out, err := storage.Normalize(pngImage(t, 400, 200), 100)
	require.NoError(t, err)

	img, err := imaging.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestNormalizeKeepsSmallImages(t *testing.T) {
	out, err := storage.Normalize(pngImage(t, 40, 30), 100)
	require.NoError(t, err)

	img, err := imaging.Decode(out)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
}

func TestNormalizeRejectsNonImages(t *testing.T) {
	_, err := storage.Normalize(strings.NewReader("not an image"), 100)
	assert.ErrorIs(t, err, storage.ErrInvalidImage)
}

func TestPhotosUploadUsesDestinationFolder(t *testing.T) {
	tests := []struct {
		dest   storage.Destination
		bucket string
		prefix string
	}{
		{storage.MissingPersonPhoto, "disaster-images", "missing-persons/"},
		{storage.DamageReportPhoto, "disaster-images", "damage-reports/"},
		{storage.AidProofPhoto, "evidence", "aid-proofs/"},
	}
	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			store := &mocks.ObjectStore{}
			store.On("Upload", mock.Anything, tt.bucket,
				mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, tt.prefix) && strings.HasSuffix(key, ".jpg")
				}),
				mock.Anything, "image/jpeg").
				Return("https://cdn.example/"+tt.prefix+"x.jpg", nil)

			ph := &storage.Photos{Store: store, ReportBucket: "disaster-images", EvidenceBucket: "evidence", MaxDimension: 1600}
			url, err := ph.Upload(context.Background(), tt.dest, storage.Photo{Filename: "a.png", Body: pngImage(t, 10, 10)})

			require.NoError(t, err)
			assert.Equal(t, "https://cdn.example/"+tt.prefix+"x.jpg", url)
			store.AssertExpectations(t)
		})
	}
}

func TestPhotosUploadRandomizesNames(t *testing.T) {
	var keys []string
	store := &mocks.ObjectStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("url", nil).
		Run(func(args mock.Arguments) { keys = append(keys, args.String(2)) })

	ph := &storage.Photos{Store: store, ReportBucket: "disaster-images"}
	for i := 0; i < 2; i++ {
		_, err := ph.Upload(context.Background(), storage.DamageReportPhoto, storage.Photo{Body: pngImage(t, 5, 5)})
		require.NoError(t, err)
	}
	require.Len(t, keys, 2)
	assert.NotEqual(t, keys[0], keys[1])
}

func TestPhotosUploadStoreError(t *testing.T) {
	store := &mocks.ObjectStore{}
	store.On("Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return("", errors.New("bucket unavailable"))

	ph := &storage.Photos{Store: store, ReportBucket: "disaster-images"}
	_, err := ph.Upload(context.Background(), storage.MissingPersonPhoto, storage.Photo{Body: pngImage(t, 5, 5)})
	assert.ErrorContains(t, err, "bucket unavailable")
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Upload(t *testing.T) {
	client := &fakeS3{}
	s := &storage.S3{Client: client, Region: "ap-south-1"}

	url, err := s.Upload(context.Background(), "evidence", "aid-proofs/a.jpg", strings.NewReader("jpeg"), "image/jpeg")

	require.NoError(t, err)
	assert.Equal(t, "https://evidence.s3.ap-south-1.amazonaws.com/aid-proofs/a.jpg", url)
	assert.Equal(t, "evidence", *client.input.Bucket)
	assert.Equal(t, "aid-proofs/a.jpg", *client.input.Key)
	assert.Equal(t, "image/jpeg", *client.input.ContentType)
	assert.Equal(t, "jpeg", string(client.body))
}

func TestS3UploadError(t *testing.T) {
	s := &storage.S3{Client: &fakeS3{err: errors.New("access denied")}, Region: "ap-south-1"}
	_, err := s.Upload(context.Background(), "evidence", "k", strings.NewReader(""), "image/jpeg")
	assert.EqualError(t, err, "access denied")
}

func TestS3PublicURLWithBase(t *testing.T) {
	s := &storage.S3{Region: "ap-south-1", PublicBaseURL: "https://media.sajhasahayog.org/"}
	assert.Equal(t, "https://media.sajhasahayog.org/disaster-images/damage-reports/a.jpg",
		s.PublicURL("disaster-images", "damage-reports/a.jpg"))
}
