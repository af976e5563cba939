// Package storage uploads photos to object storage and returns their public URLs.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ObjectStore puts an object in a bucket and returns its public URL
type ObjectStore interface {
	Upload(ctx context.Context, bucket, key string, body io.Reader, contentType string) (string, error)
}

// Destination selects the bucket and folder a photo is stored under
type Destination int

// Photo destinations
const (
	MissingPersonPhoto Destination = iota
	DamageReportPhoto
	AidProofPhoto
)

// ErrInvalidImage is returned when an upload is not a decodable image
var ErrInvalidImage = errors.New("invalid image")

// Photo is an uploaded image file
type Photo struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// PhotoUploader stores a photo and returns its public URL
type PhotoUploader interface {
	Upload(ctx context.Context, dest Destination, p Photo) (string, error)
}

// Photos normalizes photos and writes them to an ObjectStore
type Photos struct {
	Store          ObjectStore
	ReportBucket   string
	EvidenceBucket string
	// MaxDimension bounds the longest side of a stored photo; zero keeps the original size
	MaxDimension int
}

// Upload re-encodes p as JPEG and stores it under a random name in the folder for dest
func (ph *Photos) Upload(ctx context.Context, dest Destination, p Photo) (string, error) {
	bucket, folder, err := ph.location(dest)
	if err != nil {
		return "", err
	}

	body, err := Normalize(p.Body, ph.MaxDimension)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s/%s.jpg", folder, uuid.New().String())
	url, err := ph.Store.Upload(ctx, bucket, key, body, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return url, nil
}

func (ph *Photos) location(dest Destination) (bucket, folder string, err error) {
	switch dest {
	case MissingPersonPhoto:
		return ph.ReportBucket, "missing-persons", nil
	case DamageReportPhoto:
		return ph.ReportBucket, "damage-reports", nil
	case AidProofPhoto:
		return ph.EvidenceBucket, "aid-proofs", nil
	default:
		return "", "", fmt.Errorf("unknown photo destination %d", dest)
	}
}

// Normalize decodes an image, applies its EXIF orientation, shrinks it to fit within
// maxDim and re-encodes it as JPEG
func Normalize(r io.Reader, maxDim int) (*bytes.Buffer, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	b := img.Bounds()
	if maxDim > 0 && (b.Dx() > maxDim || b.Dy() > maxDim) {
		img = imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	}

	buf := &bytes.Buffer{}
	if err := imaging.Encode(buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return buf, nil
}
