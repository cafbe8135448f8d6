package storage

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/crypto/blake2b"
)

const photoKeyPrefix = "meal-photos"

var ErrArchivePhotoFailed = errors.New("archive photo failed")

// ObjectPutter is the part of the S3 client the archive needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3Options struct {
	Bucket string
	Region string
	// Endpoint points the client at an S3-compatible store. Path-style addressing is
	// used whenever it is set.
	Endpoint string
}

// S3PhotoArchive keeps uploaded meal photos under content-addressed keys, so the same
// photo uploaded twice on one day maps to one object.
type S3PhotoArchive struct {
	client ObjectPutter
	bucket string
}

func NewS3PhotoArchive(client ObjectPutter, bucket string) *S3PhotoArchive {
	return &S3PhotoArchive{client: client, bucket: strings.TrimSpace(bucket)}
}

// NewS3Client builds a client from the default AWS credential chain.
func NewS3Client(ctx context.Context, options S3Options) (*s3.Client, error) {
	loadOptions := make([]func(*config.LoadOptions) error, 0, 1)
	if region := strings.TrimSpace(options.Region); region != "" {
		loadOptions = append(loadOptions, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOptions...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	endpoint := strings.TrimSpace(options.Endpoint)
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Store uploads the photo and returns its object key.
func (archive *S3PhotoArchive) Store(ctx context.Context, image []byte, contentType string, day time.Time, extension string) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("%w: empty image", ErrArchivePhotoFailed)
	}

	key := PhotoKey(image, day, extension)
	_, err := archive.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(archive.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(image),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrArchivePhotoFailed, err)
	}
	return key, nil
}

// PhotoKey is meal-photos/YYYY-MM-DD/<blake2b-256 hex>.<ext>.
func PhotoKey(image []byte, day time.Time, extension string) string {
	digest := blake2b.Sum256(image)
	extension = strings.TrimPrefix(strings.TrimSpace(extension), ".")
	if extension == "" {
		extension = "bin"
	}
	return fmt.Sprintf("%s/%s/%s.%s", photoKeyPrefix, day.Format("2006-01-02"), hex.EncodeToString(digest[:]), extension)
}
