package cloudwriter

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const backupContentType = "application/json"

// S3Factory publishes backup objects into one S3 bucket.
type S3Factory struct {
	client *s3.Client
	bucket string
}

func NewS3Factory(ctx context.Context, region, bucket string) (*S3Factory, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &S3Factory{client: s3.NewFromConfig(cfg), bucket: bucket}, nil
}

func (f *S3Factory) NewWriter(ctx context.Context, objectPath string) (ObjectWriter, error) {
	return &s3Writer{client: f.client, bucket: f.bucket, key: objectPath}, nil
}

// s3Writer buffers the whole object in memory; an order backup is small
// enough that a multipart upload buys nothing.
type s3Writer struct {
	client *s3.Client
	bucket string
	key    string
	buf    bytes.Buffer
}

func (w *s3Writer) Write(p []byte) (int, error) {
	return w.buf.Write(p)
}

func (w *s3Writer) Close(ctx context.Context) error {
	_, err := w.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(w.bucket),
		Key:         aws.String(w.key),
		Body:        bytes.NewReader(w.buf.Bytes()),
		ContentType: aws.String(backupContentType),
	})
	if err != nil {
		return fmt.Errorf("unable to upload backup %s: %w", w.key, err)
	}
	return nil
}
