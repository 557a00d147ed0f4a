// Package storage archives generated documents (receipt and invoice PDFs).
package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

type Archive interface {
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Nop keeps nothing and returns no URL.
type Nop struct{}

func (Nop) Put(context.Context, string, []byte, string) (string, error) { return "", nil }

type S3Archive struct {
	bucket   string
	uploader *s3manager.Uploader
}

func NewS3Archive(region, bucket string) (*S3Archive, error) {
	sess, err := session.NewSession(&aws.Config{Region: aws.String(region)})
	if err != nil {
		return nil, fmt.Errorf("storage: aws session: %w", err)
	}
	return &S3Archive{bucket: bucket, uploader: s3manager.NewUploader(sess)}, nil
}

func (a *S3Archive) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	out, err := a.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("storage: upload %s: %w", key, err)
	}
	return out.Location, nil
}

// ReceiptKey is the object key of an order's receipt PDF.
func ReceiptKey(number string) string {
	return fmt.Sprintf("receipts/%s.pdf", number)
}
