package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"

	"github.com/ridwanfathin/receipt-tracker/internal/sheetdb"
)

// S3Uploader stores receipt images in S3-compatible storage. It stands in for
// the upload script when UPLOAD_BACKEND=s3.
type S3Uploader struct {
	s3Client      s3iface.S3API
	bucket        string
	publicBaseURL string
}

// Config holds configuration for S3 uploader
type Config struct {
	Endpoint        string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
	Region          string
	PublicBaseURL   string // defaults to <endpoint>/<bucket>
}

var _ sheetdb.Uploader = (*S3Uploader)(nil)

// NewS3Uploader creates a new S3 uploader
func NewS3Uploader(config *Config) (*S3Uploader, error) {
	if config.Endpoint == "" || config.AccessKeyID == "" || config.AccessKeySecret == "" {
		return nil, fmt.Errorf("S3 configuration is incomplete")
	}

	if config.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is not configured")
	}

	sess, err := session.NewSession(&aws.Config{
		Region:           aws.String(config.Region),
		Endpoint:         aws.String(config.Endpoint),
		Credentials:      credentials.NewStaticCredentials(config.AccessKeyID, config.AccessKeySecret, ""),
		S3ForcePathStyle: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return newS3Uploader(s3.New(sess), config), nil
}

func newS3Uploader(client s3iface.S3API, config *Config) *S3Uploader {
	publicBaseURL := strings.TrimRight(config.PublicBaseURL, "/")
	if publicBaseURL == "" {
		publicBaseURL = strings.TrimRight(config.Endpoint, "/") + "/" + config.Bucket
	}

	return &S3Uploader{
		s3Client:      client,
		bucket:        config.Bucket,
		publicBaseURL: publicBaseURL,
	}
}

// UploadImage decodes the base64 image, stores it under filename and returns
// the public URL
func (u *S3Uploader) UploadImage(ctx context.Context, encoded, filename string) (string, error) {
	imageData, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", &sheetdb.Error{
			Op:  "upload_to_s3",
			Err: fmt.Errorf("%w: decode image: %w", sheetdb.ErrImageUpload, err),
		}
	}

	_, err = u.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(filename),
		Body:          bytes.NewReader(imageData),
		ContentType:   aws.String(http.DetectContentType(imageData)),
		ContentLength: aws.Int64(int64(len(imageData))),
	})
	if err != nil {
		return "", &sheetdb.Error{
			Op:  "upload_to_s3",
			Err: fmt.Errorf("%w: %w", sheetdb.ErrImageUpload, err),
		}
	}

	return u.publicBaseURL + "/" + url.PathEscape(filename), nil
}
