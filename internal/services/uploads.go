package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/gharnest/gharnest-backend/internal/models"
)

// UploadService stores listing images in S3 and returns public URLs.
type UploadService struct {
	client *s3.Client
	bucket string
	region string
}

// NewUploadService initializes the S3 client from the default AWS config
// chain. S3_BUCKET must be set.
func NewUploadService(ctx context.Context) (*UploadService, error) {
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is not set in environment variables")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-south-1"
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	log.Println("✅ S3 upload service initialized")
	return &UploadService{
		client: s3.NewFromConfig(cfg),
		bucket: bucket,
		region: region,
	}, nil
}

// UploadImages streams 1-20 image files to S3 under random keys and
// returns their public URLs in upload order.
func (u *UploadService) UploadImages(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	if len(files) < models.MinPropertyImages || len(files) > models.MaxPropertyImages {
		return nil, fmt.Errorf("between %d and %d images are required: %w",
			models.MinPropertyImages, models.MaxPropertyImages, models.ErrValidation)
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		file, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", fh.Filename, err)
		}

		key := fmt.Sprintf("properties/%s%s", uuid.NewString(), filepath.Ext(fh.Filename))
		contentType := fh.Header.Get("Content-Type")
		_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(u.bucket),
			Key:         aws.String(key),
			Body:        file,
			ContentType: aws.String(contentType),
		})
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to upload %s: %w", fh.Filename, err)
		}

		urls = append(urls, fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key))
	}
	return urls, nil
}
