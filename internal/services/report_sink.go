package services

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"alfredoptarigan/resume-screener/internal/models"
)

type ReportSink interface {
	// Upload stores the CSV report of a batch and returns its location.
	Upload(ctx context.Context, batchID string, records []models.CandidateRecord) (string, error)
}

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3ReportSink struct {
	client objectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// NewS3ReportSink loads AWS credentials from the default chain. An empty
// region defers to the environment or shared config.
func NewS3ReportSink(ctx context.Context, bucket, prefix, region string, logger *zap.Logger) (ReportSink, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return newS3ReportSink(s3.NewFromConfig(cfg), bucket, prefix, logger), nil
}

func newS3ReportSink(client objectPutter, bucket, prefix string, logger *zap.Logger) *s3ReportSink {
	return &s3ReportSink{
		client: client,
		bucket: bucket,
		prefix: prefix,
		logger: logger.Named("report-sink"),
	}
}

func (s *s3ReportSink) Upload(ctx context.Context, batchID string, records []models.CandidateRecord) (string, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return "", err
	}

	key := path.Join(s.prefix, batchID, ReportFilename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("text/csv; charset=utf-8"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload report to s3://%s/%s: %w", s.bucket, key, err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.bucket, key)
	s.logger.Info("report uploaded", zap.String("location", location), zap.Int("records", len(records)))
	return location, nil
}
