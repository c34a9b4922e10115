package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"techsupport_pro_go/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// StorageProvider stores generated files such as lead exports
type StorageProvider interface {
	UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error)
	GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
	IsConfigured() bool
}

// StorageResult contains information about the stored file
type StorageResult struct {
	Key      string // Storage key/path
	FileName string
	FileSize int64
	MimeType string
	Location string // bucket URI or local path
}

// NewExportStorage picks Cloudflare R2 when every R2 setting is present and
// the bucket answers, otherwise the local export directory.
func NewExportStorage(ctx context.Context, cfg *config.Config, log *zap.Logger) StorageProvider {
	if !cfg.R2Configured() {
		log.Info("Export storage: local filesystem", zap.String("path", cfg.ExportDir))
		return NewLocalStorage(cfg.ExportDir)
	}

	r2, err := NewR2Storage(ctx, cfg)
	if err != nil {
		log.Warn("Failed to initialize R2 storage, falling back to local storage", zap.Error(err))
		return NewLocalStorage(cfg.ExportDir)
	}

	// Test R2 connection (HeadBucket)
	headCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if _, err := r2.client.HeadBucket(headCtx, &s3.HeadBucketInput{Bucket: aws.String(cfg.R2BucketName)}); err != nil {
		log.Warn("R2 bucket connection test failed, falling back to local storage", zap.Error(err))
		return NewLocalStorage(cfg.ExportDir)
	}

	log.Info("Export storage: Cloudflare R2", zap.String("bucket", cfg.R2BucketName))
	return r2
}

// R2Storage implements StorageProvider for Cloudflare R2
type R2Storage struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// R2Endpoint returns the S3 API endpoint of an R2 account
func R2Endpoint(accountID string) string {
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
}

// NewR2Storage creates a new R2 storage provider
func NewR2Storage(ctx context.Context, cfg *config.Config) (*R2Storage, error) {
	return newR2StorageWithEndpoint(ctx, cfg, R2Endpoint(cfg.R2AccountID))
}

func newR2StorageWithEndpoint(ctx context.Context, cfg *config.Config, endpoint string) (*R2Storage, error) {
	creds := credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(creds),
		awsconfig.WithRegion("auto"), // R2 uses "auto" region
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
		// R2 rejects the SDK's default trailing checksums
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})

	return &R2Storage{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.R2BucketName,
	}, nil
}

// IsConfigured returns true if R2 is properly configured
func (r *R2Storage) IsConfigured() bool {
	return r.client != nil && r.bucket != ""
}

// UploadReader uploads content from a reader to R2
func (r *R2Storage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(r.bucket),
		Key:           aws.String(key),
		Body:          reader,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to R2: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: size,
		MimeType: contentType,
		Location: fmt.Sprintf("r2://%s/%s", r.bucket, key),
	}, nil
}

// GetSignedURL generates a presigned URL for temporary access
func (r *R2Storage) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	presigned, err := r.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expiration))
	if err != nil {
		return "", fmt.Errorf("failed to generate signed URL: %w", err)
	}

	return presigned.URL, nil
}

// LocalStorage implements StorageProvider for the local filesystem
type LocalStorage struct {
	baseDir string
}

// NewLocalStorage creates a new local storage provider
func NewLocalStorage(baseDir string) *LocalStorage {
	return &LocalStorage{baseDir: baseDir}
}

// IsConfigured returns true (local storage is always available)
func (l *LocalStorage) IsConfigured() bool {
	return true
}

// UploadReader saves content from a reader to the local filesystem
func (l *LocalStorage) UploadReader(ctx context.Context, reader io.Reader, key string, contentType string, size int64) (*StorageResult, error) {
	fullPath := filepath.Join(l.baseDir, filepath.Clean("/"+key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to save file: %w", err)
	}

	return &StorageResult{
		Key:      key,
		FileName: filepath.Base(key),
		FileSize: written,
		MimeType: contentType,
		Location: fullPath,
	}, nil
}

// GetSignedURL for local storage just returns the file path (no signing needed)
func (l *LocalStorage) GetSignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	return filepath.Join(l.baseDir, filepath.Clean("/"+key)), nil
}

// ExportKey builds the storage key of an export file
func ExportKey(fileName string) string {
	return "exports/" + strings.TrimPrefix(filepath.Base(fileName), "/")
}
