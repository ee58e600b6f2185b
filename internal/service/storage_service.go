package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sandeepkv93/catalog-service/internal/observability"
)

const productImagePrefix = "products"

var (
	ErrStorageUnavailable = errors.New("image storage is not configured")

	allowedImageTypes = map[string]string{
		"image/jpeg": "jpg",
		"image/png":  "png",
		"image/gif":  "gif",
	}
)

type UploadedImage struct {
	Name        string `json:"fileName"`
	SecureURL   string `json:"secureUrl"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type StoredImage struct {
	Body        io.ReadCloser
	ContentType string
	Size        int64
	ModTime     time.Time
}

// ImageStorageService stores product image files. The catalog only keeps
// the returned URLs.
type ImageStorageService interface {
	UploadProductImage(ctx context.Context, file io.Reader, size int64) (*UploadedImage, error)
	OpenProductImage(ctx context.Context, name string) (*StoredImage, error)
}

type DisabledImageStorage struct{}

func (DisabledImageStorage) UploadProductImage(context.Context, io.Reader, int64) (*UploadedImage, error) {
	return nil, ErrStorageUnavailable
}

func (DisabledImageStorage) OpenProductImage(context.Context, string) (*StoredImage, error) {
	return nil, ErrStorageUnavailable
}

type MinIOImageStorage struct {
	client     *minio.Client
	bucketName string
	publicBase string
	maxSize    int64
	logger     *slog.Logger
	initMu     sync.Mutex
	ready      bool
}

// NewMinIOImageStorage builds the client without contacting the server.
// The bucket is created on first use.
func NewMinIOImageStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, publicBase string, maxSize int64, logger *slog.Logger) (*MinIOImageStorage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinIOImageStorage{
		client:     client,
		bucketName: bucketName,
		publicBase: strings.TrimRight(publicBase, "/"),
		maxSize:    maxSize,
		logger:     logger,
	}, nil
}

// lazyInit makes sure the bucket exists. Failures are not cached so a
// later request retries.
func (s *MinIOImageStorage) lazyInit(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	if s.ready {
		return nil
	}
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", s.bucketName, err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", s.bucketName, err)
		}
	}
	s.ready = true
	return nil
}

// Ping reports whether the object store answers for the configured bucket.
func (s *MinIOImageStorage) Ping(ctx context.Context) error {
	if _, err := s.client.BucketExists(ctx, s.bucketName); err != nil {
		return fmt.Errorf("ping bucket %s: %w", s.bucketName, err)
	}
	return nil
}

// UploadProductImage sniffs the first 512 bytes instead of trusting the
// client supplied content type.
func (s *MinIOImageStorage) UploadProductImage(ctx context.Context, file io.Reader, size int64) (img *UploadedImage, err error) {
	defer func() {
		observability.RecordProductImageEvent(ctx, "upload", outcomeOf(err), size)
	}()

	if size <= 0 {
		return nil, validationError("File is empty")
	}
	if s.maxSize > 0 && size > s.maxSize {
		return nil, validationError("File is too large, limit is %d bytes", s.maxSize)
	}

	buf := make([]byte, 512)
	n, readErr := io.ReadFull(file, buf)
	if readErr != nil && readErr != io.EOF && readErr != io.ErrUnexpectedEOF {
		return nil, validationError("File could not be read")
	}
	buf = buf[:n]
	if n == 0 {
		return nil, validationError("File is empty")
	}
	contentType := strings.ToLower(http.DetectContentType(buf))
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return nil, validationError("Make sure that the file is an image")
	}

	if err := s.lazyInit(ctx); err != nil {
		return nil, s.fail(ctx, "init", err)
	}

	name := uuid.NewString() + "." + ext
	_, err = s.client.PutObject(ctx, s.bucketName, objectKey(name), io.MultiReader(bytes.NewReader(buf), file), size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"Detected-Content-Type": contentType,
			"Uploaded-At":           time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return nil, s.fail(ctx, "put_object", err)
	}
	return &UploadedImage{
		Name:        name,
		SecureURL:   s.publicBase + "/files/product/" + name,
		ContentType: contentType,
		Size:        size,
	}, nil
}

func (s *MinIOImageStorage) OpenProductImage(ctx context.Context, name string) (img *StoredImage, err error) {
	defer func() {
		observability.RecordProductImageEvent(ctx, "download", outcomeOf(err), 0)
	}()

	if !validImageName(name) {
		return nil, validationError("No product found with image %s", name)
	}
	if err := s.lazyInit(ctx); err != nil {
		return nil, s.fail(ctx, "init", err)
	}
	info, err := s.client.StatObject(ctx, s.bucketName, objectKey(name), minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, validationError("No product found with image %s", name)
		}
		return nil, s.fail(ctx, "stat_object", err)
	}
	obj, err := s.client.GetObject(ctx, s.bucketName, objectKey(name), minio.GetObjectOptions{})
	if err != nil {
		return nil, s.fail(ctx, "get_object", err)
	}
	return &StoredImage{Body: obj, ContentType: info.ContentType, Size: info.Size, ModTime: info.LastModified}, nil
}

func (s *MinIOImageStorage) fail(ctx context.Context, op string, err error) error {
	s.logger.ErrorContext(ctx, "image storage failure", "op", op, "bucket", s.bucketName, "error", err)
	return internalError(err)
}

func objectKey(name string) string {
	return path.Join(productImagePrefix, name)
}

func validImageName(name string) bool {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return false
	}
	ext := strings.TrimPrefix(path.Ext(name), ".")
	for _, allowed := range allowedImageTypes {
		if ext == allowed || (ext == "jpeg" && allowed == "jpg") {
			return true
		}
	}
	return false
}
