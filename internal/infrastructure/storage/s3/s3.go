package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.uber.org/zap"

	"minidrive-api/config"
	"minidrive-api/internal/domain/file"
	"minidrive-api/internal/domain/user"
	"minidrive-api/internal/infrastructure/storage"
)

// ObjectAPI is the part of *s3.Client the backend needs.
type ObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

type Client struct {
	logger *zap.Logger
	api    ObjectAPI
	bucket string
	prefix string
}

func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	opts := []func(*awsConfig.LoadOptions) error{
		awsConfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	api := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		// MinIO, Localstack
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	logger.Info("s3 storage ready",
		zap.String("bucket", cfg.BucketUploads),
		zap.String("region", cfg.Region),
		zap.String("prefix", cfg.KeyPrefix),
	)

	return NewWithAPI(logger, api, cfg.BucketUploads, cfg.KeyPrefix), nil
}

func NewWithAPI(logger *zap.Logger, api ObjectAPI, bucket, prefix string) *Client {
	return &Client{
		logger: logger,
		api:    api,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
	}
}

func (c *Client) objectKey(owner user.UUID, storedName string) (string, error) {
	key, err := file.StorageKey(owner, storedName)
	if err != nil {
		return "", err
	}
	if c.prefix == "" {
		return key, nil
	}
	return c.prefix + "/" + key, nil
}

// Write puts the object only if the key is free (If-None-Match: *).
// Seekable bodies stay seekable and are sized by the SDK; other bodies are
// sent with the declared size.
func (c *Client) Write(ctx context.Context, owner user.UUID, storedName string, r io.Reader, size int64) (int64, error) {
	key, err := c.objectKey(owner, storedName)
	if err != nil {
		return 0, err
	}

	counter := &countingReader{r: r}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		Body:        counter,
		IfNoneMatch: aws.String("*"),
	}
	if rs, ok := r.(io.ReadSeeker); ok {
		in.Body = &countingReadSeeker{countingReader: counter, s: rs}
	} else {
		in.ContentLength = aws.Int64(size)
	}

	_, err = c.api.PutObject(ctx, in)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode() == "PreconditionFailed" {
			return 0, fmt.Errorf("%s: %w", key, storage.ErrAlreadyExists)
		}
		return 0, fmt.Errorf("put object %s: %w", key, err)
	}
	if counter.n != size {
		c.logger.Warn("object size differs from declared size",
			zap.String("key", key),
			zap.Int64("declared", size),
			zap.Int64("written", counter.n),
		)
	}

	return counter.n, nil
}

func (c *Client) Remove(ctx context.Context, owner user.UUID, storedName string) error {
	key, err := c.objectKey(owner, storedName)
	if err != nil {
		return err
	}

	// DeleteObject succeeds on absent keys; Head tells the caller apart.
	if _, err = c.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err != nil {
		if isNotFound(err) {
			return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		return fmt.Errorf("head object %s: %w", key, err)
	}

	if _, err = c.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}

	return nil
}

func (c *Client) Open(ctx context.Context, owner user.UUID, storedName string) (io.ReadCloser, error) {
	key, err := c.objectKey(owner, storedName)
	if err != nil {
		return nil, err
	}

	out, err := c.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%s: %w", key, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}

	return out.Body, nil
}

func isNotFound(err error) bool {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	return errors.As(err, &noSuchKey) || errors.As(err, &notFound)
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// countingReadSeeker keeps the count equal to the current offset, so a
// checksum pass followed by a rewind is not counted twice.
type countingReadSeeker struct {
	*countingReader
	s io.Seeker
}

func (c *countingReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := c.s.Seek(offset, whence)
	if err == nil {
		c.n = pos
	}
	return pos, err
}
