package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	appConfig "github.com/aquablue/aquablue-server/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// ErrPageNotFound is returned when a named page does not exist
var ErrPageNotFound = errors.New("page not found")

// Page is the content of a marketing page as read from its source
type Page struct {
	Name    string
	Content []byte
	ModTime time.Time
}

// PageSource reads page content fresh on every call. Implementations must not cache.
type PageSource interface {
	ReadPage(ctx context.Context, name string) (*Page, error)
}

// NewPageSource returns an S3-backed source when a bucket is configured and a
// directory-backed source otherwise
func NewPageSource(ctx context.Context, cfg *appConfig.Config) (PageSource, error) {
	if cfg.PagesS3Bucket == "" {
		return NewFilePageSource(cfg.PagesDir), nil
	}
	return InitS3PageSource(ctx, cfg)
}

// validPageName rejects anything that could escape the page root
func validPageName(name string) bool {
	return name != "" && !strings.Contains(name, "..") && !strings.ContainsAny(name, `/\`)
}

// FilePageSource serves pages from a local directory
type FilePageSource struct {
	dir string
}

// NewFilePageSource creates a source rooted at dir
func NewFilePageSource(dir string) *FilePageSource {
	return &FilePageSource{dir: dir}
}

// ReadPage stats and reads the named file from disk
func (s *FilePageSource) ReadPage(ctx context.Context, name string) (*Page, error) {
	if !validPageName(name) {
		return nil, ErrPageNotFound
	}
	fullPath := filepath.Join(s.dir, name)

	info, err := os.Stat(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", name, err)
	}
	if info.IsDir() {
		return nil, ErrPageNotFound
	}

	content, err := os.ReadFile(fullPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrPageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	return &Page{Name: name, Content: content, ModTime: info.ModTime()}, nil
}

// S3GetObjectAPI is the subset of the S3 client used to fetch pages
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3PageSource serves pages from objects in an S3 bucket
type S3PageSource struct {
	client S3GetObjectAPI
	bucket string
	prefix string
}

// NewS3PageSource creates a source reading bucket/prefix+name with client
func NewS3PageSource(client S3GetObjectAPI, bucket, prefix string) *S3PageSource {
	return &S3PageSource{client: client, bucket: bucket, prefix: prefix}
}

// InitS3PageSource builds an S3 client from the AWS settings in cfg.
// Static credentials are used when configured, otherwise the default chain.
func InitS3PageSource(ctx context.Context, cfg *appConfig.Config) (*S3PageSource, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.AWSRegion),
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		)))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	slog.Info("serving pages from S3", "bucket", cfg.PagesS3Bucket, "prefix", cfg.PagesS3Prefix)
	return NewS3PageSource(s3.NewFromConfig(awsConfig), cfg.PagesS3Bucket, cfg.PagesS3Prefix), nil
}

// ReadPage fetches the object for name and uses its LastModified as the page time
func (s *S3PageSource) ReadPage(ctx context.Context, name string) (*Page, error) {
	if !validPageName(name) {
		return nil, ErrPageNotFound
	}
	key := path.Join(s.prefix, name)

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, ErrPageNotFound
		}
		return nil, fmt.Errorf("failed to get %s from S3: %w", key, err)
	}
	defer func() {
		if closeErr := out.Body.Close(); closeErr != nil {
			slog.Warn("failed to close S3 object body", "key", key, "error", closeErr)
		}
	}()

	content, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s from S3: %w", key, err)
	}

	modTime := time.Now()
	if out.LastModified != nil {
		modTime = *out.LastModified
	}

	return &Page{Name: name, Content: content, ModTime: modTime}, nil
}
