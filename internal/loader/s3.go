package loader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/ziadkadry99/sitesearch/internal/document"
)

// ObjectGetter is the part of the S3 client the loader needs.
type ObjectGetter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3 reads the document set from an S3 (or S3-compatible) object.
// Credentials come from the default AWS chain.
type S3 struct {
	Bucket   string
	Key      string
	Region   string
	Endpoint string
	Client   ObjectGetter

	mu         sync.Mutex
	loadConfig func(ctx context.Context, optFns ...func(*config.LoadOptions) error) (aws.Config, error)
}

// ParseS3URL splits s3://bucket/key.
func ParseS3URL(raw string) (bucket, key string, err error) {
	rest, ok := strings.CutPrefix(raw, "s3://")
	if !ok {
		return "", "", fmt.Errorf("%w: %q is not an s3:// URL", ErrLoad, raw)
	}
	bucket, key, _ = strings.Cut(rest, "/")
	if bucket == "" || key == "" {
		return "", "", fmt.Errorf("%w: %q needs both bucket and key", ErrLoad, raw)
	}
	return bucket, key, nil
}

func (s *S3) source() string {
	return "s3://" + s.Bucket + "/" + s.Key
}

// client builds the S3 client on first use. A failed AWS config load is not
// kept, so the next Load tries again.
func (s *S3) client(ctx context.Context) (ObjectGetter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Client != nil {
		return s.Client, nil
	}
	var opts []func(*config.LoadOptions) error
	if s.Region != "" {
		opts = append(opts, config.WithRegion(s.Region))
	}
	load := s.loadConfig
	if load == nil {
		load = config.LoadDefaultConfig
	}
	cfg, err := load(ctx, opts...)
	if err != nil {
		return nil, err
	}
	s.Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		if s.Endpoint != "" {
			o.BaseEndpoint = aws.String(s.Endpoint)
			o.UsePathStyle = true
		}
	})
	return s.Client, nil
}

func (s *S3) Load(ctx context.Context) ([]document.Document, error) {
	c, err := s.client(ctx)
	if err != nil {
		return nil, &FetchError{Source: s.source(), Err: fmt.Errorf("aws config: %w", err)}
	}
	out, err := c.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, &FetchError{Source: s.source(), Err: err}
	}
	defer out.Body.Close()
	return decode(s.source(), out.Body)
}
