// Package filesource abstracts where the input video comes from: a local
// path, an S3 object, or a caller-supplied stream.
package filesource

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/pkg/errors"
)

const s3Scheme = "s3://"

// FileSource yields the file content to upload together with a suggested
// asset name. The returned reader is owned by the caller and must be closed
// on both success and failure paths.
type FileSource interface {
	Open(ctx context.Context) (io.ReadCloser, string, error)
}

// PathSource reads from the local filesystem.
type PathSource struct {
	Path string
}

func (s PathSource) Open(_ context.Context) (io.ReadCloser, string, error) {
	file, err := os.Open(s.Path)
	if err != nil {
		return nil, "", errors.Wrapf(err, "opening %s", s.Path)
	}
	return file, filepath.Base(s.Path), nil
}

// ReaderSource wraps an already-open stream.
type ReaderSource struct {
	Name   string
	Reader io.ReadCloser
}

func (s ReaderSource) Open(_ context.Context) (io.ReadCloser, string, error) {
	if s.Reader == nil {
		return nil, "", errors.New("reader source has no stream")
	}
	return s.Reader, s.Name, nil
}

// S3Source streams an object from a bucket.
type S3Source struct {
	Bucket string
	Key    string
	Client *s3.Client
}

func (s S3Source) Open(ctx context.Context) (io.ReadCloser, string, error) {
	if s.Client == nil {
		return nil, "", errors.New("s3 source has no client")
	}
	out, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.Bucket),
		Key:    aws.String(s.Key),
	})
	if err != nil {
		return nil, "", errors.Wrapf(err, "fetching s3://%s/%s", s.Bucket, s.Key)
	}
	return out.Body, path.Base(s.Key), nil
}

// FromString resolves a raw CLI argument into a source: "s3://bucket/key"
// inputs become an S3Source, everything else a local path.
func FromString(raw string, s3Client *s3.Client) (FileSource, error) {
	if !strings.HasPrefix(raw, s3Scheme) {
		return PathSource{Path: raw}, nil
	}
	trimmed := strings.TrimPrefix(raw, s3Scheme)
	bucket, key, found := strings.Cut(trimmed, "/")
	if !found || bucket == "" || key == "" {
		return nil, errors.Errorf("invalid s3 url %q, want s3://bucket/key", raw)
	}
	if s3Client == nil {
		return nil, errors.New("s3 input requires s3 credentials in config")
	}
	return S3Source{Bucket: bucket, Key: key, Client: s3Client}, nil
}
