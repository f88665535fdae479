package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/spf13/afero"
)

const s3Scheme = "s3://"

// Split an s3://bucket/key name.
func parseS3(name string) (bucket, key string, ok bool) {
	rest, found := strings.CutPrefix(name, s3Scheme)
	if !found {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(rest, "/")
	return bucket, key, bucket != "" && key != ""
}

func isLocal(name string) bool {
	return name != "-" && !strings.HasPrefix(name, s3Scheme)
}

// Open an input by name.
func (a *app) open(ctx context.Context, name string) (io.ReadCloser, error) {
	if name == "-" {
		return io.NopCloser(a.stdin), nil
	}
	if strings.HasPrefix(name, s3Scheme) {
		return a.openS3(ctx, name)
	}
	return a.fs.Open(name)
}

func (a *app) openS3(ctx context.Context, name string) (io.ReadCloser, error) {
	bucket, key, ok := parseS3(name)
	if !ok {
		return nil, fmt.Errorf("malformed object name %q, want s3://bucket/key", name)
	}
	client, err := a.s3Client()
	if err != nil {
		return nil, err
	}
	out, err := client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", name, err)
	}
	return out.Body, nil
}

func (a *app) s3Client() (s3iface.S3API, error) {
	if a.s3 != nil {
		return a.s3, nil
	}
	cfg := aws.NewConfig()
	if a.opts.S3Region != "" {
		cfg = cfg.WithRegion(a.opts.S3Region)
	}
	if a.opts.S3Endpoint != "" {
		cfg = cfg.WithEndpoint(a.opts.S3Endpoint).WithS3ForcePathStyle(true)
	}
	sess, err := session.NewSessionWithOptions(session.Options{
		Config:            *cfg,
		SharedConfigState: session.SharedConfigEnable,
	})
	if err != nil {
		return nil, fmt.Errorf("creating AWS session: %w", err)
	}
	a.s3 = s3.New(sess)
	return a.s3, nil
}

// Fail early on missing local files, so a typo is not reported after
// other inputs were already printed.
func checkLocal(fs afero.Fs, names []string) error {
	for _, name := range names {
		if !isLocal(name) {
			continue
		}
		if _, err := fs.Stat(name); err != nil {
			return err
		}
	}
	return nil
}
