package export

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const exportContentType = "application/x-ndjson"

// S3Destination writes JSONL exports to an S3-compatible bucket. Each export
// is uploaded twice: once under a dated snapshot key so history is retained,
// and once under the configured key, which always holds the latest export.
type S3Destination struct {
	client *s3.Client
	bucket string
	key    string
	now    func() time.Time
}

// NewS3Destination creates an S3 destination. If endpoint is non-empty,
// path-style addressing is enabled (for MinIO and similar).
func NewS3Destination(ctx context.Context, bucket, key, region, endpoint string) (*S3Destination, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(region),
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var s3opts []func(*s3.Options)
	if endpoint != "" {
		s3opts = append(s3opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(cfg, s3opts...)
	return &S3Destination{
		client: client,
		bucket: bucket,
		key:    key,
		now:    time.Now,
	}, nil
}

// snapshotKey derives the dated history key for an export written at t,
// inserting a UTC timestamp before the key's extension:
// lanes/export.jsonl becomes lanes/export-20260830T120000Z.jsonl.
func snapshotKey(key string, t time.Time) string {
	ext := path.Ext(key)
	stamp := t.UTC().Format("20060102T150405Z")
	return strings.TrimSuffix(key, ext) + "-" + stamp + ext
}

// Write uploads data to the snapshot key and then to the latest key. The
// objects carry the line count as metadata so a consumer can sanity-check
// an export without parsing it.
func (d *S3Destination) Write(ctx context.Context, data []byte) error {
	meta := map[string]string{
		"export-lines": strconv.Itoa(bytes.Count(data, []byte("\n"))),
	}
	for _, key := range []string{snapshotKey(d.key, d.now()), d.key} {
		_, err := d.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(d.bucket),
			Key:         aws.String(key),
			Body:        bytes.NewReader(data),
			ContentType: aws.String(exportContentType),
			Metadata:    meta,
		})
		if err != nil {
			return fmt.Errorf("s3 put object %s: %w", key, err)
		}
	}
	return nil
}
