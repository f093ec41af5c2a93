// Package archive copies exported duplicate reports to S3.
package archive

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/ignite/csv-dupcheck/internal/config"
	"github.com/ignite/csv-dupcheck/internal/pkg/logger"
)

// ErrDisabled is returned by New when no bucket is configured.
var ErrDisabled = errors.New("export archive is not configured")

const contentType = "text/csv; charset=utf-8"

// Uploader is the subset of the S3 client used for archiving.
type Uploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Archiver writes export files under a dated prefix in one bucket.
type Archiver struct {
	client Uploader
	bucket string
	prefix string
	now    func() time.Time
	log    *logger.Logger
}

// New loads AWS configuration and returns an Archiver for cfg.S3Bucket.
// Static credentials are used when both keys are set; otherwise the profile
// or the default credential chain applies.
func New(ctx context.Context, cfg config.ExportConfig) (*Archiver, error) {
	if !cfg.ArchiveEnabled() {
		return nil, ErrDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	} else if profile := cfg.GetAWSProfile(); profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(profile))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for export archive: %w", err)
	}

	return NewWithClient(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
}

// NewWithClient builds an Archiver around an existing client.
func NewWithClient(client Uploader, bucket, prefix string) *Archiver {
	return &Archiver{
		client: client,
		bucket: bucket,
		prefix: prefix,
		now:    time.Now,
		log:    logger.New("archive"),
	}
}

// Bucket returns the target bucket name.
func (a *Archiver) Bucket() string { return a.bucket }

// Put stores body as name and returns the object key, which has the form
// <prefix>/<yyyy>/<mm>/<dd>/<uuid>_<name>.
func (a *Archiver) Put(ctx context.Context, name string, body []byte) (string, error) {
	key := path.Join(a.prefix, a.now().UTC().Format("2006/01/02"), uuid.New().String()+"_"+name)

	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("S3 PutObject %s/%s: %w", a.bucket, key, err)
	}

	a.log.Info("Export archived", "bucket", a.bucket, "key", key, "bytes", len(body))
	return key, nil
}
