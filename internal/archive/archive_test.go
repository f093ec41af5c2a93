package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ignite/csv-dupcheck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	inputs []*s3.PutObjectInput
	bodies []string
	err    error
}

func (f *fakeUploader) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, _ := io.ReadAll(params.Body)
	f.inputs = append(f.inputs, params)
	f.bodies = append(f.bodies, string(body))
	return &s3.PutObjectOutput{}, nil
}

func TestArchiver_Put(t *testing.T) {
	fake := &fakeUploader{}
	a := NewWithClient(fake, "dupcheck-exports", "exports")
	a.now = func() time.Time { return time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC) }

	key, err := a.Put(context.Background(), "Vendors_duplicates.csv", []byte("A,isDuplicate,dupGroup\n"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "exports/2026/03/09/"), key)
	assert.True(t, strings.HasSuffix(key, "_Vendors_duplicates.csv"), key)

	require.Len(t, fake.inputs, 1)
	in := fake.inputs[0]
	assert.Equal(t, "dupcheck-exports", aws.ToString(in.Bucket))
	assert.Equal(t, key, aws.ToString(in.Key))
	assert.Equal(t, "text/csv; charset=utf-8", aws.ToString(in.ContentType))
	assert.Equal(t, "A,isDuplicate,dupGroup\n", fake.bodies[0])
	assert.Equal(t, "dupcheck-exports", a.Bucket())
}

func TestArchiver_PutError(t *testing.T) {
	fake := &fakeUploader{err: errors.New("access denied")}
	a := NewWithClient(fake, "b", "")

	_, err := a.Put(context.Background(), "x.csv", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestNew_Disabled(t *testing.T) {
	_, err := New(context.Background(), config.ExportConfig{})
	assert.True(t, errors.Is(err, ErrDisabled))
}

func TestNew_StaticCredentials(t *testing.T) {
	a, err := New(context.Background(), config.ExportConfig{
		S3Bucket:  "bucket",
		S3Region:  "us-west-2",
		S3Prefix:  "exports",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "bucket", a.Bucket())
}
