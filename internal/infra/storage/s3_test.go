package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	repo "rocketcart/internal/repository"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// バケットをmapで持つだけの偽クライアント
type fakeS3 struct {
	mu           sync.Mutex
	objects      map[string][]byte
	contentTypes map[string]string
	getErr       error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, contentTypes: map[string]string{}}
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.getErr != nil {
		return nil, f.getErr
	}
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	k := aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	f.objects[k] = b
	f.contentTypes[k] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_GetSet(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := newS3StoreWithClient(fake, "bucket", "carts/")

	_, err := s.Get(ctx, "@RocketShoes:cart")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	require.NoError(t, s.Set(ctx, "@RocketShoes:cart", `[{"id":1}]`))
	assert.Contains(t, fake.objects, "bucket/carts/@RocketShoes:cart")
	assert.Equal(t, "application/json", fake.contentTypes["bucket/carts/@RocketShoes:cart"])

	v, err := s.Get(ctx, "@RocketShoes:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, v)
}

func TestS3Store_GetError(t *testing.T) {
	fake := newFakeS3()
	fake.getErr = errors.New("access denied")
	s := newS3StoreWithClient(fake, "bucket", "")

	_, err := s.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repo.ErrNotFound)
}

func TestNewS3Store_RequiresBucket(t *testing.T) {
	_, err := NewS3Store(context.Background(), S3Config{})
	assert.Error(t, err)
}
