package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo/blobstore"
)

// mockClient implements Client against an in-memory object map.
type mockClient struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockClient() *mockClient {
	return &mockClient{objects: make(map[string][]byte)}
}

func (m *mockClient) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{ContentLength: aws.Int64(int64(len(data)))}, nil
}

func (m *mockClient) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	if in.Range != nil {
		var lo, hi int64
		if _, err := fmt.Sscanf(*in.Range, "bytes=%d-%d", &lo, &hi); err != nil {
			return nil, err
		}
		if hi >= int64(len(data)) {
			hi = int64(len(data)) - 1
		}
		data = data[lo : hi+1]
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(data)),
		ContentLength: aws.Int64(int64(len(data))),
	}, nil
}

func (m *mockClient) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (m *mockClient) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (m *mockClient) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var contents []types.Object
	for key := range m.objects {
		if strings.HasPrefix(key, aws.ToString(in.Prefix)) {
			contents = append(contents, types.Object{Key: aws.String(key)})
		}
	}
	return &s3.ListObjectsV2Output{Contents: contents, IsTruncated: aws.Bool(false)}, nil
}

func (m *mockClient) CreateMultipartUpload(context.Context, *s3.CreateMultipartUploadInput, ...func(*s3.Options)) (*s3.CreateMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart not supported by mock")
}

func (m *mockClient) UploadPart(context.Context, *s3.UploadPartInput, ...func(*s3.Options)) (*s3.UploadPartOutput, error) {
	return nil, fmt.Errorf("multipart not supported by mock")
}

func (m *mockClient) CompleteMultipartUpload(context.Context, *s3.CompleteMultipartUploadInput, ...func(*s3.Options)) (*s3.CompleteMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart not supported by mock")
}

func (m *mockClient) AbortMultipartUpload(context.Context, *s3.AbortMultipartUploadInput, ...func(*s3.Options)) (*s3.AbortMultipartUploadOutput, error) {
	return nil, fmt.Errorf("multipart not supported by mock")
}

func TestStorePutOpenRead(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMockClient(), "bucket", "root")

	data := []byte("the quick brown fox jumps over the lazy dog")
	require.NoError(t, store.Put(ctx, "handles/h1", data))

	blob, err := store.Open(ctx, "handles/h1")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	got := make([]byte, 9)
	n, err := blob.ReadAt(ctx, got, 4)
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	assert.Equal(t, []byte("quick bro"), got)

	rc, err := blob.ReadRange(ctx, 35, 100)
	require.NoError(t, err)
	defer rc.Close()
	tail, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, []byte("lazy dog"), tail)
}

func TestStoreOpenMissing(t *testing.T) {
	store := NewStore(newMockClient(), "bucket", "")
	_, err := store.Open(context.Background(), "nope")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreCreateStreams(t *testing.T) {
	ctx := context.Background()
	client := newMockClient()
	store := NewStore(client, "bucket", "root")

	w, err := store.Create(ctx, "streamed")
	require.NoError(t, err)
	_, err = w.Write([]byte("hello "))
	require.NoError(t, err)
	_, err = w.Write([]byte("upload"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	assert.Equal(t, []byte("hello upload"), client.objects["root/streamed"])

	// Double close reports the pipe as closed.
	assert.ErrorIs(t, w.Close(), io.ErrClosedPipe)
}

func TestStoreListStripsPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMockClient(), "bucket", "root")

	require.NoError(t, store.Put(ctx, "handles/a", []byte("a")))
	require.NoError(t, store.Put(ctx, "handles/b", []byte("b")))
	require.NoError(t, store.Put(ctx, "other/c", []byte("c")))

	names, err := store.List(ctx, "handles/")
	require.NoError(t, err)
	assert.Equal(t, []string{"handles/a", "handles/b"}, names)
}

func TestStoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewStore(newMockClient(), "bucket", "")

	require.NoError(t, store.Put(ctx, "doomed", []byte("x")))
	require.NoError(t, store.Delete(ctx, "doomed"))
	_, err := store.Open(ctx, "doomed")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestComputeCRC32C(t *testing.T) {
	// Known CRC32C vector: "123456789" -> 0xE3069283.
	assert.Equal(t, "4waSgw==", computeCRC32C([]byte("123456789")))
}
