package minio

import (
	"context"
	"io"
	"os"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo/blobstore"
)

// newTestStore connects to a live MinIO endpoint. Set MINIO_ENDPOINT
// (plus MINIO_ACCESS_KEY / MINIO_SECRET_KEY) to run these tests, e.g.
// against a local `minio server` instance.
func newTestStore(t *testing.T) *Store {
	t.Helper()

	endpoint := os.Getenv("MINIO_ENDPOINT")
	if endpoint == "" {
		t.Skip("MINIO_ENDPOINT not set")
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			os.Getenv("MINIO_ACCESS_KEY"),
			os.Getenv("MINIO_SECRET_KEY"),
			"",
		),
	})
	require.NoError(t, err)

	ctx := context.Background()
	bucket := "kerngo-test"

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	return NewStore(client, bucket, "test/")
}

func TestStoreRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte("minio round trip payload")
	require.NoError(t, store.Put(ctx, "blob", data))
	defer store.Delete(ctx, "blob")

	blob, err := store.Open(ctx, "blob")
	require.NoError(t, err)
	defer blob.Close()

	assert.Equal(t, int64(len(data)), blob.Size())

	got := make([]byte, 5)
	n, err := blob.ReadAt(ctx, got, 6)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, []byte("round"), got)

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	require.NoError(t, err)
	defer rc.Close()
	all, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

func TestStoreOpenMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Open(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}

func TestStoreCreateStreams(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w, err := store.Create(ctx, "streamed")
	require.NoError(t, err)
	_, err = w.Write([]byte("part one "))
	require.NoError(t, err)
	_, err = w.Write([]byte("part two"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	defer store.Delete(ctx, "streamed")

	blob, err := store.Open(ctx, "streamed")
	require.NoError(t, err)
	defer blob.Close()

	rc, err := blob.ReadRange(ctx, 0, blob.Size())
	require.NoError(t, err)
	defer rc.Close()
	all, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "part one part two", string(all))
}
