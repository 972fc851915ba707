package handle

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo/blobstore"
	"github.com/hupe1980/kerngo/metric"
	"github.com/hupe1980/kerngo/resource"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(41))
	d, ny := 5, 33
	codes := randCodes(rng, ny*d)

	h, err := New(metric.InnerProduct, BlockMedium, 1, d, ny, codes, WithScaleBias(0.5, 1.25))
	require.NoError(t, err)

	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "handles/h1", h, CodecZSTD, nil))

	got, err := Load(ctx, store, "handles/h1", nil)
	require.NoError(t, err)

	assert.Equal(t, h.Metric(), got.Metric())
	assert.Equal(t, h.Blocksize(), got.Blocksize())
	assert.Equal(t, h.M(), got.M())
	assert.Equal(t, h.Dim(), got.Dim())
	assert.Equal(t, h.Ny(), got.Ny())
	scale, bias := got.ScaleBias()
	assert.Equal(t, float32(0.5), scale)
	assert.Equal(t, float32(1.25), bias)
	assert.Equal(t, h.Transposed(), got.Transposed())
}

func TestSaveLoadWithController(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))
	d, ny := 4, 20
	h, err := New(metric.L2, BlockMini, 1, d, ny, randCodes(rng, ny*d))
	require.NoError(t, err)

	ctrl := resource.NewController(resource.Config{
		MemoryLimitBytes:     1 << 20,
		MaxBackgroundWorkers: 2,
		IOLimitBytesPerSec:   1 << 20,
	})

	store := blobstore.NewMemoryStore()
	require.NoError(t, Save(ctx, store, "h", h, CodecNone, ctrl))

	got, err := Load(ctx, store, "h", ctrl)
	require.NoError(t, err)
	assert.Equal(t, h.Transposed(), got.Transposed())

	// Load releases its reservation before returning.
	assert.Equal(t, int64(0), ctrl.MemoryUsage())
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(context.Background(), blobstore.NewMemoryStore(), "nope", nil)
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
}
