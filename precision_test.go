package kerngo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo/quant"
)

func TestL2SqrU8Golden(t *testing.T) {
	x := []uint8{0, 10, 255}
	y := []uint8{3, 10, 250}
	dis := make([]uint32, 1)

	require.NoError(t, L2SqrU8(x, y, 3, dis))
	assert.Equal(t, uint32(9+0+25), dis[0])
}

func TestNegativeInnerProductS8Golden(t *testing.T) {
	x := []int8{1, -2, 3}
	y := []int8{4, 5, -6}
	dis := make([]int32, 1)

	require.NoError(t, NegativeInnerProductS8(x, y, 3, dis))
	assert.Equal(t, int32(-(4-10-18)), dis[0])
}

func TestF16MatchesFloat32(t *testing.T) {
	rng := rand.New(rand.NewSource(91))
	d := 24
	xf := randVec(rng, d)
	yf := randVec(rng, d)

	x16 := quant.QuantF16(xf)
	y16 := quant.QuantF16(yf)

	// Reference on the decoded (lossy) values, so only accumulation
	// differences remain.
	xd := quant.DequantF16(x16)
	yd := quant.DequantF16(y16)
	want := make([]float32, 1)
	require.NoError(t, L2Sqr(xd, yd, d, want))

	got := make([]float32, 1)
	require.NoError(t, L2SqrF16(x16, y16, d, got))
	assert.InDelta(t, want[0], got[0], 1e-4)

	require.NoError(t, InnerProduct(xd, yd, d, want))
	require.NoError(t, NegativeInnerProductF16(x16, y16, d, got))
	assert.InDelta(t, -want[0], got[0], 1e-4)
}

func TestQuantizedBatchFlow(t *testing.T) {
	rng := rand.New(rand.NewSource(92))
	d, ny := 16, 21

	yf := randVec(rng, ny*d)
	xf := randVec(rng, d)

	// Calibrate on the corpus, encode query with the same parameters.
	codes, p, err := quant.QuantSQ8(yf, d)
	require.NoError(t, err)
	qx := quant.QuantU8WithParams(xf, p)

	dis := make([]float32, ny)
	require.NoError(t, L2SqrNyU8(dis, qx, codes, ny, d))

	// Quantized distances track the float32 distances on the decoded
	// values exactly.
	want := make([]float32, ny)
	require.NoError(t, L2SqrNy(want, quant.DequantU8(qx, p), quant.DequantU8(codes, p), ny, d))

	scale2 := float64(p.Scale) * float64(p.Scale)
	for i := range want {
		assert.InDelta(t, float64(want[i]), float64(dis[i])*scale2, 1e-3, "slot %d", i)
	}
}

func TestPrecisionByIdxMatchesNy(t *testing.T) {
	rng := rand.New(rand.NewSource(93))
	d, ny := 8, 19

	x := make([]uint16, d)
	y := make([]uint16, ny*d)
	for i := range x {
		x[i] = uint16(rng.Intn(0x7c00)) // positive finite halfs
	}
	for i := range y {
		y[i] = uint16(rng.Intn(0x7c00))
	}

	dense := make([]float32, ny)
	require.NoError(t, L2SqrNyF16(dense, x, y, ny, d))

	ids := make([]int64, ny)
	for i := range ids {
		ids[i] = int64(ny - 1 - i)
	}
	gathered := make([]float32, ny)
	require.NoError(t, L2SqrByIdxF16(gathered, x, y, ids, d, ny))

	for i := range ids {
		assert.Equal(t, dense[ids[i]], gathered[i], "slot %d", i)
	}
}

func TestNegativeInnerProductByIdxF16(t *testing.T) {
	rng := rand.New(rand.NewSource(94))
	d, ny := 4, 7

	xf := randVec(rng, d)
	yf := randVec(rng, ny*d)
	x := quant.QuantF16(xf)
	y := quant.QuantF16(yf)

	ids := []int64{0, 2, 4, 6, 1, 3, 5}
	pos := make([]float32, ny)
	require.NoError(t, InnerProductByIdxF16(pos, x, y, ids, d, ny))

	neg := make([]float32, ny)
	require.NoError(t, NegativeInnerProductByIdxF16(neg, x, y, ids, d, ny))

	for i := range pos {
		assert.Equal(t, -pos[i], neg[i], "slot %d", i)
	}
}

func TestPrecisionValidation(t *testing.T) {
	dis := make([]float32, 4)

	assert.ErrorIs(t, L2SqrNyF16(dis, make([]uint16, 2), make([]uint16, 8), 4, 0), ErrInvalidParam)
	assert.ErrorIs(t, L2SqrNyF16(dis, nil, make([]uint16, 8), 4, 2), ErrInvalidPointer)
	assert.ErrorIs(t, L2SqrNyU8(dis, make([]uint8, 2), make([]uint8, 4), 4, 2), ErrInvalidPointer)
	assert.ErrorIs(t, InnerProductByIdxS8(dis, make([]int8, 2), make([]int8, 8), nil, 2, 4), ErrInvalidPointer)

	var u32 []uint32
	assert.ErrorIs(t, L2SqrU8(make([]uint8, 2), make([]uint8, 2), 2, u32), ErrInvalidPointer)
}
