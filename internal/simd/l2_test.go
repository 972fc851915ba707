package simd

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refL2Sqr accumulates in float64 to serve as the precision reference.
func refL2Sqr(x, y []float32, d int) float64 {
	var sum float64
	for i := 0; i < d; i++ {
		diff := float64(x[i]) - float64(y[i])
		sum += diff * diff
	}
	return sum
}

func randVec(rng *rand.Rand, n int) []float32 {
	v := make([]float32, n)
	for i := range v {
		v[i] = rng.Float32()*2 - 1
	}
	return v
}

func relDelta(ref float64) float64 {
	tol := math.Abs(ref) * 1e-5
	if tol < 1e-6 {
		tol = 1e-6
	}
	return tol
}

func TestL2Sqr(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	dims := []int{1, 2, 3, 4, 5, 7, 8, 15, 16, 17, 23, 24, 31, 32, 63, 64, 65, 100, 128}

	for _, d := range dims {
		x := randVec(rng, d)
		y := randVec(rng, d)

		got := L2Sqr(x, y, d)
		ref := refL2Sqr(x, y, d)
		assert.InDelta(t, ref, float64(got), relDelta(ref), "d=%d", d)
	}
}

func TestL2SqrIdentical(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	x := randVec(rng, 64)
	assert.Equal(t, float32(0), L2Sqr(x, x, 64))
}

func TestL2SqrNy(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	d := 17

	// Cover every chunk decomposition path: full 24s, trailing 16 or 8,
	// and each combination of the low bits.
	for ny := 1; ny <= 80; ny++ {
		x := randVec(rng, d)
		y := randVec(rng, ny*d)
		dis := make([]float32, ny)
		for i := range dis {
			dis[i] = float32(math.NaN())
		}

		L2SqrNy(dis, x, y, d, ny)

		for i := 0; i < ny; i++ {
			require.False(t, math.IsNaN(float64(dis[i])), "ny=%d slot %d not written", ny, i)
			ref := refL2Sqr(x, y[i*d:], d)
			assert.InDelta(t, ref, float64(dis[i]), relDelta(ref), "ny=%d slot %d", ny, i)
		}
	}
}

func TestL2SqrByIdx(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	d := 9
	base := 128
	y := randVec(rng, base*d)
	x := randVec(rng, d)

	for ny := 1; ny <= 60; ny++ {
		ids := make([]int64, ny)
		for i := range ids {
			ids[i] = int64(rng.Intn(base))
		}
		dis := make([]float32, ny)
		for i := range dis {
			dis[i] = float32(math.NaN())
		}

		L2SqrByIdx(dis, x, y, ids, d, ny)

		for i := 0; i < ny; i++ {
			require.False(t, math.IsNaN(float64(dis[i])), "ny=%d slot %d not written", ny, i)
			ref := refL2Sqr(x, y[int(ids[i])*d:], d)
			assert.InDelta(t, ref, float64(dis[i]), relDelta(ref), "ny=%d slot %d", ny, i)
		}
	}
}

func TestL2SqrByIdxMatchesNy(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	d := 32
	ny := 53
	x := randVec(rng, d)
	y := randVec(rng, ny*d)

	ids := make([]int64, ny)
	for i := range ids {
		ids[i] = int64(i)
	}

	want := make([]float32, ny)
	got := make([]float32, ny)
	L2SqrNy(want, x, y, d, ny)
	L2SqrByIdx(got, x, y, ids, d, ny)

	assert.Equal(t, want, got)
}

// transposeBlockMajor rearranges ny (padded to a multiple of block)
// rows of d floats into dimension-major blocks.
func transposeBlockMajor(y []float32, ny, d, block int) []float32 {
	ceil := (ny + block - 1) / block * block
	out := make([]float32, ceil*d)
	for i := 0; i < ny; i++ {
		b := i / block
		lane := i % block
		for j := 0; j < d; j++ {
			out[b*block*d+j*block+lane] = y[i*d+j]
		}
	}
	return out
}

func TestL2SqrTransposed(t *testing.T) {
	rng := rand.New(rand.NewSource(6))

	for _, block := range []int{16, 32, 64} {
		for _, d := range []int{1, 2, 3, 8, 17, 64} {
			x := randVec(rng, d)
			y := randVec(rng, block*d)
			tr := transposeBlockMajor(y, block, d, block)

			dis := make([]float32, block)
			L2SqrTransposed(dis, x, tr, d, block)

			for k := 0; k < block; k++ {
				ref := refL2Sqr(x, y[k*d:], d)
				assert.InDelta(t, ref, float64(dis[k]), relDelta(ref), "block=%d d=%d lane=%d", block, d, k)
			}
		}
	}
}

func BenchmarkL2Sqr(b *testing.B) {
	rng := rand.New(rand.NewSource(7))
	x := randVec(rng, 128)
	y := randVec(rng, 128)

	var sink float32
	for b.Loop() {
		sink = L2Sqr(x, y, 128)
	}
	_ = sink
}

func BenchmarkL2SqrNy(b *testing.B) {
	rng := rand.New(rand.NewSource(8))
	d := 128
	ny := 1024
	x := randVec(rng, d)
	y := randVec(rng, ny*d)
	dis := make([]float32, ny)

	for b.Loop() {
		L2SqrNy(dis, x, y, d, ny)
	}
}

func BenchmarkL2SqrTransposed64(b *testing.B) {
	rng := rand.New(rand.NewSource(9))
	d := 128
	x := randVec(rng, d)
	y := randVec(rng, 64*d)
	dis := make([]float32, 64)

	for b.Loop() {
		L2SqrTransposed(dis, x, y, d, 64)
	}
}
