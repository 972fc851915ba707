package topk

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo"
	"github.com/hupe1980/kerngo/handle"
	"github.com/hupe1980/kerngo/metric"
)

func buildHandle(t *testing.T, rng *rand.Rand, mt metric.Type, m, d, ny int) (*handle.DistanceHandle, []float32) {
	t.Helper()
	codes := make([]float32, m*ny*d)
	for i := range codes {
		codes[i] = rng.Float32()*2 - 1
	}
	h, err := handle.New(mt, handle.BlockMini, m, d, ny, codes)
	require.NoError(t, err)
	return h, codes
}

// refScores computes exact distances for every vector, reconstructed
// the same way the handle lays codes out: per-space rows concatenated.
func refScores(codes []float32, query []float32, m, d, ny int, asc bool) []float64 {
	out := make([]float64, ny)
	for id := 0; id < ny; id++ {
		var acc float64
		for q := 0; q < m; q++ {
			for j := 0; j < d; j++ {
				v := float64(codes[q*ny*d+id*d+j])
				x := float64(query[q*d+j])
				if asc {
					acc += (x - v) * (x - v)
				} else {
					acc += x * v
				}
			}
		}
		out[id] = acc
	}
	return out
}

func TestReorder2VectorContinuousL2(t *testing.T) {
	rng := rand.New(rand.NewSource(61))
	m, d, ny := 2, 7, 50
	h, codes := buildHandle(t, rng, metric.L2, m, d, ny)

	query := make([]float32, m*d)
	for i := range query {
		query[i] = rng.Float32()
	}

	k := 5
	dis := make([]float32, k)
	idx := make([]int64, k)
	require.NoError(t, Reorder2VectorContinuous(h, int64(ny), 0, query, k, dis, idx))

	ref := refScores(codes, query, m, d, ny, true)
	order := make([]int, ny)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return ref[order[a]] < ref[order[b]] })

	for i := 0; i < k; i++ {
		assert.Equal(t, int64(order[i]), idx[i], "rank %d", i)
		assert.InDelta(t, ref[order[i]], float64(dis[i]), 1e-4, "rank %d", i)
	}
}

func TestReorder2VectorIPDescending(t *testing.T) {
	rng := rand.New(rand.NewSource(62))
	m, d, ny := 1, 9, 40
	h, codes := buildHandle(t, rng, metric.InnerProduct, m, d, ny)

	query := make([]float32, m*d)
	for i := range query {
		query[i] = rng.Float32()*2 - 1
	}

	// Candidate subset, shuffled.
	baseIdx := make([]int64, 25)
	perm := rng.Perm(ny)
	for i := range baseIdx {
		baseIdx[i] = int64(perm[i])
	}
	baseDis := make([]float32, len(baseIdx)) // first-phase scores, ignored

	k := 6
	dis := make([]float32, k)
	idx := make([]int64, k)
	require.NoError(t, Reorder2Vector(h, baseDis, baseIdx, query, k, dis, idx))

	ref := refScores(codes, query, m, d, ny, false)
	cands := append([]int64{}, baseIdx...)
	sort.Slice(cands, func(a, b int) bool { return ref[cands[a]] > ref[cands[b]] })

	for i := 0; i < k; i++ {
		assert.Equal(t, cands[i], idx[i], "rank %d", i)
		assert.InDelta(t, ref[cands[i]], float64(dis[i]), 1e-4, "rank %d", i)
	}
}

func TestReorderFewerCandidatesThanK(t *testing.T) {
	rng := rand.New(rand.NewSource(63))
	h, _ := buildHandle(t, rng, metric.L2, 1, 4, 10)

	query := make([]float32, 4)
	k := 5
	dis := make([]float32, k)
	idx := make([]int64, k)
	require.NoError(t, Reorder2VectorContinuous(h, 2, 3, query, k, dis, idx))

	// Two real candidates, then sentinel slots.
	assert.NotEqual(t, int64(-1), idx[0])
	assert.NotEqual(t, int64(-1), idx[1])
	for i := 2; i < k; i++ {
		assert.Equal(t, int64(-1), idx[i], "slot %d", i)
	}
}

func TestReorderValidation(t *testing.T) {
	rng := rand.New(rand.NewSource(64))
	h, _ := buildHandle(t, rng, metric.L2, 1, 4, 10)

	query := make([]float32, 4)
	dis := make([]float32, 3)
	idx := make([]int64, 3)

	assert.ErrorIs(t, Reorder2Vector(nil, nil, nil, query, 3, dis, idx), kerngo.ErrInvalidPointer)
	assert.ErrorIs(t, Reorder2Vector(h, []float32{0}, nil, query, 3, dis, idx), kerngo.ErrInvalidPointer)
	assert.ErrorIs(t, Reorder2Vector(h, []float32{0}, []int64{99}, query, 3, dis, idx), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, Reorder2Vector(h, nil, []int64{}, query, 0, dis, idx), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, Reorder2Vector(h, nil, []int64{}, query[:2], 3, dis, idx), kerngo.ErrInvalidPointer)
	assert.ErrorIs(t, Reorder2Vector(h, nil, []int64{}, query, 3, dis[:1], idx), kerngo.ErrInvalidPointer)

	assert.ErrorIs(t, Reorder2VectorContinuous(h, 0, 0, query, 3, dis, idx), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, Reorder2VectorContinuous(h, 5, 8, query, 3, dis, idx), kerngo.ErrInvalidParam)
}
