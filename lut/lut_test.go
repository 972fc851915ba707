package lut

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/kerngo"
	"github.com/hupe1980/kerngo/internal/f16"
)

func randTable(rng *rand.Rand, nsq, entries int) []float32 {
	table := make([]float32, nsq*entries)
	for i := range table {
		table[i] = rng.Float32()
	}
	return table
}

func randCodes8(rng *rand.Rand, ncode, nsq int) []uint8 {
	codes := make([]uint8, ncode*nsq)
	for i := range codes {
		codes[i] = uint8(rng.Intn(256))
	}
	return codes
}

// refLookup8 is a float64 reference for the table sum.
func refLookup8(nsq int, row []uint8, simTable []float32, dis0 float32) float64 {
	acc := float64(dis0)
	for q := 0; q < nsq; q++ {
		acc += float64(simTable[q*256+int(row[q])])
	}
	return acc
}

func TestTableLookup8(t *testing.T) {
	rng := rand.New(rand.NewSource(41))
	nsq, ncode := 8, 33
	codes := randCodes8(rng, ncode, nsq)
	table := randTable(rng, nsq, 256)

	dis := make([]float32, ncode)
	require.NoError(t, TableLookup8(nsq, ncode, codes, table, dis, 1.5))

	for j := 0; j < ncode; j++ {
		ref := refLookup8(nsq, codes[j*nsq:(j+1)*nsq], table, 1.5)
		assert.InDelta(t, ref, float64(dis[j]), 1e-4, "code %d", j)
	}
}

func TestTableLookup8Validation(t *testing.T) {
	codes := make([]uint8, 8)
	table := make([]float32, 256)
	dis := make([]float32, 1)

	assert.ErrorIs(t, TableLookup8(0, 1, codes, table, dis, 0), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, TableLookup8(1, 0, codes, table, dis, 0), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, TableLookup8(1, 1, nil, table, dis, 0), kerngo.ErrInvalidPointer)
	assert.ErrorIs(t, TableLookup8(2, 1, codes, table, dis, 0), kerngo.ErrInvalidPointer) // table too small
	assert.ErrorIs(t, TableLookup8(1, 2, codes, table, dis, 0), kerngo.ErrInvalidPointer) // dis too small
	assert.ErrorIs(t, TableLookup8(1, 1, codes, table, nil, 0), kerngo.ErrInvalidPointer)
}

func TestTableLookup8ByIdxMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	nsq, total := 4, 50
	codes := randCodes8(rng, total, nsq)
	table := randTable(rng, nsq, 256)

	dense := make([]float32, total)
	require.NoError(t, TableLookup8(nsq, total, codes, table, dense, 0))

	ncode := 20
	idx := make([]int64, ncode)
	for i := range idx {
		idx[i] = int64(rng.Intn(total))
	}

	dis := make([]float32, ncode)
	require.NoError(t, TableLookup8ByIdx(nsq, ncode, codes, table, dis, 0, idx))

	for j := 0; j < ncode; j++ {
		assert.Equal(t, dense[idx[j]], dis[j], "slot %d id %d", j, idx[j])
	}
}

func TestTableLookup8WithBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(43))
	nsq, total := 4, 30
	codes := randCodes8(rng, total, nsq)
	table := randTable(rng, nsq, 256)

	t.Run("sequential", func(t *testing.T) {
		b, err := NewBuffers(false, 64)
		require.NoError(t, err)
		assert.Nil(t, b.Idx())
		assert.Equal(t, 64, b.Capacity())

		require.NoError(t, TableLookup8WithBuffers(b, nsq, total, codes, table, 0))

		want := make([]float32, total)
		require.NoError(t, TableLookup8(nsq, total, codes, table, want, 0))
		assert.Equal(t, want, b.Dis()[:total])
	})

	t.Run("indexed", func(t *testing.T) {
		b, err := NewBuffers(true, 16)
		require.NoError(t, err)
		require.NotNil(t, b.Idx())

		for i := 0; i < 16; i++ {
			b.Idx()[i] = int64((i * 7) % total)
		}
		require.NoError(t, TableLookup8WithBuffers(b, nsq, 16, codes, table, 0))

		dense := make([]float32, total)
		require.NoError(t, TableLookup8(nsq, total, codes, table, dense, 0))
		for i := 0; i < 16; i++ {
			assert.Equal(t, dense[b.Idx()[i]], b.Dis()[i], "slot %d", i)
		}
	})

	t.Run("over capacity", func(t *testing.T) {
		b, err := NewBuffers(false, 8)
		require.NoError(t, err)
		err = TableLookup8WithBuffers(b, nsq, 9, codes, table, 0)
		assert.ErrorIs(t, err, kerngo.ErrUnsafeMem)
	})

	t.Run("bad capacity", func(t *testing.T) {
		_, err := NewBuffers(false, 0)
		assert.ErrorIs(t, err, kerngo.ErrInvalidParam)
	})
}

func TestTableLookup4F16(t *testing.T) {
	rng := rand.New(rand.NewSource(44))
	nsq, ncode := 6, 10

	// Raw 4-bit codes, one per byte.
	raw := make([]uint8, ncode*nsq)
	for i := range raw {
		raw[i] = uint8(rng.Intn(16))
	}
	// Pack two sub-quantizers per byte, low nibble first.
	packed := make([]uint8, ncode*nsq/2)
	for j := 0; j < ncode; j++ {
		for t4 := 0; t4 < nsq/2; t4++ {
			packed[j*nsq/2+t4] = raw[j*nsq+2*t4] | raw[j*nsq+2*t4+1]<<4
		}
	}

	table32 := randTable(rng, nsq, 16)
	table16 := make([]uint16, len(table32))
	for i, v := range table32 {
		table16[i] = uint16(f16.FromFloat32(v))
	}
	dis0 := uint16(f16.FromFloat32(0.25))

	dis := make([]float32, ncode)
	require.NoError(t, TableLookup4F16(nsq, ncode, packed, table16, dis, dis0))

	for j := 0; j < ncode; j++ {
		acc := float64(f16.ToFloat32(f16.Bits(dis0)))
		for q := 0; q < nsq; q++ {
			acc += float64(f16.ToFloat32(f16.Bits(table16[q*16+int(raw[j*nsq+q])])))
		}
		assert.InDelta(t, acc, float64(dis[j]), 1e-5, "code %d", j)
	}
}

func TestTableLookup4F16Validation(t *testing.T) {
	codes := make([]uint8, 4)
	table := make([]uint16, 32)
	dis := make([]float32, 4)

	assert.ErrorIs(t, TableLookup4F16(3, 4, codes, table, dis, 0), kerngo.ErrInvalidParam) // odd nsq
	assert.ErrorIs(t, TableLookup4F16(2, 0, codes, table, dis, 0), kerngo.ErrInvalidParam)
	assert.ErrorIs(t, TableLookup4F16(2, 4, codes, table[:16], dis, 0), kerngo.ErrInvalidPointer)
	assert.ErrorIs(t, TableLookup4F16(2, 5, codes, table, dis, 0), kerngo.ErrInvalidPointer) // codes too small
}

func BenchmarkTableLookup8(b *testing.B) {
	rng := rand.New(rand.NewSource(45))
	nsq, ncode := 16, 4096
	codes := randCodes8(rng, ncode, nsq)
	table := randTable(rng, nsq, 256)
	dis := make([]float32, ncode)

	b.SetBytes(int64(ncode * nsq))
	for b.Loop() {
		_ = TableLookup8(nsq, ncode, codes, table, dis, 0)
	}
}
