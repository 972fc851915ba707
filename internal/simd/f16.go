package simd

import "github.com/hupe1980/kerngo/internal/f16"

// Float16 kernels. Storage is binary16; every element is widened to
// float32 before the arithmetic, so the accumulation contract matches
// the float32 kernels.

var (
	kernelL2SqrF16 = l2SqrF16Generic
	kernelIPF16    = ipF16Generic
)

// L2SqrF16 computes the squared L2 distance between two binary16
// vectors, accumulating in float32.
//
// SAFETY: Assumes len(x) >= d and len(y) >= d.
func L2SqrF16(x, y []uint16, d int) float32 {
	return kernelL2SqrF16(x, y, d)
}

// IPF16 computes the inner product of two binary16 vectors,
// accumulating in float32.
//
// SAFETY: Assumes len(x) >= d and len(y) >= d.
func IPF16(x, y []uint16, d int) float32 {
	return kernelIPF16(x, y, d)
}

// L2SqrNyF16 computes squared L2 distances from x against ny contiguous
// binary16 rows of y.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func L2SqrNyF16(dis []float32, x, y []uint16, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = kernelL2SqrF16(x, y[k*d:], d)
	}
}

// IPNyF16 computes inner products from x against ny contiguous binary16
// rows of y.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func IPNyF16(dis []float32, x, y []uint16, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = kernelIPF16(x, y[k*d:], d)
	}
}

// L2SqrByIdxF16 computes squared L2 distances from x against binary16
// rows of y selected by ids. The contents of ids are not bounds-checked.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func L2SqrByIdxF16(dis []float32, x, y []uint16, ids []int64, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = kernelL2SqrF16(x, y[int(ids[k])*d:], d)
	}
}

// IPByIdxF16 computes inner products from x against binary16 rows of y
// selected by ids. The contents of ids are not bounds-checked.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func IPByIdxF16(dis []float32, x, y []uint16, ids []int64, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = kernelIPF16(x, y[int(ids[k])*d:], d)
	}
}

func l2SqrF16Generic(x, y []uint16, d int) float32 {
	var a0, a1 float32
	i := 0
	for ; i+4 <= d; i += 4 {
		d0 := f16.ToFloat32(f16.Bits(x[i])) - f16.ToFloat32(f16.Bits(y[i]))
		d1 := f16.ToFloat32(f16.Bits(x[i+1])) - f16.ToFloat32(f16.Bits(y[i+1]))
		d2 := f16.ToFloat32(f16.Bits(x[i+2])) - f16.ToFloat32(f16.Bits(y[i+2]))
		d3 := f16.ToFloat32(f16.Bits(x[i+3])) - f16.ToFloat32(f16.Bits(y[i+3]))
		a0 += d0*d0 + d1*d1
		a1 += d2*d2 + d3*d3
	}
	sum := a0 + a1
	for ; i < d; i++ {
		diff := f16.ToFloat32(f16.Bits(x[i])) - f16.ToFloat32(f16.Bits(y[i]))
		sum += diff * diff
	}
	return sum
}

func ipF16Generic(x, y []uint16, d int) float32 {
	var a0, a1 float32
	i := 0
	for ; i+4 <= d; i += 4 {
		a0 += f16.ToFloat32(f16.Bits(x[i]))*f16.ToFloat32(f16.Bits(y[i])) +
			f16.ToFloat32(f16.Bits(x[i+1]))*f16.ToFloat32(f16.Bits(y[i+1]))
		a1 += f16.ToFloat32(f16.Bits(x[i+2]))*f16.ToFloat32(f16.Bits(y[i+2])) +
			f16.ToFloat32(f16.Bits(x[i+3]))*f16.ToFloat32(f16.Bits(y[i+3]))
	}
	sum := a0 + a1
	for ; i < d; i++ {
		sum += f16.ToFloat32(f16.Bits(x[i])) * f16.ToFloat32(f16.Bits(y[i]))
	}
	return sum
}
