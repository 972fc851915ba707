package simd

// 8-bit integer kernels. Accumulation is widened to int32, which is
// exact within the documented dimension bound of 65535.

var (
	kernelL2SqrU8 = l2SqrU8Generic
	kernelIPS8    = ipS8Generic
)

// L2SqrU8 computes the squared L2 distance between two uint8 vectors
// with exact int32 accumulation.
//
// SAFETY: Assumes len(x) >= d and len(y) >= d.
func L2SqrU8(x, y []uint8, d int) uint32 {
	return kernelL2SqrU8(x, y, d)
}

// IPS8 computes the inner product of two int8 vectors with exact int32
// accumulation.
//
// SAFETY: Assumes len(x) >= d and len(y) >= d.
func IPS8(x, y []int8, d int) int32 {
	return kernelIPS8(x, y, d)
}

// L2SqrNyU8 computes squared L2 distances from x against ny contiguous
// uint8 rows of y, widening each exact sum to float32.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func L2SqrNyU8(dis []float32, x, y []uint8, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = float32(kernelL2SqrU8(x, y[k*d:], d))
	}
}

// IPNyS8 computes inner products from x against ny contiguous int8 rows
// of y, widening each exact sum to float32.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func IPNyS8(dis []float32, x, y []int8, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = float32(kernelIPS8(x, y[k*d:], d))
	}
}

// L2SqrByIdxU8 computes squared L2 distances from x against uint8 rows
// of y selected by ids. The contents of ids are not bounds-checked.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func L2SqrByIdxU8(dis []float32, x, y []uint8, ids []int64, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = float32(kernelL2SqrU8(x, y[int(ids[k])*d:], d))
	}
}

// IPByIdxS8 computes inner products from x against int8 rows of y
// selected by ids. The contents of ids are not bounds-checked.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func IPByIdxS8(dis []float32, x, y []int8, ids []int64, d, ny int) {
	for k := 0; k < ny; k++ {
		dis[k] = float32(kernelIPS8(x, y[int(ids[k])*d:], d))
	}
}

func l2SqrU8Generic(x, y []uint8, d int) uint32 {
	var acc uint32
	i := 0
	for ; i+4 <= d; i += 4 {
		d0 := int32(x[i]) - int32(y[i])
		d1 := int32(x[i+1]) - int32(y[i+1])
		d2 := int32(x[i+2]) - int32(y[i+2])
		d3 := int32(x[i+3]) - int32(y[i+3])
		acc += uint32(d0*d0) + uint32(d1*d1) + uint32(d2*d2) + uint32(d3*d3)
	}
	for ; i < d; i++ {
		diff := int32(x[i]) - int32(y[i])
		acc += uint32(diff * diff)
	}
	return acc
}

func ipS8Generic(x, y []int8, d int) int32 {
	var acc int32
	i := 0
	for ; i+4 <= d; i += 4 {
		acc += int32(x[i])*int32(y[i]) + int32(x[i+1])*int32(y[i+1]) +
			int32(x[i+2])*int32(y[i+2]) + int32(x[i+3])*int32(y[i+3])
	}
	for ; i < d; i++ {
		acc += int32(x[i]) * int32(y[i])
	}
	return acc
}
