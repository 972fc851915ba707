package simd

// Kernel function pointers - set once at init, zero runtime overhead.
// Generic implementations are the default; platform-specific init()
// functions override with SIMD versions when available.
var (
	kernelL2Sqr        = l2SqrGeneric
	kernelL2SqrNy      = l2SqrNyGeneric
	kernelL2SqrByIdx   = l2SqrByIdxGeneric
	kernelL2SqrTrans16 = l2SqrTransposed16Generic
	kernelL2SqrTrans32 = l2SqrTransposed32Generic
	kernelL2SqrTrans64 = l2SqrTransposed64Generic

	kernelIP        = ipGeneric
	kernelIPNy      = ipNyGeneric
	kernelIPByIdx   = ipByIdxGeneric
	kernelIPTrans16 = ipTransposed16Generic
	kernelIPTrans32 = ipTransposed32Generic
	kernelIPTrans64 = ipTransposed64Generic
)

// ============================================================================
// Public API - Zero-overhead dispatch through function pointers
// ============================================================================

// L2Sqr computes the squared L2 distance between x[:d] and y[:d].
//
// SAFETY: Assumes len(x) >= d and len(y) >= d. Caller MUST ensure lengths.
func L2Sqr(x, y []float32, d int) float32 {
	return kernelL2Sqr(x, y, d)
}

// L2SqrNy computes squared L2 distances from x against ny contiguous
// rows of y, writing one result per row into dis.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func L2SqrNy(dis, x, y []float32, d, ny int) {
	kernelL2SqrNy(dis, x, y, d, ny)
}

// L2SqrByIdx computes squared L2 distances from x against ny rows of y
// selected by ids. Row k lives at y[ids[k]*d:]. The contents of ids are
// not bounds-checked here; out-of-range ids panic.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func L2SqrByIdx(dis, x, y []float32, ids []int64, d, ny int) {
	kernelL2SqrByIdx(dis, x, y, ids, d, ny)
}

// L2SqrTransposed computes squared L2 distances from x against one
// transposed block of `block` vectors. The block is dimension-major:
// y[j*block+k] holds dimension j of lane k.
//
// SAFETY: Assumes len(dis) >= block, len(x) >= d, len(y) >= d*block,
// and block is one of 16, 32, 64.
func L2SqrTransposed(dis, x, y []float32, d, block int) {
	switch block {
	case 16:
		kernelL2SqrTrans16(dis, x, y, d)
	case 32:
		kernelL2SqrTrans32(dis, x, y, d)
	case 64:
		kernelL2SqrTrans64(dis, x, y, d)
	}
}

// IP computes the inner product of x[:d] and y[:d].
//
// SAFETY: Assumes len(x) >= d and len(y) >= d.
func IP(x, y []float32, d int) float32 {
	return kernelIP(x, y, d)
}

// IPNy computes inner products from x against ny contiguous rows of y.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(y) >= ny*d.
func IPNy(dis, x, y []float32, d, ny int) {
	kernelIPNy(dis, x, y, d, ny)
}

// IPByIdx computes inner products from x against ny rows of y selected
// by ids. The contents of ids are not bounds-checked here.
//
// SAFETY: Assumes len(dis) >= ny, len(x) >= d, len(ids) >= ny.
func IPByIdx(dis, x, y []float32, ids []int64, d, ny int) {
	kernelIPByIdx(dis, x, y, ids, d, ny)
}

// IPTransposed computes inner products from x against one transposed
// block of `block` vectors (dimension-major layout, see L2SqrTransposed).
//
// SAFETY: Assumes len(dis) >= block, len(x) >= d, len(y) >= d*block,
// and block is one of 16, 32, 64.
func IPTransposed(dis, x, y []float32, d, block int) {
	switch block {
	case 16:
		kernelIPTrans16(dis, x, y, d)
	case 32:
		kernelIPTrans32(dis, x, y, d)
	case 64:
		kernelIPTrans64(dis, x, y, d)
	}
}
