// Package kerngo provides batched vector-distance compute kernels for
// approximate nearest neighbor search engines.
//
// The package covers squared L2 and inner-product distances in four
// access patterns:
//
//   - single pair: L2Sqr, InnerProduct
//   - dense batch: L2SqrNy, InnerProductNy scan ny contiguous rows
//   - gather: L2SqrByIdx, InnerProductByIdx resolve rows through an id
//     list with prefetch, for post-traversal candidate scoring
//   - transposed blocks: L2SqrNyWithHandle, InnerProductNyWithHandle
//     scan a handle.DistanceHandle whose vectors are laid out
//     dimension-major in blocks of 16, 32 or 64 lanes
//
// Reduced-precision variants (binary16, uint8, int8) mirror the dense
// and gather patterns. Candidate sets held as roaring bitmaps can be
// scored directly with L2SqrByBitmap and InnerProductByBitmap.
//
// Every exported entry point validates its arguments and returns nil or
// an error wrapping ErrInvalidParam, ErrInvalidPointer or ErrUnsafeMem;
// on error no output slot has been written. Two caveats are deliberate:
// the contents of id lists are not bounds-checked (out-of-range ids
// panic), and float32 accumulation order is unspecified, so results may
// differ from sequential summation by rounding only.
//
// Subpackages: handle (transposed-block construction and
// serialization), lut (table-lookup scans for quantized codes), quant
// (min-max quantizers), topk (bounded top-k selection and re-ranking),
// blobstore and resource (handle persistence).
package kerngo
