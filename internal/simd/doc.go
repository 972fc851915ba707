// Package simd provides the low-level distance kernels behind the
// public kerngo API: single-pair, contiguous-batch, gather-by-index and
// transposed-block variants for squared L2 and inner product, plus
// binary16 and 8-bit integer storage formats.
//
// All entry points dispatch through package-level function pointers
// that are bound once at init. The pure Go implementations are the
// default; platform-specific init functions may rebind them when a
// faster ISA is available. Selection can be forced with the KERNGO_SIMD
// environment variable (generic, neon, sve2, avx2, avx512).
//
// None of the functions in this package validate their arguments. The
// exported kerngo package owns parameter checking; these kernels assume
// every slice is large enough and will panic on out-of-range indices.
package simd
