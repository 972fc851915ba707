// Package handle builds and persists the transposed-block layout used
// by the with-handle distance entry points.
//
// A DistanceHandle holds M independent sub-vector spaces (M=1 for plain
// full-vector scans). Each space stores ny base vectors of dimension d,
// padded up to ceilNy (the next multiple of the block size) and
// rearranged dimension-major: within one block of B lanes, dimension j
// of lane k lives at offset j*B+k. The layout lets one kernel call
// produce B distances with per-lane accumulators held across the whole
// dimension loop.
package handle

import (
	"fmt"

	"github.com/hupe1980/kerngo/metric"
)

// Blocksizes supported by the transposed kernels.
const (
	BlockMini   = 16
	BlockMedium = 32
	BlockLarge  = 64
)

// DistanceHandle is an immutable, ready-to-scan transposed code block.
type DistanceHandle struct {
	metricType metric.Type
	dataBits   int
	m          int
	blocksize  int
	d          int
	ny         int
	ceilNy     int
	scale      float32
	bias       float32
	transposed []float32 // m * ceilNy * d
}

// Option configures handle construction.
type Option func(*DistanceHandle)

// WithScaleBias attaches quantization parameters to the handle. They
// travel with the serialized form; the float32 scan path ignores them.
func WithScaleBias(scale, bias float32) Option {
	return func(h *DistanceHandle) {
		h.scale = scale
		h.bias = bias
	}
}

// New builds a DistanceHandle from row-major codes. codes holds m
// sub-vector spaces back to back; space q occupies
// codes[q*ny*d : (q+1)*ny*d] as ny rows of d floats. blocksize must be
// 16, 32 or 64. Lanes past ny in the final block of each space are
// zero-padded.
func New(metricType metric.Type, blocksize, m, d, ny int, codes []float32, opts ...Option) (*DistanceHandle, error) {
	if !metricType.Valid() {
		return nil, fmt.Errorf("handle: unknown metric %d", uint8(metricType))
	}
	if blocksize != BlockMini && blocksize != BlockMedium && blocksize != BlockLarge {
		return nil, fmt.Errorf("handle: unsupported blocksize %d", blocksize)
	}
	if m < 1 {
		return nil, fmt.Errorf("handle: invalid m %d", m)
	}
	if d < 1 || d > 65535 {
		return nil, fmt.Errorf("handle: invalid dimension %d", d)
	}
	if ny < 1 || ny > 1<<30 {
		return nil, fmt.Errorf("handle: invalid ny %d", ny)
	}
	if len(codes) < m*ny*d {
		return nil, fmt.Errorf("handle: codes too small: need %d, got %d", m*ny*d, len(codes))
	}

	h := &DistanceHandle{
		metricType: metricType,
		dataBits:   32,
		m:          m,
		blocksize:  blocksize,
		d:          d,
		ny:         ny,
		ceilNy:     (ny + blocksize - 1) / blocksize * blocksize,
	}
	for _, opt := range opts {
		opt(h)
	}

	h.transposed = make([]float32, m*h.ceilNy*d)
	for q := 0; q < m; q++ {
		src := codes[q*ny*d:]
		dst := h.transposed[q*h.ceilNy*d:]
		blockTranspose(dst, src, ny, d, blocksize)
	}
	return h, nil
}

// blockTranspose rearranges ny row-major vectors of d floats into
// dimension-major blocks of `block` lanes. dst must hold ceil(ny/block)
// * block * d floats; lanes past ny stay zero.
func blockTranspose(dst, src []float32, ny, d, block int) {
	for i := 0; i < ny; i++ {
		b := i / block
		lane := i % block
		row := src[i*d : i*d+d]
		out := dst[b*block*d:]
		for j, v := range row {
			out[j*block+lane] = v
		}
	}
}

// Metric returns the metric the handle was built for.
func (h *DistanceHandle) Metric() metric.Type { return h.metricType }

// DataBits returns the stored element width. Only 32 is scannable; the
// field exists so serialized reduced-precision handles fail fast rather
// than decode garbage.
func (h *DistanceHandle) DataBits() int { return h.dataBits }

// M returns the number of sub-vector spaces.
func (h *DistanceHandle) M() int { return h.m }

// Blocksize returns the transposed block width in lanes.
func (h *DistanceHandle) Blocksize() int { return h.blocksize }

// Dim returns the per-space vector dimension.
func (h *DistanceHandle) Dim() int { return h.d }

// Ny returns the number of base vectors per space.
func (h *DistanceHandle) Ny() int { return h.ny }

// CeilNy returns ny rounded up to the block size.
func (h *DistanceHandle) CeilNy() int { return h.ceilNy }

// ScaleBias returns the attached quantization parameters.
func (h *DistanceHandle) ScaleBias() (scale, bias float32) { return h.scale, h.bias }

// Transposed exposes the dimension-major code block. The slice is owned
// by the handle; callers must not modify it.
func (h *DistanceHandle) Transposed() []float32 { return h.transposed }

// Reconstruct copies base vector id (concatenated across all m spaces)
// into dst. dst must hold m*d floats. Used by exact re-ranking.
func (h *DistanceHandle) Reconstruct(id int64, dst []float32) error {
	if id < 0 || id >= int64(h.ny) {
		return fmt.Errorf("handle: id %d out of range [0,%d)", id, h.ny)
	}
	if len(dst) < h.m*h.d {
		return fmt.Errorf("handle: dst too small: need %d, got %d", h.m*h.d, len(dst))
	}

	b := int(id) / h.blocksize
	lane := int(id) % h.blocksize
	for q := 0; q < h.m; q++ {
		block := h.transposed[q*h.ceilNy*h.d+b*h.blocksize*h.d:]
		out := dst[q*h.d : q*h.d+h.d]
		for j := range out {
			out[j] = block[j*h.blocksize+lane]
		}
	}
	return nil
}
