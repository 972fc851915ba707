// Package lut implements table-lookup distance scans over product
// quantization codes.
//
// A dataset is encoded as ncode rows of nsq sub-quantizer codes. Per
// query, a similarity table holds the precomputed distance from the
// query's sub-vector to every centroid; scanning then reduces to nsq
// table lookups and adds per code. The 8-bit path uses 256-entry
// float32 tables, the 4-bit path packs two codes per byte and uses
// 16-entry binary16 tables. For pruning scans, the fast-scan path
// consumes batch-packed 4-bit codes with uint8 tables, saturating
// uint16 lane accumulators and a per-batch threshold mask.
package lut

import (
	"github.com/hupe1980/kerngo"
	"github.com/hupe1980/kerngo/internal/f16"
)

// TableLookup8 scans ncode rows of nsq uint8 codes against simTable
// and writes dis[j] = dis0 + sum over sub-quantizers of
// simTable[q*256+codes[j*nsq+q]].
//
// codes is row-major (code index outer, sub-quantizer inner). simTable
// holds nsq contiguous 256-entry tables.
func TableLookup8(nsq, ncode int, codes []uint8, simTable []float32, dis []float32, dis0 float32) error {
	const op = "TableLookup8"
	if err := checkScan(op, nsq, ncode, codes, simTable); err != nil {
		return err
	}
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if len(dis) < ncode {
		return &kerngo.PointerError{Op: op, Arg: "dis", Need: ncode, Got: len(dis)}
	}

	for j := 0; j < ncode; j++ {
		row := codes[j*nsq : j*nsq+nsq]
		acc := dis0
		for q, c := range row {
			acc += simTable[q*256+int(c)]
		}
		dis[j] = acc
	}
	return nil
}

// TableLookup8ByIdx scans the code rows selected by idx. dis[j] is the
// table sum for code row idx[j].
//
// The contents of idx are not validated against the code count; an
// out-of-range entry panics.
func TableLookup8ByIdx(nsq, ncode int, codes []uint8, simTable []float32, dis []float32, dis0 float32, idx []int64) error {
	const op = "TableLookup8ByIdx"
	if nsq < 1 {
		return &kerngo.ParamError{Op: op, Arg: "nsq", Value: int64(nsq)}
	}
	if ncode < 1 {
		return &kerngo.ParamError{Op: op, Arg: "ncode", Value: int64(ncode)}
	}
	if codes == nil {
		return &kerngo.PointerError{Op: op, Arg: "codes", Nil: true}
	}
	if simTable == nil {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Nil: true}
	}
	if len(simTable) < nsq*256 {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Need: nsq * 256, Got: len(simTable)}
	}
	if idx == nil {
		return &kerngo.PointerError{Op: op, Arg: "idx", Nil: true}
	}
	if len(idx) < ncode {
		return &kerngo.PointerError{Op: op, Arg: "idx", Need: ncode, Got: len(idx)}
	}
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if len(dis) < ncode {
		return &kerngo.PointerError{Op: op, Arg: "dis", Need: ncode, Got: len(dis)}
	}

	for j := 0; j < ncode; j++ {
		row := codes[idx[j]*int64(nsq) : idx[j]*int64(nsq)+int64(nsq)]
		acc := dis0
		for q, c := range row {
			acc += simTable[q*256+int(c)]
		}
		dis[j] = acc
	}
	return nil
}

// Buffers holds reusable index and distance scratch for repeated
// lookup scans, so per-query allocations disappear from the hot path.
type Buffers struct {
	useIdx   bool
	capacity int
	idx      []int64
	dis      []float32
}

// NewBuffers creates scratch for scans over at most capacity codes.
// When useIdx is set, an index buffer is allocated as well and scans
// read code rows through it.
func NewBuffers(useIdx bool, capacity int) (*Buffers, error) {
	if capacity < 1 {
		return nil, &kerngo.ParamError{Op: "NewBuffers", Arg: "capacity", Value: int64(capacity)}
	}
	b := &Buffers{
		useIdx:   useIdx,
		capacity: capacity,
		dis:      make([]float32, capacity),
	}
	if useIdx {
		b.idx = make([]int64, capacity)
	}
	return b, nil
}

// Capacity returns the maximum scan size.
func (b *Buffers) Capacity() int { return b.capacity }

// Idx returns the index buffer, or nil when the buffers were created
// without index support. Callers fill it before an indexed scan.
func (b *Buffers) Idx() []int64 { return b.idx }

// Dis returns the distance buffer holding the last scan's results.
func (b *Buffers) Dis() []float32 { return b.dis }

// TableLookup8WithBuffers scans into b's distance buffer. When b was
// created with index support, code rows are read through b.Idx();
// otherwise the first ncode rows are scanned in order.
func TableLookup8WithBuffers(b *Buffers, nsq, ncode int, codes []uint8, simTable []float32, dis0 float32) error {
	const op = "TableLookup8WithBuffers"
	if b == nil {
		return &kerngo.PointerError{Op: op, Arg: "buffers", Nil: true}
	}
	if ncode > b.capacity {
		return &kerngo.MemError{Op: op, Need: ncode, Got: b.capacity}
	}
	if b.useIdx {
		return TableLookup8ByIdx(nsq, ncode, codes, simTable, b.dis, dis0, b.idx)
	}
	return TableLookup8(nsq, ncode, codes, simTable, b.dis, dis0)
}

func checkScan(op string, nsq, ncode int, codes []uint8, simTable []float32) error {
	if nsq < 1 {
		return &kerngo.ParamError{Op: op, Arg: "nsq", Value: int64(nsq)}
	}
	if ncode < 1 {
		return &kerngo.ParamError{Op: op, Arg: "ncode", Value: int64(ncode)}
	}
	if codes == nil {
		return &kerngo.PointerError{Op: op, Arg: "codes", Nil: true}
	}
	if len(codes) < nsq*ncode {
		return &kerngo.PointerError{Op: op, Arg: "codes", Need: nsq * ncode, Got: len(codes)}
	}
	if simTable == nil {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Nil: true}
	}
	if len(simTable) < nsq*256 {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Need: nsq * 256, Got: len(simTable)}
	}
	return nil
}

// TableLookup4F16 scans 4-bit codes against binary16 tables and writes
// float32 distances. Each code row holds nsq 4-bit entries packed two
// per byte, low nibble first; nsq must be even. lutTable holds nsq
// contiguous 16-entry binary16 tables and dis0 is a binary16 initial
// value added to every output.
func TableLookup4F16(nsq, ncode int, codes []uint8, lutTable []uint16, dis []float32, dis0 uint16) error {
	const op = "TableLookup4F16"
	if nsq < 1 || nsq%2 != 0 {
		return &kerngo.ParamError{Op: op, Arg: "nsq", Value: int64(nsq)}
	}
	if ncode < 1 {
		return &kerngo.ParamError{Op: op, Arg: "ncode", Value: int64(ncode)}
	}
	if codes == nil {
		return &kerngo.PointerError{Op: op, Arg: "codes", Nil: true}
	}
	rowBytes := nsq / 2
	if len(codes) < rowBytes*ncode {
		return &kerngo.PointerError{Op: op, Arg: "codes", Need: rowBytes * ncode, Got: len(codes)}
	}
	if lutTable == nil {
		return &kerngo.PointerError{Op: op, Arg: "lutTable", Nil: true}
	}
	if len(lutTable) < nsq*16 {
		return &kerngo.PointerError{Op: op, Arg: "lutTable", Need: nsq * 16, Got: len(lutTable)}
	}
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if len(dis) < ncode {
		return &kerngo.PointerError{Op: op, Arg: "dis", Need: ncode, Got: len(dis)}
	}

	base := f16.ToFloat32(f16.Bits(dis0))
	for j := 0; j < ncode; j++ {
		row := codes[j*rowBytes : j*rowBytes+rowBytes]
		acc := base
		for t, b := range row {
			lo := int(b & 0x0f)
			hi := int(b >> 4)
			acc += f16.ToFloat32(f16.Bits(lutTable[(2*t)*16+lo]))
			acc += f16.ToFloat32(f16.Bits(lutTable[(2*t+1)*16+hi]))
		}
		dis[j] = acc
	}
	return nil
}
