package lut

import (
	"math"

	"github.com/hupe1980/kerngo"
)

// FastScanBatch is the number of lanes a bs64 fast-scan kernel
// processes per packed batch.
const FastScanBatch = 64

// L2TableLookupFastScanBS64 scans 4-bit codes packed by PackCodes4
// (batch-major layout, batchsize 64) against uint8 similarity tables.
// Lane distances accumulate in uint16 with saturation at 65535:
// dis[j] = dis0 + sum over sub-quantizers of simTable[q*16+code(j,q)].
// Per batch, ltMask receives one bit per lane, set when the lane's
// distance is strictly below threshold. Padding lanes of the tail
// batch never set their bit and never reach dis.
//
// simTable holds nsq contiguous 16-entry uint8 tables.
func L2TableLookupFastScanBS64(nsq, ncode int, blocks, simTable []uint8, dis0, threshold uint16, dis []uint16, ltMask []uint64) error {
	return fastScanBS64("L2TableLookupFastScanBS64", nsq, ncode, blocks, simTable, dis0, threshold, dis, ltMask, false)
}

// IPTableLookupFastScanBS64 is the similarity counterpart of
// L2TableLookupFastScanBS64: mask bits mark lanes whose accumulated
// value is strictly above threshold.
func IPTableLookupFastScanBS64(nsq, ncode int, blocks, simTable []uint8, dis0, threshold uint16, dis []uint16, ltMask []uint64) error {
	return fastScanBS64("IPTableLookupFastScanBS64", nsq, ncode, blocks, simTable, dis0, threshold, dis, ltMask, true)
}

func fastScanBS64(op string, nsq, ncode int, blocks, simTable []uint8, dis0, threshold uint16, dis []uint16, ltMask []uint64, above bool) error {
	if nsq < 1 {
		return &kerngo.ParamError{Op: op, Arg: "nsq", Value: int64(nsq)}
	}
	if ncode < 1 {
		return &kerngo.ParamError{Op: op, Arg: "ncode", Value: int64(ncode)}
	}
	if blocks == nil {
		return &kerngo.PointerError{Op: op, Arg: "blocks", Nil: true}
	}
	need := PackedLen(ncode, nsq, FastScanBatch)
	if len(blocks) < need {
		return &kerngo.PointerError{Op: op, Arg: "blocks", Need: need, Got: len(blocks)}
	}
	if simTable == nil {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Nil: true}
	}
	if len(simTable) < nsq*16 {
		return &kerngo.PointerError{Op: op, Arg: "simTable", Need: nsq * 16, Got: len(simTable)}
	}
	if dis == nil {
		return &kerngo.PointerError{Op: op, Arg: "dis", Nil: true}
	}
	if len(dis) < ncode {
		return &kerngo.PointerError{Op: op, Arg: "dis", Need: ncode, Got: len(dis)}
	}
	batches := (ncode + FastScanBatch - 1) / FastScanBatch
	if ltMask == nil {
		return &kerngo.PointerError{Op: op, Arg: "ltMask", Nil: true}
	}
	if len(ltMask) < batches {
		return &kerngo.PointerError{Op: op, Arg: "ltMask", Need: batches, Got: len(ltMask)}
	}

	batchBytes := FastScanBatch * nsq / 2
	var lanes [FastScanBatch]uint16
	for b := 0; b < batches; b++ {
		for i := range lanes {
			lanes[i] = dis0
		}
		fastScanStep(nsq, blocks[b*batchBytes:(b+1)*batchBytes], simTable, &lanes)

		n := ncode - b*FastScanBatch
		if n > FastScanBatch {
			n = FastScanBatch
		}
		var mask uint64
		for lane := 0; lane < n; lane++ {
			v := lanes[lane]
			dis[b*FastScanBatch+lane] = v
			if (above && v > threshold) || (!above && v < threshold) {
				mask |= 1 << lane
			}
		}
		ltMask[b] = mask
	}
	return nil
}

// fastScanStep accumulates one packed batch into the lane registers.
// Byte k of a sub-quantizer's row carries lanes 2k (low nibble) and
// 2k+1 (high nibble), matching the PackCodes4 batch-major layout.
func fastScanStep(nsq int, in, simTable []uint8, lanes *[FastScanBatch]uint16) {
	const half = FastScanBatch / 2
	for q := 0; q < nsq; q++ {
		tab := simTable[q*16 : q*16+16]
		row := in[q*half : q*half+half]
		for k, pair := range row {
			lanes[2*k] = satAdd16(lanes[2*k], uint16(tab[pair&0x0f]))
			lanes[2*k+1] = satAdd16(lanes[2*k+1], uint16(tab[pair>>4]))
		}
	}
}

func satAdd16(a, b uint16) uint16 {
	s := a + b
	if s < a {
		return math.MaxUint16
	}
	return s
}
