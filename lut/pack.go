package lut

import (
	"github.com/hupe1980/kerngo"
)

// PackedLen returns the number of bytes PackCodes4 writes for ncode
// codes of nsq 4-bit entries at the given batch size. The code count
// rounds up to a whole number of batches.
func PackedLen(ncode, nsq, batchsize int) int {
	batches := (ncode + batchsize - 1) / batchsize
	return batches * batchsize * nsq / 2
}

// PackCodes4 packs 4-bit codes (one value per byte, 0..15) into the
// block layout the 4-bit scan kernels consume. codes is row-major:
// ncode rows of nsq entries. The tail batch is zero-padded.
//
// With dimCross false the layout is batch-major: per batch, per
// sub-quantizer, batchsize/2 bytes where byte k packs lanes 2k (low
// nibble) and 2k+1 (high nibble); batchsize must be even.
//
// With dimCross true adjacent sub-quantizers share a byte instead: per
// batch, per sub-quantizer pair t, batchsize bytes where byte lane
// packs sub-quantizer 2t (low) and 2t+1 (high) of that lane's code;
// nsq must be even.
func PackCodes4(codes []uint8, ncode, nsq int, blocks []uint8, batchsize int, dimCross bool) error {
	const op = "PackCodes4"
	if ncode < 1 {
		return &kerngo.ParamError{Op: op, Arg: "ncode", Value: int64(ncode)}
	}
	if nsq < 1 || (dimCross && nsq%2 != 0) {
		return &kerngo.ParamError{Op: op, Arg: "nsq", Value: int64(nsq)}
	}
	if batchsize < 2 || batchsize%2 != 0 {
		return &kerngo.ParamError{Op: op, Arg: "batchsize", Value: int64(batchsize)}
	}
	if codes == nil {
		return &kerngo.PointerError{Op: op, Arg: "codes", Nil: true}
	}
	if len(codes) < ncode*nsq {
		return &kerngo.PointerError{Op: op, Arg: "codes", Need: ncode * nsq, Got: len(codes)}
	}
	if blocks == nil {
		return &kerngo.PointerError{Op: op, Arg: "blocks", Nil: true}
	}
	need := PackedLen(ncode, nsq, batchsize)
	if len(blocks) < need {
		return &kerngo.PointerError{Op: op, Arg: "blocks", Need: need, Got: len(blocks)}
	}
	for _, c := range codes[:ncode*nsq] {
		if c > 15 {
			return &kerngo.ParamError{Op: op, Arg: "codes", Value: int64(c)}
		}
	}

	for i := range blocks[:need] {
		blocks[i] = 0
	}

	code := func(j, q int) uint8 {
		if j >= ncode {
			return 0
		}
		return codes[j*nsq+q]
	}

	batches := (ncode + batchsize - 1) / batchsize
	batchBytes := batchsize * nsq / 2

	if dimCross {
		for b := 0; b < batches; b++ {
			out := blocks[b*batchBytes:]
			for t := 0; t < nsq/2; t++ {
				for lane := 0; lane < batchsize; lane++ {
					j := b*batchsize + lane
					out[t*batchsize+lane] = code(j, 2*t) | code(j, 2*t+1)<<4
				}
			}
		}
		return nil
	}

	for b := 0; b < batches; b++ {
		out := blocks[b*batchBytes:]
		for q := 0; q < nsq; q++ {
			for k := 0; k < batchsize/2; k++ {
				j := b*batchsize + 2*k
				out[q*batchsize/2+k] = code(j, q) | code(j+1, q)<<4
			}
		}
	}
	return nil
}
