// Package quant provides scalar quantization of float32 vectors into
// the f16, uint8, and int8 code formats consumed by the distance
// kernels.
//
// The uint8 format maps [min, max] linearly to [0, 255] (asymmetric,
// suited to squared L2 over non-negative data). The int8 format maps
// [-maxAbs, maxAbs] to [-127, 127] (symmetric, suited to inner
// product). QuantF16 is a lossy but parameter-free narrowing.
package quant

import (
	"errors"
	"math"
	"math/rand"

	"github.com/hupe1980/kerngo/internal/f16"
	"github.com/hupe1980/kerngo/metric"
)

// calibrationSample bounds the number of values inspected by
// ComputeParams on large inputs.
const calibrationSample = 16384

// Params holds the affine dequantization parameters:
// value ≈ float32(code)*Scale + Bias.
type Params struct {
	Scale float32
	Bias  float32
}

// ComputeParams calibrates quantization parameters on x. For L2 the
// mapping is asymmetric min-max; for inner product it is symmetric
// around zero so signs survive quantization. Inputs larger than the
// calibration sample are subsampled with rng (the full data is scanned
// when rng is nil).
func ComputeParams(x []float32, mt metric.Type, rng *rand.Rand) (Params, error) {
	if len(x) == 0 {
		return Params{}, errors.New("quant: empty calibration data")
	}
	if !mt.Valid() {
		return Params{}, errors.New("quant: unknown metric")
	}

	sample := x
	if rng != nil && len(x) > calibrationSample {
		sample = make([]float32, calibrationSample)
		for i := range sample {
			sample[i] = x[rng.Intn(len(x))]
		}
	}

	if mt == metric.InnerProduct {
		var maxAbs float32
		for _, v := range sample {
			if a := abs32(v); a > maxAbs {
				maxAbs = a
			}
		}
		if maxAbs == 0 {
			maxAbs = 1
		}
		return Params{Scale: maxAbs / 127}, nil
	}

	lo, hi := sample[0], sample[0]
	for _, v := range sample[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if lo == hi {
		hi = lo + 1
	}
	return Params{Scale: (hi - lo) / 255, Bias: lo}, nil
}

// QuantF16 narrows x to IEEE-754 binary16 codes.
func QuantF16(x []float32) []uint16 {
	codes := make([]uint16, len(x))
	for i, v := range x {
		codes[i] = uint16(f16.FromFloat32(v))
	}
	return codes
}

// DequantF16 widens binary16 codes back to float32.
func DequantF16(codes []uint16) []float32 {
	out := make([]float32, len(codes))
	for i, c := range codes {
		out[i] = f16.ToFloat32(f16.Bits(c))
	}
	return out
}

// QuantU8 quantizes x to uint8 codes with min-max calibration over the
// full input.
func QuantU8(x []float32) ([]uint8, Params) {
	p, _ := ComputeParams(x, metric.L2, nil)
	return QuantU8WithParams(x, p), p
}

// QuantU8WithParams quantizes x using precomputed parameters. Values
// outside the calibrated range clamp to the nearest code.
func QuantU8WithParams(x []float32, p Params) []uint8 {
	codes := make([]uint8, len(x))
	for i, v := range x {
		q := (v - p.Bias) / p.Scale
		if q < 0 {
			q = 0
		} else if q > 255 {
			q = 255
		}
		codes[i] = uint8(q + 0.5)
	}
	return codes
}

// DequantU8 reconstructs float32 values from uint8 codes.
func DequantU8(codes []uint8, p Params) []float32 {
	out := make([]float32, len(codes))
	for i, c := range codes {
		out[i] = float32(c)*p.Scale + p.Bias
	}
	return out
}

// QuantS8 quantizes x to int8 codes with symmetric calibration over
// the full input.
func QuantS8(x []float32) ([]int8, Params) {
	p, _ := ComputeParams(x, metric.InnerProduct, nil)
	return QuantS8WithParams(x, p), p
}

// QuantS8WithParams quantizes x using precomputed parameters. Values
// outside the calibrated range clamp to the nearest code.
func QuantS8WithParams(x []float32, p Params) []int8 {
	codes := make([]int8, len(x))
	for i, v := range x {
		q := v / p.Scale
		if q < -127 {
			q = -127
		} else if q > 127 {
			q = 127
		}
		codes[i] = int8(roundHalfAway(q))
	}
	return codes
}

// DequantS8 reconstructs float32 values from int8 codes.
func DequantS8(codes []int8, p Params) []float32 {
	out := make([]float32, len(codes))
	for i, c := range codes {
		out[i] = float32(c) * p.Scale
	}
	return out
}

// QuantSQ8 scalar-quantizes a whole row-major dataset of n vectors of
// dimension d, calibrating once across the full matrix so every row
// shares the same parameters.
func QuantSQ8(x []float32, d int) ([]uint8, Params, error) {
	if d < 1 || len(x)%d != 0 {
		return nil, Params{}, errors.New("quant: data length is not a multiple of the dimension")
	}
	codes, p := QuantU8(x)
	return codes, p, nil
}

func abs32(v float32) float32 {
	return math.Float32frombits(math.Float32bits(v) &^ (1 << 31))
}

func roundHalfAway(v float32) float32 {
	if v < 0 {
		return v - 0.5
	}
	return v + 0.5
}
