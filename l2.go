package kerngo

import (
	"github.com/hupe1980/kerngo/handle"
	"github.com/hupe1980/kerngo/internal/simd"
)

// L2Sqr computes the squared L2 distance between x[:d] and y[:d] and
// stores it in dis[0].
func L2Sqr(x, y []float32, d int, dis []float32) error {
	const op = "L2Sqr"
	if err := checkDim(op, d); err != nil {
		return err
	}
	if err := checkSlice(op, "x", x, d); err != nil {
		return err
	}
	if err := checkSlice(op, "y", y, d); err != nil {
		return err
	}
	if err := checkSlice(op, "dis", dis, 1); err != nil {
		return err
	}

	dis[0] = simd.L2Sqr(x, y, d)
	return nil
}

// L2SqrNy computes squared L2 distances from the query x against ny
// contiguous d-dimensional rows of y, one result per row.
func L2SqrNy(dis, x, y []float32, ny, d int) error {
	const op = "L2SqrNy"
	if err := checkDim(op, d); err != nil {
		return err
	}
	if err := checkNy(op, ny); err != nil {
		return err
	}
	if err := checkSlice(op, "x", x, d); err != nil {
		return err
	}
	if err := checkSlice(op, "y", y, ny*d); err != nil {
		return err
	}
	if err := checkSlice(op, "dis", dis, ny); err != nil {
		return err
	}

	simd.L2SqrNy(dis, x, y, d, ny)
	return nil
}

// L2SqrByIdx computes squared L2 distances from the query x against ny
// rows of y selected by ids: row k lives at y[ids[k]*d:].
//
// The contents of ids are NOT bounds-checked against len(y); supplying
// an out-of-range id panics. Callers own id validity, which is what
// makes the gather path cheap enough for inner search loops.
func L2SqrByIdx(dis, x, y []float32, ids []int64, d, ny int) error {
	const op = "L2SqrByIdx"
	if err := checkDim(op, d); err != nil {
		return err
	}
	if err := checkNy(op, ny); err != nil {
		return err
	}
	if err := checkSlice(op, "x", x, d); err != nil {
		return err
	}
	if err := checkSlice(op, "y", y, d); err != nil {
		return err
	}
	if err := checkSlice(op, "ids", ids, ny); err != nil {
		return err
	}
	if err := checkSlice(op, "dis", dis, ny); err != nil {
		return err
	}

	simd.L2SqrByIdx(dis, x, y, ids, d, ny)
	return nil
}

// L2SqrNyWithHandle computes squared L2 distances using the transposed
// block layout of kdh. x holds kdh.M() query slices of kdh.Dim() floats
// each; dis receives kdh.M()*kdh.Ny() results.
func L2SqrNyWithHandle(kdh *handle.DistanceHandle, dis, x []float32) error {
	return scanWithHandle("L2SqrNyWithHandle", kdh, dis, x, simd.L2SqrTransposed)
}

// scanWithHandle runs one transposed-block kernel over every block of
// every query slice in the handle. The remainder of a query's scan
// (ny not a multiple of the block size) is computed into block-sized
// scratch and copied out with an explicit bound check.
func scanWithHandle(op string, kdh *handle.DistanceHandle, dis, x []float32, kernel func(dis, x, y []float32, d, block int)) error {
	if kdh == nil {
		return fail(&PointerError{Op: op, Arg: "kdh", Nil: true})
	}
	if dis == nil {
		return fail(&PointerError{Op: op, Arg: "dis", Nil: true})
	}
	if x == nil {
		return fail(&PointerError{Op: op, Arg: "x", Nil: true})
	}

	ny := kdh.Ny()
	d := kdh.Dim()
	m := kdh.M()
	if len(dis) < m*ny {
		return fail(&ParamError{Op: op, Arg: "len(dis)", Value: int64(len(dis))})
	}
	if len(x) < m*d {
		return fail(&ParamError{Op: op, Arg: "len(x)", Value: int64(len(x))})
	}
	if kdh.DataBits() != 32 {
		return fail(&ParamError{Op: op, Arg: "dataBits", Value: int64(kdh.DataBits())})
	}

	block := kdh.Blocksize()
	ceilNy := kdh.CeilNy()
	y := kdh.Transposed()
	left := ny & (block - 1)

	var scratch [64]float32
	disOff, xOff, yOff := 0, 0, 0
	for q := 0; q < m; q++ {
		i := 0
		for ; i+block <= ny; i += block {
			kernel(dis[disOff+i:], x[xOff:], y[yOff+i*d:], d, block)
		}
		if left != 0 {
			kernel(scratch[:block], x[xOff:], y[yOff+i*d:], d, block)
			remaining := len(dis) - (disOff + i)
			if remaining < left {
				return fail(&MemError{Op: op, Need: left, Got: remaining})
			}
			copy(dis[disOff+i:disOff+i+left], scratch[:left])
		}
		disOff += ny
		xOff += d
		yOff += ceilNy * d
	}
	return nil
}
