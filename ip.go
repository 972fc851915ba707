package kerngo

import (
	"github.com/hupe1980/kerngo/handle"
	"github.com/hupe1980/kerngo/internal/simd"
)

// InnerProduct computes the inner product of x[:d] and y[:d] and stores
// it in dis[0]. Larger values mean closer under this metric; callers
// that need a distance negate the result.
func InnerProduct(x, y []float32, d int, dis []float32) error {
	const op = "InnerProduct"
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

	dis[0] = simd.IP(x, y, d)
	return nil
}

// InnerProductNy computes inner products from the query x against ny
// contiguous d-dimensional rows of y.
func InnerProductNy(dis, x, y []float32, ny, d int) error {
	const op = "InnerProductNy"
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

	simd.IPNy(dis, x, y, d, ny)
	return nil
}

// InnerProductByIdx computes inner products from the query x against ny
// rows of y selected by ids. As with L2SqrByIdx, the contents of ids
// are not bounds-checked; out-of-range ids panic.
func InnerProductByIdx(dis, x, y []float32, ids []int64, d, ny int) error {
	const op = "InnerProductByIdx"
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

	simd.IPByIdx(dis, x, y, ids, d, ny)
	return nil
}

// InnerProductNyWithHandle computes inner products using the transposed
// block layout of kdh. See L2SqrNyWithHandle for the buffer contract.
func InnerProductNyWithHandle(kdh *handle.DistanceHandle, dis, x []float32) error {
	return scanWithHandle("InnerProductNyWithHandle", kdh, dis, x, simd.IPTransposed)
}
