package kerngo

import "github.com/hupe1980/kerngo/internal/simd"

// Reduced-precision entry points. Storage is binary16 (raw bit
// patterns in []uint16), uint8 or int8; results are widened to float32
// except where noted. Validation matches the float32 entry points.

// L2SqrF16 computes the squared L2 distance between two binary16
// vectors and stores the float32 result in dis[0].
func L2SqrF16(x, y []uint16, d int, dis []float32) error {
	const op = "L2SqrF16"
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

	dis[0] = simd.L2SqrF16(x, y, d)
	return nil
}

// NegativeInnerProductF16 computes the negated inner product of two
// binary16 vectors and stores the float32 result in dis[0]. Negation
// turns the similarity into a distance (smaller is closer).
func NegativeInnerProductF16(x, y []uint16, d int, dis []float32) error {
	const op = "NegativeInnerProductF16"
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

	dis[0] = -simd.IPF16(x, y, d)
	return nil
}

// L2SqrU8 computes the exact squared L2 distance between two uint8
// vectors and stores the uint32 result in dis[0].
func L2SqrU8(x, y []uint8, d int, dis []uint32) error {
	const op = "L2SqrU8"
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

	dis[0] = simd.L2SqrU8(x, y, d)
	return nil
}

// NegativeInnerProductS8 computes the exact negated inner product of
// two int8 vectors and stores the int32 result in dis[0].
func NegativeInnerProductS8(x, y []int8, d int, dis []int32) error {
	const op = "NegativeInnerProductS8"
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

	dis[0] = -simd.IPS8(x, y, d)
	return nil
}

// L2SqrNyF16 computes squared L2 distances from a binary16 query
// against ny contiguous binary16 rows of y.
func L2SqrNyF16(dis []float32, x, y []uint16, ny, d int) error {
	const op = "L2SqrNyF16"
	if err := checkBatch(op, x, y, dis, ny, d); err != nil {
		return err
	}

	simd.L2SqrNyF16(dis, x, y, d, ny)
	return nil
}

// InnerProductNyF16 computes inner products from a binary16 query
// against ny contiguous binary16 rows of y.
func InnerProductNyF16(dis []float32, x, y []uint16, ny, d int) error {
	const op = "InnerProductNyF16"
	if err := checkBatch(op, x, y, dis, ny, d); err != nil {
		return err
	}

	simd.IPNyF16(dis, x, y, d, ny)
	return nil
}

// L2SqrNyU8 computes squared L2 distances from a uint8 query against ny
// contiguous uint8 rows of y, widening each exact sum to float32.
func L2SqrNyU8(dis []float32, x, y []uint8, ny, d int) error {
	const op = "L2SqrNyU8"
	if err := checkBatch(op, x, y, dis, ny, d); err != nil {
		return err
	}

	simd.L2SqrNyU8(dis, x, y, d, ny)
	return nil
}

// InnerProductNyS8 computes inner products from an int8 query against
// ny contiguous int8 rows of y, widening each exact sum to float32.
func InnerProductNyS8(dis []float32, x, y []int8, ny, d int) error {
	const op = "InnerProductNyS8"
	if err := checkBatch(op, x, y, dis, ny, d); err != nil {
		return err
	}

	simd.IPNyS8(dis, x, y, d, ny)
	return nil
}

// L2SqrByIdxF16 computes squared L2 distances from a binary16 query
// against rows of y selected by ids. Contents of ids are not
// bounds-checked.
func L2SqrByIdxF16(dis []float32, x, y []uint16, ids []int64, d, ny int) error {
	const op = "L2SqrByIdxF16"
	if err := checkGather(op, x, y, ids, dis, ny, d); err != nil {
		return err
	}

	simd.L2SqrByIdxF16(dis, x, y, ids, d, ny)
	return nil
}

// InnerProductByIdxF16 computes inner products from a binary16 query
// against rows of y selected by ids.
func InnerProductByIdxF16(dis []float32, x, y []uint16, ids []int64, d, ny int) error {
	const op = "InnerProductByIdxF16"
	if err := checkGather(op, x, y, ids, dis, ny, d); err != nil {
		return err
	}

	simd.IPByIdxF16(dis, x, y, ids, d, ny)
	return nil
}

// NegativeInnerProductByIdxF16 is InnerProductByIdxF16 with each result
// negated, turning similarities into distances.
func NegativeInnerProductByIdxF16(dis []float32, x, y []uint16, ids []int64, d, ny int) error {
	if err := InnerProductByIdxF16(dis, x, y, ids, d, ny); err != nil {
		return err
	}
	for i := 0; i < ny; i++ {
		dis[i] = -dis[i]
	}
	return nil
}

// L2SqrByIdxU8 computes squared L2 distances from a uint8 query against
// rows of y selected by ids.
func L2SqrByIdxU8(dis []float32, x, y []uint8, ids []int64, d, ny int) error {
	const op = "L2SqrByIdxU8"
	if err := checkGather(op, x, y, ids, dis, ny, d); err != nil {
		return err
	}

	simd.L2SqrByIdxU8(dis, x, y, ids, d, ny)
	return nil
}

// InnerProductByIdxS8 computes inner products from an int8 query
// against rows of y selected by ids.
func InnerProductByIdxS8(dis []float32, x, y []int8, ids []int64, d, ny int) error {
	const op = "InnerProductByIdxS8"
	if err := checkGather(op, x, y, ids, dis, ny, d); err != nil {
		return err
	}

	simd.IPByIdxS8(dis, x, y, ids, d, ny)
	return nil
}

// checkBatch validates the dense ny-scan buffer contract for any
// element type.
func checkBatch[T any](op string, x, y []T, dis []float32, ny, d int) error {
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
	return checkSlice(op, "dis", dis, ny)
}

// checkGather validates the by-idx buffer contract; y only needs to be
// non-nil and one row long since ids select arbitrary rows.
func checkGather[T any](op string, x, y []T, ids []int64, dis []float32, ny, d int) error {
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
	return checkSlice(op, "dis", dis, ny)
}
