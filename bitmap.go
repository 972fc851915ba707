package kerngo

import (
	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/kerngo/internal/simd"
)

// bitmapBatch is the number of candidate ids resolved from the bitmap
// per gather call. 256 keeps the id buffer on the stack-ish small side
// while amortizing the iterator overhead.
const bitmapBatch = 256

// L2SqrByBitmap computes squared L2 distances from the query x against
// the rows of y whose ids are set in bm, in ascending id order. One
// result is written per set bit; dis must hold bm.GetCardinality()
// results. Bitmap contents are not bounds-checked against len(y).
func L2SqrByBitmap(dis, x, y []float32, bm *roaring.Bitmap, d int) error {
	return scanBitmap("L2SqrByBitmap", dis, x, y, bm, d, simd.L2SqrByIdx)
}

// InnerProductByBitmap computes inner products from the query x against
// the rows of y whose ids are set in bm, in ascending id order.
func InnerProductByBitmap(dis, x, y []float32, bm *roaring.Bitmap, d int) error {
	return scanBitmap("InnerProductByBitmap", dis, x, y, bm, d, simd.IPByIdx)
}

func scanBitmap(op string, dis, x, y []float32, bm *roaring.Bitmap, d int, gather func(dis, x, y []float32, ids []int64, d, ny int)) error {
	if bm == nil {
		return fail(&PointerError{Op: op, Arg: "bitmap", Nil: true})
	}
	ny := int(bm.GetCardinality())
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
	if err := checkSlice(op, "dis", dis, ny); err != nil {
		return err
	}

	// Batch the bitmap contents through the gather path with a reused
	// id buffer. ManyIterator fills uint32 ids in ascending order.
	var (
		buf [bitmapBatch]uint32
		ids [bitmapBatch]int64
	)
	it := bm.ManyIterator()
	off := 0
	for {
		n := it.NextMany(buf[:])
		if n == 0 {
			break
		}
		for i := 0; i < n; i++ {
			ids[i] = int64(buf[i])
		}
		gather(dis[off:], x, y, ids[:n], d, n)
		off += n
	}
	return nil
}
