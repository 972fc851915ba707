package simd

// Transposed-block kernels. A block stores `block` vectors
// dimension-major: row j of the block (y[j*block : (j+1)*block]) holds
// dimension j of every lane. One kernel call produces `block` distances
// with per-lane accumulators that stay live across the whole dimension
// loop, which is what the layout buys over the row-major scan.

func l2SqrTransposed16Generic(dis, x, y []float32, d int) {
	var acc [16]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		row := y[j*16 : j*16+16]
		for k, v := range row {
			diff := v - xj
			acc[k] += diff * diff
		}
	}
	copy(dis[:16], acc[:])
}

func l2SqrTransposed32Generic(dis, x, y []float32, d int) {
	var acc [32]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		row := y[j*32 : j*32+32]
		for k, v := range row {
			diff := v - xj
			acc[k] += diff * diff
		}
	}
	copy(dis[:32], acc[:])
}

func l2SqrTransposed64Generic(dis, x, y []float32, d int) {
	var acc [64]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		prefetchAt(y, 64*(j+1))
		row := y[j*64 : j*64+64]
		for k, v := range row {
			diff := v - xj
			acc[k] += diff * diff
		}
	}
	copy(dis[:64], acc[:])
}
