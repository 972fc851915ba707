package simd

// Inner-product variants of the transposed-block kernels. Layout and
// accumulator discipline match the L2 kernels; the lane update is a
// single multiply-accumulate against the broadcast query value.

func ipTransposed16Generic(dis, x, y []float32, d int) {
	var acc [16]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		row := y[j*16 : j*16+16]
		for k, v := range row {
			acc[k] += v * xj
		}
	}
	copy(dis[:16], acc[:])
}

func ipTransposed32Generic(dis, x, y []float32, d int) {
	var acc [32]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		row := y[j*32 : j*32+32]
		for k, v := range row {
			acc[k] += v * xj
		}
	}
	copy(dis[:32], acc[:])
}

func ipTransposed64Generic(dis, x, y []float32, d int) {
	var acc [64]float32
	for j := 0; j < d; j++ {
		xj := x[j]
		prefetchAt(y, 64*(j+1))
		row := y[j*64 : j*64+64]
		for k, v := range row {
			acc[k] += v * xj
		}
	}
	copy(dis[:64], acc[:])
}
