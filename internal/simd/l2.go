package simd

// l2SqrGeneric is the pure Go single-pair kernel. It mirrors the SIMD
// register layout: a 16-float super-block with four independent
// accumulators, a 4-float cleanup loop, then a scalar tail. Keeping
// four accumulator chains preserves instruction-level parallelism and
// fixes the accumulation order across batch widths.
func l2SqrGeneric(x, y []float32, d int) float32 {
	var a0, a1, a2, a3 float32
	i := 0
	for ; i+16 <= d; i += 16 {
		for j := i; j < i+4; j++ {
			diff := x[j] - y[j]
			a0 += diff * diff
		}
		for j := i + 4; j < i+8; j++ {
			diff := x[j] - y[j]
			a1 += diff * diff
		}
		for j := i + 8; j < i+12; j++ {
			diff := x[j] - y[j]
			a2 += diff * diff
		}
		for j := i + 12; j < i+16; j++ {
			diff := x[j] - y[j]
			a3 += diff * diff
		}
	}
	for ; i+4 <= d; i += 4 {
		d0 := x[i] - y[i]
		d1 := x[i+1] - y[i+1]
		d2 := x[i+2] - y[i+2]
		d3 := x[i+3] - y[i+3]
		a0 += d0*d0 + d1*d1 + d2*d2 + d3*d3
	}
	sum := a0 + a1 + a2 + a3
	for ; i < d; i++ {
		diff := x[i] - y[i]
		sum += diff * diff
	}
	return sum
}

// l2SqrRows computes one distance per resolved row view.
func l2SqrRows(dis []float32, x []float32, rows [][]float32, d int) {
	for k := range rows {
		dis[k] = kernelL2Sqr(x, rows[k], d)
	}
}

// l2SqrNyGeneric scans ny contiguous rows with the
// largest-chunk-then-bit-decomposition schedule: as many 24-wide
// chunks as fit, at most one 16-wide or one 8-wide chunk, then the
// low bits of ny as 4/2/1-wide steps. Each output slot is written
// exactly once.
func l2SqrNyGeneric(dis, x, y []float32, d, ny int) {
	i := 0
	for ; i+24 <= ny; i += 24 {
		l2SqrContiguous(dis[i:], x, y[i*d:], d, 24)
	}
	if i+16 <= ny {
		l2SqrContiguous(dis[i:], x, y[i*d:], d, 16)
		i += 16
	} else if i+8 <= ny {
		l2SqrContiguous(dis[i:], x, y[i*d:], d, 8)
		i += 8
	}
	if ny&4 != 0 {
		l2SqrContiguous(dis[i:], x, y[i*d:], d, 4)
		i += 4
	}
	if ny&2 != 0 {
		l2SqrContiguous(dis[i:], x, y[i*d:], d, 2)
		i += 2
	}
	if ny&1 != 0 {
		dis[i] = kernelL2Sqr(x, y[i*d:], d)
	}
}

// l2SqrContiguous handles one fixed-width chunk of contiguous rows.
func l2SqrContiguous(dis, x, y []float32, d, n int) {
	for k := 0; k < n; k++ {
		dis[k] = kernelL2Sqr(x, y[k*d:], d)
	}
}
