package simd

// ipGeneric is the pure Go single-pair inner-product kernel. Same
// register layout as the L2 kernel: 16-float super-block with four
// accumulator chains, 4-float cleanup, scalar tail.
func ipGeneric(x, y []float32, d int) float32 {
	var a0, a1, a2, a3 float32
	i := 0
	for ; i+16 <= d; i += 16 {
		for j := i; j < i+4; j++ {
			a0 += x[j] * y[j]
		}
		for j := i + 4; j < i+8; j++ {
			a1 += x[j] * y[j]
		}
		for j := i + 8; j < i+12; j++ {
			a2 += x[j] * y[j]
		}
		for j := i + 12; j < i+16; j++ {
			a3 += x[j] * y[j]
		}
	}
	for ; i+4 <= d; i += 4 {
		a0 += x[i]*y[i] + x[i+1]*y[i+1] + x[i+2]*y[i+2] + x[i+3]*y[i+3]
	}
	sum := a0 + a1 + a2 + a3
	for ; i < d; i++ {
		sum += x[i] * y[i]
	}
	return sum
}

func ipRows(dis []float32, x []float32, rows [][]float32, d int) {
	for k := range rows {
		dis[k] = kernelIP(x, rows[k], d)
	}
}

// ipNyGeneric scans ny contiguous rows. The inner-product schedule tops
// out at 16-wide chunks; the remainder below 16 is decomposed through
// the low bits of ny as 8/4/2/1-wide steps. Each output slot is written
// exactly once.
func ipNyGeneric(dis, x, y []float32, d, ny int) {
	i := 0
	for ; i+16 <= ny; i += 16 {
		ipContiguous(dis[i:], x, y[i*d:], d, 16)
	}
	if ny&8 != 0 {
		ipContiguous(dis[i:], x, y[i*d:], d, 8)
		i += 8
	}
	if ny&4 != 0 {
		ipContiguous(dis[i:], x, y[i*d:], d, 4)
		i += 4
	}
	if ny&2 != 0 {
		ipContiguous(dis[i:], x, y[i*d:], d, 2)
		i += 2
	}
	if ny&1 != 0 {
		dis[i] = kernelIP(x, y[i*d:], d)
	}
}

func ipContiguous(dis, x, y []float32, d, n int) {
	for k := 0; k < n; k++ {
		dis[k] = kernelIP(x, y[k*d:], d)
	}
}
