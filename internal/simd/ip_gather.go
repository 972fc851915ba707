package simd

// ipByIdxGeneric gathers rows by id and scans them with the
// inner-product chunk schedule (16-wide chunks, then 8/4/2/1 from the
// low bits of ny). Row views are resolved with a prefetch hint each
// before the arithmetic starts.
func ipByIdxGeneric(dis, x, y []float32, ids []int64, d, ny int) {
	var rows [16][]float32
	i := 0
	for ; i+16 <= ny; i += 16 {
		prefetchRow(x)
		gatherRows(rows[:16], y, ids[i:i+16], d)
		ipRows(dis[i:], x, rows[:16], d)
	}
	if ny&8 != 0 {
		prefetchRow(x)
		gatherRows(rows[:8], y, ids[i:i+8], d)
		ipRows(dis[i:], x, rows[:8], d)
		i += 8
	}
	if ny&4 != 0 {
		gatherRows(rows[:4], y, ids[i:i+4], d)
		ipRows(dis[i:], x, rows[:4], d)
		i += 4
	}
	if ny&2 != 0 {
		gatherRows(rows[:2], y, ids[i:i+2], d)
		ipRows(dis[i:], x, rows[:2], d)
		i += 2
	}
	if ny&1 != 0 {
		dis[i] = kernelIP(x, y[int(ids[i])*d:], d)
	}
}
