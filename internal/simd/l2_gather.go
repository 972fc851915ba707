package simd

// gatherRows resolves row views y[ids[k]*d : ids[k]*d+d] into rows and
// issues a prefetch hint per resolved row so the loads overlap with the
// distance arithmetic of earlier rows.
func gatherRows(rows [][]float32, y []float32, ids []int64, d int) {
	for k, id := range ids {
		row := y[int(id)*d : int(id)*d+d]
		prefetchRow(row)
		rows[k] = row
	}
}

// l2SqrByIdxGeneric gathers rows by id and scans them with the same
// chunk schedule as the contiguous path: 24-wide chunks, at most one
// 16-wide or one 8-wide chunk, then 4/2/1. The gather step resolves a
// fixed-capacity array of row views up front so every row gets its
// prefetch hint before any arithmetic touches it.
func l2SqrByIdxGeneric(dis, x, y []float32, ids []int64, d, ny int) {
	var rows [24][]float32
	i := 0
	for ; i+24 <= ny; i += 24 {
		prefetchRow(x)
		gatherRows(rows[:24], y, ids[i:i+24], d)
		l2SqrRows(dis[i:], x, rows[:24], d)
	}
	if i+16 <= ny {
		prefetchRow(x)
		gatherRows(rows[:16], y, ids[i:i+16], d)
		l2SqrRows(dis[i:], x, rows[:16], d)
		i += 16
	} else if i+8 <= ny {
		prefetchRow(x)
		gatherRows(rows[:8], y, ids[i:i+8], d)
		l2SqrRows(dis[i:], x, rows[:8], d)
		i += 8
	}
	if ny&4 != 0 {
		gatherRows(rows[:4], y, ids[i:i+4], d)
		l2SqrRows(dis[i:], x, rows[:4], d)
		i += 4
	}
	if ny&2 != 0 {
		gatherRows(rows[:2], y, ids[i:i+2], d)
		l2SqrRows(dis[i:], x, rows[:2], d)
		i += 2
	}
	if ny&1 != 0 {
		dis[i] = kernelL2Sqr(x, y[int(ids[i])*d:], d)
	}
}
