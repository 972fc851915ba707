package simd

// prefetchRow hints the hardware prefetcher to start loading a row.
// Portable fallback: a plain read of the first element is enough to
// trigger the streaming prefetcher on modern cores. The bounds check
// keeps the hint safe for rows resolved from caller-provided indices.
func prefetchRow(row []float32) {
	if len(row) > 0 {
		_ = row[0]
	}
}

// prefetchAt hints a load of data[off] if off is in range.
func prefetchAt(data []float32, off int) {
	if off >= 0 && off < len(data) {
		_ = data[off]
	}
}
