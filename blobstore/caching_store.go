package blobstore

import (
	"context"
	"errors"
	"io"

	"golang.org/x/sync/errgroup"
)

// CachingStore wraps a Store and adds block-level read caching. It is
// intended for remote backends (S3, MinIO) where repeated handle loads
// would otherwise refetch the same byte ranges.
type CachingStore struct {
	inner     Store
	cache     *BlockCache
	blockSize int64
}

// NewCachingStore creates a new CachingStore.
// blockSize defaults to 4KB if <= 0.
func NewCachingStore(inner Store, cache *BlockCache, blockSize int64) *CachingStore {
	if blockSize <= 0 {
		blockSize = 4096
	}
	return &CachingStore{
		inner:     inner,
		cache:     cache,
		blockSize: blockSize,
	}
}

func (s *CachingStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &cachingBlob{
		inner:     b,
		cache:     s.cache,
		name:      name,
		blockSize: s.blockSize,
	}, nil
}

// Create passes through. Writes are not cached; serialized handles are
// immutable once visible.
func (s *CachingStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	return s.inner.Create(ctx, name)
}

func (s *CachingStore) Put(ctx context.Context, name string, data []byte) error {
	s.cache.Invalidate(name)
	return s.inner.Put(ctx, name, data)
}

func (s *CachingStore) Delete(ctx context.Context, name string) error {
	s.cache.Invalidate(name)
	return s.inner.Delete(ctx, name)
}

func (s *CachingStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

// cachingBlob serves reads from the block cache, fetching missing
// blocks from the inner blob.
type cachingBlob struct {
	inner     Blob
	cache     *BlockCache
	name      string
	blockSize int64
}

func (b *cachingBlob) Close() error {
	return b.inner.Close()
}

func (b *cachingBlob) Size() int64 {
	return b.inner.Size()
}

func (b *cachingBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	startBlock := off / b.blockSize
	endBlock := (off + int64(len(p)) - 1) / b.blockSize

	// Coalesce missing blocks into run-sized backend reads.
	if err := b.fillCache(ctx, startBlock, endBlock); err != nil {
		return 0, err
	}

	totalRead := 0
	for blk := startBlock; blk <= endBlock; blk++ {
		blkStart := blk * b.blockSize

		// Intersection of this block with the requested range.
		intersectStart := max(blkStart, off)
		intersectEnd := min(blkStart+b.blockSize, off+int64(len(p)))
		if intersectEnd <= intersectStart {
			continue
		}
		copySize := int(intersectEnd - intersectStart)
		dstOffset := intersectStart - off

		blockData, err := b.fetchBlock(ctx, blk)
		if err != nil {
			return totalRead, err
		}

		srcOffset := intersectStart - blkStart
		if srcOffset+int64(copySize) > int64(len(blockData)) {
			// Last block of a blob whose size is not block-aligned.
			copySize = len(blockData) - int(srcOffset)
		}
		if copySize > 0 {
			totalRead += copy(p[dstOffset:dstOffset+int64(copySize)], blockData[srcOffset:])
		}
	}

	if totalRead < len(p) {
		return totalRead, io.EOF
	}
	return totalRead, nil
}

// fillCache loads any missing blocks in [startBlock, endBlock] into the
// cache, fetching contiguous runs of misses with parallel backend reads.
func (b *cachingBlob) fillCache(ctx context.Context, startBlock, endBlock int64) error {
	type run struct {
		start, count int64
	}
	var missing []run

	runStart, runCount := int64(-1), int64(0)
	for blk := startBlock; blk <= endBlock; blk++ {
		if _, ok := b.cache.Get(blockKey{name: b.name, block: blk}); ok {
			if runStart != -1 {
				missing = append(missing, run{runStart, runCount})
				runStart, runCount = -1, 0
			}
			continue
		}
		if runStart == -1 {
			runStart, runCount = blk, 1
		} else {
			runCount++
		}
	}
	if runStart != -1 {
		missing = append(missing, run{runStart, runCount})
	}
	if len(missing) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(16)

	for _, r := range missing {
		g.Go(func() error {
			byteStart := r.start * b.blockSize
			byteSize := r.count * b.blockSize

			fileSize := b.inner.Size()
			if byteStart >= fileSize {
				return nil
			}
			if byteStart+byteSize > fileSize {
				byteSize = fileSize - byteStart
			}

			buf := make([]byte, byteSize)
			n, err := b.inner.ReadAt(gctx, buf, byteStart)
			if err != nil && !errors.Is(err, io.EOF) {
				return err
			}
			valid := buf[:n]

			for i := int64(0); i < r.count; i++ {
				lo := i * b.blockSize
				if lo >= int64(len(valid)) {
					break
				}
				hi := min(lo+b.blockSize, int64(len(valid)))

				// Copy so cached blocks do not pin the run buffer.
				block := make([]byte, hi-lo)
				copy(block, valid[lo:hi])
				b.cache.Set(blockKey{name: b.name, block: r.start + i}, block)
			}
			return nil
		})
	}
	return g.Wait()
}

func (b *cachingBlob) fetchBlock(ctx context.Context, blk int64) ([]byte, error) {
	key := blockKey{name: b.name, block: blk}
	if data, ok := b.cache.Get(key); ok {
		return data, nil
	}

	buf := make([]byte, b.blockSize)
	n, err := b.inner.ReadAt(ctx, buf, blk*b.blockSize)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	valid := buf[:n]
	if n > 0 {
		b.cache.Set(key, valid)
	}
	return valid, nil
}

func (b *cachingBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	return io.NopCloser(&blobSectionReader{blob: b, ctx: ctx, off: off, limit: off + length}), nil
}

// blobSectionReader adapts context-aware ReadAt to io.Reader.
type blobSectionReader struct {
	blob  *cachingBlob
	ctx   context.Context
	off   int64
	limit int64
}

func (r *blobSectionReader) Read(p []byte) (n int, err error) {
	if r.off >= r.limit {
		return 0, io.EOF
	}
	if remaining := r.limit - r.off; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err = r.blob.ReadAt(r.ctx, p, r.off)
	r.off += int64(n)
	return n, err
}
