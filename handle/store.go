package handle

import (
	"bytes"
	"context"
	"io"

	"github.com/hupe1980/kerngo/blobstore"
	"github.com/hupe1980/kerngo/resource"
)

// Save serializes the handle and streams it to the blob store under
// name. ctrl may be nil; when set, the write counts against the
// background-worker budget and moves through a rate-limited writer so
// bulk handle persistence cannot starve foreground scans.
func Save(ctx context.Context, store blobstore.Store, name string, h *DistanceHandle, codec Codec, ctrl *resource.Controller) error {
	var buf bytes.Buffer
	if err := h.Marshal(&buf, codec); err != nil {
		return err
	}

	if err := ctrl.AcquireBackground(ctx); err != nil {
		return err
	}
	defer ctrl.ReleaseBackground()

	wb, err := store.Create(ctx, name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(resource.NewRateLimitedWriter(ctx, wb, ctrl), &buf); err != nil {
		wb.Close()
		return err
	}
	if err := wb.Sync(); err != nil {
		wb.Close()
		return err
	}
	return wb.Close()
}

// Load reads a serialized handle from the blob store through a
// rate-limited reader. The decoded code block is charged against
// ctrl's memory budget for the lifetime of the call; long-lived
// ownership accounting stays with the caller.
func Load(ctx context.Context, store blobstore.Store, name string, ctrl *resource.Controller) (*DistanceHandle, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	size := blob.Size()
	if err := ctrl.AcquireMemory(ctx, size); err != nil {
		return nil, err
	}
	defer ctrl.ReleaseMemory(size)

	rc, err := blob.ReadRange(ctx, 0, size)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(resource.NewRateLimitedReader(ctx, rc, ctrl))
	if err != nil {
		return nil, err
	}
	return Unmarshal(bytes.NewReader(data))
}
