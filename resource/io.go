package resource

import (
	"context"
	"io"
)

// RateLimitedWriter throttles writes against the controller's IO
// budget. Useful for wrapping blob store writers during bulk handle
// persistence.
type RateLimitedWriter struct {
	ctx  context.Context
	w    io.Writer
	ctrl *Controller
}

// NewRateLimitedWriter wraps w so each Write first waits for IO budget.
func NewRateLimitedWriter(ctx context.Context, w io.Writer, ctrl *Controller) *RateLimitedWriter {
	return &RateLimitedWriter{ctx: ctx, w: w, ctrl: ctrl}
}

func (w *RateLimitedWriter) Write(p []byte) (int, error) {
	if err := w.ctrl.AcquireIO(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.w.Write(p)
}

// RateLimitedReader throttles reads against the controller's IO budget.
type RateLimitedReader struct {
	ctx  context.Context
	r    io.Reader
	ctrl *Controller
}

// NewRateLimitedReader wraps r so each Read first waits for IO budget.
func NewRateLimitedReader(ctx context.Context, r io.Reader, ctrl *Controller) *RateLimitedReader {
	return &RateLimitedReader{ctx: ctx, r: r, ctrl: ctrl}
}

func (r *RateLimitedReader) Read(p []byte) (int, error) {
	// The budget is charged for len(p), the maximum the read can move.
	if err := r.ctrl.AcquireIO(r.ctx, len(p)); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}
