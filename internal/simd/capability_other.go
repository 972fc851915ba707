//go:build !arm64 && !amd64

package simd

func init() {
	initCapabilities()
}
