package kerngo

import "github.com/hupe1980/kerngo/internal/simd"

// Version is the library version, set at build time via -ldflags.
var Version = "dev"

// SIMDInfo returns the name of the active kernel implementation
// (generic, neon, sve2, avx2, avx512). Selection happens once at init
// and can be forced with the KERNGO_SIMD environment variable.
func SIMDInfo() string {
	return simd.ActiveISA().String()
}

// SIMDOverridden reports whether KERNGO_SIMD forced the selection.
func SIMDOverridden() bool {
	return simd.IsOverridden()
}
