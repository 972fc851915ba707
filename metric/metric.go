// Package metric defines the distance metrics supported by the compute
// kernels.
package metric

import "fmt"

// Type identifies a distance metric.
type Type uint8

const (
	// L2 is the squared Euclidean distance (smaller is closer).
	L2 Type = iota
	// InnerProduct is the raw inner product (larger is closer).
	InnerProduct
)

// String returns the string representation of a metric type.
func (t Type) String() string {
	switch t {
	case L2:
		return "l2"
	case InnerProduct:
		return "ip"
	default:
		return fmt.Sprintf("metric(%d)", uint8(t))
	}
}

// Valid reports whether t is a known metric type.
func (t Type) Valid() bool {
	return t == L2 || t == InnerProduct
}

// Ascending reports whether smaller distances rank better under t.
func (t Type) Ascending() bool {
	return t == L2
}
