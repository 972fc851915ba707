package kerngo

// Argument bounds shared by every entry point.
const (
	// MaxDim is the largest supported vector dimension.
	MaxDim = 65535
	// MaxNy is the largest supported batch size.
	MaxNy = 1 << 30
)

// Validation is short-circuit: the first violation is returned and no
// output slot has been written at that point.

func checkDim(op string, d int) error {
	if d < 1 || d > MaxDim {
		return fail(&ParamError{Op: op, Arg: "d", Value: int64(d)})
	}
	return nil
}

func checkNy(op string, ny int) error {
	if ny < 1 || ny > MaxNy {
		return fail(&ParamError{Op: op, Arg: "ny", Value: int64(ny)})
	}
	return nil
}

func checkSlice[T any](op, arg string, s []T, need int) error {
	if s == nil {
		return fail(&PointerError{Op: op, Arg: arg, Nil: true})
	}
	if len(s) < need {
		return fail(&PointerError{Op: op, Arg: arg, Need: need, Got: len(s)})
	}
	return nil
}
