package assert

import "github.com/oomph-ac/motion/oerror"

// IsTrue panics with an internal error if ok is false.
func IsTrue(ok bool, message string, args ...interface{}) {
	if !ok {
		panic(oerror.New(message, args...))
	}
}

// InRange panics if v is outside [min, max].
func InRange(v, min, max float64, name string) {
	if v < min || v > max {
		panic(oerror.New("%s out of range: %v not in [%v, %v]", name, v, min, max))
	}
}
