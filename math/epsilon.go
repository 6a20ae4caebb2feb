package math

import "fmt"

// Epsilon is the magnitude below which a length or divisor is treated as zero.
const Epsilon = 1e-12

func checkDivisor(s float64) {
	if s < Epsilon && s > -Epsilon {
		panic(fmt.Sprintf("math: division by near-zero scalar %g", s))
	}
}

// NearlyEqual reports whether a and b differ by at most tol.
func NearlyEqual(a, b, tol float64) bool {
	d := a - b
	return d <= tol && d >= -tol
}
