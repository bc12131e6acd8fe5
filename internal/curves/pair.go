// pair.go - The explicit two-curve configuration object and the field
// isomorphism between the cycle's coordinate spaces.

package curves

// CurvePair carries the two curves of the cycle. It is passed explicitly to
// every protocol function that needs to move values between the curves.
type CurvePair struct {
	Even Curve
	Odd  Curve
}

// NewCurvePair returns the BN254/Grumpkin cycle.
func NewCurvePair() *CurvePair {
	return &CurvePair{Even: Even(), Odd: Odd()}
}

// EvenXAsOddScalar reinterprets the x-coordinate of an even-curve point as a
// scalar of the odd curve. The conversion is exact: the even base field and
// the odd scalar field share one modulus, so no reduction occurs.
func (cp *CurvePair) EvenXAsOddScalar(p Point) Scalar {
	return cp.Odd.ScalarFromBigInt(p.X())
}

// OddXAsEvenScalar reinterprets the x-coordinate of an odd-curve point as a
// scalar of the even curve.
func (cp *CurvePair) OddXAsEvenScalar(p Point) Scalar {
	return cp.Even.ScalarFromBigInt(p.X())
}
