// curves.go - Abstract curve, point and scalar interfaces for the two-curve cycle.
//
// Every protocol function receives an explicit CurvePair rather than being
// parameterized over curve types; the two concrete implementations wrap the
// gnark-crypto BN254 ("even") and Grumpkin ("odd") curves, which form a
// genuine 2-cycle: Grumpkin's base field is BN254's scalar field and vice
// versa, so an x-coordinate on one curve is a scalar on the other.

package curves

import (
	"io"
	"math/big"
)

// PointSize is the length of a canonical compressed point encoding.
// Both cycle curves have 254-bit base fields, so the sizes coincide.
const PointSize = 32

// ScalarSize is the length of a canonical big-endian scalar encoding.
const ScalarSize = 32

// ScalarBits bounds the bit length of a scalar on either curve. Both group
// orders are 254-bit primes.
const ScalarBits = 254

// Scalar is an element of a curve's scalar field. Implementations are
// immutable values: every operation returns a fresh scalar.
type Scalar interface {
	Add(Scalar) Scalar
	Sub(Scalar) Scalar
	Mul(Scalar) Scalar
	Neg() Scalar
	// Inverse returns the multiplicative inverse. Inverting zero yields
	// zero (the gnark-crypto convention); callers that need invertibility
	// must check IsZero first.
	Inverse() Scalar
	IsZero() bool
	Equal(Scalar) bool
	// Bytes returns the canonical big-endian encoding, ScalarSize long.
	Bytes() []byte
	BigInt() *big.Int
}

// Point is a point on one of the cycle curves, in affine form.
type Point interface {
	Add(Point) Point
	Sub(Point) Point
	ScalarMul(Scalar) Point
	Neg() Point
	Equal(Point) bool
	IsInfinity() bool
	// Bytes returns the canonical compressed encoding, PointSize long.
	Bytes() []byte
	// X returns the affine x-coordinate as a non-negative integer.
	// Undefined for the point at infinity.
	X() *big.Int
	// Y returns the affine y-coordinate as a non-negative integer.
	// Undefined for the point at infinity.
	Y() *big.Int
	// YIsEven reports whether the canonical representative of the affine
	// y-coordinate is even. Used as the representability predicate for
	// permissible points: it resolves the +/-y ambiguity so that an
	// x-coordinate identifies exactly one permissible point.
	YIsEven() bool
}

// Curve bundles the group and scalar-field operations of one cycle curve.
type Curve interface {
	Name() string

	// EquationB returns the constant b of the curve's short-Weierstrass
	// equation y^2 = x^3 + b, as an integer over the base field.
	EquationB() *big.Int

	ZeroScalar() Scalar
	OneScalar() Scalar
	ScalarFromUint64(uint64) Scalar
	ScalarFromBigInt(*big.Int) Scalar
	// ScalarFromBytes decodes a canonical big-endian encoding, reducing
	// modulo the group order.
	ScalarFromBytes([]byte) Scalar
	// ScalarFromBytesWide reduces an arbitrary-length big-endian byte
	// string into the scalar field. With at least 64 input bytes the
	// statistical bias is negligible.
	ScalarFromBytesWide([]byte) Scalar
	// RandomScalar draws a uniformly random scalar from rng.
	RandomScalar(rng io.Reader) (Scalar, error)

	Identity() Point
	// PointFromBytes decodes a compressed encoding, rejecting points not
	// on the curve.
	PointFromBytes([]byte) (Point, error)
	// HashToPoint derives a point with unknown discrete logarithm from a
	// domain-separation label, deterministically. Distinct labels yield
	// independent generators.
	HashToPoint(domain []byte) Point
}

// randomScalarWide reads 64 bytes from rng and reduces them into the scalar
// field of c. Shared by both curve implementations.
func randomScalarWide(c Curve, rng io.Reader) (Scalar, error) {
	buf := make([]byte, 64)
	if _, err := io.ReadFull(rng, buf); err != nil {
		return nil, err
	}
	return c.ScalarFromBytesWide(buf), nil
}
