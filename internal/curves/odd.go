// odd.go - Grumpkin implementation of the "odd" side of the curve cycle.
//
// Grumpkin is defined over BN254's scalar field and its group order is
// BN254's base field modulus, which is exactly the cycle property the
// protocol needs.

package curves

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	grumpkin "github.com/consensys/gnark-crypto/ecc/grumpkin"
	grumpkinfp "github.com/consensys/gnark-crypto/ecc/grumpkin/fp"
	grumpkinfr "github.com/consensys/gnark-crypto/ecc/grumpkin/fr"
	"golang.org/x/crypto/sha3"
)

// Odd returns the odd curve of the cycle (Grumpkin).
func Odd() Curve {
	return oddCurve{}
}

type oddCurve struct{}

type oddScalar struct {
	e grumpkinfr.Element
}

type oddPoint struct {
	p grumpkin.G1Affine
}

func (oddCurve) Name() string { return "grumpkin" }

func (oddCurve) EquationB() *big.Int { return big.NewInt(-17) }

func (oddCurve) ZeroScalar() Scalar {
	return oddScalar{}
}

func (oddCurve) OneScalar() Scalar {
	var e grumpkinfr.Element
	e.SetOne()
	return oddScalar{e: e}
}

func (oddCurve) ScalarFromUint64(v uint64) Scalar {
	var e grumpkinfr.Element
	e.SetUint64(v)
	return oddScalar{e: e}
}

func (oddCurve) ScalarFromBigInt(v *big.Int) Scalar {
	var e grumpkinfr.Element
	e.SetBigInt(v)
	return oddScalar{e: e}
}

func (oddCurve) ScalarFromBytes(b []byte) Scalar {
	var e grumpkinfr.Element
	e.SetBytes(b)
	return oddScalar{e: e}
}

func (oddCurve) ScalarFromBytesWide(b []byte) Scalar {
	var e grumpkinfr.Element
	e.SetBytes(b)
	return oddScalar{e: e}
}

func (c oddCurve) RandomScalar(rng io.Reader) (Scalar, error) {
	return randomScalarWide(c, rng)
}

func (oddCurve) Identity() Point {
	return oddPoint{}
}

func (oddCurve) PointFromBytes(b []byte) (Point, error) {
	if len(b) != PointSize {
		return nil, fmt.Errorf("grumpkin: point encoding must be %d bytes, got %d", PointSize, len(b))
	}
	var p grumpkin.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("grumpkin: invalid point encoding: %w", err)
	}
	return oddPoint{p: p}, nil
}

// HashToPoint maps a domain label to a Grumpkin point by try-and-increment
// against y^2 = x^3 - 17.
func (oddCurve) HashToPoint(domain []byte) Point {
	var ctr [8]byte
	for i := uint64(0); ; i++ {
		binary.BigEndian.PutUint64(ctr[:], i)
		h := sha3.New512()
		h.Write([]byte("curvecash/hash-to-point/grumpkin"))
		h.Write(domain)
		h.Write(ctr[:])

		var x grumpkinfp.Element
		x.SetBytes(h.Sum(nil))

		// y^2 = x^3 - 17
		var y2, b grumpkinfp.Element
		y2.Square(&x)
		y2.Mul(&y2, &x)
		b.SetUint64(17)
		y2.Sub(&y2, &b)

		var y grumpkinfp.Element
		if y.Sqrt(&y2) == nil {
			continue
		}
		if y.BigInt(new(big.Int)).Bit(0) == 1 {
			y.Neg(&y)
		}
		return oddPoint{p: grumpkin.G1Affine{X: x, Y: y}}
	}
}

func (s oddScalar) Add(other Scalar) Scalar {
	o := other.(oddScalar)
	var e grumpkinfr.Element
	e.Add(&s.e, &o.e)
	return oddScalar{e: e}
}

func (s oddScalar) Sub(other Scalar) Scalar {
	o := other.(oddScalar)
	var e grumpkinfr.Element
	e.Sub(&s.e, &o.e)
	return oddScalar{e: e}
}

func (s oddScalar) Mul(other Scalar) Scalar {
	o := other.(oddScalar)
	var e grumpkinfr.Element
	e.Mul(&s.e, &o.e)
	return oddScalar{e: e}
}

func (s oddScalar) Neg() Scalar {
	var e grumpkinfr.Element
	e.Neg(&s.e)
	return oddScalar{e: e}
}

func (s oddScalar) Inverse() Scalar {
	var e grumpkinfr.Element
	e.Inverse(&s.e)
	return oddScalar{e: e}
}

func (s oddScalar) IsZero() bool {
	return s.e.IsZero()
}

func (s oddScalar) Equal(other Scalar) bool {
	o := other.(oddScalar)
	return s.e.Equal(&o.e)
}

func (s oddScalar) Bytes() []byte {
	b := s.e.Bytes()
	return b[:]
}

func (s oddScalar) BigInt() *big.Int {
	return s.e.BigInt(new(big.Int))
}

func (p oddPoint) Add(other Point) Point {
	o := other.(oddPoint)
	var j, oj grumpkin.G1Jac
	j.FromAffine(&p.p)
	oj.FromAffine(&o.p)
	j.AddAssign(&oj)
	var res grumpkin.G1Affine
	res.FromJacobian(&j)
	return oddPoint{p: res}
}

func (p oddPoint) Sub(other Point) Point {
	return p.Add(other.Neg())
}

func (p oddPoint) ScalarMul(s Scalar) Point {
	sc := s.(oddScalar)
	var res grumpkin.G1Affine
	res.ScalarMultiplication(&p.p, sc.e.BigInt(new(big.Int)))
	return oddPoint{p: res}
}

func (p oddPoint) Neg() Point {
	var res grumpkin.G1Affine
	res.Neg(&p.p)
	return oddPoint{p: res}
}

func (p oddPoint) Equal(other Point) bool {
	o := other.(oddPoint)
	return p.p.Equal(&o.p)
}

func (p oddPoint) IsInfinity() bool {
	return p.p.IsInfinity()
}

func (p oddPoint) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

func (p oddPoint) X() *big.Int {
	return p.p.X.BigInt(new(big.Int))
}

func (p oddPoint) Y() *big.Int {
	return p.p.Y.BigInt(new(big.Int))
}

func (p oddPoint) YIsEven() bool {
	return p.p.Y.BigInt(new(big.Int)).Bit(0) == 0
}
