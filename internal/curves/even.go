// even.go - BN254 implementation of the "even" side of the curve cycle.

package curves

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
	bn254fp "github.com/consensys/gnark-crypto/ecc/bn254/fp"
	bn254fr "github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"golang.org/x/crypto/sha3"
)

// Even returns the even curve of the cycle (BN254).
func Even() Curve {
	return evenCurve{}
}

type evenCurve struct{}

type evenScalar struct {
	e bn254fr.Element
}

type evenPoint struct {
	p bn254.G1Affine
}

func (evenCurve) Name() string { return "bn254" }

func (evenCurve) EquationB() *big.Int { return big.NewInt(3) }

func (evenCurve) ZeroScalar() Scalar {
	return evenScalar{}
}

func (evenCurve) OneScalar() Scalar {
	var e bn254fr.Element
	e.SetOne()
	return evenScalar{e: e}
}

func (evenCurve) ScalarFromUint64(v uint64) Scalar {
	var e bn254fr.Element
	e.SetUint64(v)
	return evenScalar{e: e}
}

func (evenCurve) ScalarFromBigInt(v *big.Int) Scalar {
	var e bn254fr.Element
	e.SetBigInt(v)
	return evenScalar{e: e}
}

func (evenCurve) ScalarFromBytes(b []byte) Scalar {
	var e bn254fr.Element
	e.SetBytes(b)
	return evenScalar{e: e}
}

func (evenCurve) ScalarFromBytesWide(b []byte) Scalar {
	var e bn254fr.Element
	e.SetBytes(b)
	return evenScalar{e: e}
}

func (c evenCurve) RandomScalar(rng io.Reader) (Scalar, error) {
	return randomScalarWide(c, rng)
}

func (evenCurve) Identity() Point {
	return evenPoint{}
}

func (evenCurve) PointFromBytes(b []byte) (Point, error) {
	if len(b) != PointSize {
		return nil, fmt.Errorf("bn254: point encoding must be %d bytes, got %d", PointSize, len(b))
	}
	var p bn254.G1Affine
	if _, err := p.SetBytes(b); err != nil {
		return nil, fmt.Errorf("bn254: invalid point encoding: %w", err)
	}
	return evenPoint{p: p}, nil
}

// HashToPoint maps a domain label to a BN254 point by try-and-increment:
// hash to a candidate x-coordinate, solve y^2 = x^3 + 3, retry on a
// non-residue. The discrete logarithm of the result is unknown.
func (evenCurve) HashToPoint(domain []byte) Point {
	var ctr [8]byte
	for i := uint64(0); ; i++ {
		binary.BigEndian.PutUint64(ctr[:], i)
		h := sha3.New512()
		h.Write([]byte("curvecash/hash-to-point/bn254"))
		h.Write(domain)
		h.Write(ctr[:])

		var x bn254fp.Element
		x.SetBytes(h.Sum(nil))

		// y^2 = x^3 + 3
		var y2, b bn254fp.Element
		y2.Square(&x)
		y2.Mul(&y2, &x)
		b.SetUint64(3)
		y2.Add(&y2, &b)

		var y bn254fp.Element
		if y.Sqrt(&y2) == nil {
			continue
		}
		// Canonical sign: take the even square root.
		if y.BigInt(new(big.Int)).Bit(0) == 1 {
			y.Neg(&y)
		}
		return evenPoint{p: bn254.G1Affine{X: x, Y: y}}
	}
}

func (s evenScalar) Add(other Scalar) Scalar {
	o := other.(evenScalar)
	var e bn254fr.Element
	e.Add(&s.e, &o.e)
	return evenScalar{e: e}
}

func (s evenScalar) Sub(other Scalar) Scalar {
	o := other.(evenScalar)
	var e bn254fr.Element
	e.Sub(&s.e, &o.e)
	return evenScalar{e: e}
}

func (s evenScalar) Mul(other Scalar) Scalar {
	o := other.(evenScalar)
	var e bn254fr.Element
	e.Mul(&s.e, &o.e)
	return evenScalar{e: e}
}

func (s evenScalar) Neg() Scalar {
	var e bn254fr.Element
	e.Neg(&s.e)
	return evenScalar{e: e}
}

func (s evenScalar) Inverse() Scalar {
	var e bn254fr.Element
	e.Inverse(&s.e)
	return evenScalar{e: e}
}

func (s evenScalar) IsZero() bool {
	return s.e.IsZero()
}

func (s evenScalar) Equal(other Scalar) bool {
	o := other.(evenScalar)
	return s.e.Equal(&o.e)
}

func (s evenScalar) Bytes() []byte {
	b := s.e.Bytes()
	return b[:]
}

func (s evenScalar) BigInt() *big.Int {
	return s.e.BigInt(new(big.Int))
}

func (p evenPoint) Add(other Point) Point {
	o := other.(evenPoint)
	var j, oj bn254.G1Jac
	j.FromAffine(&p.p)
	oj.FromAffine(&o.p)
	j.AddAssign(&oj)
	var res bn254.G1Affine
	res.FromJacobian(&j)
	return evenPoint{p: res}
}

func (p evenPoint) Sub(other Point) Point {
	return p.Add(other.Neg())
}

func (p evenPoint) ScalarMul(s Scalar) Point {
	sc := s.(evenScalar)
	var res bn254.G1Affine
	res.ScalarMultiplication(&p.p, sc.e.BigInt(new(big.Int)))
	return evenPoint{p: res}
}

func (p evenPoint) Neg() Point {
	var res bn254.G1Affine
	res.Neg(&p.p)
	return evenPoint{p: res}
}

func (p evenPoint) Equal(other Point) bool {
	o := other.(evenPoint)
	return p.p.Equal(&o.p)
}

func (p evenPoint) IsInfinity() bool {
	return p.p.IsInfinity()
}

func (p evenPoint) Bytes() []byte {
	b := p.p.Bytes()
	return b[:]
}

func (p evenPoint) X() *big.Int {
	return p.p.X.BigInt(new(big.Int))
}

func (p evenPoint) Y() *big.Int {
	return p.p.Y.BigInt(new(big.Int))
}

func (p evenPoint) YIsEven() bool {
	return p.p.Y.BigInt(new(big.Int)).Bit(0) == 0
}
