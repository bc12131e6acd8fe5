// proof.go - Aggregated proof object and its wire encoding.

package r1cs

import (
	"encoding/binary"

	"curvecash/internal/curves"
)

// Proof is the transferable result of a proving session. It is only
// meaningful to a verifier replaying the same session on the same transcript
// label and public inputs.
type Proof struct {
	GateComms  []curves.Point
	AnnPoints  []curves.Point
	AnnScalars []curves.Scalar
	Responses  []curves.Scalar
}

// Wire format: four big-endian uint32 counts followed by the four sections,
// each element in its fixed 32-byte encoding.

// Bytes serializes the proof.
func (p *Proof) Bytes() []byte {
	size := 16 +
		curves.PointSize*(len(p.GateComms)+len(p.AnnPoints)) +
		curves.ScalarSize*(len(p.AnnScalars)+len(p.Responses))
	out := make([]byte, 0, size)

	var n [4]byte
	for _, count := range []int{len(p.GateComms), len(p.AnnPoints), len(p.AnnScalars), len(p.Responses)} {
		binary.BigEndian.PutUint32(n[:], uint32(count))
		out = append(out, n[:]...)
	}
	for _, pt := range p.GateComms {
		out = append(out, pt.Bytes()...)
	}
	for _, pt := range p.AnnPoints {
		out = append(out, pt.Bytes()...)
	}
	for _, s := range p.AnnScalars {
		out = append(out, s.Bytes()...)
	}
	for _, s := range p.Responses {
		out = append(out, s.Bytes()...)
	}
	return out
}

// ParseProof deserializes a proof produced by Bytes on the given curve.
func ParseProof(c curves.Curve, data []byte) (*Proof, error) {
	if len(data) < 16 {
		return nil, ErrMalformedProof
	}
	nGate := int(binary.BigEndian.Uint32(data[0:4]))
	nAnnP := int(binary.BigEndian.Uint32(data[4:8]))
	nAnnS := int(binary.BigEndian.Uint32(data[8:12]))
	nResp := int(binary.BigEndian.Uint32(data[12:16]))

	want := 16 +
		curves.PointSize*(nGate+nAnnP) +
		curves.ScalarSize*(nAnnS+nResp)
	if len(data) != want {
		return nil, ErrMalformedProof
	}
	rest := data[16:]

	readPoints := func(n int) ([]curves.Point, error) {
		pts := make([]curves.Point, n)
		for i := 0; i < n; i++ {
			pt, err := c.PointFromBytes(rest[:curves.PointSize])
			if err != nil {
				return nil, ErrMalformedProof
			}
			pts[i] = pt
			rest = rest[curves.PointSize:]
		}
		return pts, nil
	}
	readScalars := func(n int) []curves.Scalar {
		ss := make([]curves.Scalar, n)
		for i := 0; i < n; i++ {
			ss[i] = c.ScalarFromBytes(rest[:curves.ScalarSize])
			rest = rest[curves.ScalarSize:]
		}
		return ss
	}

	gateComms, err := readPoints(nGate)
	if err != nil {
		return nil, err
	}
	annPoints, err := readPoints(nAnnP)
	if err != nil {
		return nil, err
	}
	return &Proof{
		GateComms:  gateComms,
		AnnPoints:  annPoints,
		AnnScalars: readScalars(nAnnS),
		Responses:  readScalars(nResp),
	}, nil
}
