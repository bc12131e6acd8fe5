// transcript.go - Merlin transcript wrapper for Fiat-Shamir challenges.
//
// A transcript is single-owner: exactly one prover or verifier appends to it,
// since challenge derivation depends on the exact append sequence.

package r1cs

import (
	"github.com/gtank/merlin"

	"curvecash/internal/curves"
)

// Transcript binds a proof session to a domain label and accumulates every
// public message of the session.
type Transcript struct {
	inner *merlin.Transcript
	curve curves.Curve
}

// NewTranscript starts a transcript under the given domain label.
func NewTranscript(label string, c curves.Curve) *Transcript {
	t := merlin.NewTranscript(label)
	t.AppendMessage([]byte("curve"), []byte(c.Name()))
	return &Transcript{inner: t, curve: c}
}

// AppendPoint absorbs a compressed point encoding.
func (t *Transcript) AppendPoint(label string, p curves.Point) {
	t.inner.AppendMessage([]byte(label), p.Bytes())
}

// AppendScalar absorbs a canonical scalar encoding.
func (t *Transcript) AppendScalar(label string, s curves.Scalar) {
	t.inner.AppendMessage([]byte(label), s.Bytes())
}

// AppendBytes absorbs arbitrary public data.
func (t *Transcript) AppendBytes(label string, data []byte) {
	t.inner.AppendMessage([]byte(label), data)
}

// ChallengeScalar squeezes 64 bytes and reduces them into the scalar field,
// leaving negligible bias.
func (t *Transcript) ChallengeScalar(label string) curves.Scalar {
	return t.curve.ScalarFromBytesWide(t.inner.ExtractBytes([]byte(label), 64))
}
