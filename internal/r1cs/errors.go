// errors.go - Error kinds surfaced by the proof backend.

package r1cs

import "errors"

// ErrVerification is the single verifier-facing failure. Every reason a
// proof can be rejected collapses into it: a more informative failure would
// itself leak information in a privacy protocol.
var ErrVerification = errors.New("r1cs: proof verification failed")

// ErrMissingAssignment is returned when a prover-side multiplier is
// allocated without witness values.
var ErrMissingAssignment = errors.New("r1cs: multiplier allocated without an assignment")

// ErrCapacityExceeded is returned when a vector commitment needs more
// generators than the basis provides.
var ErrCapacityExceeded = errors.New("r1cs: vector commitment exceeds generator capacity")

// ErrMalformedProof is returned when a proof encoding cannot be parsed.
// During verification it is collapsed into ErrVerification.
var ErrMalformedProof = errors.New("r1cs: malformed proof encoding")
