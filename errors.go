package bulletproofs

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode is the parent of every malformed-input error returned by
	// the FromBytes functions.
	ErrDecode         = errors.New("bulletproofs: invalid proof encoding")
	ErrProofTruncated = fmt.Errorf("%w: proof truncated", ErrDecode)
	ErrProofLength    = fmt.Errorf("%w: invalid proof length", ErrDecode)
	ErrInvalidPoint   = fmt.Errorf("%w: invalid point", ErrDecode)
	ErrInvalidScalar  = fmt.Errorf("%w: non-canonical scalar", ErrDecode)

	// ErrConfiguration is the parent of every shape error: bit sizes,
	// aggregation sizes and generator capacities.
	ErrConfiguration           = errors.New("bulletproofs: invalid configuration")
	ErrInvalidBitsize          = fmt.Errorf("%w: bitsize must be one of 8, 16, 32, 64", ErrConfiguration)
	ErrInvalidAggregation      = fmt.Errorf("%w: aggregation size must be a power of two", ErrConfiguration)
	ErrInvalidGeneratorsLength = fmt.Errorf("%w: not enough generators", ErrConfiguration)
	ErrWrongNumBlindingFactors = fmt.Errorf("%w: wrong number of blinding factors", ErrConfiguration)
	ErrInvalidInputLength      = fmt.Errorf("%w: invalid input length", ErrConfiguration)

	ErrValueOutOfRange = errors.New("bulletproofs: value out of range")

	// ErrVerification never carries a reason.
	ErrVerification = errors.New("bulletproofs: proof verification failed")

	ErrInvalidCommitmentExtracted = errors.New("bulletproofs: extracted opening does not match commitment")

	ErrMaliciousDealer          = errors.New("bulletproofs: dealer gave a malicious challenge")
	ErrWrongNumBitCommitments   = errors.New("bulletproofs: wrong number of bit commitments")
	ErrWrongNumPolyCommitments  = errors.New("bulletproofs: wrong number of polynomial commitments")
	ErrWrongNumProofShares      = errors.New("bulletproofs: wrong number of proof shares")
	ErrMissingInitialTranscript = errors.New("bulletproofs: dealer has no initial transcript to audit against")
)

// MalformedProofSharesError lists the parties whose shares failed the
// size check or the audit.
type MalformedProofSharesError struct {
	BadShares []int
}

func (e *MalformedProofSharesError) Error() string {
	return fmt.Sprintf("bulletproofs: malformed proof shares %v", e.BadShares)
}
