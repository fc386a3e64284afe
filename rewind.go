package bulletproofs

import (
	"encoding/binary"
	"io"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/dchest/blake2b"
)

const (
	REWIND_NONCE_DOMAIN_TAG = "bulletproofs_rewind_nonce"
	SECRET_NONCE_DOMAIN_TAG = "bulletproofs_secret_nonce"

	// ProofMessageSize is the number of auxiliary bytes a rewindable proof
	// carries next to the value.
	ProofMessageSize = 23
)

// RewindNonces holds the masks of a rewindable single-party proof.
// Rewind1 and Rewind2 uncover the value and message and can be derived
// from public keys. Blinding1 and Blinding2 additionally uncover the
// blinding factor and need the private keys.
type RewindNonces struct {
	Rewind1   group.Scalar
	Rewind2   group.Scalar
	Blinding1 group.Scalar
	Blinding2 group.Scalar
}

func hashToScalar(g group.Group, tag string, data ...[]byte) group.Scalar {
	hash := blake2b.New512()
	hash.Write([]byte(tag))
	for _, d := range data {
		hash.Write(d)
	}
	return g.NewScalar().SetUniformBytes(hash.Sum(nil))
}

func RewindNonceFromPublicKey(g group.Group, pubKey, commitment group.Point) group.Scalar {
	return hashToScalar(g, REWIND_NONCE_DOMAIN_TAG, pubKey.Bytes(), commitment.Bytes())
}

// RewindNonceFromPrivateKey equals RewindNonceFromPublicKey on the matching
// public key.
func RewindNonceFromPrivateKey(g group.Group, pvtKey group.Scalar, commitment group.Point) group.Scalar {
	return RewindNonceFromPublicKey(g, g.NewPoint().ScalarBaseMult(pvtKey), commitment)
}

func SecretNonceFromPrivateKey(g group.Group, pvtKey group.Scalar, commitment group.Point) group.Scalar {
	return hashToScalar(g, SECRET_NONCE_DOMAIN_TAG, pvtKey.Bytes(), commitment.Bytes())
}

// NewRewindNonces derives all four nonces, as the wallet owning both keys
// does.
func NewRewindNonces(g group.Group, pvtRewindKey, pvtBlindingKey group.Scalar, commitment group.Point) *RewindNonces {
	return &RewindNonces{
		Rewind1:   RewindNonceFromPrivateKey(g, pvtRewindKey, commitment),
		Rewind2:   RewindNonceFromPrivateKey(g, pvtBlindingKey, commitment),
		Blinding1: SecretNonceFromPrivateKey(g, pvtRewindKey, commitment),
		Blinding2: SecretNonceFromPrivateKey(g, pvtBlindingKey, commitment),
	}
}

// NewPublicRewindNonces derives the value and message nonces only. The
// blinding nonces are left nil.
func NewPublicRewindNonces(g group.Group, pubRewindKey, pubBlindingKey, commitment group.Point) *RewindNonces {
	return &RewindNonces{
		Rewind1: RewindNonceFromPublicKey(g, pubRewindKey, commitment),
		Rewind2: RewindNonceFromPublicKey(g, pubBlindingKey, commitment),
	}
}

// The value occupies bytes [0, 8) little-endian, the message [8, 31); the
// top byte stays zero so the encoding is always a canonical scalar.
func encodeRewindData(g group.Group, value uint64, message [ProofMessageSize]byte) group.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:8], value)
	copy(buf[8:], message[:])
	s, err := g.NewScalar().SetCanonicalBytes(buf[:])
	if err != nil {
		panic(err)
	}
	return s
}

func decodeRewindData(s group.Scalar) (uint64, [ProofMessageSize]byte) {
	buf := s.Bytes()
	var message [ProofMessageSize]byte
	copy(message[:], buf[8:8+ProofMessageSize])
	return binary.LittleEndian.Uint64(buf[:8]), message
}

func ProveSingleWithRewindKey(bp *BulletproofGens, pc *PedersenGens, t *Transcript, value uint64, blinding group.Scalar, n int, pvtRewindKey, pvtBlindingKey group.Scalar, message [ProofMessageSize]byte) (*RangeProof, group.Point, error) {
	return ProveSingleWithRewindKeyWithRNG(bp, pc, t, value, blinding, n, pvtRewindKey, pvtBlindingKey, message, defaultRNG)
}

// ProveSingleWithRewindKeyWithRNG replaces the bit and polynomial blinding
// factors with nonces derived from the two private keys and the
// commitment, and hides value and message in the bit blinding factor.
func ProveSingleWithRewindKeyWithRNG(bp *BulletproofGens, pc *PedersenGens, t *Transcript, value uint64, blinding group.Scalar, n int, pvtRewindKey, pvtBlindingKey group.Scalar, message [ProofMessageSize]byte, rng io.Reader) (*RangeProof, group.Point, error) {
	g := bp.Group
	party, err := NewParty(bp, pc, value, blinding, n)
	if err != nil {
		return nil, nil, err
	}

	nonces := NewRewindNonces(g, pvtRewindKey, pvtBlindingKey, party.V)
	party.fixed = &partyBlindings{
		aBlinding:  g.NewScalar().Add(nonces.Rewind1, encodeRewindData(g, value, message)),
		sBlinding:  nonces.Rewind2,
		t1Blinding: nonces.Blinding1,
		t2Blinding: nonces.Blinding2,
	}

	proof, commitments, err := proveParties(bp, pc, t, []*PartyAwaitingPosition{party}, n, rng)
	if err != nil {
		return nil, nil, err
	}
	return proof, commitments[0], nil
}

// rewindChallenges replays the single-party transcript up to x.
func (p *RangeProof) rewindChallenges(bp *BulletproofGens, t *Transcript, commitment group.Point, n int) (group.Scalar, group.Scalar, error) {
	if err := checkBitsize(n); err != nil {
		return nil, nil, err
	}
	if err := bp.check(n, 1); err != nil {
		return nil, nil, err
	}
	if !p.complete() {
		return nil, nil, ErrVerification
	}
	g := bp.Group

	t.RangeProofDomainSep(uint64(n), 1)
	t.AppendPoint("V", commitment)
	if err := t.ValidateAndAppendPoint("A", p.A); err != nil {
		return nil, nil, err
	}
	if err := t.ValidateAndAppendPoint("S", p.S); err != nil {
		return nil, nil, err
	}
	t.ChallengeScalar(g, "y")
	z := t.ChallengeScalar(g, "z")
	if err := t.ValidateAndAppendPoint("T_1", p.T1); err != nil {
		return nil, nil, err
	}
	if err := t.ValidateAndAppendPoint("T_2", p.T2); err != nil {
		return nil, nil, err
	}
	x := t.ChallengeScalar(g, "x")
	return z, x, nil
}

// e_blinding - rewindNonce1 - rewindNonce2 * x
func (p *RangeProof) unmaskData(g group.Group, x, rewindNonce1, rewindNonce2 group.Scalar) (uint64, [ProofMessageSize]byte) {
	data := g.NewScalar().Mul(rewindNonce2, x)
	data.Sub(p.EBlinding, data)
	data.Sub(data, rewindNonce1)
	return decodeRewindData(data)
}

// RewindSingleGetValueOnly recovers the value and message without
// checking them. Wrong nonces yield unrelated output, not an error.
func (p *RangeProof) RewindSingleGetValueOnly(bp *BulletproofGens, t *Transcript, commitment group.Point, n int, rewindNonce1, rewindNonce2 group.Scalar) (uint64, [ProofMessageSize]byte, error) {
	_, x, err := p.rewindChallenges(bp, t, commitment, n)
	if err != nil {
		return 0, [ProofMessageSize]byte{}, err
	}
	value, message := p.unmaskData(bp.Group, x, rewindNonce1, rewindNonce2)
	return value, message, nil
}

// RewindSingleGetCommitmentData recovers value, blinding factor and
// message, and fails with ErrInvalidCommitmentExtracted unless they open
// commitment.
func (p *RangeProof) RewindSingleGetCommitmentData(bp *BulletproofGens, pc *PedersenGens, t *Transcript, commitment group.Point, n int, rewindNonce1, rewindNonce2, blindingNonce1, blindingNonce2 group.Scalar) (uint64, group.Scalar, [ProofMessageSize]byte, error) {
	var empty [ProofMessageSize]byte
	z, x, err := p.rewindChallenges(bp, t, commitment, n)
	if err != nil {
		return 0, nil, empty, err
	}
	g := bp.Group
	value, message := p.unmaskData(g, x, rewindNonce1, rewindNonce2)

	// (t_x_blinding - blindingNonce1 * x - blindingNonce2 * x^2) / z^2
	blinding := g.NewScalar().Mul(blindingNonce2, x)
	blinding.Add(blinding, blindingNonce1)
	blinding.Mul(blinding, x)
	blinding.Sub(p.TXBlinding, blinding)
	zzInv := g.NewScalar().Mul(z, z)
	zzInv.Invert(zzInv)
	blinding.Mul(blinding, zzInv)

	if !pc.CommitUint64(value, blinding).Equal(commitment) {
		return 0, nil, empty, ErrInvalidCommitmentExtracted
	}
	return value, blinding, message, nil
}
