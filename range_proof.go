package bulletproofs

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

var defaultRNG io.Reader = rand.Reader

// RangeProof is an aggregated proof that m committed values each lie in
// [0, 2^n).
type RangeProof struct {
	A, S       group.Point
	T1, T2     group.Point
	TX         group.Scalar
	TXBlinding group.Scalar
	EBlinding  group.Scalar
	IPPProof   *InnerProductProof
}

func ProveSingle(bp *BulletproofGens, pc *PedersenGens, t *Transcript, value uint64, blinding group.Scalar, n int) (*RangeProof, group.Point, error) {
	return ProveSingleWithRNG(bp, pc, t, value, blinding, n, defaultRNG)
}

func ProveSingleWithRNG(bp *BulletproofGens, pc *PedersenGens, t *Transcript, value uint64, blinding group.Scalar, n int, rng io.Reader) (*RangeProof, group.Point, error) {
	proof, commitments, err := ProveMultipleWithRNG(bp, pc, t, []uint64{value}, []group.Scalar{blinding}, n, rng)
	if err != nil {
		return nil, nil, err
	}
	return proof, commitments[0], nil
}

func ProveMultiple(bp *BulletproofGens, pc *PedersenGens, t *Transcript, values []uint64, blindings []group.Scalar, n int) (*RangeProof, []group.Point, error) {
	return ProveMultipleWithRNG(bp, pc, t, values, blindings, n, defaultRNG)
}

// ProveMultipleWithRNG creates an aggregated proof for len(values) parties,
// which must be a power of two, and returns it with the value commitments.
func ProveMultipleWithRNG(bp *BulletproofGens, pc *PedersenGens, t *Transcript, values []uint64, blindings []group.Scalar, n int, rng io.Reader) (*RangeProof, []group.Point, error) {
	if len(values) != len(blindings) {
		return nil, nil, fmt.Errorf("%w: %d values, %d blindings", ErrWrongNumBlindingFactors, len(values), len(blindings))
	}
	parties := make([]*PartyAwaitingPosition, len(values))
	for i := range values {
		party, err := NewParty(bp, pc, values[i], blindings[i], n)
		if err != nil {
			return nil, nil, err
		}
		parties[i] = party
	}
	return proveParties(bp, pc, t, parties, n, rng)
}

func proveParties(bp *BulletproofGens, pc *PedersenGens, t *Transcript, parties []*PartyAwaitingPosition, n int, rng io.Reader) (*RangeProof, []group.Point, error) {
	dealer1, err := NewDealer(bp, pc, nil, t, n, len(parties))
	if err != nil {
		return nil, nil, err
	}

	partiesA := make([]*PartyAwaitingBitChallenge, len(parties))
	bitCommitments := make([]*BitCommitment, len(parties))
	for j := range parties {
		partiesA[j], bitCommitments[j], err = parties[j].AssignPositionWithRNG(j, rng)
		if err != nil {
			return nil, nil, err
		}
	}
	valueCommitments := make([]group.Point, len(bitCommitments))
	for i := range bitCommitments {
		valueCommitments[i] = bitCommitments[i].VJ
	}

	dealer2, bitChallenge, err := dealer1.ReceiveBitCommitments(bitCommitments)
	if err != nil {
		return nil, nil, err
	}

	partiesB := make([]*PartyAwaitingPolyChallenge, len(partiesA))
	polyCommitments := make([]*PolyCommitment, len(partiesA))
	for i := range partiesA {
		partiesB[i], polyCommitments[i], err = partiesA[i].ApplyChallengeWithRNG(bitChallenge, rng)
		if err != nil {
			return nil, nil, err
		}
	}

	dealer3, polyChallenge, err := dealer2.ReceivePolyCommitments(polyCommitments)
	if err != nil {
		return nil, nil, err
	}

	proofShares := make([]*ProofShare, len(partiesB))
	for i := range partiesB {
		proofShares[i], err = partiesB[i].ApplyPolyChallenge(polyChallenge)
		if err != nil {
			return nil, nil, err
		}
	}

	proof, err := dealer3.AssembleShares(proofShares)
	if err != nil {
		return nil, nil, err
	}
	return proof, valueCommitments, nil
}

func (p *RangeProof) VerifySingle(bp *BulletproofGens, pc *PedersenGens, t *Transcript, V group.Point, n int) error {
	return p.VerifyAggregatedWithRNG(bp, pc, t, []group.Point{V}, n, 1, defaultRNG)
}

func (p *RangeProof) VerifyMultiple(bp *BulletproofGens, pc *PedersenGens, t *Transcript, Vs []group.Point, n int) error {
	return p.VerifyAggregatedWithRNG(bp, pc, t, Vs, n, len(Vs), defaultRNG)
}

func (p *RangeProof) VerifyMultipleWithRNG(bp *BulletproofGens, pc *PedersenGens, t *Transcript, Vs []group.Point, n int, rng io.Reader) error {
	return p.VerifyAggregatedWithRNG(bp, pc, t, Vs, n, len(Vs), rng)
}

func (p *RangeProof) VerifyAggregated(bp *BulletproofGens, pc *PedersenGens, t *Transcript, Vs []group.Point, n, m int) error {
	return p.VerifyAggregatedWithRNG(bp, pc, t, Vs, n, m, defaultRNG)
}

// VerifyAggregatedWithRNG checks the polynomial identity and the inner
// product argument together in one multiscalar multiplication, weighting
// the former by a random scalar drawn from rng.
func (p *RangeProof) VerifyAggregatedWithRNG(bp *BulletproofGens, pc *PedersenGens, t *Transcript, Vs []group.Point, n, m int, rng io.Reader) error {
	if len(Vs) != m {
		return fmt.Errorf("%w: %d commitments, m %d", ErrInvalidInputLength, len(Vs), m)
	}
	if err := checkBitsize(n); err != nil {
		return err
	}
	if !isPowerOfTwo(m) {
		return fmt.Errorf("%w: %d", ErrInvalidAggregation, m)
	}
	if err := bp.check(n, m); err != nil {
		return err
	}
	if !p.complete() {
		return ErrVerification
	}
	g := bp.Group

	t.RangeProofDomainSep(uint64(n), uint64(m))
	for _, V := range Vs {
		t.AppendPoint("V", V)
	}
	if err := t.ValidateAndAppendPoint("A", p.A); err != nil {
		return err
	}
	if err := t.ValidateAndAppendPoint("S", p.S); err != nil {
		return err
	}
	y := t.ChallengeScalar(g, "y")
	z := t.ChallengeScalar(g, "z")
	zz := g.NewScalar().Mul(z, z)
	minusZ := g.NewScalar().Neg(z)

	if err := t.ValidateAndAppendPoint("T_1", p.T1); err != nil {
		return err
	}
	if err := t.ValidateAndAppendPoint("T_2", p.T2); err != nil {
		return err
	}
	x := t.ChallengeScalar(g, "x")

	t.AppendScalar("t_x", p.TX)
	t.AppendScalar("t_x_blinding", p.TXBlinding)
	t.AppendScalar("e_blinding", p.EBlinding)
	w := t.ChallengeScalar(g, "w")

	c, err := group.RandomScalar(g, rng)
	if err != nil {
		return err
	}

	nm := n * m
	uSq, uInvSq, s, err := p.IPPProof.VerificationScalars(g, nm, t)
	if err != nil {
		return err
	}
	a, b := p.IPPProof.A, p.IPPProof.B

	// concat_z_and_2[j*n+i] = z^j * 2^i
	powersOf2 := NewScalarExp(g, g.NewScalar().SetUint64(2)).Take(n)
	powersOfZ := NewScalarExp(g, z).Take(m)
	concatZAnd2 := make([]group.Scalar, 0, nm)
	for j := 0; j < m; j++ {
		for i := 0; i < n; i++ {
			concatZAnd2 = append(concatZAnd2, g.NewScalar().Mul(powersOf2[i], powersOfZ[j]))
		}
	}

	cx := g.NewScalar().Mul(c, x)
	cxx := g.NewScalar().Mul(cx, x)

	blindingScalar := g.NewScalar().Mul(c, p.TXBlinding)
	blindingScalar.Add(blindingScalar, p.EBlinding)
	blindingScalar.Neg(blindingScalar)

	// w * (t_x - a*b) + c * (delta(y, z) - t_x)
	basepointScalar := g.NewScalar().Mul(a, b)
	basepointScalar.Sub(p.TX, basepointScalar)
	basepointScalar.Mul(w, basepointScalar)
	tmp := g.NewScalar().Sub(delta(g, n, m, y, z), p.TX)
	tmp.Mul(c, tmp)
	basepointScalar.Add(basepointScalar, tmp)

	scalars := make([]group.Scalar, 0, 4+2*len(uSq)+2+2*nm+m)
	scalars = append(scalars, g.NewScalar().One(), x, cx, cxx)
	scalars = append(scalars, uSq...)
	scalars = append(scalars, uInvSq...)
	scalars = append(scalars, blindingScalar, basepointScalar)
	for i := 0; i < nm; i++ {
		// -z - a*s_i
		gi := g.NewScalar().Mul(a, s[i])
		scalars = append(scalars, gi.Sub(minusZ, gi))
	}
	expYInv := NewScalarExp(g, g.NewScalar().Invert(y))
	for i := 0; i < nm; i++ {
		// z + y^-i * (zz * z^j * 2^i - b/s_i)
		hi := g.NewScalar().Mul(b, s[nm-1-i])
		hi.Sub(g.NewScalar().Mul(zz, concatZAnd2[i]), hi)
		hi.Mul(expYInv.Next(), hi)
		scalars = append(scalars, hi.Add(z, hi))
	}
	czz := g.NewScalar().Mul(c, zz)
	for j := 0; j < m; j++ {
		scalars = append(scalars, g.NewScalar().Mul(czz, powersOfZ[j]))
	}

	G, err := bp.G(n, m)
	if err != nil {
		return err
	}
	H, err := bp.H(n, m)
	if err != nil {
		return err
	}
	points := make([]group.Point, 0, len(scalars))
	points = append(points, p.A, p.S, p.T1, p.T2)
	points = append(points, p.IPPProof.LVec...)
	points = append(points, p.IPPProof.RVec...)
	points = append(points, pc.BBlinding, pc.B)
	points = append(points, G...)
	points = append(points, H...)
	points = append(points, Vs...)

	if !g.NewPoint().MultiScalarMult(scalars, points).IsIdentity() {
		return ErrVerification
	}
	return nil
}

// delta computes (z - z^2) * <1, y^nm> - z^3 * <1, 2^n> * <1, z^m>.
func delta(g group.Group, n, m int, y, z group.Scalar) group.Scalar {
	sumY := SumOfPowers(g, y, n*m)
	sum2 := SumOfPowers(g, g.NewScalar().SetUint64(2), n)
	sumZ := SumOfPowers(g, z, m)

	zz := g.NewScalar().Mul(z, z)
	out := g.NewScalar().Sub(z, zz)
	out.Mul(out, sumY)

	zzz := g.NewScalar().Mul(zz, z)
	zzz.Mul(zzz, sum2)
	zzz.Mul(zzz, sumZ)
	return out.Sub(out, zzz)
}

func (p *RangeProof) complete() bool {
	if p.A == nil || p.S == nil || p.T1 == nil || p.T2 == nil {
		return false
	}
	if p.TX == nil || p.TXBlinding == nil || p.EBlinding == nil {
		return false
	}
	ipp := p.IPPProof
	if ipp == nil || ipp.A == nil || ipp.B == nil || len(ipp.LVec) != len(ipp.RVec) {
		return false
	}
	for i := range ipp.LVec {
		if ipp.LVec[i] == nil || ipp.RVec[i] == nil {
			return false
		}
	}
	return true
}

func (p *RangeProof) SerializedSize() int {
	return 7*32 + p.IPPProof.SerializedSize()
}

// ToBytes encodes the proof as
// A || S || T_1 || T_2 || t_x || t_x_blinding || e_blinding || ipp_proof.
func (p *RangeProof) ToBytes() []byte {
	buf := make([]byte, 0, p.SerializedSize())
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.S.Bytes()...)
	buf = append(buf, p.T1.Bytes()...)
	buf = append(buf, p.T2.Bytes()...)
	buf = append(buf, p.TX.Bytes()...)
	buf = append(buf, p.TXBlinding.Bytes()...)
	buf = append(buf, p.EBlinding.Bytes()...)
	buf = append(buf, p.IPPProof.ToBytes()...)
	return buf
}

func RangeProofFromBytes(g group.Group, b []byte) (*RangeProof, error) {
	ps, ss := g.PointSize(), g.ScalarSize()
	if len(b)%ps != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrProofLength, len(b))
	}
	header := 4*ps + 3*ss
	if len(b) < header+2*ss {
		return nil, fmt.Errorf("%w: %d bytes", ErrProofTruncated, len(b))
	}

	points := make([]group.Point, 4)
	for i := range points {
		p, err := readPoint(g, b[i*ps:])
		if err != nil {
			return nil, err
		}
		points[i] = p
	}
	scalars := make([]group.Scalar, 3)
	for i := range scalars {
		s, err := readScalar(g, b[4*ps+i*ss:])
		if err != nil {
			return nil, err
		}
		scalars[i] = s
	}
	ipp, err := InnerProductProofFromBytes(g, b[header:])
	if err != nil {
		return nil, err
	}

	return &RangeProof{
		A:          points[0],
		S:          points[1],
		T1:         points[2],
		T2:         points[3],
		TX:         scalars[0],
		TXBlinding: scalars[1],
		EBlinding:  scalars[2],
		IPPProof:   ipp,
	}, nil
}
