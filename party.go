package bulletproofs

import (
	"fmt"
	"io"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

// partyBlindings replaces the random blinding factors of a party. It is
// only set for rewindable proofs.
type partyBlindings struct {
	aBlinding  group.Scalar
	sBlinding  group.Scalar
	t1Blinding group.Scalar
	t2Blinding group.Scalar
}

type PartyAwaitingPosition struct {
	BPGens    *BulletproofGens
	PCGens    *PedersenGens
	N         int
	Value     uint64
	VBlinding group.Scalar
	V         group.Point

	fixed *partyBlindings
}

func NewParty(bp *BulletproofGens, pc *PedersenGens, value uint64, blinding group.Scalar, n int) (*PartyAwaitingPosition, error) {
	if err := checkBitsize(n); err != nil {
		return nil, err
	}
	if bp.GensCapacity < n {
		return nil, fmt.Errorf("%w: gens capacity %d, n %d", ErrInvalidGeneratorsLength, bp.GensCapacity, n)
	}
	if err := checkValueRange(value, n); err != nil {
		return nil, err
	}

	V := pc.CommitUint64(value, blinding)

	return &PartyAwaitingPosition{
		BPGens:    bp,
		PCGens:    pc,
		N:         n,
		Value:     value,
		VBlinding: blinding,
		V:         V,
	}, nil
}

type PartyAwaitingBitChallenge struct {
	N         int
	V         uint64
	VBlinding group.Scalar
	J         int
	PCGens    *PedersenGens
	ABlinding group.Scalar
	SBlinding group.Scalar
	SL        []group.Scalar
	SR        []group.Scalar

	fixed *partyBlindings
}

func (p *PartyAwaitingPosition) AssignPosition(j int) (*PartyAwaitingBitChallenge, *BitCommitment, error) {
	return p.AssignPositionWithRNG(j, defaultRNG)
}

func (p *PartyAwaitingPosition) AssignPositionWithRNG(j int, rng io.Reader) (*PartyAwaitingBitChallenge, *BitCommitment, error) {
	g := p.BPGens.Group
	bpShare, err := p.BPGens.Share(j)
	if err != nil {
		return nil, nil, err
	}

	aBlinding, err := p.blinding(rng, func(b *partyBlindings) group.Scalar { return b.aBlinding })
	if err != nil {
		return nil, nil, err
	}
	A := g.NewPoint().ScalarMult(aBlinding, p.PCGens.BBlinding)

	// If v_i = 0, we add a_L[i] * G[i] + a_R[i] * H[i] = - H[i]
	// If v_i = 1, we add a_L[i] * G[i] + a_R[i] * H[i] =   G[i]
	Gs := bpShare.G(p.N)
	Hs := bpShare.H(p.N)
	point := g.NewPoint()
	for i := range Gs {
		if (p.Value>>uint(i))&1 == 1 {
			point.Set(Gs[i])
		} else {
			point.Neg(Hs[i])
		}
		A.Add(A, point)
	}

	sBlinding, err := p.blinding(rng, func(b *partyBlindings) group.Scalar { return b.sBlinding })
	if err != nil {
		return nil, nil, err
	}
	sL, err := group.RandomScalars(g, rng, p.N)
	if err != nil {
		return nil, nil, err
	}
	sR, err := group.RandomScalars(g, rng, p.N)
	if err != nil {
		return nil, nil, err
	}

	// Compute S = <s_L, G> + <s_R, H> + s_blinding * B_blinding
	scalars := append([]group.Scalar{sBlinding}, sL...)
	scalars = append(scalars, sR...)
	points := append([]group.Point{p.PCGens.BBlinding}, Gs...)
	points = append(points, Hs...)
	S := g.NewPoint().MultiScalarMult(scalars, points)

	bitCommitment := &BitCommitment{
		VJ: p.V,
		AJ: A,
		SJ: S,
	}

	nextState := &PartyAwaitingBitChallenge{
		N:         p.N,
		V:         p.Value,
		VBlinding: p.VBlinding,
		PCGens:    p.PCGens,
		J:         j,
		ABlinding: aBlinding,
		SBlinding: sBlinding,
		SL:        sL,
		SR:        sR,
		fixed:     p.fixed,
	}
	return nextState, bitCommitment, nil
}

func (p *PartyAwaitingPosition) blinding(rng io.Reader, pick func(*partyBlindings) group.Scalar) (group.Scalar, error) {
	if p.fixed != nil {
		return pick(p.fixed), nil
	}
	return group.RandomScalar(p.BPGens.Group, rng)
}

func (p *PartyAwaitingBitChallenge) ApplyChallenge(vc *BitChallenge) (*PartyAwaitingPolyChallenge, *PolyCommitment, error) {
	return p.ApplyChallengeWithRNG(vc, defaultRNG)
}

func (p *PartyAwaitingBitChallenge) ApplyChallengeWithRNG(vc *BitChallenge, rng io.Reader) (*PartyAwaitingPolyChallenge, *PolyCommitment, error) {
	g := p.PCGens.Group
	n := p.N
	offsetY := ScalarExpVartime(g, vc.Y, uint64(p.J*n))
	offsetZ := ScalarExpVartime(g, vc.Z, uint64(p.J))

	lPoly := ZeroVecPoly1(g, n)
	rPoly := ZeroVecPoly1(g, n)

	offsetZZ := g.NewScalar().Mul(vc.Z, vc.Z)
	offsetZZ.Mul(offsetZZ, offsetZ)

	expY := offsetY
	exp2 := g.NewScalar().One()
	one := g.NewScalar().One()
	tmp := g.NewScalar()

	for i := 0; i < n; i++ {
		aLi := g.NewScalar().SetUint64((p.V >> uint(i)) & 1)
		aRi := g.NewScalar().Sub(aLi, one)

		lPoly.As[i].Sub(aLi, vc.Z)
		lPoly.Bs[i].Set(p.SL[i])

		rPoly.As[i].Add(aRi, vc.Z)
		rPoly.As[i].Mul(expY, rPoly.As[i])
		rPoly.As[i].Add(rPoly.As[i], tmp.Mul(offsetZZ, exp2))
		rPoly.Bs[i].Mul(expY, p.SR[i])

		expY.Mul(expY, vc.Y)
		exp2.Add(exp2, exp2)
	}

	tPoly := lPoly.InnerProduct(g, rPoly)

	var t1Blinding, t2Blinding group.Scalar
	if p.fixed != nil {
		t1Blinding, t2Blinding = p.fixed.t1Blinding, p.fixed.t2Blinding
	} else {
		var err error
		t1Blinding, err = group.RandomScalar(g, rng)
		if err != nil {
			return nil, nil, err
		}
		t2Blinding, err = group.RandomScalar(g, rng)
		if err != nil {
			return nil, nil, err
		}
	}

	polyCommitment := &PolyCommitment{
		T1j: p.PCGens.Commit(tPoly.B, t1Blinding),
		T2j: p.PCGens.Commit(tPoly.C, t2Blinding),
	}

	next := &PartyAwaitingPolyChallenge{
		group:      g,
		OffsetZZ:   offsetZZ,
		LPoly:      lPoly,
		RPoly:      rPoly,
		TPoly:      tPoly,
		T1Blinding: t1Blinding,
		T2Blinding: t2Blinding,
		VBlinding:  p.VBlinding,
		ABlinding:  p.ABlinding,
		SBlinding:  p.SBlinding,
	}
	return next, polyCommitment, nil
}

type PartyAwaitingPolyChallenge struct {
	group      group.Group
	OffsetZZ   group.Scalar
	LPoly      *VecPoly1
	RPoly      *VecPoly1
	TPoly      *Poly2
	VBlinding  group.Scalar
	ABlinding  group.Scalar
	SBlinding  group.Scalar
	T1Blinding group.Scalar
	T2Blinding group.Scalar
}

func (p *PartyAwaitingPolyChallenge) ApplyPolyChallenge(pc *PolyChallenge) (*ProofShare, error) {
	g := p.group
	if pc.X.IsZero() {
		return nil, ErrMaliciousDealer
	}

	tBlindingPoly := Poly2{
		A: g.NewScalar().Mul(p.OffsetZZ, p.VBlinding),
		B: p.T1Blinding,
		C: p.T2Blinding,
	}

	eBlinding := g.NewScalar().Mul(p.SBlinding, pc.X)
	eBlinding.Add(p.ABlinding, eBlinding)

	return &ProofShare{
		TX:         p.TPoly.Eval(g, pc.X),
		TXBlinding: tBlindingPoly.Eval(g, pc.X),
		EBlinding:  eBlinding,
		LVec:       p.LPoly.Eval(g, pc.X),
		RVec:       p.RPoly.Eval(g, pc.X),
	}, nil
}
