package bulletproofs

import (
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

// BitCommitment is sent by party j to the dealer.
type BitCommitment struct {
	VJ group.Point
	AJ group.Point
	SJ group.Point
}

type BitChallenge struct {
	Y group.Scalar
	Z group.Scalar
}

type PolyCommitment struct {
	T1j group.Point
	T2j group.Point
}

type PolyChallenge struct {
	X group.Scalar
}

type ProofShare struct {
	TX         group.Scalar
	TXBlinding group.Scalar
	EBlinding  group.Scalar
	LVec       []group.Scalar
	RVec       []group.Scalar
}

func (ps *ProofShare) checkSize(n int, bp *BulletproofGens, j int) error {
	if len(ps.LVec) != n {
		return fmt.Errorf("%w: l_vec %d, n %d", ErrInvalidInputLength, len(ps.LVec), n)
	}
	if len(ps.RVec) != n {
		return fmt.Errorf("%w: r_vec %d, n %d", ErrInvalidInputLength, len(ps.RVec), n)
	}
	if n > bp.GensCapacity {
		return fmt.Errorf("%w: gens capacity %d, n %d", ErrInvalidGeneratorsLength, bp.GensCapacity, n)
	}
	if j >= bp.PartyCapacity {
		return fmt.Errorf("%w: party capacity %d, j %d", ErrInvalidGeneratorsLength, bp.PartyCapacity, j)
	}
	return nil
}

// AuditShare checks that the share of party j is consistent with the
// commitments and challenges it was computed from.
func (ps *ProofShare) AuditShare(bp *BulletproofGens, pc *PedersenGens, j int, bc *BitCommitment, bch *BitChallenge, pcm *PolyCommitment, pch *PolyChallenge) error {
	n := len(ps.LVec)
	if err := ps.checkSize(n, bp, j); err != nil {
		return err
	}
	g := bp.Group
	share, err := bp.Share(j)
	if err != nil {
		return err
	}

	y, z, x := bch.Y, bch.Z, pch.X
	zz := g.NewScalar().Mul(z, z)
	minusZ := g.NewScalar().Neg(z)
	zJ := ScalarExpVartime(g, z, uint64(j))
	yJN := ScalarExpVartime(g, y, uint64(j*n))
	yJNInv := g.NewScalar().Invert(yJN)
	yInv := g.NewScalar().Invert(y)
	zzZJ := g.NewScalar().Mul(zz, zJ)

	scalars := []group.Scalar{
		g.NewScalar().One(),
		x,
		g.NewScalar().Neg(ps.EBlinding),
	}
	for i := range ps.LVec {
		scalars = append(scalars, g.NewScalar().Sub(minusZ, ps.LVec[i]))
	}
	two := g.NewScalar().SetUint64(2)
	exp2 := NewScalarExp(g, two)
	expYInv := NewScalarExp(g, yInv)
	for i := range ps.RVec {
		// z + y^-i * y^-jn * (zz * z^j * 2^i - r_i)
		f := g.NewScalar().Mul(expYInv.Next(), yJNInv)
		t := g.NewScalar().Mul(zzZJ, exp2.Next())
		t.Sub(t, ps.RVec[i])
		f.Mul(f, t)
		scalars = append(scalars, f.Add(z, f))
	}

	points := []group.Point{bc.AJ, bc.SJ, pc.BBlinding}
	points = append(points, share.G(n)...)
	points = append(points, share.H(n)...)

	if !g.NewPoint().MultiScalarMult(scalars, points).IsIdentity() {
		return ErrVerification
	}

	sumOfPowersY := SumOfPowers(g, y, n)
	sumOfPowers2 := SumOfPowers(g, two, n)
	// (z - zz) * sum(y^i) * y^jn - z * zz * sum(2^i) * z^j
	delta := g.NewScalar().Sub(z, zz)
	delta.Mul(delta, sumOfPowersY)
	delta.Mul(delta, yJN)
	t := g.NewScalar().Mul(z, zzZJ)
	t.Mul(t, sumOfPowers2)
	delta.Sub(delta, t)

	tCheck := g.NewPoint().MultiScalarMult(
		[]group.Scalar{
			zzZJ,
			x,
			g.NewScalar().Mul(x, x),
			g.NewScalar().Sub(delta, ps.TX),
			g.NewScalar().Neg(ps.TXBlinding),
		},
		[]group.Point{bc.VJ, pcm.T1j, pcm.T2j, pc.B, pc.BBlinding},
	)
	if !tCheck.IsIdentity() {
		return ErrVerification
	}
	return nil
}
