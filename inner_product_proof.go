package bulletproofs

import (
	"fmt"
	"math/bits"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

type InnerProductProof struct {
	LVec []group.Point
	RVec []group.Point
	A, B group.Scalar
}

// CreateInnerProductProof proves knowledge of a, b with
// P = <a, G*gFactors> + <b, H*hFactors> + <a, b> Q. The factors are folded
// in during the first round only. Inputs are left untouched.
func CreateInnerProductProof(t *Transcript, g group.Group, Q group.Point, gFactors, hFactors []group.Scalar, gVec, hVec []group.Point, aVec, bVec []group.Scalar) (*InnerProductProof, error) {
	n := len(gVec)
	if len(hVec) != n ||
		len(aVec) != n ||
		len(bVec) != n ||
		len(gFactors) != n ||
		len(hFactors) != n {
		return nil, fmt.Errorf("%w: %d, %d, %d, %d, %d, %d", ErrInvalidInputLength, len(gVec), len(hVec), len(aVec), len(bVec), len(gFactors), len(hFactors))
	}
	if !isPowerOfTwo(n) {
		return nil, fmt.Errorf("%w: n %d is not a power of two", ErrInvalidInputLength, n)
	}

	t.InnerProductDomainSep(uint64(n))

	G := append([]group.Point(nil), gVec...)
	H := append([]group.Point(nil), hVec...)
	a := cloneScalars(g, aVec)
	b := cloneScalars(g, bVec)
	gF, hF := gFactors, hFactors

	lgN := bits.TrailingZeros(uint(n))
	LVec := make([]group.Point, 0, lgN)
	RVec := make([]group.Point, 0, lgN)
	tmp := g.NewScalar()

	for n > 1 {
		n = n / 2
		aL, aR := a[:n], a[n:]
		bL, bR := b[:n], b[n:]
		gL, gR := G[:n], G[n:]
		hL, hR := H[:n], H[n:]

		cL := innerProduct(g, aL, bR)
		cR := innerProduct(g, aR, bL)

		lScalars := make([]group.Scalar, 0, 2*n+1)
		rScalars := make([]group.Scalar, 0, 2*n+1)
		for i := 0; i < n; i++ {
			lScalars = append(lScalars, scaleBy(g, aL[i], gF, n+i))
			rScalars = append(rScalars, scaleBy(g, aR[i], gF, i))
		}
		for i := 0; i < n; i++ {
			lScalars = append(lScalars, scaleBy(g, bR[i], hF, i))
			rScalars = append(rScalars, scaleBy(g, bL[i], hF, n+i))
		}
		lScalars = append(lScalars, cL)
		rScalars = append(rScalars, cR)

		lPoints := make([]group.Point, 0, 2*n+1)
		lPoints = append(lPoints, gR...)
		lPoints = append(lPoints, hL...)
		lPoints = append(lPoints, Q)
		L := g.NewPoint().MultiScalarMult(lScalars, lPoints)

		rPoints := make([]group.Point, 0, 2*n+1)
		rPoints = append(rPoints, gL...)
		rPoints = append(rPoints, hR...)
		rPoints = append(rPoints, Q)
		R := g.NewPoint().MultiScalarMult(rScalars, rPoints)

		LVec = append(LVec, L)
		RVec = append(RVec, R)
		t.AppendPoint("L", L)
		t.AppendPoint("R", R)

		u := t.ChallengeScalar(g, "u")
		uInv := g.NewScalar().Invert(u)

		for i := 0; i < n; i++ {
			aL[i].Mul(aL[i], u)
			aL[i].Add(aL[i], tmp.Mul(uInv, aR[i]))
			bL[i].Mul(bL[i], uInv)
			bL[i].Add(bL[i], tmp.Mul(u, bR[i]))

			gL[i] = g.NewPoint().MultiScalarMult(
				[]group.Scalar{scaleBy(g, uInv, gF, i), scaleBy(g, u, gF, n+i)},
				[]group.Point{gL[i], gR[i]},
			)
			hL[i] = g.NewPoint().MultiScalarMult(
				[]group.Scalar{scaleBy(g, u, hF, i), scaleBy(g, uInv, hF, n+i)},
				[]group.Point{hL[i], hR[i]},
			)
		}

		a, b = aL, bL
		G, H = gL, hL
		gF, hF = nil, nil
	}

	return &InnerProductProof{
		LVec: LVec,
		RVec: RVec,
		A:    a[0],
		B:    b[0],
	}, nil
}

// scaleBy returns s*factors[i], or s itself once the factors are consumed.
func scaleBy(g group.Group, s group.Scalar, factors []group.Scalar, i int) group.Scalar {
	if factors == nil {
		return s
	}
	return g.NewScalar().Mul(s, factors[i])
}

// VerificationScalars replays the transcript and returns the squared
// challenges, their inverses and the folded generator coefficients s.
func (p *InnerProductProof) VerificationScalars(g group.Group, n int, t *Transcript) ([]group.Scalar, []group.Scalar, []group.Scalar, error) {
	lgN := len(p.LVec)
	if lgN >= 32 || len(p.RVec) != lgN {
		return nil, nil, nil, ErrVerification
	}
	if n != 1<<uint(lgN) {
		return nil, nil, nil, ErrVerification
	}

	t.InnerProductDomainSep(uint64(n))

	challenges := make([]group.Scalar, lgN)
	for i := range p.LVec {
		if err := t.ValidateAndAppendPoint("L", p.LVec[i]); err != nil {
			return nil, nil, nil, err
		}
		if err := t.ValidateAndAppendPoint("R", p.RVec[i]); err != nil {
			return nil, nil, nil, err
		}
		challenges[i] = t.ChallengeScalar(g, "u")
	}

	allInv := g.NewScalar().One()
	uSq := make([]group.Scalar, lgN)
	uInvSq := make([]group.Scalar, lgN)
	for i, u := range challenges {
		inv := g.NewScalar().Invert(u)
		allInv.Mul(allInv, inv)
		uSq[i] = g.NewScalar().Mul(u, u)
		uInvSq[i] = g.NewScalar().Mul(inv, inv)
	}

	s := make([]group.Scalar, n)
	s[0] = allInv
	for i := 1; i < n; i++ {
		lgI := bits.Len(uint(i)) - 1
		k := 1 << uint(lgI)
		// The challenges are stored in "creation order" as [u_k,...,u_1],
		// so u_{lg(i)+1} is indexed by (lg_n-1) - lg_i.
		s[i] = g.NewScalar().Mul(s[i-k], uSq[(lgN-1)-lgI])
	}
	return uSq, uInvSq, s, nil
}

// Verify checks the proof against P in a single multiscalar
// multiplication.
func (p *InnerProductProof) Verify(g group.Group, n int, t *Transcript, gFactors, hFactors []group.Scalar, P, Q group.Point, G, H []group.Point) error {
	if len(gFactors) != n || len(hFactors) != n || len(G) != n || len(H) != n {
		return fmt.Errorf("%w: n %d", ErrInvalidInputLength, n)
	}
	uSq, uInvSq, s, err := p.VerificationScalars(g, n, t)
	if err != nil {
		return err
	}

	scalars := make([]group.Scalar, 0, 1+2*n+2*len(uSq))
	points := make([]group.Point, 0, cap(scalars))

	scalars = append(scalars, g.NewScalar().Mul(p.A, p.B))
	points = append(points, Q)
	for i := 0; i < n; i++ {
		f := g.NewScalar().Mul(p.A, s[i])
		scalars = append(scalars, f.Mul(f, gFactors[i]))
	}
	points = append(points, G...)
	for i := 0; i < n; i++ {
		f := g.NewScalar().Mul(p.B, s[n-1-i])
		scalars = append(scalars, f.Mul(f, hFactors[i]))
	}
	points = append(points, H...)
	for i := range uSq {
		scalars = append(scalars, g.NewScalar().Neg(uSq[i]))
	}
	points = append(points, p.LVec...)
	for i := range uInvSq {
		scalars = append(scalars, g.NewScalar().Neg(uInvSq[i]))
	}
	points = append(points, p.RVec...)

	if !g.NewPoint().MultiScalarMult(scalars, points).Equal(P) {
		return ErrVerification
	}
	return nil
}

func (p *InnerProductProof) SerializedSize() int {
	return (len(p.LVec)*2 + 2) * 32
}

// ToBytes encodes the proof as L_0 || R_0 || ... || L_k || R_k || a || b.
func (p *InnerProductProof) ToBytes() []byte {
	buf := make([]byte, 0, p.SerializedSize())
	for i := range p.LVec {
		buf = append(buf, p.LVec[i].Bytes()...)
		buf = append(buf, p.RVec[i].Bytes()...)
	}
	buf = append(buf, p.A.Bytes()...)
	buf = append(buf, p.B.Bytes()...)
	return buf
}

func InnerProductProofFromBytes(g group.Group, b []byte) (*InnerProductProof, error) {
	ps, ss := g.PointSize(), g.ScalarSize()
	if len(b)%ps != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrProofLength, len(b))
	}
	if len(b) < 2*ss {
		return nil, fmt.Errorf("%w: %d bytes", ErrProofTruncated, len(b))
	}
	if (len(b)-2*ss)%(2*ps) != 0 {
		return nil, fmt.Errorf("%w: odd number of points", ErrProofLength)
	}
	lgN := (len(b) - 2*ss) / (2 * ps)
	if lgN >= 32 {
		return nil, fmt.Errorf("%w: %d rounds", ErrProofLength, lgN)
	}

	LVec := make([]group.Point, lgN)
	RVec := make([]group.Point, lgN)
	for i := 0; i < lgN; i++ {
		pos := 2 * i * ps
		L, err := readPoint(g, b[pos:])
		if err != nil {
			return nil, err
		}
		R, err := readPoint(g, b[pos+ps:])
		if err != nil {
			return nil, err
		}
		LVec[i], RVec[i] = L, R
	}

	pos := 2 * lgN * ps
	a, err := readScalar(g, b[pos:])
	if err != nil {
		return nil, err
	}
	bs, err := readScalar(g, b[pos+ss:])
	if err != nil {
		return nil, err
	}
	return &InnerProductProof{LVec: LVec, RVec: RVec, A: a, B: bs}, nil
}

func readPoint(g group.Group, b []byte) (group.Point, error) {
	p, err := g.NewPoint().SetCanonicalBytes(b[:g.PointSize()])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPoint, err)
	}
	return p, nil
}

func readScalar(g group.Group, b []byte) (group.Scalar, error) {
	s, err := g.NewScalar().SetCanonicalBytes(b[:g.ScalarSize()])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScalar, err)
	}
	return s, nil
}
