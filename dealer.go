package bulletproofs

import (
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

// DealerAwaitingBitCommitments aggregates the bit commitments of M parties
// proving N-bit ranges. Initial is a transcript in the state T was in before
// the dealer started; it is only needed by ReceiveShares and may be nil.
type DealerAwaitingBitCommitments struct {
	BPGens            *BulletproofGens
	PCGens            *PedersenGens
	Transcript        *Transcript
	InitialTranscript *Transcript
	N, M              int
}

func NewDealer(bp *BulletproofGens, pc *PedersenGens, initial, t *Transcript, n, m int) (*DealerAwaitingBitCommitments, error) {
	if err := checkBitsize(n); err != nil {
		return nil, err
	}
	if !isPowerOfTwo(m) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidAggregation, m)
	}
	if err := bp.check(n, m); err != nil {
		return nil, err
	}

	t.RangeProofDomainSep(uint64(n), uint64(m))

	return &DealerAwaitingBitCommitments{
		BPGens:            bp,
		PCGens:            pc,
		Transcript:        t,
		InitialTranscript: initial,
		N:                 n,
		M:                 m,
	}, nil
}

type DealerAwaitingPolyCommitments struct {
	N, M              int
	Transcript        *Transcript
	InitialTranscript *Transcript
	BPGens            *BulletproofGens
	PCGens            *PedersenGens
	BitChallenge      *BitChallenge
	BitCommitments    []*BitCommitment
	A                 group.Point
	S                 group.Point
}

func (d *DealerAwaitingBitCommitments) ReceiveBitCommitments(commitments []*BitCommitment) (*DealerAwaitingPolyCommitments, *BitChallenge, error) {
	if d.M != len(commitments) {
		return nil, nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongNumBitCommitments, d.M, len(commitments))
	}
	g := d.BPGens.Group

	A := g.NewPoint()
	S := g.NewPoint()
	for _, c := range commitments {
		d.Transcript.AppendPoint("V", c.VJ)
		A.Add(A, c.AJ)
		S.Add(S, c.SJ)
	}
	d.Transcript.AppendPoint("A", A)
	d.Transcript.AppendPoint("S", S)

	challenge := &BitChallenge{
		Y: d.Transcript.ChallengeScalar(g, "y"),
		Z: d.Transcript.ChallengeScalar(g, "z"),
	}

	return &DealerAwaitingPolyCommitments{
		N:                 d.N,
		M:                 d.M,
		Transcript:        d.Transcript,
		InitialTranscript: d.InitialTranscript,
		BPGens:            d.BPGens,
		PCGens:            d.PCGens,
		BitChallenge:      challenge,
		BitCommitments:    commitments,
		A:                 A,
		S:                 S,
	}, challenge, nil
}

func (d *DealerAwaitingPolyCommitments) ReceivePolyCommitments(commitments []*PolyCommitment) (*DealerAwaitingProofShares, *PolyChallenge, error) {
	if d.M != len(commitments) {
		return nil, nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongNumPolyCommitments, d.M, len(commitments))
	}
	g := d.BPGens.Group

	T1 := g.NewPoint()
	T2 := g.NewPoint()
	for _, c := range commitments {
		T1.Add(T1, c.T1j)
		T2.Add(T2, c.T2j)
	}
	d.Transcript.AppendPoint("T_1", T1)
	d.Transcript.AppendPoint("T_2", T2)

	challenge := &PolyChallenge{X: d.Transcript.ChallengeScalar(g, "x")}
	return &DealerAwaitingProofShares{
		N:                 d.N,
		M:                 d.M,
		Transcript:        d.Transcript,
		InitialTranscript: d.InitialTranscript,
		BPGens:            d.BPGens,
		PCGens:            d.PCGens,
		BitChallenge:      d.BitChallenge,
		BitCommitments:    d.BitCommitments,
		A:                 d.A,
		S:                 d.S,
		PolyChallenge:     challenge,
		PolyCommitments:   commitments,
		T1:                T1,
		T2:                T2,
	}, challenge, nil
}

type DealerAwaitingProofShares struct {
	N, M              int
	Transcript        *Transcript
	InitialTranscript *Transcript
	BPGens            *BulletproofGens
	PCGens            *PedersenGens
	BitChallenge      *BitChallenge
	BitCommitments    []*BitCommitment
	A                 group.Point
	S                 group.Point
	PolyChallenge     *PolyChallenge
	PolyCommitments   []*PolyCommitment
	T1, T2            group.Point
}

// AssembleShares combines the shares into a proof without checking them.
// Use it only when every party is trusted.
func (d *DealerAwaitingProofShares) AssembleShares(proofs []*ProofShare) (*RangeProof, error) {
	if d.M != len(proofs) {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrWrongNumProofShares, d.M, len(proofs))
	}

	var badShares []int
	for j, p := range proofs {
		if err := p.checkSize(d.N, d.BPGens, j); err != nil {
			badShares = append(badShares, j)
		}
	}
	if len(badShares) > 0 {
		return nil, &MalformedProofSharesError{BadShares: badShares}
	}

	g := d.BPGens.Group
	tx, txBlinding, eBlinding := g.NewScalar(), g.NewScalar(), g.NewScalar()
	for _, p := range proofs {
		tx.Add(tx, p.TX)
		txBlinding.Add(txBlinding, p.TXBlinding)
		eBlinding.Add(eBlinding, p.EBlinding)
	}

	d.Transcript.AppendScalar("t_x", tx)
	d.Transcript.AppendScalar("t_x_blinding", txBlinding)
	d.Transcript.AppendScalar("e_blinding", eBlinding)

	w := d.Transcript.ChallengeScalar(g, "w")
	Q := g.NewPoint().ScalarMult(w, d.PCGens.B)

	nm := d.N * d.M
	gFactors := make([]group.Scalar, nm)
	for i := range gFactors {
		gFactors[i] = g.NewScalar().One()
	}
	hFactors := NewScalarExp(g, g.NewScalar().Invert(d.BitChallenge.Y)).Take(nm)

	lVec := make([]group.Scalar, 0, nm)
	rVec := make([]group.Scalar, 0, nm)
	for _, p := range proofs {
		lVec = append(lVec, p.LVec...)
		rVec = append(rVec, p.RVec...)
	}

	G, err := d.BPGens.G(d.N, d.M)
	if err != nil {
		return nil, err
	}
	H, err := d.BPGens.H(d.N, d.M)
	if err != nil {
		return nil, err
	}
	ippProof, err := CreateInnerProductProof(d.Transcript, g, Q, gFactors, hFactors, G, H, lVec, rVec)
	if err != nil {
		return nil, err
	}

	return &RangeProof{
		A:          d.A,
		S:          d.S,
		T1:         d.T1,
		T2:         d.T2,
		TX:         tx,
		TXBlinding: txBlinding,
		EBlinding:  eBlinding,
		IPPProof:   ippProof,
	}, nil
}

// ReceiveShares assembles the proof and verifies it against the initial
// transcript. If verification fails every share is audited and the
// offending parties are reported in a *MalformedProofSharesError.
func (d *DealerAwaitingProofShares) ReceiveShares(proofs []*ProofShare) (*RangeProof, error) {
	if d.InitialTranscript == nil {
		return nil, ErrMissingInitialTranscript
	}
	proof, err := d.AssembleShares(proofs)
	if err != nil {
		return nil, err
	}

	Vs := make([]group.Point, len(d.BitCommitments))
	for i, c := range d.BitCommitments {
		Vs[i] = c.VJ
	}
	if proof.VerifyMultiple(d.BPGens, d.PCGens, d.InitialTranscript, Vs, d.N) == nil {
		return proof, nil
	}

	var badShares []int
	for j := 0; j < d.M; j++ {
		err := proofs[j].AuditShare(d.BPGens, d.PCGens, j, d.BitCommitments[j], d.BitChallenge, d.PolyCommitments[j], d.PolyChallenge)
		if err != nil {
			badShares = append(badShares, j)
		}
	}
	return nil, &MalformedProofSharesError{BadShares: badShares}
}
