package bulletproofs

import (
	"encoding/binary"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/gtank/merlin"
)

// Transcript is a merlin transcript with the labels used by range proofs
// and inner product arguments. A Transcript belongs to one proof session.
type Transcript struct {
	t *merlin.Transcript
}

func NewTranscript(label string) *Transcript {
	return &Transcript{t: merlin.NewTranscript(label)}
}

func (t *Transcript) RangeProofDomainSep(n, m uint64) {
	t.AppendMessage("dom-sep", []byte("rangeproof v1"))
	t.AppendUint64("n", n)
	t.AppendUint64("m", m)
}

func (t *Transcript) InnerProductDomainSep(n uint64) {
	t.AppendMessage("dom-sep", []byte("ipp v1"))
	t.AppendUint64("n", n)
}

func (t *Transcript) AppendMessage(label string, message []byte) {
	t.t.AppendMessage([]byte(label), message)
}

func (t *Transcript) AppendUint64(label string, v uint64) {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	t.AppendMessage(label, buf[:])
}

func (t *Transcript) AppendScalar(label string, s group.Scalar) {
	t.AppendMessage(label, s.Bytes())
}

func (t *Transcript) AppendPoint(label string, p group.Point) {
	t.AppendMessage(label, p.Bytes())
}

// ValidateAndAppendPoint appends p unless it is the identity.
func (t *Transcript) ValidateAndAppendPoint(label string, p group.Point) error {
	if p.IsIdentity() {
		return ErrVerification
	}
	t.AppendPoint(label, p)
	return nil
}

func (t *Transcript) ExtractBytes(label string, n int) []byte {
	return t.t.ExtractBytes([]byte(label), n)
}

// ChallengeScalar reduces 64 bytes of transcript output modulo the group order.
func (t *Transcript) ChallengeScalar(g group.Group, label string) group.Scalar {
	return g.NewScalar().SetUniformBytes(t.ExtractBytes(label, group.UniformBytes))
}
