package bulletproofs

import (
	"encoding/binary"
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"golang.org/x/crypto/sha3"
)

// PedersenGens commits to a value with B and to the blinding factor with
// BBlinding.
type PedersenGens struct {
	Group     group.Group
	B         group.Point
	BBlinding group.Point
}

func NewPedersenGens(g group.Group, B, BBlinding group.Point) *PedersenGens {
	return &PedersenGens{
		Group:     g,
		B:         group.ClonePoint(B, g),
		BBlinding: group.ClonePoint(BBlinding, g),
	}
}

// DefaultPedersenGens uses the group base point for B and hashes its
// encoding with SHA3-512 onto the group for BBlinding.
func DefaultPedersenGens(g group.Group) *PedersenGens {
	base := g.NewPoint().Base()

	h := sha3.New512()
	h.Write(base.Bytes())

	return &PedersenGens{
		Group:     g,
		B:         base,
		BBlinding: g.NewPoint().SetUniformBytes(h.Sum(nil)),
	}
}

func (pg *PedersenGens) Commit(value, blinding group.Scalar) group.Point {
	return pg.Group.NewPoint().MultiScalarMult([]group.Scalar{value, blinding}, []group.Point{pg.B, pg.BBlinding})
}

func (pg *PedersenGens) CommitUint64(value uint64, blinding group.Scalar) group.Point {
	return pg.Commit(pg.Group.NewScalar().SetUint64(value), blinding)
}

// BulletproofGens holds GensCapacity generators for each of PartyCapacity
// parties. It must not be grown while other goroutines read it.
type BulletproofGens struct {
	Group         group.Group
	GensCapacity  int
	PartyCapacity int
	GVec          [][]group.Point
	HVec          [][]group.Point
}

func NewBulletproofGens(g group.Group, gensCapacity, partyCapacity int) (*BulletproofGens, error) {
	if gensCapacity <= 0 || partyCapacity <= 0 {
		return nil, fmt.Errorf("%w: capacities %d, %d", ErrInvalidGeneratorsLength, gensCapacity, partyCapacity)
	}
	b := &BulletproofGens{
		Group:         g,
		GensCapacity:  0,
		PartyCapacity: partyCapacity,
		GVec:          make([][]group.Point, partyCapacity),
		HVec:          make([][]group.Point, partyCapacity),
	}
	b.IncreaseCapacity(gensCapacity)
	return b, nil
}

func partyLabel(prefix byte, i int) []byte {
	label := make([]byte, 5)
	label[0] = prefix
	binary.LittleEndian.PutUint32(label[1:], uint32(i))
	return label
}

// IncreaseCapacity extends every party's chain so that the result is the
// same as constructing with the larger capacity. Shrinking is a no-op.
func (b *BulletproofGens) IncreaseCapacity(capacity int) {
	if b.GensCapacity >= capacity {
		return
	}
	for i := 0; i < b.PartyCapacity; i++ {
		chainG := NewGeneratorsChain(partyLabel('G', i))
		chainG.FastForward(b.GensCapacity)
		for j := b.GensCapacity; j < capacity; j++ {
			b.GVec[i] = append(b.GVec[i], chainG.Next(b.Group))
		}

		chainH := NewGeneratorsChain(partyLabel('H', i))
		chainH.FastForward(b.GensCapacity)
		for j := b.GensCapacity; j < capacity; j++ {
			b.HVec[i] = append(b.HVec[i], chainH.Next(b.Group))
		}
	}
	b.GensCapacity = capacity
}

func (b *BulletproofGens) check(n, m int) error {
	if n > b.GensCapacity {
		return fmt.Errorf("%w: gens capacity %d, n %d", ErrInvalidGeneratorsLength, b.GensCapacity, n)
	}
	if m > b.PartyCapacity {
		return fmt.Errorf("%w: party capacity %d, m %d", ErrInvalidGeneratorsLength, b.PartyCapacity, m)
	}
	return nil
}

// G returns the first n generators of each of the first m parties,
// party-major.
func (b *BulletproofGens) G(n, m int) ([]group.Point, error) {
	return b.aggregated(b.GVec, n, m)
}

func (b *BulletproofGens) H(n, m int) ([]group.Point, error) {
	return b.aggregated(b.HVec, n, m)
}

func (b *BulletproofGens) aggregated(vec [][]group.Point, n, m int) ([]group.Point, error) {
	if err := b.check(n, m); err != nil {
		return nil, err
	}
	out := make([]group.Point, 0, n*m)
	for j := 0; j < m; j++ {
		out = append(out, vec[j][:n]...)
	}
	return out, nil
}

type BulletproofGensShare struct {
	Gens  *BulletproofGens
	Share int
}

func (b *BulletproofGens) Share(j int) (*BulletproofGensShare, error) {
	if j < 0 || j >= b.PartyCapacity {
		return nil, fmt.Errorf("%w: party capacity %d, share %d", ErrInvalidGeneratorsLength, b.PartyCapacity, j)
	}
	return &BulletproofGensShare{
		Gens:  b,
		Share: j,
	}, nil
}

func (s *BulletproofGensShare) G(n int) []group.Point {
	return s.Gens.GVec[s.Share][:n]
}

func (s *BulletproofGensShare) H(n int) []group.Point {
	return s.Gens.HVec[s.Share][:n]
}

// GeneratorsChain is the SHAKE256 stream of 64-byte blocks mapped onto the
// group, keyed by a party label.
type GeneratorsChain struct {
	sha3.ShakeHash
}

func NewGeneratorsChain(label []byte) *GeneratorsChain {
	h := sha3.NewShake256()
	h.Write([]byte("GeneratorsChain"))
	h.Write(label)
	return &GeneratorsChain{h}
}

func (c *GeneratorsChain) FastForward(n int) {
	var data [group.UniformBytes]byte
	for i := 0; i < n; i++ {
		c.Read(data[:])
	}
}

func (c *GeneratorsChain) Next(g group.Group) group.Point {
	var data [group.UniformBytes]byte
	c.Read(data[:])
	return g.NewPoint().SetUniformBytes(data[:])
}
