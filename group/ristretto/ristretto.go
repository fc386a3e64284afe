// Package ristretto implements group over github.com/bwesterb/go-ristretto.
// It is the default backend and produces the same encodings as
// curve25519-dalek's ristretto module.
package ristretto

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
	rist "github.com/bwesterb/go-ristretto"
)

// Group is stateless; the zero value is ready to use.
type Group struct{}

var _ group.Group = Group{}

func (Group) Name() string    { return "ristretto" }
func (Group) ScalarSize() int { return 32 }
func (Group) PointSize() int  { return 32 }

func (Group) NewScalar() group.Scalar {
	var s Scalar
	s.s.SetZero()
	return &s
}

func (Group) NewPoint() group.Point {
	var p Point
	p.p.SetZero()
	return &p
}

// little endian encoding of the group order
var order = [32]byte{
	0xed, 0xd3, 0xf5, 0x5c, 0x1a, 0x63, 0x12, 0x58,
	0xd6, 0x9c, 0xf7, 0xa2, 0xde, 0xf9, 0xde, 0x14,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00,
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x10,
}

func isReduced(a *[32]byte) bool {
	for n := 31; n >= 0; n-- {
		if a[n] < order[n] {
			return true
		} else if a[n] > order[n] {
			return false
		}
	}
	return false
}

type Scalar struct {
	s rist.Scalar
}

func sc(a group.Scalar) *rist.Scalar {
	return &a.(*Scalar).s
}

func (s *Scalar) Set(a group.Scalar) group.Scalar {
	s.s = *sc(a)
	return s
}

func (s *Scalar) Zero() group.Scalar {
	s.s.SetZero()
	return s
}

func (s *Scalar) One() group.Scalar {
	s.s.SetOne()
	return s
}

func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	s.s.SetBytes(&buf)
	return s
}

func (s *Scalar) SetUniformBytes(b []byte) group.Scalar {
	if len(b) != group.UniformBytes {
		panic(fmt.Sprintf("ristretto: SetUniformBytes input length %d", len(b)))
	}
	var buf [64]byte
	copy(buf[:], b)
	s.s.SetReduced(&buf)
	return s
}

func (s *Scalar) SetCanonicalBytes(b []byte) (group.Scalar, error) {
	if len(b) != 32 {
		return nil, group.ErrInvalidScalarEncoding
	}
	var buf [32]byte
	copy(buf[:], b)
	if !isReduced(&buf) {
		return nil, group.ErrInvalidScalarEncoding
	}
	s.s.SetBytes(&buf)
	return s, nil
}

func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.s.Add(sc(a), sc(b))
	return s
}

func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.s.Sub(sc(a), sc(b))
	return s
}

func (s *Scalar) Neg(a group.Scalar) group.Scalar {
	var zero rist.Scalar
	zero.SetZero()
	s.s.Sub(&zero, sc(a))
	return s
}

func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.s.Mul(sc(a), sc(b))
	return s
}

func (s *Scalar) Invert(a group.Scalar) group.Scalar {
	var inv rist.Scalar
	inv.Inverse(sc(a))
	s.s = inv
	return s
}

func (s *Scalar) Equal(b group.Scalar) bool {
	return s.s.Equals(sc(b))
}

func (s *Scalar) IsZero() bool {
	var zero rist.Scalar
	zero.SetZero()
	return s.s.Equals(&zero)
}

func (s *Scalar) Bytes() []byte {
	return s.s.Bytes()
}

type Point struct {
	p rist.Point
}

func pt(p group.Point) *rist.Point {
	return &p.(*Point).p
}

var identityBytes [32]byte

func (p *Point) Set(q group.Point) group.Point {
	p.p = *pt(q)
	return p
}

func (p *Point) Identity() group.Point {
	p.p.SetZero()
	return p
}

func (p *Point) Base() group.Point {
	p.p.SetBase()
	return p
}

func (p *Point) SetUniformBytes(b []byte) group.Point {
	if len(b) != group.UniformBytes {
		panic(fmt.Sprintf("ristretto: SetUniformBytes input length %d", len(b)))
	}
	var r1Bytes, r2Bytes [32]byte
	copy(r1Bytes[:], b[:32])
	copy(r2Bytes[:], b[32:])
	var r1, r2 rist.Point
	p.p.Add(r1.SetElligator(&r1Bytes), r2.SetElligator(&r2Bytes))
	return p
}

func (p *Point) SetCanonicalBytes(b []byte) (group.Point, error) {
	if len(b) != 32 {
		return nil, group.ErrInvalidPointEncoding
	}
	var buf [32]byte
	copy(buf[:], b)
	var r rist.Point
	if !r.SetBytes(&buf) || !bytes.Equal(r.Bytes(), buf[:]) {
		return nil, group.ErrInvalidPointEncoding
	}
	p.p = r
	return p, nil
}

func (p *Point) Add(a, b group.Point) group.Point {
	p.p.Add(pt(a), pt(b))
	return p
}

func (p *Point) Sub(a, b group.Point) group.Point {
	var neg rist.Point
	neg.Neg(pt(b))
	p.p.Add(pt(a), &neg)
	return p
}

func (p *Point) Neg(a group.Point) group.Point {
	p.p.Neg(pt(a))
	return p
}

func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	var r rist.Point
	r.ScalarMult(pt(q), sc(s))
	p.p = r
	return p
}

func (p *Point) ScalarBaseMult(s group.Scalar) group.Point {
	p.p.ScalarMultBase(sc(s))
	return p
}

func (p *Point) MultiScalarMult(scalars []group.Scalar, points []group.Point) group.Point {
	if len(scalars) != len(points) {
		panic(fmt.Sprintf("ristretto: MultiScalarMult lengths %d, %d", len(scalars), len(points)))
	}
	var acc rist.Point
	acc.SetZero()
	for i := range scalars {
		var t rist.Point
		t.ScalarMult(pt(points[i]), sc(scalars[i]))
		acc.Add(&acc, &t)
	}
	p.p = acc
	return p
}

func (p *Point) Equal(q group.Point) bool {
	return bytes.Equal(p.p.Bytes(), pt(q).Bytes())
}

func (p *Point) IsIdentity() bool {
	return bytes.Equal(p.p.Bytes(), identityBytes[:])
}

func (p *Point) Bytes() []byte {
	return p.p.Bytes()
}
