// Package r255 implements group over github.com/gtank/ristretto255.
// Encodings match package ristretto byte for byte; multiscalar
// multiplication uses the library's variable-time Straus implementation.
package r255

import (
	"encoding/binary"
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/gtank/ristretto255"
)

type Group struct{}

var _ group.Group = Group{}

func (Group) Name() string    { return "r255" }
func (Group) ScalarSize() int { return 32 }
func (Group) PointSize() int  { return 32 }

func (Group) NewScalar() group.Scalar {
	return &Scalar{s: ristretto255.NewScalar().Zero()}
}

func (Group) NewPoint() group.Point {
	return &Point{e: ristretto255.NewElement().Zero()}
}

type Scalar struct {
	s *ristretto255.Scalar
}

func sc(a group.Scalar) *ristretto255.Scalar {
	return a.(*Scalar).s
}

func (s *Scalar) Set(a group.Scalar) group.Scalar {
	*s.s = *sc(a)
	return s
}

func (s *Scalar) Zero() group.Scalar {
	s.s.Zero()
	return s
}

func (s *Scalar) One() group.Scalar {
	return s.SetUint64(1)
}

func (s *Scalar) SetUint64(v uint64) group.Scalar {
	var buf [32]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	if err := s.s.Decode(buf[:]); err != nil {
		panic(fmt.Sprintf("r255: SetUint64 %d: %v", v, err))
	}
	return s
}

func (s *Scalar) SetUniformBytes(b []byte) group.Scalar {
	if len(b) != group.UniformBytes {
		panic(fmt.Sprintf("r255: SetUniformBytes input length %d", len(b)))
	}
	s.s.FromUniformBytes(b)
	return s
}

func (s *Scalar) SetCanonicalBytes(b []byte) (group.Scalar, error) {
	if len(b) != 32 {
		return nil, group.ErrInvalidScalarEncoding
	}
	t := ristretto255.NewScalar()
	if err := t.Decode(b); err != nil {
		return nil, group.ErrInvalidScalarEncoding
	}
	*s.s = *t
	return s, nil
}

func (s *Scalar) Add(a, b group.Scalar) group.Scalar {
	s.s.Add(sc(a), sc(b))
	return s
}

func (s *Scalar) Sub(a, b group.Scalar) group.Scalar {
	s.s.Subtract(sc(a), sc(b))
	return s
}

func (s *Scalar) Neg(a group.Scalar) group.Scalar {
	s.s.Negate(sc(a))
	return s
}

func (s *Scalar) Mul(a, b group.Scalar) group.Scalar {
	s.s.Multiply(sc(a), sc(b))
	return s
}

func (s *Scalar) Invert(a group.Scalar) group.Scalar {
	inv := ristretto255.NewScalar().Invert(sc(a))
	*s.s = *inv
	return s
}

func (s *Scalar) Equal(b group.Scalar) bool {
	return s.s.Equal(sc(b)) == 1
}

func (s *Scalar) IsZero() bool {
	return s.s.Equal(ristretto255.NewScalar().Zero()) == 1
}

func (s *Scalar) Bytes() []byte {
	return s.s.Encode(nil)
}

type Point struct {
	e *ristretto255.Element
}

func pt(p group.Point) *ristretto255.Element {
	return p.(*Point).e
}

func (p *Point) Set(q group.Point) group.Point {
	*p.e = *pt(q)
	return p
}

func (p *Point) Identity() group.Point {
	p.e.Zero()
	return p
}

func (p *Point) Base() group.Point {
	p.e.Base()
	return p
}

func (p *Point) SetUniformBytes(b []byte) group.Point {
	if len(b) != group.UniformBytes {
		panic(fmt.Sprintf("r255: SetUniformBytes input length %d", len(b)))
	}
	p.e.FromUniformBytes(b)
	return p
}

func (p *Point) SetCanonicalBytes(b []byte) (group.Point, error) {
	if len(b) != 32 {
		return nil, group.ErrInvalidPointEncoding
	}
	e := ristretto255.NewElement()
	if err := e.Decode(b); err != nil {
		return nil, group.ErrInvalidPointEncoding
	}
	*p.e = *e
	return p, nil
}

func (p *Point) Add(a, b group.Point) group.Point {
	p.e.Add(pt(a), pt(b))
	return p
}

func (p *Point) Sub(a, b group.Point) group.Point {
	p.e.Subtract(pt(a), pt(b))
	return p
}

func (p *Point) Neg(a group.Point) group.Point {
	p.e.Negate(pt(a))
	return p
}

func (p *Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	r := ristretto255.NewElement().ScalarMult(sc(s), pt(q))
	*p.e = *r
	return p
}

func (p *Point) ScalarBaseMult(s group.Scalar) group.Point {
	p.e.ScalarBaseMult(sc(s))
	return p
}

func (p *Point) MultiScalarMult(scalars []group.Scalar, points []group.Point) group.Point {
	if len(scalars) != len(points) {
		panic(fmt.Sprintf("r255: MultiScalarMult lengths %d, %d", len(scalars), len(points)))
	}
	ss := make([]*ristretto255.Scalar, len(scalars))
	ps := make([]*ristretto255.Element, len(points))
	for i := range scalars {
		ss[i] = sc(scalars[i])
		ps[i] = pt(points[i])
	}
	r := ristretto255.NewElement().VarTimeMultiScalarMult(ss, ps)
	*p.e = *r
	return p
}

func (p *Point) Equal(q group.Point) bool {
	return p.e.Equal(pt(q)) == 1
}

func (p *Point) IsIdentity() bool {
	return p.e.Equal(ristretto255.NewElement().Zero()) == 1
}

func (p *Point) Bytes() []byte {
	return p.e.Encode(nil)
}
