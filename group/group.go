// Package group defines the prime-order group capabilities the range proof
// protocol is written against. Backends live in the subpackages.
//
// All setters follow the receiver-setting convention of math/big and
// go-ristretto: v.Add(a, b) sets v = a + b and returns v. Arguments may
// alias the receiver.
package group

import (
	"errors"
	"fmt"
	"io"
)

var (
	ErrInvalidScalarEncoding = errors.New("group: invalid scalar encoding")
	ErrInvalidPointEncoding  = errors.New("group: invalid point encoding")
)

// UniformBytes is the input length of the wide-reduction and
// hash-to-group maps.
const UniformBytes = 64

type Scalar interface {
	Set(a Scalar) Scalar
	Zero() Scalar
	One() Scalar
	SetUint64(v uint64) Scalar
	// SetUniformBytes reduces 64 little-endian bytes modulo the group order.
	SetUniformBytes(b []byte) Scalar
	// SetCanonicalBytes rejects anything but the canonical encoding.
	SetCanonicalBytes(b []byte) (Scalar, error)

	Add(a, b Scalar) Scalar
	Sub(a, b Scalar) Scalar
	Neg(a Scalar) Scalar
	Mul(a, b Scalar) Scalar
	Invert(a Scalar) Scalar

	Equal(b Scalar) bool
	IsZero() bool
	Bytes() []byte
}

type Point interface {
	Set(p Point) Point
	Identity() Point
	Base() Point
	// SetUniformBytes maps 64 uniform bytes to a point with no known
	// discrete log relation to any other output.
	SetUniformBytes(b []byte) Point
	SetCanonicalBytes(b []byte) (Point, error)

	Add(p, q Point) Point
	Sub(p, q Point) Point
	Neg(p Point) Point
	ScalarMult(s Scalar, p Point) Point
	ScalarBaseMult(s Scalar) Point
	// MultiScalarMult sets v = sum(scalars[i] * points[i]). It is
	// variable time and only used on public data.
	MultiScalarMult(scalars []Scalar, points []Point) Point

	Equal(q Point) bool
	IsIdentity() bool
	Bytes() []byte
}

type Group interface {
	Name() string
	ScalarSize() int
	PointSize() int
	NewScalar() Scalar
	NewPoint() Point
}

// RandomScalar samples a uniform scalar from rand.
func RandomScalar(g Group, rand io.Reader) (Scalar, error) {
	var buf [UniformBytes]byte
	if _, err := io.ReadFull(rand, buf[:]); err != nil {
		return nil, fmt.Errorf("group: random scalar: %w", err)
	}
	return g.NewScalar().SetUniformBytes(buf[:]), nil
}

// RandomScalars fills n scalars from rand.
func RandomScalars(g Group, rand io.Reader, n int) ([]Scalar, error) {
	out := make([]Scalar, n)
	for i := range out {
		s, err := RandomScalar(g, rand)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

func Clone(s Scalar, g Group) Scalar {
	return g.NewScalar().Set(s)
}

func ClonePoint(p Point, g Group) Point {
	return g.NewPoint().Set(p)
}
