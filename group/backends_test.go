package group_test

import (
	"bytes"
	"crypto/sha512"
	"testing"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/MixinNetwork/bulletproofs-go/group/r255"
	"github.com/MixinNetwork/bulletproofs-go/group/ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	hex "github.com/tmthrgd/go-hex"
)

var backends = []group.Group{ristretto.Group{}, r255.Group{}}

func uniform(seed string) []byte {
	h := sha512.Sum512([]byte(seed))
	return h[:]
}

func TestScalarArithmetic(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		a := g.NewScalar().SetUniformBytes(uniform("a"))
		b := g.NewScalar().SetUniformBytes(uniform("b"))
		zero := g.NewScalar()
		one := g.NewScalar().One()

		assert.True(zero.IsZero())
		assert.False(one.IsZero())
		assert.True(g.NewScalar().Add(a, b).Equal(g.NewScalar().Add(b, a)))
		assert.True(g.NewScalar().Sub(g.NewScalar().Add(a, b), b).Equal(a))
		assert.True(g.NewScalar().Add(a, g.NewScalar().Neg(a)).IsZero())
		assert.True(g.NewScalar().Mul(a, g.NewScalar().Invert(a)).Equal(one))
		assert.True(g.NewScalar().SetUint64(6).Equal(g.NewScalar().Mul(g.NewScalar().SetUint64(2), g.NewScalar().SetUint64(3))))

		// receivers may alias arguments
		c := g.NewScalar().Set(a)
		c.Mul(c, c)
		assert.True(c.Equal(g.NewScalar().Mul(a, a)))
		c.Invert(c)
		assert.True(g.NewScalar().Mul(c, g.NewScalar().Mul(a, a)).Equal(one))

		assert.Equal(a.Bytes(), group.Clone(a, g).Bytes())
		assert.Len(a.Bytes(), g.ScalarSize())
	}
}

func TestScalarEncoding(t *testing.T) {
	assert := assert.New(t)

	order, _ := hex.DecodeString("edd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010")
	orderMinusOne, _ := hex.DecodeString("ecd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010")
	for _, g := range backends {
		_, err := g.NewScalar().SetCanonicalBytes(order)
		assert.ErrorIs(err, group.ErrInvalidScalarEncoding, g.Name())
		_, err = g.NewScalar().SetCanonicalBytes(bytes.Repeat([]byte{0xff}, 32))
		assert.ErrorIs(err, group.ErrInvalidScalarEncoding, g.Name())
		_, err = g.NewScalar().SetCanonicalBytes(make([]byte, 31))
		assert.ErrorIs(err, group.ErrInvalidScalarEncoding, g.Name())

		s, err := g.NewScalar().SetCanonicalBytes(orderMinusOne)
		require.NoError(t, err)
		assert.True(g.NewScalar().Add(s, g.NewScalar().One()).IsZero())
		assert.True(s.Equal(g.NewScalar().Neg(g.NewScalar().One())))

		// 2^256 mod l, the wide reduction of 0^32 || 1 || 0^31
		wide := make([]byte, 64)
		wide[32] = 1
		r := g.NewScalar().SetUniformBytes(wide)
		assert.Equal("1d95988d7431ecd670cf7d73f45befc6feffffffffffffffffffffffffffff0f", hex.EncodeToString(r.Bytes()))
		assert.Equal(hex.EncodeToString(g.NewScalar().SetUint64(258).Bytes()), "0201000000000000000000000000000000000000000000000000000000000000")
	}
}

func TestPointArithmetic(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		a := g.NewScalar().SetUniformBytes(uniform("a"))
		b := g.NewScalar().SetUniformBytes(uniform("b"))
		P := g.NewPoint().SetUniformBytes(uniform("P"))
		B := g.NewPoint().Base()

		assert.True(g.NewPoint().IsIdentity())
		assert.True(g.NewPoint().Set(P).Identity().IsIdentity())
		assert.Equal(make([]byte, 32), g.NewPoint().Bytes())
		assert.Equal("e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76", hex.EncodeToString(B.Bytes()))

		aB := g.NewPoint().ScalarBaseMult(a)
		assert.True(aB.Equal(g.NewPoint().ScalarMult(a, B)))
		assert.True(g.NewPoint().Sub(g.NewPoint().Add(aB, P), P).Equal(aB))
		assert.True(g.NewPoint().Add(P, g.NewPoint().Neg(P)).IsIdentity())

		expected := g.NewPoint().Add(g.NewPoint().ScalarMult(a, P), g.NewPoint().ScalarMult(b, B))
		assert.True(expected.Equal(g.NewPoint().MultiScalarMult([]group.Scalar{a, b}, []group.Point{P, B})))
		assert.True(g.NewPoint().MultiScalarMult(nil, nil).IsIdentity())

		Q := group.ClonePoint(P, g)
		Q.Add(Q, Q)
		assert.True(Q.Equal(g.NewPoint().ScalarMult(g.NewScalar().SetUint64(2), P)))
		assert.False(Q.Equal(P))
	}
}

func TestPointEncoding(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		P := g.NewPoint().SetUniformBytes(uniform("P"))
		Q, err := g.NewPoint().SetCanonicalBytes(P.Bytes())
		require.NoError(t, err)
		assert.True(P.Equal(Q))
		assert.Len(P.Bytes(), g.PointSize())
		assert.Len(g.NewPoint().Bytes(), g.PointSize())

		_, err = g.NewPoint().SetCanonicalBytes(bytes.Repeat([]byte{0xff}, 32))
		assert.ErrorIs(err, group.ErrInvalidPointEncoding, g.Name())
		_, err = g.NewPoint().SetCanonicalBytes(make([]byte, 33))
		assert.ErrorIs(err, group.ErrInvalidPointEncoding, g.Name())
		// negative field element
		neg := make([]byte, 32)
		neg[0] = 1
		_, err = g.NewPoint().SetCanonicalBytes(neg)
		assert.ErrorIs(err, group.ErrInvalidPointEncoding, g.Name())
	}
}

func TestBackendsAgree(t *testing.T) {
	assert := assert.New(t)
	a, b := backends[0], backends[1]
	assert.NotEqual(a.Name(), b.Name())

	for _, seed := range []string{"x", "y", "z"} {
		assert.Equal(
			a.NewPoint().SetUniformBytes(uniform(seed)).Bytes(),
			b.NewPoint().SetUniformBytes(uniform(seed)).Bytes(),
		)
		sa := a.NewScalar().SetUniformBytes(uniform(seed))
		sb := b.NewScalar().SetUniformBytes(uniform(seed))
		assert.Equal(sa.Bytes(), sb.Bytes())
		assert.Equal(a.NewPoint().ScalarBaseMult(sa).Bytes(), b.NewPoint().ScalarBaseMult(sb).Bytes())
		assert.Equal(a.NewScalar().Invert(sa).Bytes(), b.NewScalar().Invert(sb).Bytes())
	}
}

func TestRandomScalars(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		s, err := group.RandomScalars(g, bytes.NewReader(bytes.Repeat([]byte{7}, 128)), 2)
		require.NoError(t, err)
		assert.Len(s, 2)
		assert.True(s[0].Equal(s[1]))

		_, err = group.RandomScalar(g, bytes.NewReader(make([]byte, 10)))
		assert.Error(err)
	}
}
