package bulletproofs

import (
	"fmt"

	"github.com/MixinNetwork/bulletproofs-go/group"
)

// ScalarExp iterates over the powers of X, starting at 1.
type ScalarExp struct {
	X        group.Scalar
	NextExpX group.Scalar
	g        group.Group
}

func NewScalarExp(g group.Group, x group.Scalar) *ScalarExp {
	return &ScalarExp{
		X:        x,
		NextExpX: g.NewScalar().One(),
		g:        g,
	}
}

func (s *ScalarExp) Next() group.Scalar {
	out := group.Clone(s.NextExpX, s.g)
	s.NextExpX.Mul(s.NextExpX, s.X)
	return out
}

// Take returns the next n powers.
func (s *ScalarExp) Take(n int) []group.Scalar {
	out := make([]group.Scalar, n)
	for i := range out {
		out[i] = s.Next()
	}
	return out
}

// VecPoly1 is the vector polynomial As + Bs*x.
type VecPoly1 struct {
	As []group.Scalar
	Bs []group.Scalar
}

func ZeroVecPoly1(g group.Group, n int) *VecPoly1 {
	vec := &VecPoly1{As: make([]group.Scalar, n), Bs: make([]group.Scalar, n)}
	for i := 0; i < n; i++ {
		vec.As[i] = g.NewScalar()
		vec.Bs[i] = g.NewScalar()
	}
	return vec
}

func (v *VecPoly1) InnerProduct(g group.Group, rhs *VecPoly1) *Poly2 {
	t0 := innerProduct(g, v.As, rhs.As)
	t2 := innerProduct(g, v.Bs, rhs.Bs)

	l0PlusL1 := addVec(g, v.As, v.Bs)
	r0PlusR1 := addVec(g, rhs.As, rhs.Bs)

	t1 := innerProduct(g, l0PlusL1, r0PlusR1)
	t1.Sub(t1, t0)
	t1.Sub(t1, t2)

	return &Poly2{
		A: t0,
		B: t1,
		C: t2,
	}
}

func (v *VecPoly1) Eval(g group.Group, x group.Scalar) []group.Scalar {
	out := make([]group.Scalar, len(v.As))
	for i := range v.As {
		r := g.NewScalar().Mul(v.Bs[i], x)
		out[i] = r.Add(v.As[i], r)
	}
	return out
}

// Poly2 is A + B*x + C*x^2.
type Poly2 struct {
	A group.Scalar
	B group.Scalar
	C group.Scalar
}

// self.A + x * (self.B + x * self.C)
func (p *Poly2) Eval(g group.Group, x group.Scalar) group.Scalar {
	r := g.NewScalar().Mul(x, p.C)
	r.Add(p.B, r)
	r.Mul(x, r)
	return r.Add(p.A, r)
}

func ScalarExpVartime(g group.Group, x group.Scalar, n uint64) group.Scalar {
	result := g.NewScalar().One()
	aux := group.Clone(x, g)

	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, aux)
		}
		n = n >> 1
		aux.Mul(aux, aux)
	}
	return result
}

// SumOfPowers returns 1 + x + ... + x^(n-1).
func SumOfPowers(g group.Group, x group.Scalar, n int) group.Scalar {
	sum := g.NewScalar()
	exp := NewScalarExp(g, x)
	for i := 0; i < n; i++ {
		sum.Add(sum, exp.Next())
	}
	return sum
}

func innerProduct(g group.Group, a, b []group.Scalar) group.Scalar {
	if len(a) != len(b) {
		panic(fmt.Sprintf("innerProduct lengths of vectors do not match %d, %d", len(a), len(b)))
	}

	out := g.NewScalar()
	r := g.NewScalar()
	for i := range a {
		out.Add(out, r.Mul(a[i], b[i]))
	}
	return out
}

func addVec(g group.Group, a, b []group.Scalar) []group.Scalar {
	if len(a) != len(b) {
		panic(fmt.Sprintf("addVec lengths of vectors do not match %d, %d", len(a), len(b)))
	}

	out := make([]group.Scalar, len(a))
	for i := range a {
		out[i] = g.NewScalar().Add(a[i], b[i])
	}
	return out
}

func cloneScalars(g group.Group, v []group.Scalar) []group.Scalar {
	out := make([]group.Scalar, len(v))
	for i := range v {
		out[i] = group.Clone(v[i], g)
	}
	return out
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func checkBitsize(n int) error {
	switch n {
	case 8, 16, 32, 64:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrInvalidBitsize, n)
	}
}

func checkValueRange(v uint64, n int) error {
	if n < 64 && v>>uint(n) != 0 {
		return fmt.Errorf("%w: %d does not fit in %d bits", ErrValueOutOfRange, v, n)
	}
	return nil
}
