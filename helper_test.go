package bulletproofs

import (
	"bytes"
	"testing"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/MixinNetwork/bulletproofs-go/group/r255"
	"github.com/MixinNetwork/bulletproofs-go/group/ristretto"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20"
)

var backends = []group.Group{ristretto.Group{}, r255.Group{}}

// testRNG is a deterministic chacha20 keystream.
type testRNG struct {
	c *chacha20.Cipher
}

func newTestRNG(seed byte) *testRNG {
	key := bytes.Repeat([]byte{seed}, chacha20.KeySize)
	nonce := make([]byte, chacha20.NonceSize)
	c, err := chacha20.NewUnauthenticatedCipher(key, nonce)
	if err != nil {
		panic(err)
	}
	return &testRNG{c: c}
}

func (r *testRNG) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	r.c.XORKeyStream(p, p)
	return len(p), nil
}

func randomScalar(t *testing.T, g group.Group, rng *testRNG) group.Scalar {
	s, err := group.RandomScalar(g, rng)
	require.NoError(t, err)
	return s
}

func randomScalars(t *testing.T, g group.Group, rng *testRNG, n int) []group.Scalar {
	s, err := group.RandomScalars(g, rng, n)
	require.NoError(t, err)
	return s
}

func testGens(t *testing.T, g group.Group, gensCapacity, partyCapacity int) (*BulletproofGens, *PedersenGens) {
	bp, err := NewBulletproofGens(g, gensCapacity, partyCapacity)
	require.NoError(t, err)
	return bp, DefaultPedersenGens(g)
}
