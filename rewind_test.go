package bulletproofs

import (
	"testing"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/MixinNetwork/bulletproofs-go/group/ristretto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRewind(t *testing.T, g group.Group, n int, value uint64) {
	assert := assert.New(t)
	rng := newTestRNG(14)
	bp, pc := testGens(t, g, 64, 1)

	pvtRewindKey := randomScalar(t, g, rng)
	pvtBlindingKey := randomScalar(t, g, rng)
	pubRewindKey := g.NewPoint().ScalarBaseMult(pvtRewindKey)
	pubBlindingKey := g.NewPoint().ScalarBaseMult(pvtBlindingKey)
	blinding := randomScalar(t, g, rng)

	var message [ProofMessageSize]byte
	for i := range message {
		message[i] = byte(i + 1)
	}

	proof, V, err := ProveSingleWithRewindKeyWithRNG(bp, pc, NewTranscript("Bulletproof-Rewind Test"), value, blinding, n, pvtRewindKey, pvtBlindingKey, message, rng)
	require.NoError(t, err)
	assert.True(V.Equal(pc.CommitUint64(value, blinding)))

	// a rewindable proof is an ordinary range proof
	assert.NoError(proof.VerifySingle(bp, pc, NewTranscript("Bulletproof-Rewind Test"), V, n))
	decoded, err := RangeProofFromBytes(g, proof.ToBytes())
	require.NoError(t, err)

	public := NewPublicRewindNonces(g, pubRewindKey, pubBlindingKey, V)
	v, msg, err := decoded.RewindSingleGetValueOnly(bp, NewTranscript("Bulletproof-Rewind Test"), V, n, public.Rewind1, public.Rewind2)
	require.NoError(t, err)
	assert.Equal(value, v)
	assert.Equal(message, msg)

	nonces := NewRewindNonces(g, pvtRewindKey, pvtBlindingKey, V)
	assert.True(nonces.Rewind1.Equal(public.Rewind1))
	assert.True(nonces.Rewind2.Equal(public.Rewind2))
	v, gamma, msg, err := decoded.RewindSingleGetCommitmentData(bp, pc, NewTranscript("Bulletproof-Rewind Test"), V, n, nonces.Rewind1, nonces.Rewind2, nonces.Blinding1, nonces.Blinding2)
	require.NoError(t, err)
	assert.Equal(value, v)
	assert.True(gamma.Equal(blinding))
	assert.Equal(message, msg)

	// wrong keys give garbage, and the commitment check catches it
	wrongKey := randomScalar(t, g, rng)
	wrong := NewRewindNonces(g, wrongKey, pvtBlindingKey, V)
	v, msg, err = decoded.RewindSingleGetValueOnly(bp, NewTranscript("Bulletproof-Rewind Test"), V, n, wrong.Rewind1, wrong.Rewind2)
	assert.NoError(err)
	assert.False(v == value && msg == message)
	_, _, _, err = decoded.RewindSingleGetCommitmentData(bp, pc, NewTranscript("Bulletproof-Rewind Test"), V, n, wrong.Rewind1, wrong.Rewind2, wrong.Blinding1, wrong.Blinding2)
	assert.ErrorIs(err, ErrInvalidCommitmentExtracted)
	_, _, _, err = decoded.RewindSingleGetCommitmentData(bp, pc, NewTranscript("Other"), V, n, nonces.Rewind1, nonces.Rewind2, nonces.Blinding1, nonces.Blinding2)
	assert.ErrorIs(err, ErrInvalidCommitmentExtracted)
}

func TestRewind(t *testing.T) {
	for _, g := range backends {
		t.Run(g.Name()+"/64", func(t *testing.T) {
			testRewind(t, g, 64, 123456789)
		})
		t.Run(g.Name()+"/32", func(t *testing.T) {
			testRewind(t, g, 32, 1<<32-1)
		})
	}
}

func TestRewindSingleWrongNonce(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		rng := newTestRNG(23)
		bp, pc := testGens(t, g, 64, 1)
		rewindKey, blindingKey := randomScalar(t, g, rng), randomScalar(t, g, rng)
		message := [ProofMessageSize]byte{'r', 'e', 'w', 'i', 'n', 'd'}
		proof, V, err := ProveSingleWithRewindKeyWithRNG(bp, pc, NewTranscript("single nonce"), 424242, randomScalar(t, g, rng), 64, rewindKey, blindingKey, message, rng)
		require.NoError(t, err)
		nonces := NewRewindNonces(g, rewindKey, blindingKey, V)

		cases := []struct {
			name   string
			mutate func(n *RewindNonces)
		}{
			{"rewind1", func(n *RewindNonces) { n.Rewind1 = randomScalar(t, g, rng) }},
			{"rewind2", func(n *RewindNonces) { n.Rewind2 = randomScalar(t, g, rng) }},
			{"blinding1", func(n *RewindNonces) { n.Blinding1 = randomScalar(t, g, rng) }},
			{"blinding2", func(n *RewindNonces) { n.Blinding2 = randomScalar(t, g, rng) }},
		}
		for _, c := range cases {
			wrong := *nonces
			c.mutate(&wrong)
			v, _, _, err := proof.RewindSingleGetCommitmentData(bp, pc, NewTranscript("single nonce"), V, 64, wrong.Rewind1, wrong.Rewind2, wrong.Blinding1, wrong.Blinding2)
			assert.ErrorIs(err, ErrInvalidCommitmentExtracted, c.name)
			assert.Equal(uint64(0), v, c.name)
		}

		// the value-only path has no commitment check
		wrongRewind2 := randomScalar(t, g, rng)
		v, msg, err := proof.RewindSingleGetValueOnly(bp, NewTranscript("single nonce"), V, 64, nonces.Rewind1, wrongRewind2)
		assert.NoError(err)
		assert.NotEqual(uint64(424242), v)
		assert.NotEqual(message, msg)

		v, msg, err = proof.RewindSingleGetValueOnly(bp, NewTranscript("single nonce"), V, 64, nonces.Rewind1, nonces.Rewind2)
		assert.NoError(err)
		assert.Equal(uint64(424242), v)
		assert.Equal(message, msg)
	}
}

func TestRewindNonces(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		rng := newTestRNG(15)
		key := randomScalar(t, g, rng)
		V := g.NewPoint().ScalarBaseMult(randomScalar(t, g, rng))
		pub := g.NewPoint().ScalarBaseMult(key)

		assert.True(RewindNonceFromPrivateKey(g, key, V).Equal(RewindNonceFromPublicKey(g, pub, V)))
		assert.False(RewindNonceFromPrivateKey(g, key, V).Equal(SecretNonceFromPrivateKey(g, key, V)))
		other := g.NewPoint().Add(V, g.NewPoint().Base())
		assert.False(RewindNonceFromPublicKey(g, pub, V).Equal(RewindNonceFromPublicKey(g, pub, other)))

		public := NewPublicRewindNonces(g, pub, pub, V)
		assert.Nil(public.Blinding1)
		assert.Nil(public.Blinding2)
	}

	a := RewindNonceFromPublicKey(ristretto.Group{}, ristretto.Group{}.NewPoint().Base(), ristretto.Group{}.NewPoint().Base())
	for _, g := range backends {
		b := RewindNonceFromPublicKey(g, g.NewPoint().Base(), g.NewPoint().Base())
		assert.Equal(a.Bytes(), b.Bytes())
	}
}

func TestRewindData(t *testing.T) {
	assert := assert.New(t)

	for _, g := range backends {
		var message [ProofMessageSize]byte
		for i := range message {
			message[i] = 0xff
		}
		s := encodeRewindData(g, ^uint64(0), message)
		assert.Equal(byte(0), s.Bytes()[31])
		v, msg := decodeRewindData(s)
		assert.Equal(^uint64(0), v)
		assert.Equal(message, msg)

		v, msg = decodeRewindData(encodeRewindData(g, 42, [ProofMessageSize]byte{}))
		assert.Equal(uint64(42), v)
		assert.Equal([ProofMessageSize]byte{}, msg)
	}
}

func TestRewindErrors(t *testing.T) {
	assert := assert.New(t)
	g := ristretto.Group{}
	rng := newTestRNG(16)
	bp, pc := testGens(t, g, 32, 1)
	key := randomScalar(t, g, rng)

	_, _, err := ProveSingleWithRewindKey(bp, pc, NewTranscript("rewind"), 256, randomScalar(t, g, rng), 8, key, key, [ProofMessageSize]byte{})
	assert.ErrorIs(err, ErrValueOutOfRange)
	_, _, err = ProveSingleWithRewindKey(bp, pc, NewTranscript("rewind"), 1, randomScalar(t, g, rng), 64, key, key, [ProofMessageSize]byte{})
	assert.ErrorIs(err, ErrInvalidGeneratorsLength)

	proof, V, err := ProveSingleWithRewindKeyWithRNG(bp, pc, NewTranscript("rewind"), 9, randomScalar(t, g, rng), 16, key, key, [ProofMessageSize]byte{}, rng)
	require.NoError(t, err)
	nonces := NewRewindNonces(g, key, key, V)
	_, _, err = proof.RewindSingleGetValueOnly(bp, NewTranscript("rewind"), V, 12, nonces.Rewind1, nonces.Rewind2)
	assert.ErrorIs(err, ErrInvalidBitsize)
	_, _, err = proof.RewindSingleGetValueOnly(bp, NewTranscript("rewind"), V, 64, nonces.Rewind1, nonces.Rewind2)
	assert.ErrorIs(err, ErrInvalidGeneratorsLength)

	proof.A = g.NewPoint()
	_, _, err = proof.RewindSingleGetValueOnly(bp, NewTranscript("rewind"), V, 16, nonces.Rewind1, nonces.Rewind2)
	assert.ErrorIs(err, ErrVerification)
}
