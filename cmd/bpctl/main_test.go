package main

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	bulletproofs "github.com/MixinNetwork/bulletproofs-go"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, name string, args ...string) (map[string]any, error) {
	var buf bytes.Buffer
	cmd := rootCMD()
	cmd.SetOut(&buf)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(append([]string{name}, args...))
	err := cmd.Execute()
	if err != nil {
		return nil, err
	}
	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	return out, nil
}

func strs(v any) []string {
	var out []string
	for _, s := range v.([]any) {
		out = append(out, s.(string))
	}
	return out
}

func TestProveVerify(t *testing.T) {
	assert := assert.New(t)

	for _, backend := range []string{"ristretto", "r255"} {
		common := []string{"--backend", backend, "--bits", "32", "--gens", "32", "--parties", "2", "--label", "cli"}

		out, err := run(t, "prove", append(common, "10", "4294967295")...)
		require.NoError(t, err)
		proof := out["proof"].(string)
		commitments := strs(out["commitments"])
		assert.Len(commitments, 2)
		assert.Len(strs(out["blindings"]), 2)

		out, err = run(t, "verify", append(append(common, "--proof", proof), commitments...)...)
		require.NoError(t, err)
		assert.Equal(true, out["valid"])

		_, err = run(t, "verify", append(common, "--proof", proof, commitments[1], commitments[0])...)
		assert.ErrorIs(err, bulletproofs.ErrVerification)

		_, err = run(t, "verify", append(append(common, "--label", "other", "--proof", proof), commitments...)...)
		assert.ErrorIs(err, bulletproofs.ErrVerification)
		_, err = run(t, "verify", commitments...)
		assert.Error(err)

		_, err = run(t, "prove", append(common, "4294967296")...)
		assert.ErrorIs(err, bulletproofs.ErrValueOutOfRange)
		_, err = run(t, "prove", common...)
		assert.Error(err)
	}
}

func TestRewindCommands(t *testing.T) {
	assert := assert.New(t)
	common := []string{"--bits", "64", "--gens", "64", "--parties", "1", "--label", "cli-rewind"}

	rewindKey, err := run(t, "keygen")
	require.NoError(t, err)
	blindingKey, err := run(t, "keygen")
	require.NoError(t, err)

	out, err := run(t, "prove", append(common,
		"--rewind-key", rewindKey["private_key"].(string),
		"--blinding-key", blindingKey["private_key"].(string),
		"--message", "hello", "77")...)
	require.NoError(t, err)
	proof := out["proof"].(string)
	commitment := strs(out["commitments"])[0]
	blinding := strs(out["blindings"])[0]

	public, err := run(t, "nonces",
		"--commitment", commitment,
		"--pub-rewind-key", rewindKey["public_key"].(string),
		"--pub-blinding-key", blindingKey["public_key"].(string))
	require.NoError(t, err)
	assert.NotContains(public, "blinding_nonce_1")

	out, err = run(t, "rewind", append(common,
		"--proof", proof,
		"--commitment", commitment,
		"--rewind-nonce-1", public["rewind_nonce_1"].(string),
		"--rewind-nonce-2", public["rewind_nonce_2"].(string))...)
	require.NoError(t, err)
	assert.Equal(float64(77), out["value"])
	assert.True(strings.HasPrefix(out["message"].(string), "68656c6c6f00"))

	private, err := run(t, "nonces",
		"--commitment", commitment,
		"--rewind-key", rewindKey["private_key"].(string),
		"--blinding-key", blindingKey["private_key"].(string))
	require.NoError(t, err)
	assert.Equal(public["rewind_nonce_1"], private["rewind_nonce_1"])
	assert.Equal(public["rewind_nonce_2"], private["rewind_nonce_2"])

	out, err = run(t, "rewind", append(common,
		"--proof", proof,
		"--commitment", commitment,
		"--rewind-nonce-1", private["rewind_nonce_1"].(string),
		"--rewind-nonce-2", private["rewind_nonce_2"].(string),
		"--blinding-nonce-1", private["blinding_nonce_1"].(string),
		"--blinding-nonce-2", private["blinding_nonce_2"].(string))...)
	require.NoError(t, err)
	assert.Equal(float64(77), out["value"])
	assert.Equal(blinding, out["blinding"])

	_, err = run(t, "rewind", append(common,
		"--proof", proof,
		"--commitment", commitment,
		"--rewind-nonce-1", private["rewind_nonce_1"].(string),
		"--rewind-nonce-2", private["rewind_nonce_2"].(string),
		"--blinding-nonce-1", private["blinding_nonce_2"].(string),
		"--blinding-nonce-2", private["blinding_nonce_1"].(string))...)
	assert.True(errors.Is(err, bulletproofs.ErrInvalidCommitmentExtracted))
}

func TestGensCommand(t *testing.T) {
	assert := assert.New(t)

	out, err := run(t, "gens", "--gens", "8", "--parties", "2", "--party", "1", "--count", "16")
	require.NoError(t, err)
	assert.Equal("ristretto", out["backend"])
	assert.Equal("e2f2ae0a6abc4e71a884a961c500515f58e30b6aa582dd8db6a65945e08d2d76", out["B"])
	assert.Equal("8c9240b456a9e6dc65c377a1048d745f94a08cdb7f44cbcd7b46f34048871134", out["B_blinding"])
	assert.Len(strs(out["G"]), 8)
	assert.Len(strs(out["H"]), 8)

	_, err = run(t, "gens", "--backend", "p256")
	assert.Error(err)
	_, err = run(t, "gens", "--parties", "2", "--party", "2")
	assert.ErrorIs(err, bulletproofs.ErrConfiguration)
	_, err = run(t, "sign")
	assert.Error(err)
}
