package main

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	bulletproofs "github.com/MixinNetwork/bulletproofs-go"
	"github.com/MixinNetwork/bulletproofs-go/group"
	"github.com/MixinNetwork/bulletproofs-go/group/r255"
	"github.com/MixinNetwork/bulletproofs-go/group/ristretto"
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	hex "github.com/tmthrgd/go-hex"
)

type options struct {
	label   string
	bits    int
	parties int
	gens    int
	backend string
}

func (o *options) group() (group.Group, error) {
	switch o.backend {
	case "ristretto":
		return ristretto.Group{}, nil
	case "r255":
		return r255.Group{}, nil
	default:
		return nil, fmt.Errorf("unknown backend %q", o.backend)
	}
}

func (o *options) setup() (group.Group, *bulletproofs.BulletproofGens, *bulletproofs.PedersenGens, error) {
	g, err := o.group()
	if err != nil {
		return nil, nil, nil, err
	}
	bp, err := bulletproofs.CachedBulletproofGens(g, o.gens, o.parties)
	if err != nil {
		return nil, nil, nil, err
	}
	return g, bp, bulletproofs.DefaultPedersenGens(g), nil
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("bpctl: ")

	if err := rootCMD().Execute(); err != nil {
		log.Fatal(err)
	}
}

// rootCMD builds the bpctl command tree
func rootCMD() *cobra.Command {
	o := &options{}
	rootCmd := &cobra.Command{
		Use:           "bpctl",
		Short:         "Bulletproofs range proof tool",
		Long:          "Create, verify and rewind bulletproofs range proofs over ristretto255",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&o.label, "label", "bpctl", "transcript label shared by prover and verifier")
	flags.IntVar(&o.bits, "bits", 64, "range size in bits (8, 16, 32 or 64)")
	flags.IntVar(&o.parties, "parties", 8, "generator party capacity")
	flags.IntVar(&o.gens, "gens", 64, "generator capacity per party")
	flags.StringVar(&o.backend, "backend", "ristretto", "group backend (ristretto or r255)")

	// random private key and its public key
	rootCmd.AddCommand(keygenCMD(o))

	// Pedersen generators and the first bulletproof generators of a party
	rootCmd.AddCommand(gensCMD(o))

	rootCmd.AddCommand(proveCMD(o))
	rootCmd.AddCommand(verifyCMD(o))

	// rewind nonces derived from keys and a commitment
	rootCmd.AddCommand(noncesCMD(o))

	rootCmd.AddCommand(rewindCMD(o))

	return rootCmd
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

func parseScalar(g group.Group, name, s string) (group.Scalar, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	sc, err := g.NewScalar().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return sc, nil
}

func parsePoint(g group.Group, name, s string) (group.Point, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	p, err := g.NewPoint().SetCanonicalBytes(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return p, nil
}

func keygenCMD(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a random private key and its public key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := o.group()
			if err != nil {
				return err
			}
			key, err := group.RandomScalar(g, rand.Reader)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]string{
				"private_key": hex.EncodeToString(key.Bytes()),
				"public_key":  hex.EncodeToString(g.NewPoint().ScalarBaseMult(key).Bytes()),
			})
		},
	}
}

func gensCMD(o *options) *cobra.Command {
	var party, count int
	cmd := &cobra.Command{
		Use:   "gens",
		Short: "Print the Pedersen generators and the first bulletproof generators",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, bp, pc, err := o.setup()
			if err != nil {
				return err
			}
			share, err := bp.Share(party)
			if err != nil {
				return err
			}
			if count > bp.GensCapacity {
				count = bp.GensCapacity
			}
			out := struct {
				Backend   string   `json:"backend"`
				B         string   `json:"B"`
				BBlinding string   `json:"B_blinding"`
				G         []string `json:"G"`
				H         []string `json:"H"`
			}{Backend: g.Name(), B: hex.EncodeToString(pc.B.Bytes()), BBlinding: hex.EncodeToString(pc.BBlinding.Bytes())}
			for _, p := range share.G(count) {
				out.G = append(out.G, hex.EncodeToString(p.Bytes()))
			}
			for _, p := range share.H(count) {
				out.H = append(out.H, hex.EncodeToString(p.Bytes()))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().IntVar(&party, "party", 0, "party whose generators are printed")
	cmd.Flags().IntVar(&count, "count", 4, "number of generators printed")
	return cmd
}

type proveOutput struct {
	Proof       string   `json:"proof"`
	Commitments []string `json:"commitments"`
	Blindings   []string `json:"blindings"`
}

func proveCMD(o *options) *cobra.Command {
	var blindingsStr, rewindKeyStr, blindingKeyStr, message string
	cmd := &cobra.Command{
		Use:   "prove VALUE...",
		Short: "Prove that the values fit in --bits bits",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, bp, pc, err := o.setup()
			if err != nil {
				return err
			}

			values := make([]uint64, len(args))
			for i, a := range args {
				values[i], err = strconv.ParseUint(a, 10, 64)
				if err != nil {
					return fmt.Errorf("value %d: %w", i, err)
				}
			}

			var blindings []group.Scalar
			if blindingsStr != "" {
				for i, s := range strings.Split(blindingsStr, ",") {
					b, err := parseScalar(g, fmt.Sprintf("blinding %d", i), s)
					if err != nil {
						return err
					}
					blindings = append(blindings, b)
				}
			} else {
				blindings, err = group.RandomScalars(g, rand.Reader, len(values))
				if err != nil {
					return err
				}
			}

			t := bulletproofs.NewTranscript(o.label)
			var proof *bulletproofs.RangeProof
			var commitments []group.Point
			if rewindKeyStr != "" || blindingKeyStr != "" {
				if len(values) != 1 || len(blindings) != 1 {
					return errors.New("rewindable proofs hold exactly one value")
				}
				if len(message) > bulletproofs.ProofMessageSize {
					return fmt.Errorf("message longer than %d bytes", bulletproofs.ProofMessageSize)
				}
				rk, err := parseScalar(g, "rewind-key", rewindKeyStr)
				if err != nil {
					return err
				}
				bk, err := parseScalar(g, "blinding-key", blindingKeyStr)
				if err != nil {
					return err
				}
				var msg [bulletproofs.ProofMessageSize]byte
				copy(msg[:], message)
				var V group.Point
				proof, V, err = bulletproofs.ProveSingleWithRewindKey(bp, pc, t, values[0], blindings[0], o.bits, rk, bk, msg)
				if err != nil {
					return err
				}
				commitments = []group.Point{V}
			} else {
				proof, commitments, err = bulletproofs.ProveMultiple(bp, pc, t, values, blindings, o.bits)
				if err != nil {
					return err
				}
			}

			out := proveOutput{Proof: hex.EncodeToString(proof.ToBytes())}
			for i := range commitments {
				out.Commitments = append(out.Commitments, hex.EncodeToString(commitments[i].Bytes()))
				out.Blindings = append(out.Blindings, hex.EncodeToString(blindings[i].Bytes()))
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&blindingsStr, "blindings", "", "comma separated hex blinding factors, random when empty")
	flags.StringVar(&rewindKeyStr, "rewind-key", "", "hex private rewind key; makes the proof rewindable")
	flags.StringVar(&blindingKeyStr, "blinding-key", "", "hex private blinding key for rewindable proofs")
	flags.StringVar(&message, "message", "", "up to 23 bytes embedded in a rewindable proof")
	return cmd
}

func verifyCMD(o *options) *cobra.Command {
	var proofStr string
	cmd := &cobra.Command{
		Use:   "verify COMMITMENT...",
		Short: "Verify --proof against the commitments",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, bp, pc, err := o.setup()
			if err != nil {
				return err
			}
			b, err := hex.DecodeString(proofStr)
			if err != nil {
				return fmt.Errorf("proof: %w", err)
			}
			proof, err := bulletproofs.RangeProofFromBytes(g, b)
			if err != nil {
				return err
			}
			commitments := make([]group.Point, len(args))
			for i, a := range args {
				commitments[i], err = parsePoint(g, fmt.Sprintf("commitment %d", i), a)
				if err != nil {
					return err
				}
			}

			err = proof.VerifyMultiple(bp, pc, bulletproofs.NewTranscript(o.label), commitments, o.bits)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]bool{"valid": true})
		},
	}
	cmd.Flags().StringVar(&proofStr, "proof", "", "hex encoded proof")
	_ = cmd.MarkFlagRequired("proof")
	return cmd
}

func noncesCMD(o *options) *cobra.Command {
	var commitmentStr, rewindKeyStr, blindingKeyStr, pubRewindKeyStr, pubBlindingKeyStr string
	cmd := &cobra.Command{
		Use:   "nonces",
		Short: "Derive the rewind nonces of --commitment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := o.group()
			if err != nil {
				return err
			}
			commitment, err := parsePoint(g, "commitment", commitmentStr)
			if err != nil {
				return err
			}

			var n *bulletproofs.RewindNonces
			if rewindKeyStr != "" {
				rk, err := parseScalar(g, "rewind-key", rewindKeyStr)
				if err != nil {
					return err
				}
				bk, err := parseScalar(g, "blinding-key", blindingKeyStr)
				if err != nil {
					return err
				}
				n = bulletproofs.NewRewindNonces(g, rk, bk, commitment)
			} else {
				rk, err := parsePoint(g, "pub-rewind-key", pubRewindKeyStr)
				if err != nil {
					return err
				}
				bk, err := parsePoint(g, "pub-blinding-key", pubBlindingKeyStr)
				if err != nil {
					return err
				}
				n = bulletproofs.NewPublicRewindNonces(g, rk, bk, commitment)
			}

			out := map[string]string{
				"rewind_nonce_1": hex.EncodeToString(n.Rewind1.Bytes()),
				"rewind_nonce_2": hex.EncodeToString(n.Rewind2.Bytes()),
			}
			if n.Blinding1 != nil {
				out["blinding_nonce_1"] = hex.EncodeToString(n.Blinding1.Bytes())
				out["blinding_nonce_2"] = hex.EncodeToString(n.Blinding2.Bytes())
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&commitmentStr, "commitment", "", "hex value commitment")
	flags.StringVar(&rewindKeyStr, "rewind-key", "", "hex private rewind key")
	flags.StringVar(&blindingKeyStr, "blinding-key", "", "hex private blinding key")
	flags.StringVar(&pubRewindKeyStr, "pub-rewind-key", "", "hex public rewind key")
	flags.StringVar(&pubBlindingKeyStr, "pub-blinding-key", "", "hex public blinding key")
	return cmd
}

type rewindOutput struct {
	Value    uint64 `json:"value"`
	Message  string `json:"message"`
	Blinding string `json:"blinding,omitempty"`
}

func rewindCMD(o *options) *cobra.Command {
	var proofStr, commitmentStr, rn1, rn2, bn1, bn2 string
	cmd := &cobra.Command{
		Use:   "rewind",
		Short: "Recover the value and message, and with blinding nonces the blinding, from --proof",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, bp, pc, err := o.setup()
			if err != nil {
				return err
			}
			b, err := hex.DecodeString(proofStr)
			if err != nil {
				return fmt.Errorf("proof: %w", err)
			}
			proof, err := bulletproofs.RangeProofFromBytes(g, b)
			if err != nil {
				return err
			}
			commitment, err := parsePoint(g, "commitment", commitmentStr)
			if err != nil {
				return err
			}
			rewind1, err := parseScalar(g, "rewind-nonce-1", rn1)
			if err != nil {
				return err
			}
			rewind2, err := parseScalar(g, "rewind-nonce-2", rn2)
			if err != nil {
				return err
			}

			t := bulletproofs.NewTranscript(o.label)
			if bn1 == "" {
				value, message, err := proof.RewindSingleGetValueOnly(bp, t, commitment, o.bits, rewind1, rewind2)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), rewindOutput{Value: value, Message: hex.EncodeToString(message[:])})
			}

			blinding1, err := parseScalar(g, "blinding-nonce-1", bn1)
			if err != nil {
				return err
			}
			blinding2, err := parseScalar(g, "blinding-nonce-2", bn2)
			if err != nil {
				return err
			}
			value, blinding, message, err := proof.RewindSingleGetCommitmentData(bp, pc, t, commitment, o.bits, rewind1, rewind2, blinding1, blinding2)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), rewindOutput{
				Value:    value,
				Message:  hex.EncodeToString(message[:]),
				Blinding: hex.EncodeToString(blinding.Bytes()),
			})
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&proofStr, "proof", "", "hex encoded single-value proof")
	flags.StringVar(&commitmentStr, "commitment", "", "hex value commitment")
	flags.StringVar(&rn1, "rewind-nonce-1", "", "hex rewind nonce 1")
	flags.StringVar(&rn2, "rewind-nonce-2", "", "hex rewind nonce 2")
	flags.StringVar(&bn1, "blinding-nonce-1", "", "hex blinding nonce 1; enables the checked extraction")
	flags.StringVar(&bn2, "blinding-nonce-2", "", "hex blinding nonce 2")
	return cmd
}
