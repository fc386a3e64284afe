package bulletproofs

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/MixinNetwork/bulletproofs-go/group"
	"golang.org/x/sync/errgroup"
)

// BatchItem is one independent proof with its value commitments.
type BatchItem struct {
	Proof       *RangeProof
	Commitments []group.Point
	N           int
}

// BatchError reports the lowest-indexed item that failed.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("bulletproofs: batch item %d: %v", e.Index, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}

// VerifyBatch verifies every item in parallel, each against a fresh
// transcript created with label. Generators are shared read-only.
func VerifyBatch(ctx context.Context, bp *BulletproofGens, pc *PedersenGens, label string, items []BatchItem) error {
	routines := runtime.NumCPU()
	if len(items) < routines {
		routines = len(items)
	}

	errs := make([]error, len(items))
	var counter atomic.Uint64
	eg, ctx := errgroup.WithContext(ctx)
	for r := 0; r < routines; r++ {
		eg.Go(func() error {
			for {
				if err := ctx.Err(); err != nil {
					return err
				}
				i := counter.Add(1)
				if i > uint64(len(items)) {
					return nil
				}
				item := items[i-1]
				errs[i-1] = item.Proof.VerifyMultiple(bp, pc, NewTranscript(label), item.Commitments, item.N)
			}
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}

	for i, err := range errs {
		if err != nil {
			return &BatchError{Index: i, Err: err}
		}
	}
	return nil
}
