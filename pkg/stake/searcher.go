package stake

import (
	"context"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/iotaledger/zerostake/pkg/model"
)

// ErrNoKernelFound is returned if none of the candidates meets the target.
var ErrNoKernelFound = ierrors.New("no candidate meets the target")

// Result is a stake input whose kernel meets the target.
type Result struct {
	Input      Input
	KernelHash model.Identifier
}

// Searcher scans stake candidates for a kernel that meets the target.
type Searcher struct {
	kernel *Kernel

	optsWorkers int
}

func NewSearcher(kernel *Kernel, opts ...options.Option[Searcher]) *Searcher {
	return options.Apply(&Searcher{
		kernel:      kernel,
		optsWorkers: runtime.NumCPU(),
	}, opts)
}

// Search shards the candidates over the workers and returns the first input that meets the target. The
// search stops between two candidates once ctx is done.
func (s *Searcher) Search(ctx context.Context, candidates []Input, bits uint32, candidateTime int64) (*Result, error) {
	searchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := s.optsWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var found atomic.Pointer[Result]
	group, groupCtx := errgroup.WithContext(searchCtx)
	for shard := 0; shard < workers; shard++ {
		group.Go(func() error {
			for i := shard; i < len(candidates); i += workers {
				if groupCtx.Err() != nil {
					return nil
				}

				kernelHash, err := s.kernel.Check(candidates[i], bits, candidateTime)
				if err != nil {
					if IsExpectedFailure(err) {
						continue
					}

					return err
				}

				if found.CompareAndSwap(nil, &Result{Input: candidates[i], KernelHash: kernelHash}) {
					cancel()
				}

				return nil
			}

			return nil
		})
	}

	err := group.Wait()
	if result := found.Load(); result != nil {
		return result, nil
	}

	if err != nil {
		return nil, err
	}

	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	return nil, ErrNoKernelFound
}

// WithWorkers sets the number of candidates checked in parallel.
func WithWorkers(workers int) options.Option[Searcher] {
	return func(s *Searcher) {
		if workers > 0 {
			s.optsWorkers = workers
		}
	}
}
