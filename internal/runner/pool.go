package runner

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/shirou/gopsutil/v3/cpu"
	"golang.org/x/sync/errgroup"
)

// CaseFunc turns a test case into its result. It must not return errors;
// per-case failures are part of the result.
type CaseFunc func(ctx context.Context, tc TestCase) CaseResult

// Pool runs test cases on a fixed number of workers.
type Pool struct {
	results chan CaseResult
	err     error
}

// ResolveThreads returns n when positive and otherwise the number of
// physical cores, falling back to logical cores.
func ResolveThreads(n int) int {
	if n > 0 {
		return n
	}
	if physical, err := cpu.Counts(false); err == nil && physical > 0 {
		return physical
	}
	return max(runtime.NumCPU(), 1)
}

// RunPool starts maxWorkers workers over cases. Results arrive on
// Results() in completion order; the channel closes after the last case.
func RunPool(ctx context.Context, maxWorkers int, cases []TestCase, run CaseFunc) *Pool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	if maxWorkers > len(cases) {
		maxWorkers = max(len(cases), 1)
	}

	jobs := make(chan TestCase, len(cases))
	for _, tc := range cases {
		jobs <- tc
	}
	close(jobs)

	p := &Pool{results: make(chan CaseResult, maxWorkers)}
	var g errgroup.Group
	for range maxWorkers {
		g.Go(func() (err error) {
			var current TestCase
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: seed %d: %v\n%s", ErrWorkerPanic, current.Seed, r, debug.Stack())
				}
			}()
			for tc := range jobs {
				current = tc
				p.results <- run(ctx, tc)
			}
			return nil
		})
	}
	go func() {
		p.err = g.Wait()
		close(p.results)
	}()
	return p
}

func (p *Pool) Results() <-chan CaseResult { return p.results }

// Err reports a worker panic. Only valid once Results() is closed.
func (p *Pool) Err() error { return p.err }
