package runner

import (
	"fmt"
	"strings"
	"time"
)

// Objective says whether higher or lower scores are better.
type Objective int

const (
	Maximize Objective = iota
	Minimize
)

func ParseObjective(s string) (Objective, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "max", "maximize":
		return Maximize, nil
	case "min", "minimize":
		return Minimize, nil
	default:
		return Maximize, fmt.Errorf("unknown objective %q (want max or min)", s)
	}
}

func (o Objective) String() string {
	if o == Minimize {
		return "min"
	}
	return "max"
}

// Score is a solver score. Valid scores are positive; the zero value means
// "no score".
type Score uint64

func (s Score) Valid() bool { return s > 0 }

// TestStep is one subprocess invocation of a test case. Args, Dir and the
// three I/O paths may contain {SEED} and {SEED04} placeholders.
type TestStep struct {
	Program     string
	Args        []string
	Dir         string
	Stdin       string
	Stdout      string
	Stderr      string
	OS          string
	MeasureTime bool
}

// CompileStep runs once before the parallel phase.
type CompileStep struct {
	Program string
	Args    []string
	Dir     string
	OS      string
}

type TestCase struct {
	Seed      uint64
	Reference Score
	Objective Objective
}

func NewTestCase(seed uint64, reference Score, objective Objective) TestCase {
	return TestCase{Seed: seed, Reference: reference, Objective: objective}
}

// RelativeScore compares score against the reference as a percentage,
// respecting the objective. Without a reference it is 100.
func (tc TestCase) RelativeScore(score Score) float64 {
	if !tc.Reference.Valid() {
		return 100.0
	}
	if tc.Objective == Minimize {
		return float64(tc.Reference) / float64(score) * 100.0
	}
	return float64(score) / float64(tc.Reference) * 100.0
}

// IsBest reports whether score ties or beats the reference.
func (tc TestCase) IsBest(score Score) bool {
	if !score.Valid() {
		return false
	}
	if !tc.Reference.Valid() {
		return true
	}
	if tc.Objective == Minimize {
		return score <= tc.Reference
	}
	return score >= tc.Reference
}

// CaseResult is the outcome of one test case. Exactly one of Score (valid)
// and Message (non-empty) is set; build it with NewSuccess or NewFailure.
type CaseResult struct {
	TestCase      TestCase
	Score         Score
	Message       string
	RelativeScore float64
	ExecutionTime time.Duration
}

func NewSuccess(tc TestCase, score Score, elapsed time.Duration) CaseResult {
	return CaseResult{
		TestCase:      tc,
		Score:         score,
		RelativeScore: tc.RelativeScore(score),
		ExecutionTime: elapsed,
	}
}

func NewFailure(tc TestCase, message string, elapsed time.Duration) CaseResult {
	return CaseResult{
		TestCase:      tc,
		Message:       message,
		ExecutionTime: elapsed,
	}
}

func (r CaseResult) Seed() uint64 { return r.TestCase.Seed }

func (r CaseResult) Accepted() bool { return r.Score.Valid() }

// IsBest reports whether the result should replace the stored best score.
func (r CaseResult) IsBest() bool { return r.TestCase.IsBest(r.Score) }

// BuildTestCases creates one case per seed in [start, end).
func BuildTestCases(start, end uint64, best map[uint64]Score, objective Objective) []TestCase {
	if end <= start {
		return nil
	}
	cases := make([]TestCase, 0, min(end-start, MaxCaseCount))
	for seed := start; seed < end; seed++ {
		cases = append(cases, NewTestCase(seed, best[seed], objective))
	}
	return cases
}
