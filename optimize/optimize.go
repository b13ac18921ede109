package optimize

import "github.com/shader3d/compiler/ir"

// Options configures the fixpoint driver.
type Options struct {
	Level               int // 0..3, per spec.md 4.7
	MaxIterations       int // default 10
	InlineSizeThreshold int // default defaultInlineSizeThreshold
	UnrollThreshold     int // default defaultUnrollThreshold
}

// Stats aggregates pass counters across every iteration the driver ran,
// per spec.md 4.7: "Statistics aggregate across iterations."
type Stats struct {
	Iterations          int
	ConstantsFolded     int
	AlgebraicSimplified int
	DeadCodeEliminated  int
	CSEEliminated       int
	StrengthReduced     int
	PeepholeRewrites    int
	Inlined             int
	LICMHoisted         int
	Unrolled            int
}

// pass is one registered optimizer pass: a level gate, a name for
// diagnostics, and the rewrite function itself.
type pass struct {
	name     string
	minLevel int
	run      func(*ir.Module, Options) (changed bool, count int)
	record   func(*Stats, int)
}

var passOrder = []pass{
	{"constant-folding", 1, func(m *ir.Module, _ Options) (bool, int) { return constantFoldPass(m) }, func(s *Stats, n int) { s.ConstantsFolded += n }},
	{"algebraic-simplification", 1, func(m *ir.Module, _ Options) (bool, int) { return algebraicPass(m) }, func(s *Stats, n int) { s.AlgebraicSimplified += n }},
	{"dead-code-elimination", 1, func(m *ir.Module, _ Options) (bool, int) { return dcePass(m) }, func(s *Stats, n int) { s.DeadCodeEliminated += n }},
	{"common-subexpression-elimination", 2, func(m *ir.Module, _ Options) (bool, int) { return csePass(m) }, func(s *Stats, n int) { s.CSEEliminated += n }},
	{"strength-reduction", 2, func(m *ir.Module, _ Options) (bool, int) { return strengthReductionPass(m) }, func(s *Stats, n int) { s.StrengthReduced += n }},
	{"peephole", 2, func(m *ir.Module, _ Options) (bool, int) { return peepholePass(m) }, func(s *Stats, n int) { s.PeepholeRewrites += n }},
	{"inlining", 3, func(m *ir.Module, o Options) (bool, int) { return inliningPass(m, o.InlineSizeThreshold) }, func(s *Stats, n int) { s.Inlined += n }},
	{"loop-invariant-code-motion", 3, func(m *ir.Module, _ Options) (bool, int) { return licmPass(m) }, func(s *Stats, n int) { s.LICMHoisted += n }},
	{"loop-unrolling", 3, func(m *ir.Module, o Options) (bool, int) { return unrollPass(m, o.UnrollThreshold) }, func(s *Stats, n int) { s.Unrolled += n }},
}

// Run drives the ordered pass list to a fixpoint, mutating m in place
// and returning aggregated statistics. Terminates when an entire
// iteration makes no change, or after opts.MaxIterations iterations —
// Testable Property 4: the driver always terminates within that cap.
func Run(m *ir.Module, opts Options) Stats {
	maxIter := opts.MaxIterations
	if maxIter <= 0 {
		maxIter = 10
	}

	var stats Stats
	for iter := 0; iter < maxIter; iter++ {
		stats.Iterations++
		anyChanged := false
		for _, p := range passOrder {
			if opts.Level < p.minLevel {
				continue
			}
			changed, count := p.run(m, opts)
			if changed {
				anyChanged = true
			}
			p.record(&stats, count)
		}
		if !anyChanged {
			break
		}
	}
	return stats
}
