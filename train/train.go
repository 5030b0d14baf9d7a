package train

import (
	"math"

	"github.com/katalvlaran/ollawv/svmcache"
)

// Cache is the subset of *svmcache.Cache the OLLAWV loop drives.
type Cache interface {
	SVCount() int32
	CurrentSize() int32
	BinaryLabel(i int32) float64
	FindWorstViolator() svmcache.WorstViolator
	SGDStep(w int32, dAlpha, dBias float64)
	PromoteSV(w int32) int32
}

// Params are the OLLAWV hyperparameters governing one binary training run.
type Params struct {
	C       float64
	Epochs  float64
	Margin  float64
	UseBias float64 // 1.0 to learn a bias term, 0.0 to keep it pinned at zero
}

// Result summarizes a completed binary training run.
type Result struct {
	Iterations int
	Converged  bool // true if the loop stopped because the margin cleared
}

// Run executes the OLLAWV loop against cache until the worst violator's
// margin clears p.Margin*p.C, or the epoch budget
// it_max = ceil(p.Epochs * current_size) is exhausted - whichever comes
// first.
//
// The loop is staggered, not single-phase: each iteration first applies the
// SGD update for the PREVIOUS iteration's worst violator, only then finds
// the new worst violator (reflecting that update) and promotes it. This
// matches AbstractSolver::trainForCache's do-while in
// _examples/original_source/osvm/src/svm/solver.h: seed worst=(0, 0.0) so
// the first SGD step fires against the virtual seed, then
// performSGDUpdate(prev) -> findWorstViolator() -> performSvUpdate(new)
// each pass.
func Run(cache Cache, p Params) Result {
	itMax := int(math.Ceil(p.Epochs * float64(cache.CurrentSize())))
	threshold := p.Margin * p.C

	worst := svmcache.WorstViolator{Index: 0, Value: 0.0}
	t := 0
	for t < itMax && worst.Value < threshold {
		t++
		eta := 2.0 / math.Sqrt(float64(t))
		dAlpha := eta * p.C * cache.BinaryLabel(worst.Index)
		dBias := (dAlpha * p.UseBias) / float64(cache.CurrentSize())
		cache.SGDStep(worst.Index, dAlpha, dBias)

		worst = cache.FindWorstViolator()
		worst.Index = cache.PromoteSV(worst.Index)
	}

	return Result{Iterations: t, Converged: worst.Value >= threshold}
}
