package cv

import (
	"math/rand"

	"github.com/katalvlaran/ollawv/pairwise"
	"github.com/katalvlaran/ollawv/svmcache"
)

// Cache is the subset of *svmcache.Cache the cross-validation driver drives.
type Cache interface {
	pairwise.Cache
	N() int32
	AddSwapListener(l svmcache.SwapListener)
}

// FoldPolicy assigns each of n positions a fold id in [0, folds), given the
// current multi-class label of every position.
type FoldPolicy interface {
	Assign(n, folds, numClasses int32, labels []int32) []int32
}

// FairFolds is the default policy: a deterministic round-robin assignment
// that spreads every class roughly evenly across folds without any
// randomness. Each label keeps its own running offset so that same-label
// samples land on folds step apart regardless of where they sit in the
// array, matching CrossValidationSolver's fair-folds constructor in
// _examples/original_source/osvm/src/svm/validation.h: per label,
// offsets[label] starts at (label*increase*step) % folds and advances by
// step (mod folds) every time that label is assigned a fold.
type FairFolds struct{}

// Assign implements FoldPolicy.
func (FairFolds) Assign(n, folds, numClasses int32, labels []int32) []int32 {
	if folds <= 0 {
		return make([]int32, n)
	}
	step := folds + 1
	increase := folds / numClasses
	if increase < 1 {
		increase = 1
	}
	offsets := make([]int32, numClasses)
	for lbl := int32(0); lbl < numClasses; lbl++ {
		offsets[lbl] = (lbl * increase * step) % folds
	}

	ids := make([]int32, n)
	for i := int32(0); i < n; i++ {
		lbl := labels[i]
		ids[i] = offsets[lbl]
		offsets[lbl] = (offsets[lbl] + step) % folds
	}
	return ids
}

// Uniform assigns folds via an explicitly seeded shuffle, for
// reproducibility across runs with the same seed. Labels are accepted only
// to satisfy FoldPolicy; this policy draws uniformly regardless of class.
type Uniform struct {
	Seed int64
}

// Assign implements FoldPolicy.
func (u Uniform) Assign(n, folds, numClasses int32, _ []int32) []int32 {
	if folds <= 0 {
		return make([]int32, n)
	}
	ids := make([]int32, n)
	for i := range ids {
		ids[i] = int32(i) % folds
	}
	rng := rand.New(rand.NewSource(u.Seed))
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	return ids
}

// foldListener keeps one or more fold-membership arrays in lock-step with
// every sample swap on the shared cache, regardless of who triggers it.
type foldListener struct {
	arrays [][]int32
}

// Notify implements svmcache.SwapListener.
func (l *foldListener) Notify(u, v int32) {
	for _, a := range l.arrays {
		a[u], a[v] = a[v], a[u]
	}
}

// Partition moves every position in [0, n) for which include reports true
// to the front, via cache.Swap, and returns the resulting count. Reused by
// package modelselect for its own pattern-search scoring passes.
func Partition(cache interface{ Swap(u, v int32) }, n int32, include func(pos int32) bool) int32 {
	i := int32(0)
	for j := int32(0); j < n; j++ {
		if !include(j) {
			continue
		}
		if i != j {
			cache.Swap(i, j)
		}
		i++
	}
	return i
}

// FoldScope owns one level of fold membership (outer or inner) over the
// shared cache. Its fold array is registered with the cache's swap listener
// at construction and stays valid under every subsequent swap, including
// ones triggered by a different FoldScope or by pairwise training.
type FoldScope struct {
	fold  []int32
	folds int32
}

// Labeler exposes each position's current multi-class label. Implemented by
// *kernel.Evaluator (via pairwise.Kernel); used only at fold-assignment time
// so FairFolds can track per-label offsets instead of per-position ones.
type Labeler interface {
	Label(i int32) int32
}

// NewFoldScope assigns fold membership over the first n positions via
// policy and registers the resulting array with cache so it travels with
// every future swap. The backing array is always sized to the cache's full
// problem, not just n, so that a swap anywhere in the problem - triggered by
// an outer scope, by a sibling scope, or by pairwise training - never
// indexes out of range; positions at or beyond n are simply never read by
// this scope's own HoldOut calls.
func NewFoldScope(cache Cache, k Labeler, n, folds, numClasses int32, policy FoldPolicy) *FoldScope {
	labels := make([]int32, n)
	for i := int32(0); i < n; i++ {
		labels[i] = k.Label(i)
	}

	assigned := policy.Assign(n, folds, numClasses, labels)
	fold := make([]int32, cache.N())
	copy(fold, assigned)

	s := &FoldScope{fold: fold, folds: folds}
	cache.AddSwapListener(&foldListener{arrays: [][]int32{s.fold}})
	return s
}

// HoldOut partitions [0, n) so that every position whose fold id is not f
// comes first; returns the resulting train-segment size, with the held-out
// fold occupying [trainSize, n). A fold count of 1 disables this level
// entirely (spec.md §6): every position counts as training data and none is
// held out.
func (s *FoldScope) HoldOut(cache Cache, n, f int32) int32 {
	if s.folds <= 1 {
		return n
	}
	return Partition(cache, n, func(pos int32) bool { return s.fold[pos] != f })
}

// Evaluate runs a full round of k-fold cross-validation over the first n
// positions: for every fold f in [0, numFolds), it holds f out, trains a
// fresh multi-class model on the rest, classifies the held-out segment, and
// accumulates accuracy. universe recursion (nested folds) works by passing
// a smaller n for an inner FoldScope built over an outer-train segment.
func Evaluate(cache Cache, k pairwise.Kernel, scope *FoldScope, n, numFolds, numClasses int32, p pairwise.Params, log func(string, ...any)) float64 {
	if log == nil {
		log = func(string, ...any) {}
	}

	var correct, total int32
	for f := int32(0); f < numFolds; f++ {
		trainSize := scope.HoldOut(cache, n, f)
		result := pairwise.Train(cache, k, trainSize, numClasses, p, log)

		for pos := trainSize; pos < n; pos++ {
			want := k.Label(pos)
			got := pairwise.Classify(k, result.Models, numClasses, pos)
			if got == want {
				correct++
			}
			total++
		}
	}

	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}
