package pairwise

import (
	"sort"

	"github.com/katalvlaran/ollawv/train"
)

// Cache is the subset of *svmcache.Cache the pairwise orchestrator drives,
// beyond what it already needs to satisfy train.Cache.
type Cache interface {
	train.Cache
	SetCurrentSize(size int32)
	Reset()
	Swap(u, v int32)
	Alpha(i int32) float64
	Bias() float64
	BackwardOrder() []int32
	ForwardOrder() []int32
}

// Kernel is the subset of *kernel.Evaluator the pairwise orchestrator and
// classifier drive.
type Kernel interface {
	SetPivot(label int32)
	SetParams(c, gamma float64)
	Label(i int32) int32
	EvalKernelPair(u, v int32) float64
}

// Model is one pair's harvested binary OLLAWV solution: a sparse expansion
// over its support vectors. After Train's final merge pass, Samples holds
// positions in the shared array's merged prefix [0, Result.MaxSVCount),
// common across every model, rather than original training sample ids -
// letting a classifier compute one kernel row over that prefix and reuse it
// across every pairwise model.
type Model struct {
	LabelP, LabelQ int32
	Bias           float64
	Alphas         []float64 // yalpha = the cache's alpha[i], which already carries binary_label(i)'s sign; one per support vector
	Samples        []int32   // merged positions in [0, MaxSVCount), parallel to Alphas
}

// Result is a trained multi-class model: every pair's Model, reindexed by
// Train's merge step into a shared contiguous prefix, plus the size of that
// prefix.
type Result struct {
	MaxSVCount int32
	Models     []Model
}

// Params are the OLLAWV hyperparameters shared by every pair in one
// training run.
type Params struct {
	C, Epochs, Margin, UseBias float64
}

// Train runs one-vs-one multi-class OLLAWV training for labels in
// [0, numClasses), scoped to the first universe positions of cache/k's
// shared problem. universe lets a caller (e.g. package cv, running a nested
// cross-validation fold) restrict training to a held-in subset rather than
// the full problem.
func Train(cache Cache, k Kernel, universe int32, numClasses int32, p Params, log func(string, ...any)) Result {
	if log == nil {
		log = func(string, ...any) {}
	}

	n := universe
	counts := make([]int32, numClasses)
	for i := int32(0); i < n; i++ {
		counts[k.Label(i)]++
	}

	pairs := enumeratePairs(numClasses)
	sort.SliceStable(pairs, func(i, j int) bool {
		si := counts[pairs[i][0]] + counts[pairs[i][1]]
		sj := counts[pairs[j][0]] + counts[pairs[j][1]]
		if si != sj {
			return si > sj
		}
		if pairs[i][0] != pairs[j][0] {
			return pairs[i][0] < pairs[j][0]
		}
		return pairs[i][1] < pairs[j][1]
	})

	models := make([]Model, 0, len(pairs))

	for _, pr := range pairs {
		labelP, labelQ := pr[0], pr[1]
		size := partitionPair(cache, k, n, labelP, labelQ)

		cache.Reset()
		cache.SetCurrentSize(size)
		k.SetPivot(labelQ)

		res := train.Run(cache, train.Params{C: p.C, Epochs: p.Epochs, Margin: p.Margin, UseBias: p.UseBias})
		log("pairwise: trained pair", "label_p", labelP, "label_q", labelQ, "size", size,
			"iterations", res.Iterations, "converged", res.Converged)

		sv := cache.SVCount()
		bwd := cache.BackwardOrder()
		m := Model{
			LabelP:  labelP,
			LabelQ:  labelQ,
			Bias:    cache.Bias(),
			Alphas:  make([]float64, sv),
			Samples: make([]int32, sv),
		}
		for i := int32(0); i < sv; i++ {
			m.Samples[i] = bwd[i]
			m.Alphas[i] = cache.Alpha(i)
		}
		models = append(models, m)
	}

	maxSVCount := mergeSamples(cache, models)
	log("pairwise: merged support vectors", "max_sv_count", maxSVCount)

	return Result{MaxSVCount: maxSVCount, Models: models}
}

// mergeSamples implements spec §4.6's final reindexing pass: every model's
// support vectors, currently identified by original sample id, are relocated
// (via cache.Swap) into one shared contiguous prefix [0, free) of the active
// array, common across every model. forward is read live - each Swap updates
// it in place - so a sample already relocated by an earlier model's pass is
// recognized immediately by a later model referencing the same original id.
func mergeSamples(cache Cache, models []Model) int32 {
	forward := cache.ForwardOrder()
	free := int32(0)
	for mi := range models {
		samples := models[mi].Samples
		for i, orig := range samples {
			real := forward[orig]
			if real >= free {
				cache.Swap(real, free)
				real = free
				free++
			}
			samples[i] = real
		}
	}
	return free
}

// enumeratePairs lists every unordered pair {p, q}, p < q, of labels in
// [0, numClasses).
func enumeratePairs(numClasses int32) [][2]int32 {
	var pairs [][2]int32
	for p := int32(0); p < numClasses; p++ {
		for q := p + 1; q < numClasses; q++ {
			pairs = append(pairs, [2]int32{p, q})
		}
	}
	return pairs
}

// partitionPair moves every sample whose current label is labelP or labelQ
// to the front of [0, n) via cache.Swap, and returns the resulting count.
// Classic in-place predicate partition: positions [0, i) always hold matches
// by the time position j is examined.
func partitionPair(cache Cache, k Kernel, n, labelP, labelQ int32) int32 {
	i := int32(0)
	for j := int32(0); j < n; j++ {
		label := k.Label(j)
		if label != labelP && label != labelQ {
			continue
		}
		if i != j {
			cache.Swap(i, j)
		}
		i++
	}
	return i
}
