package svmcache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ollawv/kernel"
	"github.com/katalvlaran/ollawv/sample"
	"github.com/katalvlaran/ollawv/strategy"
	"github.com/katalvlaran/ollawv/svmcache"
)

// buildProblem builds n one-dimensional samples with value i at index i, and
// an alternating ±class label array, wired into a fresh kernel.Evaluator.
func buildProblem(t *testing.T, n int32) (*kernel.Evaluator, []int32) {
	t.Helper()

	rows := make([][]sample.Feature, n)
	labels := make([]int32, n)
	for i := int32(0); i < n; i++ {
		rows[i] = []sample.Feature{{ID: 0, Value: float64(i)}}
		labels[i] = i % 2
	}
	m, err := sample.NewMatrix(rows, 1)
	require.NoError(t, err)

	k := kernel.New(m, labels, 1.0, 0.1, 1.0, 0.1, 1.0)
	k.SetPivot(1)
	return k, labels
}

func TestCache_ResetInitializesState(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)

	assert.Equal(t, int32(1), c.SVCount())
	assert.Zero(t, c.Bias())
	for i := int32(0); i < 6; i++ {
		assert.Zero(t, c.Alpha(i))
		assert.Zero(t, c.Output(i))
	}
}

func TestCache_FindWorstViolator_EmptyCandidateRange(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(1) // [sv_count=1, current_size=1) is empty

	wv := c.FindWorstViolator()
	assert.True(t, wv.Value > 1e300, "empty candidate range must report +Inf")
}

func TestCache_FindWorstViolator_PicksLowerIndexOnTie(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(6)
	// output starts all-zero, so every candidate ties at value 0.
	wv := c.FindWorstViolator()
	assert.Equal(t, int32(1), wv.Index)
	assert.Zero(t, wv.Value)
}

func TestCache_SGDStepUpdatesAlphaAndOutputs(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(6)

	const w = int32(3)
	const dAlpha, dBias = 0.5, 0.1
	c.SGDStep(w, dAlpha, dBias)

	assert.InDelta(t, dAlpha, c.Alpha(w), 1e-12)
	assert.InDelta(t, dBias, c.Bias(), 1e-12)

	for i := c.SVCount(); i < c.CurrentSize(); i++ {
		want := k.EvalKernelPair(w, i)*dAlpha + dBias
		assert.InDelta(t, want, c.Output(i), 1e-9)
	}
}

func TestCache_PromoteSVAdvancesPartitionAndIndex(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(6)

	newIdx := c.PromoteSV(4)
	assert.Equal(t, int32(1), newIdx)
	assert.Equal(t, int32(2), c.SVCount())

	// sample originally at index 4 now lives at index 1.
	assert.Equal(t, int32(1), c.ForwardOrder()[4])
	assert.Equal(t, int32(4), c.BackwardOrder()[1])
}

func TestCache_SwapKeepsPermutationConsistent(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)

	c.Swap(1, 4)
	c.Swap(0, 5)
	c.Swap(2, 5)

	for i := int32(0); i < 6; i++ {
		assert.Equal(t, i, c.BackwardOrder()[c.ForwardOrder()[i]], "fwd/bwd must stay mutually inverse")
	}
}

func TestCache_SwapListenerIsNotified(t *testing.T) {
	k, _ := buildProblem(t, 6)

	var got [2]int32
	calls := 0
	listener := swapListenerFunc(func(u, v int32) {
		got = [2]int32{u, v}
		calls++
	})

	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil, listener)
	c.Swap(2, 5)

	assert.Equal(t, 1, calls)
	assert.Equal(t, [2]int32{2, 5}, got)
}

type swapListenerFunc func(u, v int32)

func (f swapListenerFunc) Notify(u, v int32) { f(u, v) }

func TestCache_CacheCoherence_InstalledRowMatchesFreshEval(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(6)

	c.SGDStep(3, 1.0, 0.0) // installs a cache line for sample 3

	row, ok := c.CachedRow(3)
	require.True(t, ok)
	for r := int32(0); r < c.Depth() && int(r) < len(row); r++ {
		assert.InDelta(t, k.EvalKernelPair(3, r), row[r], 1e-9)
	}
}

func TestCache_EvalKernelUV_PrefersCachedRow(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 4096, nil)
	c.SetCurrentSize(6)

	c.SGDStep(2, 1.0, 0.0) // installs sample 2's row

	assert.InDelta(t, k.EvalKernelPair(2, 5), c.EvalKernelUV(2, 5), 1e-9)
	assert.InDelta(t, k.EvalKernelPair(5, 2), c.EvalKernelUV(5, 2), 1e-9)
}

func TestCache_LRURingLengthIsInvariant(t *testing.T) {
	k, _ := buildProblem(t, 6)
	c := svmcache.New(k, strategy.NullStrategy{}, 6, 96, nil) // tiny budget -> few lines
	c.SetCurrentSize(6)

	for w := int32(0); w < 6; w++ {
		c.SGDStep(w, 0.01, 0.0) // forces installs/evictions across all 6 samples
		assert.Equal(t, int(c.Lines()), c.LRULength())
	}
}

func TestCache_GrowCachePreservesMostRecentlyUsedRow(t *testing.T) {
	const n = int32(300)
	k, _ := buildProblem(t, n)
	// cacheSlots = 1024 -> depth=256, lines=4 (see dims()).
	c := svmcache.New(k, strategy.NullStrategy{}, n, 1024*8, nil)
	c.SetCurrentSize(n)

	require.Equal(t, int32(256), c.Depth())
	require.Equal(t, int32(4), c.Lines())

	c.SGDStep(10, 1.0, 0.0) // installs sample 10's row, making it MRU
	before := c.Depth()

	for c.SVCount() < before+1 {
		c.PromoteSV(c.SVCount()) // self-promote; triggers growCache once sv_count hits depth
	}

	assert.Greater(t, c.Depth(), before, "cache must have grown")

	row, ok := c.CachedRow(10)
	require.True(t, ok, "the most-recently-used row must survive growth")
	for r := int32(0); r < c.Depth(); r++ {
		assert.InDelta(t, k.EvalKernelPair(10, r), row[r], 1e-9, "grown row must stay coherent at the new depth")
	}
}
