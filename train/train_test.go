package train_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ollawv/kernel"
	"github.com/katalvlaran/ollawv/sample"
	"github.com/katalvlaran/ollawv/strategy"
	"github.com/katalvlaran/ollawv/svmcache"
	"github.com/katalvlaran/ollawv/train"
)

// fakeCache is a minimal, hand-rolled train.Cache used to pin down the loop's
// control flow without needing a fully wired kernel/sample problem.
type fakeCache struct {
	svCount, currentSize int32
	labels               []float64
	outputs              []float64
	noopPromote          bool

	sgdCalls     int
	promoteCalls []int32
}

func (f *fakeCache) SVCount() int32            { return f.svCount }
func (f *fakeCache) CurrentSize() int32        { return f.currentSize }
func (f *fakeCache) BinaryLabel(i int32) float64 { return f.labels[i] }

func (f *fakeCache) FindWorstViolator() svmcache.WorstViolator {
	best := svmcache.WorstViolator{Index: f.svCount, Value: math.Inf(1)}
	for i := f.svCount; i < f.currentSize; i++ {
		v := f.outputs[i] * f.labels[i]
		if v < best.Value {
			best = svmcache.WorstViolator{Index: i, Value: v}
		}
	}
	return best
}

func (f *fakeCache) SGDStep(w int32, dAlpha, dBias float64) {
	f.sgdCalls++
	for i := f.svCount; i < f.currentSize; i++ {
		f.outputs[i] += dAlpha
	}
}

func (f *fakeCache) PromoteSV(w int32) int32 {
	f.promoteCalls = append(f.promoteCalls, w)
	if f.noopPromote {
		return w
	}
	idx := f.svCount
	f.svCount++
	return idx
}

// TestRun_PromotesEveryCandidateThenConvergesOnceMarginClears pins down the
// staggered two-phase control flow: each iteration's SGD step always acts on
// the PREVIOUS iteration's worst violator, and the convergence check at the
// top of the loop always uses the freshly found worst from the iteration
// that just ran - not the stale value that triggered it. With margin tuned
// so the third promoted candidate's freshly-found value is the first to
// clear the threshold, the loop promotes all three real candidates and then
// halts without ever searching the now-empty candidate range.
func TestRun_PromotesEveryCandidateThenConvergesOnceMarginClears(t *testing.T) {
	f := &fakeCache{
		svCount:     1,
		currentSize: 4,
		labels:      []float64{1, 1, 1, 1},
		outputs:     []float64{0, 0, 0, 0},
	}

	res := train.Run(f, train.Params{C: 1, Epochs: 10, Margin: 4.0, UseBias: 1})

	assert.True(t, res.Converged)
	assert.Equal(t, 3, res.Iterations)
	assert.Equal(t, int32(4), f.svCount)
}

// TestRun_SeedIterationAlwaysFiresBeforeConverging checks the corollary of
// seeding worst = (index=0, error=0.0): even when every real candidate's
// margin is already far beyond the threshold, the loop cannot detect that
// until it has run at least one SGD step and searched for a real worst
// violator, since the seed's error is defined as 0.0 specifically "so the
// first iteration fires" (spec.md 4.4).
func TestRun_SeedIterationAlwaysFiresBeforeConverging(t *testing.T) {
	f := &fakeCache{
		svCount:     1,
		currentSize: 10,
		labels:      make([]float64, 10),
		outputs:     make([]float64, 10),
	}
	for i := range f.labels {
		f.labels[i] = 1
		f.outputs[i] = 100 // o*y already far beyond any reasonable margin
	}

	res := train.Run(f, train.Params{C: 1, Epochs: 5, Margin: 0.1, UseBias: 1})

	assert.True(t, res.Converged)
	assert.Equal(t, 1, res.Iterations)
	assert.Equal(t, 1, f.sgdCalls)
	assert.Equal(t, int32(2), f.svCount)
}

func TestRun_StopsOnEpochBudgetWhenNeverConverging(t *testing.T) {
	f := &fakeCache{
		svCount:     1,
		currentSize: 3,
		labels:      []float64{1, 1, 1},
		outputs:     []float64{0, 0, 0},
		noopPromote: true, // sv_count never advances
	}

	res := train.Run(f, train.Params{C: 1, Epochs: 4, Margin: 1e6, UseBias: 1})

	wantIters := int(math.Ceil(4 * 3))
	assert.False(t, res.Converged)
	assert.Equal(t, wantIters, res.Iterations)
	assert.Equal(t, wantIters, f.sgdCalls)
}

// TestRun_EndToEndOverRealCache exercises the loop against the real
// svmcache/kernel/sample stack and checks the basic OLLAWV invariants hold:
// every promotion strictly grows sv_count, and alpha stays zero for samples
// never promoted.
func TestRun_EndToEndOverRealCache(t *testing.T) {
	const n = int32(12)
	rows := make([][]sample.Feature, n)
	labels := make([]int32, n)
	for i := int32(0); i < n; i++ {
		v := float64(i)
		if i >= n/2 {
			v += 50 // push the two classes apart so OLLAWV converges quickly
		}
		rows[i] = []sample.Feature{{ID: 0, Value: v}}
		if i >= n/2 {
			labels[i] = 1
		}
	}
	m, err := sample.NewMatrix(rows, 1)
	require.NoError(t, err)

	k := kernel.New(m, labels, 1.0, 0.01, 2.0, 0.05, 1.0)
	k.SetPivot(1)

	c := svmcache.New(k, strategy.NullStrategy{}, n, 1<<20, nil)
	c.SetCurrentSize(n)

	res := train.Run(c, train.Params{C: k.C(), Epochs: k.Epochs(), Margin: k.Margin(), UseBias: k.UseBias()})

	assert.True(t, c.SVCount() > 1, "at least one sample must have been promoted")
	assert.LessOrEqual(t, c.SVCount(), n)
	assert.GreaterOrEqual(t, res.Iterations, 0)
}
