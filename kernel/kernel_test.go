package kernel_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/ollawv/kernel"
	"github.com/katalvlaran/ollawv/sample"
)

func buildSamples(t *testing.T) *sample.Matrix {
	t.Helper()
	m, err := sample.NewMatrix([][]sample.Feature{
		{{ID: 0, Value: 0}},
		{{ID: 0, Value: 1}},
		{{ID: 0, Value: 2}},
	}, 1)
	require.NoError(t, err)
	return m
}

func TestEvaluator_BinaryLabel(t *testing.T) {
	labels := []int32{0, 1, 0}
	e := kernel.New(buildSamples(t), labels, 1, 0.5, 1, 0.1, 1.0)

	e.SetPivot(1)
	assert.Equal(t, -1.0, e.BinaryLabel(0))
	assert.Equal(t, 1.0, e.BinaryLabel(1))
	assert.Equal(t, -1.0, e.BinaryLabel(2))
}

func TestEvaluator_EvalKernel_DiagonalIsOne(t *testing.T) {
	labels := []int32{0, 1, 0}
	e := kernel.New(buildSamples(t), labels, 1, 0.5, 1, 0.1, 1.0)

	assert.InDelta(t, 1.0, e.EvalKernelPair(0, 0), 1e-12)

	out := make([]float64, 3)
	e.EvalKernel(0, 0, 3, out)
	assert.InDelta(t, 1.0, out[0], 1e-12)
	assert.Less(t, out[2], out[1], "farther samples must have smaller RBF response")
}

func TestEvaluator_BiasAndParams(t *testing.T) {
	labels := []int32{0, 1, 0}
	e := kernel.New(buildSamples(t), labels, 1, 0.5, 1, 0.1, 1.0)

	e.UpdateBias(0.4)
	assert.InDelta(t, 0.4, e.Bias(), 1e-12)
	e.ResetBias()
	assert.Zero(t, e.Bias())

	e.SetParams(2.5, 0.25)
	assert.InDelta(t, 2.5, e.C(), 1e-12)
	assert.InDelta(t, 0.25, e.Gamma(), 1e-12)
}

func TestEvaluator_SwapSamplesSwapsLabels(t *testing.T) {
	labels := []int32{0, 1, 0}
	e := kernel.New(buildSamples(t), labels, 1, 0.5, 1, 0.1, 1.0)

	e.SwapSamples(0, 1)
	assert.Equal(t, int32(1), e.Label(0))
	assert.Equal(t, int32(0), e.Label(1))
}
