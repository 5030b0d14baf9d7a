package kernel

import "math"

// Evaluator computes the Gaussian (RBF) kernel over a sample.Matrix for the
// current binary subproblem, and exposes the binary ±1 label view over the
// shared multi-class label array.
type Evaluator struct {
	samples dotDister
	labels  []int32

	pivot int32 // current negative/pivot multi-class label id (ẏ_neg)

	c       float64 // penalty C
	gamma   float64 // RBF gamma (> 0); kernel uses exp(-gamma*dist2)
	bias    float64
	epochs  float64
	margin  float64
	useBias float64 // 1.0 if bias is learned, 0.0 otherwise
}

// dotDister is the subset of *sample.Matrix the evaluator needs, named to
// keep this package decoupled from sample's concrete type in signatures
// used only internally.
type dotDister interface {
	Dist(u, v int32) float64
	DistRange(fixed int32, from, to int32, out []float64)
	Swap(u, v int32)
}

// New builds an Evaluator over samples/labels with the given hyperparameters.
// useBias should be 1.0 to learn a bias term, 0.0 to keep it pinned at zero.
func New(samples dotDister, labels []int32, c, gamma, epochs, margin, useBias float64) *Evaluator {
	return &Evaluator{
		samples: samples,
		labels:  labels,
		c:       c,
		gamma:   gamma,
		epochs:  epochs,
		margin:  margin,
		useBias: useBias,
	}
}

// SetPivot sets the current binary subproblem's pivot label. Must be called
// before training a new (p, q) pair.
func (e *Evaluator) SetPivot(label int32) { e.pivot = label }

// BinaryLabel returns +1 if sample i's multi-class label equals the current
// pivot, else -1. Stable for the duration of one binary training.
func (e *Evaluator) BinaryLabel(i int32) float64 {
	if e.labels[i] == e.pivot {
		return 1.0
	}
	return -1.0
}

// EvalKernel fills out[r-from] = exp(-gamma * dist(id, r)) for r in [from, to).
// Overflow in the exponent (a very distant pair) clamps to 0.0 rather than
// producing NaN/Inf, per spec.md §7's NumericOverflow policy.
func (e *Evaluator) EvalKernel(id int32, from, to int32, out []float64) {
	e.samples.DistRange(id, from, to, out)
	for i := range out {
		out[i] = e.rbf(out[i])
	}
}

// EvalKernelPair evaluates the RBF kernel between two individual samples.
func (e *Evaluator) EvalKernelPair(u, v int32) float64 {
	return e.rbf(e.samples.Dist(u, v))
}

func (e *Evaluator) rbf(dist2 float64) float64 {
	x := -e.gamma * dist2
	if x < -700 { // exp(-700) underflows float64 to 0 anyway; guards overflow in edge cases
		return 0.0
	}
	return math.Exp(x)
}

// UpdateBias adds delta to the running bias term.
func (e *Evaluator) UpdateBias(delta float64) { e.bias += delta }

// ResetBias sets the bias term back to zero.
func (e *Evaluator) ResetBias() { e.bias = 0.0 }

// SetParams updates the penalty and gamma for subsequent kernel evaluations.
func (e *Evaluator) SetParams(c, gamma float64) {
	e.c = c
	e.gamma = gamma
}

// SwapSamples delegates the row swap to the underlying matrix and swaps the
// two samples' multi-class labels in lock-step.
func (e *Evaluator) SwapSamples(u, v int32) {
	e.samples.Swap(u, v)
	e.labels[u], e.labels[v] = e.labels[v], e.labels[u]
}

// C returns the current penalty parameter.
func (e *Evaluator) C() float64 { return e.c }

// Gamma returns the current RBF gamma.
func (e *Evaluator) Gamma() float64 { return e.gamma }

// Bias returns the current bias term.
func (e *Evaluator) Bias() float64 { return e.bias }

// Epochs returns the configured epoch budget (§4.4: it_max = ceil(epochs*n)).
func (e *Evaluator) Epochs() float64 { return e.epochs }

// Margin returns the configured early-exit margin factor.
func (e *Evaluator) Margin() float64 { return e.margin }

// UseBias returns 1.0 if a bias term is learned, 0.0 otherwise.
func (e *Evaluator) UseBias() float64 { return e.useBias }

// Label returns the raw multi-class label id of sample i.
func (e *Evaluator) Label(i int32) int32 { return e.labels[i] }
