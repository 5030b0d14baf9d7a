// Package kernel implements the Gaussian (RBF) kernel evaluator used by the
// OLLAWV cache (package svmcache).
//
// An Evaluator wraps a sample.Matrix and the dataset's multi-class label
// array with the current binary subproblem's pivot label, penalty C, and
// gamma. It exposes branch-free access to the ±1 binary label of any sample
// relative to the pivot, and bulk RBF row evaluation over a range.
//
// Grounded on original_source/osvm/src/svm/kernel.h's RbfKernelEvaluator,
// simplified to the unified rule of spec.md §4.2: no bias folded into the
// kernel value itself, one scalar pivot label driving binary_label.
package kernel
