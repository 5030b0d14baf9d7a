// Package svmcache implements the central kernel cache and binary-model
// state that the OLLAWV trainer (package train) mutates on every iteration.
//
// A Cache owns the dual coefficients α, the decision output o, the bias b
// (delegated to a kernel.Evaluator), and the support-vector/non-support
// vector partition of the active problem: samples [0, sv_count) are support
// vectors, [sv_count, current_size) are in-problem candidates, and
// [current_size, n) are held out of the current binary subproblem entirely.
// The partition is an invariant maintained purely through index swaps - no
// sample's row data is ever copied.
//
// Internally, Cache keeps a bounded LRU store of RBF kernel rows modeled as
// an index arena: mapping[sample] names the cache line holding that sample's
// row (or svmcache.InvalidEntry), and entries form a fixed-size circular
// doubly-linked list whose traversal order doubles as recency order. No raw
// pointers are ever stored; every link is an entry index into the entries
// slice.
//
// Grounded on original_source/osvm/src/svm/cache.h's CachedKernelEvaluator.
package svmcache
