// Package strategy defines the candidate/sample-selection collaborator used
// by svmcache.Cache during training.
//
// For OLLAWV the strategy degenerates to a pure bookkeeper (spec.md §4.5):
// worst-violator search picks the next candidate, not the strategy, so the
// single-method interface here exists only so that alternative selection
// rules remain pluggable without changing svmcache's swap protocol.
//
// Grounded on original_source/osvm/src/svm/strategy.h and
// original_source/osvm/src/svm/generator.h.
package strategy
