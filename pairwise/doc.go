// Package pairwise orchestrates one-vs-one multi-class training and
// classification over a shared svmcache.Cache.
//
// Train enumerates every unordered label pair, trains each as an independent
// OLLAWV binary subproblem (package train) in descending combined-class-size
// order for better cache locality, and harvests each pair's support vectors
// as a Model. A final merge pass relocates every model's support vectors into
// one shared prefix of the sample array, so Model.Samples holds positions in
// that prefix rather than original sample ids. Classify runs one-vs-one
// voting with an evidence tie-break across the resulting Models.
//
// Grounded on original_source/osvm/src/svm/pairwise_solver.h's
// PairwiseSolver and PairwiseClassifier.
package pairwise
