// Package cv implements the nested cross-validation driver: fold
// assignment, swap-consistent fold-membership tracking, and a single-level
// k-fold accuracy runner reused at both the outer (generalization estimate)
// and inner (model-selection scoring, see package modelselect) levels.
//
// Fold membership lives in a plain []int32 indexed by physical position and
// is kept in lock-step with every sample relocation - whether triggered by
// cv's own fold partitioning or by pairwise's label partitioning on the same
// shared cache - via a swap listener registered once at setup.
//
// Grounded on original_source/osvm/src/svm/validation.h's
// CrossValidationSolver and CrossSolverSwapListener.
package cv
