// Package dataset parses LIBSVM-style training data and projects it into
// the sparse sample.Matrix that the OLLAWV core trains against.
//
// Grounded on original_source/src/data/solver_factory.cc
// (BaseSolverFactory::getSolver, findOptimalFeatureMappings) for the
// zero-variance-feature removal and contiguous re-id policy, and on
// original_source/src/feature/feature.cc (FeatureProcessor::normalize) for
// the max-abs-value normalization rule.
package dataset
