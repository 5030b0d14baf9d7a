// Package train implements the OLLAWV (Online Learning Algorithm using
// Worst Violator) binary trainer loop driven by a svmcache.Cache.
//
// Each iteration finds the current worst violator among the in-problem
// candidates, takes a single stochastic-gradient step against it with
// learning rate eta = 2/sqrt(t), and promotes it into the support-vector
// prefix. The loop stops early once the worst violator's margin clears the
// configured threshold, or once every candidate has been promoted.
//
// Grounded on original_source/osvm/src/svm/solver.h's
// AbstractSolver::trainForCache.
package train
