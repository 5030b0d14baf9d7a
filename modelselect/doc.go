// Package modelselect picks (C, gamma) hyperparameters via a derivative-free
// pattern search over log-space, scored by inner cross-validation accuracy
// (package cv), and drives the full nested-CV model-selection loop.
//
// Search walks an integer grid of log-spaced (C, gamma) points, resolution
// points per axis. A 5-point cross (center plus one step in each of ±cIdx
// and ±gIdx) moves to the best improving neighbor, halving its integer step
// on a plateau; once the step bottoms out at 0 without improvement, it
// restarts from the grid point farthest (L1, in grid-index space) from
// everywhere already evaluated, escaping local optima before giving up.
//
// Grounded on src/model/selection.cc's PatternFactory::createCross and
// PatternGaussianModelSelector.
package modelselect
