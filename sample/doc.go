// Package sample provides the sparse sample matrix and pairwise distance
// evaluator that underlie the OLLAWV kernel cache (see package svmcache).
//
// A Matrix stores N sparse rows of (feature id, value) pairs back to back in
// two flat slices, each row terminated by a sentinel feature id. Row start
// offsets live in a separate slice so that Swap(u, v) — the only mutation
// that relocates a sample within the active problem — is O(1): it swaps two
// offsets and two precomputed squared norms, never the row payloads
// themselves.
//
// Distances are computed via the polarization identity
// ‖u−v‖² = ‖u‖² + ‖v‖² − 2⟨u,v⟩ so that the O(nnz) cost stays additive over
// the sparse dot product rather than requiring a second sparse subtraction.
package sample
