// Package modelio persists a pairwise.Result to and from the canonical
// document shape described in spec.md §6: a JSON object with max_sv_count
// and a models array of {labels, bias, size, alphas, samples}.
//
// Uses github.com/goccy/go-json as a drop-in encoding/json replacement,
// matching tomtom215-cartographus's choice of the same library for its own
// model/API payloads.
package modelio
