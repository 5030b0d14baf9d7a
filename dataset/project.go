package dataset

import (
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/ollawv/sample"
)

// featureStats accumulates per-feature-id min/max (for zero-variance
// detection) and max absolute value (for normalization) across a pass over
// every record.
type featureStats struct {
	min, max, maxAbs float64
}

// FeatureScale records how one retained raw feature id was remapped and
// normalized during Build, so a later, out-of-sample row (e.g. a query at
// classification time) can be projected through the identical
// transformation instead of recomputing it from scratch.
type FeatureScale struct {
	OriginalID int
	MappedID   int32
	MaxAbs     float64
}

// Problem is a dataset projected into the core's training representation:
// a sparse sample.Matrix plus a parallel multi-class label array, ready for
// pairwise.Train. LabelNames[i] is the original string label of id i, in
// first-appearance order. FeatureScale lets Project reproduce the same
// column drop/remap/normalize transformation for new, unseen rows.
type Problem struct {
	Matrix       *sample.Matrix
	Labels       []int32
	LabelNames   []string
	FeatureScale []FeatureScale
}

// Build maps records' string labels to contiguous ids in first-appearance
// order, drops zero-variance features, normalizes every retained feature to
// [-1, 1] by its max absolute value, and projects the result into a
// *sample.Matrix. Mirrors
// original_source/src/data/solver_factory.cc:findOptimalFeatureMappings and
// original_source/src/feature/feature.cc:FeatureProcessor::normalize.
func Build(records []Record) (Problem, error) {
	if len(records) == 0 {
		return Problem{}, fmt.Errorf("%w: no records", ErrDegenerateProblem)
	}

	nameToID := make(map[string]int32)
	var names []string
	labels := make([]int32, len(records))
	for i, rec := range records {
		id, ok := nameToID[rec.Label]
		if !ok {
			id = int32(len(names))
			nameToID[rec.Label] = id
			names = append(names, rec.Label)
		}
		labels[i] = id
	}
	if len(names) < 2 {
		return Problem{}, fmt.Errorf("%w: fewer than two distinct labels", ErrDegenerateProblem)
	}

	stats := make(map[int]*featureStats)
	for _, rec := range records {
		for _, f := range rec.Features {
			s, ok := stats[f.ID]
			if !ok {
				s = &featureStats{min: f.Value, max: f.Value}
				stats[f.ID] = s
			}
			if f.Value < s.min {
				s.min = f.Value
			}
			if f.Value > s.max {
				s.max = f.Value
			}
			if abs := math.Abs(f.Value); abs > s.maxAbs {
				s.maxAbs = abs
			}
		}
	}

	ids := make([]int, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	mapping := make(map[int]int32, len(ids))
	var next int32
	for _, id := range ids {
		if stats[id].min == stats[id].max {
			continue // zero variance, dropped
		}
		mapping[id] = next
		next++
	}
	if next == 0 {
		return Problem{}, fmt.Errorf("%w: no features remain after removing zero-variance columns", ErrDegenerateProblem)
	}

	rows := make([][]sample.Feature, len(records))
	for i, rec := range records {
		row := make([]sample.Feature, 0, len(rec.Features))
		for _, f := range rec.Features {
			newID, ok := mapping[f.ID]
			if !ok {
				continue
			}
			v := f.Value
			if maxAbs := stats[f.ID].maxAbs; maxAbs != 0 {
				v /= maxAbs
			}
			row = append(row, sample.Feature{ID: newID, Value: v})
		}
		rows[i] = row
	}

	m, err := sample.NewMatrix(rows, int(next))
	if err != nil {
		return Problem{}, err
	}

	scale := make([]FeatureScale, 0, len(mapping))
	for id, mapped := range mapping {
		scale = append(scale, FeatureScale{OriginalID: id, MappedID: mapped, MaxAbs: stats[id].maxAbs})
	}
	sort.Slice(scale, func(i, j int) bool { return scale[i].MappedID < scale[j].MappedID })

	return Problem{Matrix: m, Labels: labels, LabelNames: names, FeatureScale: scale}, nil
}

// Project re-applies a previously computed FeatureScale table to a fresh,
// unseen feature row - dropping any feature id that was never retained
// during the original Build, remapping the rest to their training-time
// column ids, and dividing by the same per-column max absolute value. Used
// at classification time so a query row lands in the same normalized space
// the persisted support vectors were trained in.
func Project(scale []FeatureScale, raw []Feature) []sample.Feature {
	byOriginal := make(map[int]FeatureScale, len(scale))
	for _, s := range scale {
		byOriginal[s.OriginalID] = s
	}

	row := make([]sample.Feature, 0, len(raw))
	for _, f := range raw {
		s, ok := byOriginal[f.ID]
		if !ok {
			continue
		}
		v := f.Value
		if s.MaxAbs != 0 {
			v /= s.MaxAbs
		}
		row = append(row, sample.Feature{ID: s.MappedID, Value: v})
	}
	sort.Slice(row, func(i, j int) bool { return row[i].ID < row[j].ID })
	return row
}
