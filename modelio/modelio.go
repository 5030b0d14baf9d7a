package modelio

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/katalvlaran/ollawv/dataset"
	"github.com/katalvlaran/ollawv/pairwise"
	"github.com/katalvlaran/ollawv/sample"
)

// Document is the canonical persisted model shape from spec.md §6, extended
// with enough of the training-time feature transform and support-vector
// feature vectors to classify genuinely new, out-of-sample rows (spec.md
// never specifies this - the core only ever classifies positions already
// living in its shared sample.Matrix; this is a supplemented CLI capability,
// see DESIGN.md).
type Document struct {
	MaxSVCount   int32               `json:"max_sv_count"`
	Dim          int32               `json:"dim"`
	Gamma        float64             `json:"gamma"`
	LabelNames   []string            `json:"label_names"`
	FeatureScale []FeatureScaleEntry `json:"feature_scale"`
	SVFeatures   []SVFeatureEntry    `json:"sv_features"`
	Models       []ModelEntry        `json:"models"`
}

// ModelEntry is one pairwise binary model within a Document.
type ModelEntry struct {
	Labels  [2]int32  `json:"labels"`
	Bias    float64   `json:"bias"`
	Size    int32     `json:"size"`
	Alphas  []float64 `json:"alphas"`
	Samples []int32   `json:"samples"`
}

// FeatureScaleEntry mirrors one dataset.FeatureScale row.
type FeatureScaleEntry struct {
	OriginalID int     `json:"original_id"`
	MappedID   int32   `json:"mapped_id"`
	MaxAbs     float64 `json:"max_abs"`
}

// FeaturePair is a single (feature id, value) pair within a persisted
// support vector's sparse row.
type FeaturePair struct {
	ID    int32   `json:"id"`
	Value float64 `json:"value"`
}

// SVFeatureEntry is one support vector's sparse, already-normalized feature
// row, keyed by its position in the trained model's shared merged SV prefix
// (the same space pairwise.Model.Samples uses after Train's merge pass).
type SVFeatureEntry struct {
	SampleID int32         `json:"sample_id"`
	Features []FeaturePair `json:"features"`
}

// FromResult converts a pairwise.Result into its persisted Document form.
// Each model's Alphas and Samples are zero-padded at the tail to MaxSVCount;
// Size records how many leading entries are real.
func FromResult(r pairwise.Result) Document {
	doc := Document{MaxSVCount: r.MaxSVCount, Models: make([]ModelEntry, len(r.Models))}
	for i, m := range r.Models {
		size := int32(len(m.Samples))
		width := size
		if r.MaxSVCount > width {
			width = r.MaxSVCount
		}
		alphas := make([]float64, width)
		copy(alphas, m.Alphas)
		samples := make([]int32, width)
		copy(samples, m.Samples)
		doc.Models[i] = ModelEntry{
			Labels:  [2]int32{m.LabelP, m.LabelQ},
			Bias:    m.Bias,
			Size:    size,
			Alphas:  alphas,
			Samples: samples,
		}
	}
	return doc
}

// Snapshot builds a full Document out of a trained pairwise.Result plus
// everything needed to classify fresh, out-of-sample rows later: the
// trained gamma, the label-name table, the feature drop/remap/normalize
// table dataset.Build produced, and every distinct support vector's
// normalized feature row, read back out of matrix by merged position
// (sample.Matrix.Row(pos) - valid immediately after Train's merge pass,
// before any further swap moves the row).
func Snapshot(r pairwise.Result, matrix *sample.Matrix, gamma float64, labelNames []string, scale []dataset.FeatureScale) Document {
	doc := FromResult(r)
	doc.Dim = int32(matrix.Dim())
	doc.Gamma = gamma
	doc.LabelNames = labelNames

	doc.FeatureScale = make([]FeatureScaleEntry, len(scale))
	for i, s := range scale {
		doc.FeatureScale[i] = FeatureScaleEntry{OriginalID: s.OriginalID, MappedID: s.MappedID, MaxAbs: s.MaxAbs}
	}

	seen := make(map[int32]bool)
	var ids []int32
	for _, m := range r.Models {
		for _, id := range m.Samples {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	doc.SVFeatures = make([]SVFeatureEntry, len(ids))
	for i, id := range ids {
		row := matrix.Row(id)
		pairs := make([]FeaturePair, len(row))
		for j, f := range row {
			pairs[j] = FeaturePair{ID: f.ID, Value: f.Value}
		}
		doc.SVFeatures[i] = SVFeatureEntry{SampleID: id, Features: pairs}
	}

	return doc
}

// ToResult converts a decoded Document back into a pairwise.Result usable
// directly by pairwise.Classify. Size is authoritative for iteration bounds;
// Alphas/Samples beyond Size (tail padding) are truncated away.
func ToResult(doc Document) pairwise.Result {
	result := pairwise.Result{MaxSVCount: doc.MaxSVCount, Models: make([]pairwise.Model, len(doc.Models))}
	for i, m := range doc.Models {
		size := int(m.Size)
		result.Models[i] = pairwise.Model{
			LabelP:  m.Labels[0],
			LabelQ:  m.Labels[1],
			Bias:    m.Bias,
			Alphas:  append([]float64(nil), m.Alphas[:size]...),
			Samples: append([]int32(nil), m.Samples[:size]...),
		}
	}
	return result
}

// ToFeatureScale converts doc's persisted feature scale table back into the
// form dataset.Project expects.
func (doc Document) ToFeatureScale() []dataset.FeatureScale {
	scale := make([]dataset.FeatureScale, len(doc.FeatureScale))
	for i, s := range doc.FeatureScale {
		scale[i] = dataset.FeatureScale{OriginalID: s.OriginalID, MappedID: s.MappedID, MaxAbs: s.MaxAbs}
	}
	return scale
}

// SVMatrixRows returns, in stored order, every support vector's merged SV
// position id and its sparse feature row - ready to seed a fresh
// *sample.Matrix for out-of-sample classification.
func (doc Document) SVMatrixRows() (ids []int32, rows [][]sample.Feature) {
	ids = make([]int32, len(doc.SVFeatures))
	rows = make([][]sample.Feature, len(doc.SVFeatures))
	for i, sv := range doc.SVFeatures {
		ids[i] = sv.SampleID
		row := make([]sample.Feature, len(sv.Features))
		for j, f := range sv.Features {
			row[j] = sample.Feature{ID: f.ID, Value: f.Value}
		}
		rows[i] = row
	}
	return ids, rows
}

// Encode writes doc as JSON to w.
func Encode(w io.Writer, doc Document) error {
	return json.NewEncoder(w).Encode(doc)
}

// Decode reads a persisted Document from r.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}
