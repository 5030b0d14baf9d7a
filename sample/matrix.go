package sample

import "errors"

// sentinelFeatureID terminates each row's (feature id, value) run.
const sentinelFeatureID = int32(-1)

// Sentinel errors for sample package operations.
var (
	// ErrEmptyMatrix indicates a matrix was built with zero rows.
	ErrEmptyMatrix = errors.New("sample: matrix has no rows")

	// ErrBadDimension indicates a non-positive feature dimension.
	ErrBadDimension = errors.New("sample: dimension must be > 0")

	// ErrDuplicateFeature indicates two pairs in one row share a feature id.
	ErrDuplicateFeature = errors.New("sample: duplicate feature id in row")

	// ErrUnsortedRow indicates a row's feature ids were not strictly increasing.
	ErrUnsortedRow = errors.New("sample: row feature ids must be strictly increasing")
)

// Feature is a single (feature id, value) pair within one sparse row.
type Feature struct {
	ID    int32
	Value float64
}

// Matrix is a sparse, row-major sample matrix with O(1) row-swap support.
//
// Row i's pairs live in values[offsets[i]:] / features[offsets[i]:], read
// until the sentinel feature id is encountered. sqNorms[i] is the squared
// L2 norm of row i, recomputed at construction and kept in lock-step with
// the row under Swap.
type Matrix struct {
	values   []float64
	features []int32
	offsets  []int32
	sqNorms  []float64
	dim      int
}

// NewMatrix builds a Matrix from rows of feature pairs, each already sorted
// by strictly increasing feature id with no duplicates. dim is the feature
// space width (ids must satisfy 0 <= id < dim).
func NewMatrix(rows [][]Feature, dim int) (*Matrix, error) {
	if len(rows) == 0 {
		return nil, ErrEmptyMatrix
	}
	if dim <= 0 {
		return nil, ErrBadDimension
	}

	total := 0
	for _, row := range rows {
		total += len(row) + 1 // +1 for the per-row sentinel
	}

	m := &Matrix{
		values:   make([]float64, 0, total),
		features: make([]int32, 0, total),
		offsets:  make([]int32, len(rows)),
		sqNorms:  make([]float64, len(rows)),
		dim:      dim,
	}

	for i, row := range rows {
		m.offsets[i] = int32(len(m.values))
		var sq float64
		prev := int32(-1)
		for _, f := range row {
			if f.ID <= prev {
				if f.ID == prev {
					return nil, ErrDuplicateFeature
				}
				return nil, ErrUnsortedRow
			}
			prev = f.ID
			m.values = append(m.values, f.Value)
			m.features = append(m.features, f.ID)
			sq += f.Value * f.Value
		}
		m.values = append(m.values, 0)
		m.features = append(m.features, sentinelFeatureID)
		m.sqNorms[i] = sq
	}

	return m, nil
}

// Len returns the number of samples (rows) in the matrix.
func (m *Matrix) Len() int { return len(m.offsets) }

// Dim returns the configured feature space width.
func (m *Matrix) Dim() int { return m.dim }

// SquaredNorm returns ‖x_i‖² for sample i.
func (m *Matrix) SquaredNorm(i int32) float64 { return m.sqNorms[i] }

// Dot computes the sparse dot product ⟨x_u, x_v⟩ via a merge-style two
// pointer sweep over each row's sorted feature ids.
//
// Complexity: O(nnz_u + nnz_v).
func (m *Matrix) Dot(u, v int32) float64 {
	pu, pv := m.offsets[u], m.offsets[v]
	var sum float64
	for {
		fu, fv := m.features[pu], m.features[pv]
		if fu == sentinelFeatureID || fv == sentinelFeatureID {
			break
		}
		switch {
		case fu == fv:
			sum += m.values[pu] * m.values[pv]
			pu++
			pv++
		case fu < fv:
			pu++
		default:
			pv++
		}
	}
	return sum
}

// Dist computes ‖x_u − x_v‖² via the norm identity
// ‖u−v‖² = ‖u‖² + ‖v‖² − 2⟨u,v⟩, avoiding a second sparse pass.
func (m *Matrix) Dist(u, v int32) float64 {
	d := m.sqNorms[u] + m.sqNorms[v] - 2*m.Dot(u, v)
	if d < 0 {
		// guards against small negative values from floating point cancellation
		d = 0
	}
	return d
}

// DistRange fills out[r-from] = Dist(fixed, r) for r in [from, to).
// out must have length >= to-from.
func (m *Matrix) DistRange(fixed int32, from, to int32, out []float64) {
	for r := from; r < to; r++ {
		out[r-from] = m.Dist(fixed, r)
	}
}

// Swap exchanges the storage offsets and squared norms of samples u and v.
// This is the only mutation that relocates a sample; it never touches the
// row payloads in values/features. Complexity: O(1).
func (m *Matrix) Swap(u, v int32) {
	m.offsets[u], m.offsets[v] = m.offsets[v], m.offsets[u]
	m.sqNorms[u], m.sqNorms[v] = m.sqNorms[v], m.sqNorms[u]
}

// Row returns sample i's (feature id, value) pairs, in ascending feature id
// order. Used to extract support vectors for persistence; not used on any
// hot training path.
func (m *Matrix) Row(i int32) []Feature {
	var row []Feature
	for p := m.offsets[i]; m.features[p] != sentinelFeatureID; p++ {
		row = append(row, Feature{ID: m.features[p], Value: m.values[p]})
	}
	return row
}
