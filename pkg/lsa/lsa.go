// Package lsa implements the truncated-SVD latent semantic analysis
// engine: full SVD over a compacted dense copy of the sparse
// term-document matrix, top-K truncation with a fixed sign convention,
// and query projection with L2 normalization.
package lsa

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged reports that SVD failed on pathological input; the
// caller must leave its previous model in force.
var ErrNotConverged = errors.New("lsa: svd did not converge")

// zeroNormEpsilon is the pre-normalization-norm floor below which a
// projected query vector is treated as the zero vector.
const zeroNormEpsilon = 1e-12

// Model holds a trained projection: a V×K matrix of right singular
// vectors and the corresponding top-K singular values.
type Model struct {
	Projection [][]float32 // V rows (vocab id) × K cols
	Singular   []float32   // length K, zero-padded past rank
	V          int
	K          int
}

// DocRow is one document's sparse TF-IDF row, addressed by full
// vocabulary id.
type DocRow struct {
	IDs    []int
	Values []float32
}

// Train fits a truncated-SVD model over N documents' TF-IDF rows,
// returning a V×K projection. Documents are densified only over the
// union of ids with any nonzero value across the corpus (the compacted
// column set), then right singular vectors are remapped back to full
// V-space with zero-fill for inactive ids, keeping intermediate memory
// bounded by total term occurrences.
//
// Returns (nil, nil) when the corpus is too small to train on (N < 2 or
// V < 1); the caller keeps its model untrained. Returns ErrNotConverged
// if the SVD factorization fails.
func Train(rows []DocRow, v int, k int) (*Model, error) {
	n := len(rows)
	if n < 2 || v < 1 {
		return nil, nil
	}
	if k <= 0 {
		k = 1
	}

	activeIDs, compactIdx := compactColumns(rows, v)
	c := len(activeIDs)
	if c == 0 {
		return nil, nil
	}

	data := make([]float64, n*c)
	for docIdx, row := range rows {
		for i, id := range row.IDs {
			if ci, ok := compactIdx[id]; ok {
				data[docIdx*c+ci] = float64(row.Values[i])
			}
		}
	}
	m := mat.NewDense(n, c, data)

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDThin) {
		return nil, ErrNotConverged
	}

	var vFull mat.Dense
	svd.VTo(&vFull)
	singularValues := svd.Values(nil)

	kPrime := k
	if kPrime > len(singularValues) {
		kPrime = len(singularValues)
	}
	if kPrime > v {
		kPrime = v
	}
	if kPrime > n {
		kPrime = n
	}

	fixColumnSigns(&vFull, c, kPrime)

	projection := make([][]float32, v)
	for id := 0; id < v; id++ {
		projection[id] = make([]float32, k)
	}
	for _, id := range activeIDs {
		ci := compactIdx[id]
		for j := 0; j < kPrime; j++ {
			projection[id][j] = float32(vFull.At(ci, j))
		}
	}

	singular := make([]float32, k)
	for j := 0; j < kPrime; j++ {
		singular[j] = float32(singularValues[j])
	}

	return &Model{Projection: projection, Singular: singular, V: v, K: k}, nil
}

// compactColumns returns the sorted list of vocabulary ids with any
// nonzero weight across rows, and a map from id to its compact column
// index.
func compactColumns(rows []DocRow, v int) ([]int, map[int]int) {
	present := make([]bool, v)
	for _, row := range rows {
		for _, id := range row.IDs {
			if id >= 0 && id < v {
				present[id] = true
			}
		}
	}
	var ids []int
	idx := make(map[int]int)
	for id := 0; id < v; id++ {
		if present[id] {
			idx[id] = len(ids)
			ids = append(ids, id)
		}
	}
	return ids, idx
}

// fixColumnSigns makes the factorization reproducible across runs and
// rebuilds: for each of the first k columns, the element of largest
// absolute magnitude must be non-negative.
func fixColumnSigns(v *mat.Dense, rows, k int) {
	for j := 0; j < k; j++ {
		maxAbs := -1.0
		sign := 1.0
		for i := 0; i < rows; i++ {
			val := v.At(i, j)
			if math.Abs(val) > maxAbs {
				maxAbs = math.Abs(val)
				if val < 0 {
					sign = -1.0
				} else {
					sign = 1.0
				}
			}
		}
		if sign < 0 {
			for i := 0; i < rows; i++ {
				v.Set(i, j, -v.At(i, j))
			}
		}
	}
}

// Project computes the K-dimensional embedding of a TF-IDF weighted
// query vector x (length V): y = x^T · projection, scaled elementwise by
// the singular weights, then L2-normalized. Returns the zero vector if
// the pre-normalization norm falls below 1e-12.
func (m *Model) Project(x []float32) []float32 {
	y := make([]float64, m.K)
	for id, xi := range x {
		if xi == 0 || id >= len(m.Projection) {
			continue
		}
		row := m.Projection[id]
		for j := 0; j < m.K && j < len(row); j++ {
			y[j] += float64(xi) * float64(row[j])
		}
	}

	for j := 0; j < m.K && j < len(m.Singular); j++ {
		y[j] *= float64(m.Singular[j])
	}

	var sumSquares float64
	for _, v := range y {
		sumSquares += v * v
	}
	norm := math.Sqrt(sumSquares)

	out := make([]float32, m.K)
	if norm < zeroNormEpsilon {
		return out
	}
	for j, v := range y {
		out[j] = float32(v / norm)
	}
	return out
}
