package reviewrank

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// termRow holds the non-zero term weights of one row, ordered by column.
type termRow struct {
	cols    []int
	weights []float64
}

func (r termRow) at(j int) float64 {
	k := sort.SearchInts(r.cols, j)
	if k < len(r.cols) && r.cols[k] == j {
		return r.weights[k]
	}
	return 0
}

// A FeatureMatrix is the design matrix X: one row per feature record, a sparse
// block of TF-IDF term weights followed by dense numeric columns.
//
// Column j < len(Vocabulary()) is the term Vocabulary()[j]; the remaining
// columns are named by NumericColumns(). FeatureMatrix satisfies mat.Matrix
// and is read-only once built.
type FeatureMatrix struct {
	vocabulary []string
	terms      []termRow
	numeric    *mat.Dense
	numNames   []string
}

var _ mat.Matrix = (*FeatureMatrix)(nil)

// Dims returns the number of rows and columns of x.
func (x *FeatureMatrix) Dims() (r, c int) {
	if x == nil {
		return 0, 0
	}
	return len(x.terms), len(x.vocabulary) + len(x.numNames)
}

// At returns the value at row i, column j. It panics if either index is out
// of range.
func (x *FeatureMatrix) At(i, j int) float64 {
	r, c := x.Dims()
	if i < 0 || i >= r {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || j >= c {
		panic(mat.ErrColAccess)
	}
	if v := len(x.vocabulary); j >= v {
		return x.numeric.At(i, j-v)
	}
	return x.terms[i].at(j)
}

// T returns the transpose of x.
func (x *FeatureMatrix) T() mat.Matrix {
	return mat.Transpose{Matrix: x}
}

// Vocabulary returns the retained terms in column order.
func (x *FeatureMatrix) Vocabulary() []string {
	return x.vocabulary
}

// NumericColumns returns the names of the dense columns that follow the terms.
func (x *FeatureMatrix) NumericColumns() []string {
	return x.numNames
}

// Columns returns every column name in order.
func (x *FeatureMatrix) Columns() []string {
	cols := make([]string, 0, len(x.vocabulary)+len(x.numNames))
	cols = append(cols, x.vocabulary...)
	return append(cols, x.numNames...)
}

// TermWeights returns the non-zero term weights of row i keyed by term.
func (x *FeatureMatrix) TermWeights(i int) map[string]float64 {
	row := x.terms[i]
	out := make(map[string]float64, len(row.cols))
	for k, j := range row.cols {
		out[x.vocabulary[j]] = row.weights[k]
	}
	return out
}

// Numeric returns the dense numeric block.
func (x *FeatureMatrix) Numeric() mat.Matrix {
	return x.numeric
}

// SubsetRows returns a matrix holding rows idx of x, in the given order. Row
// storage is shared with x.
func (x *FeatureMatrix) SubsetRows(idx []int) *FeatureMatrix {
	sub := &FeatureMatrix{
		vocabulary: x.vocabulary,
		terms:      make([]termRow, len(idx)),
		numNames:   x.numNames,
	}
	if len(idx) == 0 {
		return sub
	}
	sub.numeric = mat.NewDense(len(idx), len(x.numNames), nil)
	for k, i := range idx {
		sub.terms[k] = x.terms[i]
		sub.numeric.SetRow(k, x.numeric.RawRowView(i))
	}
	return sub
}

// rowFunc returns an accessor for row i that avoids the bounds checks of At.
func (x *FeatureMatrix) rowFunc(i int) func(j int) float64 {
	row := x.terms[i]
	v := len(x.vocabulary)
	numeric := x.numeric.RawRowView(i)
	return func(j int) float64 {
		if j >= v {
			return numeric[j-v]
		}
		return row.at(j)
	}
}

// columns copies x into column-major storage, filling the term block from the
// sparse rows directly.
func (x *FeatureMatrix) columns() [][]float64 {
	r, c := x.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = make([]float64, r)
	}
	v := len(x.vocabulary)
	for i, row := range x.terms {
		for k, j := range row.cols {
			cols[j][i] = row.weights[k]
		}
		for k, val := range x.numeric.RawRowView(i) {
			cols[v+k][i] = val
		}
	}
	return cols
}

// denseColumns copies any matrix into column-major storage.
func denseColumns(m mat.Matrix) [][]float64 {
	if fm, ok := m.(*FeatureMatrix); ok {
		return fm.columns()
	}
	r, c := m.Dims()
	cols := make([][]float64, c)
	for j := range cols {
		cols[j] = make([]float64, r)
		mat.Col(cols[j], j, m)
	}
	return cols
}

// subsetRows selects rows idx of any matrix.
func subsetRows(m mat.Matrix, idx []int) mat.Matrix {
	if fm, ok := m.(*FeatureMatrix); ok {
		return fm.SubsetRows(idx)
	}
	_, c := m.Dims()
	out := mat.NewDense(len(idx), c, nil)
	row := make([]float64, c)
	for k, i := range idx {
		mat.Row(row, i, m)
		out.SetRow(k, row)
	}
	return out
}
