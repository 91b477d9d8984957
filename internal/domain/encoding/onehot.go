package encoding

import (
	"fmt"
)

// OneHotEncoder expands categorical columns into indicator columns. With
// dropFirst the first category of every column is omitted and implied by
// all zeros.
type OneHotEncoder struct {
	columns    []string
	categories [][]string
	index      []map[string]int
	dropFirst  bool
}

// FitOneHotEncoder learns the sorted distinct values of each column.
// values[i] holds the data of columns[i].
func FitOneHotEncoder(columns []string, values [][]string, dropFirst bool) (*OneHotEncoder, error) {
	if len(columns) != len(values) {
		return nil, fmt.Errorf("%w: %d columns but %d value lists", ErrInvalidSpec, len(columns), len(values))
	}
	cats := make([][]string, len(values))
	for i, col := range values {
		cats[i] = distinctSorted(col)
	}
	return NewOneHotEncoder(columns, cats, dropFirst)
}

// NewOneHotEncoder restores an encoder from persisted categories.
func NewOneHotEncoder(columns []string, categories [][]string, dropFirst bool) (*OneHotEncoder, error) {
	if len(columns) == 0 || len(columns) != len(categories) {
		return nil, fmt.Errorf("%w: %d columns but %d category lists", ErrInvalidSpec, len(columns), len(categories))
	}
	e := &OneHotEncoder{
		columns:    append([]string(nil), columns...),
		categories: make([][]string, len(categories)),
		index:      make([]map[string]int, len(categories)),
		dropFirst:  dropFirst,
	}
	for i, cats := range categories {
		if len(cats) == 0 {
			return nil, fmt.Errorf("%w: column %q has no categories", ErrInvalidSpec, columns[i])
		}
		e.categories[i] = append([]string(nil), cats...)
		e.index[i] = make(map[string]int, len(cats))
		for j, c := range cats {
			if _, dup := e.index[i][c]; dup {
				return nil, fmt.Errorf("%w: duplicate category %q in column %q", ErrInvalidSpec, c, columns[i])
			}
			e.index[i][c] = j
		}
	}
	return e, nil
}

// FeatureNames returns "<column>_<category>" for every emitted indicator.
func (e *OneHotEncoder) FeatureNames() []string {
	var names []string
	for i, col := range e.columns {
		for _, c := range e.kept(i) {
			names = append(names, col+"_"+c)
		}
	}
	return names
}

// Transform encodes one row; row[i] is the value of column i.
func (e *OneHotEncoder) Transform(row []string) ([]float64, error) {
	if len(row) != len(e.columns) {
		return nil, fmt.Errorf("%w: expected %d values, got %d", ErrInvalidSpec, len(e.columns), len(row))
	}
	var out []float64
	for i, v := range row {
		pos, ok := e.index[i][v]
		if !ok {
			return nil, fmt.Errorf("%w: %q in column %q", ErrUnknownCategory, v, e.columns[i])
		}
		ind := make([]float64, len(e.categories[i]))
		ind[pos] = 1
		if e.dropFirst {
			ind = ind[1:]
		}
		out = append(out, ind...)
	}
	return out, nil
}

// Categories returns the category list of column i, including a dropped one.
func (e *OneHotEncoder) Categories(i int) []string {
	return append([]string(nil), e.categories[i]...)
}

func (e *OneHotEncoder) kept(i int) []string {
	if e.dropFirst {
		return e.categories[i][1:]
	}
	return e.categories[i]
}
