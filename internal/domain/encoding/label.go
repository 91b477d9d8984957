package encoding

import (
	"fmt"
	"sort"
)

// LabelEncoder maps each class to its position in the sorted class list.
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

// FitLabelEncoder learns the sorted distinct values of column.
func FitLabelEncoder(column []string) *LabelEncoder {
	return newLabelEncoder(distinctSorted(column))
}

// NewLabelEncoder restores an encoder from a persisted class list. Codes are
// positions in classes as given.
func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, fmt.Errorf("%w: label encoder without classes", ErrInvalidSpec)
	}
	seen := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		if _, dup := seen[c]; dup {
			return nil, fmt.Errorf("%w: duplicate label class %q", ErrInvalidSpec, c)
		}
		seen[c] = struct{}{}
	}
	return newLabelEncoder(append([]string(nil), classes...)), nil
}

func newLabelEncoder(classes []string) *LabelEncoder {
	idx := make(map[string]int, len(classes))
	for i, c := range classes {
		idx[c] = i
	}
	return &LabelEncoder{classes: classes, index: idx}
}

// Transform returns the code of v.
func (e *LabelEncoder) Transform(v string) (int, error) {
	code, ok := e.index[v]
	if !ok {
		return 0, fmt.Errorf("%w: previously unseen label %q", ErrUnknownCategory, v)
	}
	return code, nil
}

// Classes returns the class list; index i has code i.
func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func distinctSorted(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
