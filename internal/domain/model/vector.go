package model

// FeatureVector is one encoded row: Names[i] labels Values[i].
// It lives for a single request.
type FeatureVector struct {
	Names  []string
	Values []float64
}

// Len returns the number of features.
func (v FeatureVector) Len() int { return len(v.Values) }

// Lookup returns the value of the named feature.
func (v FeatureVector) Lookup(name string) (float64, bool) {
	for i, n := range v.Names {
		if n == name {
			return v.Values[i], true
		}
	}
	return 0, false
}

// Index maps feature names to their positions.
func (v FeatureVector) Index() map[string]int {
	idx := make(map[string]int, len(v.Names))
	for i, n := range v.Names {
		idx[n] = i
	}
	return idx
}
