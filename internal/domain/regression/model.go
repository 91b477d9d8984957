// Package regression evaluates a trained salary regressor loaded from a JSON
// artifact.
package regression

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/okian/salarypredict/internal/domain/encoding"
	"github.com/okian/salarypredict/internal/domain/model"
)

// regressor computes a prediction from features in model order.
type regressor interface {
	predict(x []float64) float64
}

// Model is an immutable trained regressor. Safe for concurrent use.
type Model struct {
	kind     string
	version  string
	features []string
	index    map[string]int
	trees    int
	impl     regressor
	encoding *encoding.Spec
}

// Load reads the artifact at path.
func Load(ctx context.Context, path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	return Read(ctx, f)
}

// Read decodes and validates an artifact from r.
func Read(ctx context.Context, r io.Reader) (*Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var a Artifact
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return nil, fmt.Errorf("%w: decode: %w", ErrInvalidModel, err)
	}
	return New(&a)
}

// New builds a Model from a decoded artifact.
func New(a *Artifact) (*Model, error) {
	if len(a.FeatureNames) == 0 {
		return nil, fmt.Errorf("%w: no feature names", ErrInvalidModel)
	}
	index := make(map[string]int, len(a.FeatureNames))
	for i, name := range a.FeatureNames {
		if _, dup := index[name]; dup {
			return nil, fmt.Errorf("%w: duplicate feature %q", ErrInvalidModel, name)
		}
		index[name] = i
	}

	m := &Model{
		kind:     a.Kind,
		version:  a.Version,
		features: append([]string(nil), a.FeatureNames...),
		index:    index,
	}

	switch a.Kind {
	case KindRandomForest:
		f, err := newForest(a.Trees, len(a.FeatureNames))
		if err != nil {
			return nil, err
		}
		m.impl = f
		m.trees = len(f.trees)
	case KindLinear:
		if len(a.Coefficients) != len(a.FeatureNames) {
			return nil, fmt.Errorf("%w: %d coefficients for %d features",
				ErrInvalidModel, len(a.Coefficients), len(a.FeatureNames))
		}
		m.impl = &linear{
			coef:      append([]float64(nil), a.Coefficients...),
			intercept: a.Intercept,
		}
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidModel, a.Kind)
	}

	if a.Encoding != nil {
		if err := a.Encoding.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidModel, err)
		}
		m.encoding = a.Encoding
	}
	return m, nil
}

// Predict aligns v to the model's features by name and evaluates it.
func (m *Model) Predict(ctx context.Context, v model.FeatureVector) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	x, err := m.align(v)
	if err != nil {
		return 0, err
	}
	y := m.impl.predict(x)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("%w: %v", ErrNonFinite, y)
	}
	return y, nil
}

func (m *Model) align(v model.FeatureVector) ([]float64, error) {
	if len(v.Names) != len(v.Values) {
		return nil, fmt.Errorf("%w: %d names for %d values", ErrFeatureMismatch, len(v.Names), len(v.Values))
	}
	x := make([]float64, len(m.features))
	seen := make([]bool, len(m.features))
	var extra []string
	for i, name := range v.Names {
		pos, ok := m.index[name]
		if !ok {
			extra = append(extra, name)
			continue
		}
		x[pos] = v.Values[i]
		seen[pos] = true
	}
	var missing []string
	for i, ok := range seen {
		if !ok {
			missing = append(missing, m.features[i])
		}
	}
	if len(extra) > 0 || len(missing) > 0 {
		return nil, fmt.Errorf("%w: unexpected [%s] missing [%s]",
			ErrFeatureMismatch, strings.Join(extra, ", "), strings.Join(missing, ", "))
	}
	return x, nil
}

// Kind returns the model kind.
func (m *Model) Kind() string { return m.kind }

// Version returns the artifact version.
func (m *Model) Version() string { return m.version }

// FeatureNames returns the expected features in order.
func (m *Model) FeatureNames() []string { return append([]string(nil), m.features...) }

// TreeCount returns the number of trees; zero for linear models.
func (m *Model) TreeCount() int { return m.trees }

// Encoding returns the persisted training-time encoding, or nil.
func (m *Model) Encoding() *encoding.Spec { return m.encoding }
