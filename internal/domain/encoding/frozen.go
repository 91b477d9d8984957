package encoding

import (
	"context"
	"fmt"

	"github.com/okian/salarypredict/internal/domain/model"
)

// DropFirst is the only drop policy Spec understands besides none.
const DropFirst = "first"

// Spec is the training-time encoding persisted next to the model weights.
type Spec struct {
	// Label maps a column to its class list; class i has code i.
	Label map[string][]string `json:"label"`

	// OneHot lists the expanded columns in output order.
	OneHot []OneHotColumn `json:"one_hot"`

	// Drop is "first" or empty.
	Drop string `json:"drop"`
}

// OneHotColumn holds the categories of one expanded column.
type OneHotColumn struct {
	Column     string   `json:"column"`
	Categories []string `json:"categories"`
}

// Validate checks that s describes the columns this service encodes.
func (s *Spec) Validate() error {
	if s == nil {
		return fmt.Errorf("%w: missing", ErrInvalidSpec)
	}
	if len(s.Label) != 1 || len(s.Label[model.ColumnEducationLevel]) == 0 {
		return fmt.Errorf("%w: label must cover exactly %q", ErrInvalidSpec, model.ColumnEducationLevel)
	}
	want := oneHotColumns()
	if len(s.OneHot) != len(want) {
		return fmt.Errorf("%w: one_hot must list %v", ErrInvalidSpec, want)
	}
	for i, col := range s.OneHot {
		if col.Column != want[i] {
			return fmt.Errorf("%w: one_hot column %d is %q, want %q", ErrInvalidSpec, i, col.Column, want[i])
		}
	}
	switch s.Drop {
	case "", DropFirst:
	default:
		return fmt.Errorf("%w: unsupported drop %q", ErrInvalidSpec, s.Drop)
	}
	return nil
}

// FrozenEncoder applies a persisted training-time encoding to each record
// on its own; the reference data is never consulted.
type FrozenEncoder struct {
	label *LabelEncoder
	oh    *OneHotEncoder
}

// NewFrozenEncoder builds an encoder from spec.
func NewFrozenEncoder(spec *Spec) (*FrozenEncoder, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	label, err := NewLabelEncoder(spec.Label[model.ColumnEducationLevel])
	if err != nil {
		return nil, err
	}

	cols := make([]string, len(spec.OneHot))
	cats := make([][]string, len(spec.OneHot))
	for i, c := range spec.OneHot {
		cols[i] = c.Column
		cats[i] = c.Categories
	}
	oh, err := NewOneHotEncoder(cols, cats, spec.Drop == DropFirst)
	if err != nil {
		return nil, err
	}
	return &FrozenEncoder{label: label, oh: oh}, nil
}

// Mode implements Encoder.
func (e *FrozenEncoder) Mode() string { return ModeFrozen }

// Encode implements Encoder.
func (e *FrozenEncoder) Encode(ctx context.Context, rec model.Record) (model.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return model.FeatureVector{}, err
	}
	code, err := e.label.Transform(rec.EducationLevel)
	if err != nil {
		return model.FeatureVector{}, err
	}
	return assemble(rec, code, e.oh)
}

// SpecFromRows derives the encoding a refit over rows alone would produce.
// Exporters use it to persist the training-time mapping.
func SpecFromRows(rows []model.Record) *Spec {
	r := NewRefitEncoder(rows)
	return &Spec{
		Label: map[string][]string{
			model.ColumnEducationLevel: distinctSorted(r.education),
		},
		OneHot: []OneHotColumn{
			{Column: model.ColumnGender, Categories: distinctSorted(r.gender)},
			{Column: model.ColumnJobTitle, Categories: distinctSorted(r.jobTitle)},
		},
		Drop: DropFirst,
	}
}
