package encoding

import (
	"context"

	"github.com/okian/salarypredict/internal/domain/model"
)

// RefitEncoder fits fresh encoders on the reference rows plus the incoming
// record for every call, then encodes that record as the last row.
//
// Codes therefore depend on which categories the combined frame contains:
// the Education Level code of a value is its rank among the levels present,
// and the indicator columns are whatever categories appear, minus the first.
// This matches how the deployed model was originally served.
type RefitEncoder struct {
	education []string
	gender    []string
	jobTitle  []string
}

// NewRefitEncoder captures the categorical columns of rows. rows is not
// retained.
func NewRefitEncoder(rows []model.Record) *RefitEncoder {
	e := &RefitEncoder{
		education: make([]string, len(rows)),
		gender:    make([]string, len(rows)),
		jobTitle:  make([]string, len(rows)),
	}
	for i, r := range rows {
		e.education[i] = r.EducationLevel
		e.gender[i] = r.Gender
		e.jobTitle[i] = r.JobTitle
	}
	return e
}

// Mode implements Encoder.
func (e *RefitEncoder) Mode() string { return ModeRefit }

// Encode implements Encoder.
func (e *RefitEncoder) Encode(ctx context.Context, rec model.Record) (model.FeatureVector, error) {
	if err := ctx.Err(); err != nil {
		return model.FeatureVector{}, err
	}

	// Full-slice expressions force append to copy, so concurrent calls never
	// share a backing array.
	n := len(e.education)
	education := append(e.education[:n:n], rec.EducationLevel)
	gender := append(e.gender[:n:n], rec.Gender)
	jobTitle := append(e.jobTitle[:n:n], rec.JobTitle)

	label := FitLabelEncoder(education)
	oh, err := FitOneHotEncoder(oneHotColumns(), [][]string{gender, jobTitle}, true)
	if err != nil {
		return model.FeatureVector{}, err
	}

	code, err := label.Transform(rec.EducationLevel)
	if err != nil {
		return model.FeatureVector{}, err
	}
	return assemble(rec, code, oh)
}
