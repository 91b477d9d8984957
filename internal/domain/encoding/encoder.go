// Package encoding turns a validated record into the numeric feature row a
// trained regressor expects.
//
// Two encoders share one output layout: the numeric columns Age,
// Education Level (label code) and Years of Experience, followed by the
// one-hot indicators of Gender and then Job Title.
package encoding

import (
	"context"

	"github.com/okian/salarypredict/internal/domain/model"
)

// Modes reported by Encoder.Mode.
const (
	ModeRefit  = "refit"
	ModeFrozen = "frozen"
)

// Encoder builds the feature vector of one record.
type Encoder interface {
	// Encode returns the feature row of rec. Honors ctx for cancellation.
	Encode(ctx context.Context, rec model.Record) (model.FeatureVector, error)

	// Mode names the encoding strategy.
	Mode() string
}

// oneHotColumns are expanded in this order.
func oneHotColumns() []string {
	return []string{model.ColumnGender, model.ColumnJobTitle}
}

// assemble lays out one encoded row.
func assemble(rec model.Record, eduCode int, oh *OneHotEncoder) (model.FeatureVector, error) {
	indicators, err := oh.Transform([]string{rec.Gender, rec.JobTitle})
	if err != nil {
		return model.FeatureVector{}, err
	}

	names := make([]string, 0, 3+len(indicators))
	names = append(names, model.ColumnAge, model.ColumnEducationLevel, model.ColumnYearsOfExperience)
	names = append(names, oh.FeatureNames()...)

	values := make([]float64, 0, len(names))
	values = append(values, rec.Age, float64(eduCode), rec.YearsOfExperience)
	values = append(values, indicators...)

	return model.FeatureVector{Names: names, Values: values}, nil
}
