// Package dataset loads the reference table of historical salary records.
//
// The table supplies the job-title vocabulary for validation and the
// population the refit encoder is fitted on. It is read once at startup and
// never mutated afterwards.
package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/okian/salarypredict/internal/domain/model"
)

// Columns that carry no model input: the pandas index, the target and the
// derived age bucket.
const (
	ColumnIndex    = "Unnamed: 0"
	ColumnSalary   = "Salary"
	ColumnAgeGroup = "Age Group"
)

const ctxCheckEvery = 1024

// FeatureColumns lists the model's raw input columns in frame order.
func FeatureColumns() []string {
	return []string{
		model.ColumnAge,
		model.ColumnGender,
		model.ColumnEducationLevel,
		model.ColumnJobTitle,
		model.ColumnYearsOfExperience,
	}
}

// Dataset is the immutable feature frame of the reference table.
type Dataset struct {
	rows      []model.Record
	jobTitles []string
	titleSet  map[string]struct{}
}

type loader struct {
	comma   rune
	dropped []string
}

// Load reads the CSV file at path.
func Load(ctx context.Context, path string, opts ...Option) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	defer f.Close()

	return Read(ctx, f, opts...)
}

// Read parses a reference table from r. The header must name every feature
// column; dropped and unknown columns are skipped.
func Read(ctx context.Context, r io.Reader, opts ...Option) (*Dataset, error) {
	l := &loader{
		comma:   ',',
		dropped: []string{"", ColumnIndex, ColumnSalary, ColumnAgeGroup},
	}
	for _, opt := range opts {
		opt(l)
	}

	cr := csv.NewReader(r)
	cr.Comma = l.comma
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("%w: header: %w", ErrMalformedRow, err)
	}
	pos, err := l.locate(header)
	if err != nil {
		return nil, err
	}

	d := &Dataset{titleSet: make(map[string]struct{})}
	for line := 2; ; line++ {
		if line%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedRow, err)
		}
		row, err := parseRow(rec, pos)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedRow, line, err)
		}
		d.add(row)
	}

	if len(d.rows) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// locate maps each feature column to its index in header.
func (l *loader) locate(header []string) (map[string]int, error) {
	dropped := make(map[string]struct{}, len(l.dropped))
	for _, c := range l.dropped {
		dropped[c] = struct{}{}
	}

	pos := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, skip := dropped[name]; skip {
			continue
		}
		pos[name] = i
	}
	for _, col := range FeatureColumns() {
		if _, ok := pos[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, col)
		}
	}
	return pos, nil
}

func parseRow(rec []string, pos map[string]int) (model.Record, error) {
	age, err := parseNumber(rec[pos[model.ColumnAge]])
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", model.ColumnAge, err)
	}
	years, err := parseNumber(rec[pos[model.ColumnYearsOfExperience]])
	if err != nil {
		return model.Record{}, fmt.Errorf("%s: %w", model.ColumnYearsOfExperience, err)
	}

	row := model.Record{
		Age:               age,
		Gender:            rec[pos[model.ColumnGender]],
		EducationLevel:    rec[pos[model.ColumnEducationLevel]],
		JobTitle:          rec[pos[model.ColumnJobTitle]],
		YearsOfExperience: years,
	}
	for col, v := range map[string]string{
		model.ColumnGender:         row.Gender,
		model.ColumnEducationLevel: row.EducationLevel,
		model.ColumnJobTitle:       row.JobTitle,
	} {
		if v == "" {
			return model.Record{}, fmt.Errorf("%s: empty value", col)
		}
	}
	return row, nil
}

func parseNumber(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	return v, nil
}

func (d *Dataset) add(row model.Record) {
	d.rows = append(d.rows, row)
	if _, seen := d.titleSet[row.JobTitle]; !seen {
		d.titleSet[row.JobTitle] = struct{}{}
		d.jobTitles = append(d.jobTitles, row.JobTitle)
	}
}

// Len returns the number of reference rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns a copy of the feature rows in file order.
func (d *Dataset) Rows() []model.Record {
	return append([]model.Record(nil), d.rows...)
}

// Row returns the i-th row.
func (d *Dataset) Row(i int) model.Record { return d.rows[i] }

// JobTitles returns the distinct job titles in first-seen order.
func (d *Dataset) JobTitles() []string {
	return append([]string(nil), d.jobTitles...)
}

// HasJobTitle reports whether title occurs in the table.
func (d *Dataset) HasJobTitle(title string) bool {
	_, ok := d.titleSet[title]
	return ok
}

// Categories returns the distinct values of a categorical feature column in
// first-seen order. Unknown columns yield nil.
func (d *Dataset) Categories(column string) []string {
	get := categoricalGetter(column)
	if get == nil {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, r := range d.rows {
		v := get(r)
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func categoricalGetter(column string) func(model.Record) string {
	switch column {
	case model.ColumnGender:
		return func(r model.Record) string { return r.Gender }
	case model.ColumnEducationLevel:
		return func(r model.Record) string { return r.EducationLevel }
	case model.ColumnJobTitle:
		return func(r model.Record) string { return r.JobTitle }
	}
	return nil
}
