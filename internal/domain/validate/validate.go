// Package validate checks raw prediction requests against the fixed
// vocabularies and numeric ranges the model was trained on.
package validate

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/okian/salarypredict/internal/domain/model"
)

// Request field names, as they appear in the JSON body.
const (
	FieldAge               = "age"
	FieldGender            = "gender"
	FieldEducationLevel    = "educationLevel"
	FieldJobTitle          = "jobTitle"
	FieldYearsOfExperience = "yearsOfExperience"
)

// Accepted ranges.
const (
	MinAge   = 21
	MaxAge   = 62
	MinYears = 0
	MaxYears = 34
)

// User-facing messages.
const (
	MsgAge            = "Age must be a number between 21 and 62."
	MsgGender         = "Gender must be Male, Female, or Other"
	MsgEducationLevel = "Education Level must be one of the specified options."
	MsgJobTitle       = "Job Title must be one of the specified options."
	MsgYears          = "Years of Experience must be between 0 and 34 years."
)

// Genders lists accepted genders after capitalisation.
func Genders() []string { return []string{"Male", "Female", "Other"} }

// EducationLevels lists accepted education levels (case-sensitive).
func EducationLevels() []string {
	return []string{"High School", "Bachelor's Degree", "Master's Degree", "PhD"}
}

// Validator holds the job-title vocabulary. It is immutable and safe for
// concurrent use.
type Validator struct {
	genders    map[string]struct{}
	educations map[string]struct{}
	jobTitles  map[string]struct{}
}

// New builds a Validator accepting exactly the given job titles.
func New(jobTitles []string) *Validator {
	return &Validator{
		genders:    toSet(Genders()),
		educations: toSet(EducationLevels()),
		jobTitles:  toSet(jobTitles),
	}
}

// JobTitleCount returns the size of the job-title vocabulary.
func (v *Validator) JobTitleCount() int { return len(v.jobTitles) }

// Validate checks in in a fixed order and returns the first failure as an
// *Error. On success the record carries the capitalised gender.
func (v *Validator) Validate(in Input) (model.Record, error) {
	if in.Age == nil || *in.Age < MinAge || *in.Age > MaxAge {
		return model.Record{}, fail(FieldAge, MsgAge)
	}

	var gender string
	if in.Gender != nil {
		gender = Capitalize(*in.Gender)
	}
	if _, ok := v.genders[gender]; in.Gender == nil || !ok {
		return model.Record{}, fail(FieldGender, MsgGender)
	}

	if _, ok := v.educations[deref(in.EducationLevel)]; in.EducationLevel == nil || !ok {
		return model.Record{}, fail(FieldEducationLevel, MsgEducationLevel)
	}

	if _, ok := v.jobTitles[deref(in.JobTitle)]; in.JobTitle == nil || !ok {
		return model.Record{}, fail(FieldJobTitle, MsgJobTitle)
	}

	if in.YearsOfExperience == nil || *in.YearsOfExperience < MinYears || *in.YearsOfExperience > MaxYears {
		return model.Record{}, fail(FieldYearsOfExperience, MsgYears)
	}

	return model.Record{
		Age:               *in.Age,
		Gender:            gender,
		EducationLevel:    *in.EducationLevel,
		JobTitle:          *in.JobTitle,
		YearsOfExperience: *in.YearsOfExperience,
	}, nil
}

// Capitalize upper-cases the first letter of s and lower-cases the rest.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToTitle(r)) + strings.ToLower(s[size:])
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
