// Package model contains domain models passed between layers.
package model

// Column names of the reference dataset and of the model's raw feature space.
const (
	ColumnAge               = "Age"
	ColumnGender            = "Gender"
	ColumnEducationLevel    = "Education Level"
	ColumnJobTitle          = "Job Title"
	ColumnYearsOfExperience = "Years of Experience"
)

// Record is a validated candidate profile.
// Gender is already normalised to its capitalised form.
type Record struct {
	Age               float64
	Gender            string
	EducationLevel    string
	JobTitle          string
	YearsOfExperience float64
}

// Prediction is a record echoed back together with its salary estimate.
type Prediction struct {
	Age               float64 `json:"age"`
	Gender            string  `json:"gender"`
	EducationLevel    string  `json:"educationLevel"`
	JobTitle          string  `json:"jobTitle"`
	YearsOfExperience float64 `json:"yearsOfExperience"`
	PredictedSalary   float64 `json:"predictedSalary"`
}

// NewPrediction attaches salary to r.
func NewPrediction(r Record, salary float64) Prediction {
	return Prediction{
		Age:               r.Age,
		Gender:            r.Gender,
		EducationLevel:    r.EducationLevel,
		JobTitle:          r.JobTitle,
		YearsOfExperience: r.YearsOfExperience,
		PredictedSalary:   salary,
	}
}
