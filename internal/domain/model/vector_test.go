package model_test

import (
	"testing"

	"github.com/okian/salarypredict/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFeatureVector(t *testing.T) {
	Convey("Given a feature vector", t, func() {
		v := model.FeatureVector{
			Names:  []string{"Age", "Education Level", "Gender_Male"},
			Values: []float64{30, 0, 1},
		}

		Convey("Then lookups by name should return the matching value", func() {
			got, ok := v.Lookup("Gender_Male")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, 1.0)

			_, ok = v.Lookup("Gender_Other")
			So(ok, ShouldBeFalse)
		})

		Convey("And the index should map names to positions", func() {
			So(v.Len(), ShouldEqual, 3)
			So(v.Index(), ShouldResemble, map[string]int{"Age": 0, "Education Level": 1, "Gender_Male": 2})
		})
	})
}

func TestNewPrediction(t *testing.T) {
	Convey("Given a validated record", t, func() {
		r := model.Record{
			Age:               30,
			Gender:            "Male",
			EducationLevel:    "Bachelor's Degree",
			JobTitle:          "Data Analyst",
			YearsOfExperience: 5,
		}

		Convey("When a salary is attached", func() {
			p := model.NewPrediction(r, 61250)

			Convey("Then every input field should be echoed", func() {
				So(p.Age, ShouldEqual, 30.0)
				So(p.Gender, ShouldEqual, "Male")
				So(p.EducationLevel, ShouldEqual, "Bachelor's Degree")
				So(p.JobTitle, ShouldEqual, "Data Analyst")
				So(p.YearsOfExperience, ShouldEqual, 5.0)
				So(p.PredictedSalary, ShouldEqual, 61250.0)
			})
		})
	})
}
