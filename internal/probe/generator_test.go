package probe

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

var testTitles = []string{"Software Engineer", "Data Analyst", "Product Manager"}

func TestGenerator(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator with a fixed seed", t, func() {
		g, err := NewGenerator(testTitles, 42)
		So(err, ShouldBeNil)

		Convey("When a batch is generated", func() {
			cases, err := g.Generate(ctx, 500, 0.4)
			So(err, ShouldBeNil)
			So(cases, ShouldHaveLength, 500)

			Convey("Then every id should be a unique UUID", func() {
				seen := make(map[string]struct{})
				for _, c := range cases {
					_, err := uuid.Parse(c.ID)
					So(err, ShouldBeNil)
					seen[c.ID] = struct{}{}
				}
				So(seen, ShouldHaveLength, 500)
			})

			Convey("Then valid cases should stay inside the accepted ranges", func() {
				v := validate.New(testTitles)
				for _, c := range cases {
					if !c.Valid() {
						continue
					}
					in := validate.Input{
						Age:               validate.Float(c.Request.Age),
						Gender:            validate.String(c.Request.Gender),
						EducationLevel:    validate.String(c.Request.EducationLevel),
						JobTitle:          validate.String(c.Request.JobTitle),
						YearsOfExperience: validate.Float(c.Request.YearsOfExperience),
					}
					_, err := v.Validate(in)
					So(err, ShouldBeNil)
				}
			})

			Convey("Then invalid cases should fail with their expected message", func() {
				v := validate.New(testTitles)
				invalid := 0
				for _, c := range cases {
					if c.Valid() {
						continue
					}
					invalid++
					in := validate.Input{
						Age:               validate.Float(c.Request.Age),
						Gender:            validate.String(c.Request.Gender),
						EducationLevel:    validate.String(c.Request.EducationLevel),
						JobTitle:          validate.String(c.Request.JobTitle),
						YearsOfExperience: validate.Float(c.Request.YearsOfExperience),
					}
					_, err := v.Validate(in)
					So(err, ShouldNotBeNil)
					So(err.Error(), ShouldEqual, c.WantError)
				}
				So(invalid, ShouldBeBetween, 100, 300)
			})

			Convey("Then every kind should appear", func() {
				kinds := make(map[string]bool)
				for _, c := range cases {
					kinds[c.Kind] = true
				}
				for _, k := range []string{KindValid, KindLowerGender, KindAgeOutOfRange, KindUnknownGender,
					KindBadEducation, KindUnknownTitle, KindYearsOutOfRange} {
					So(kinds[k], ShouldBeTrue)
				}
			})
		})

		Convey("When a second generator uses the same seed", func() {
			other, _ := NewGenerator(testTitles, 42)
			a, _ := g.Generate(ctx, 50, 0.5)
			b, _ := other.Generate(ctx, 50, 0.5)

			Convey("Then it should produce the same cases", func() {
				So(a, ShouldResemble, b)
			})
		})

		Convey("When the ratio is zero", func() {
			cases, _ := g.Generate(ctx, 100, 0)

			Convey("Then every case should be valid", func() {
				for _, c := range cases {
					So(c.Valid(), ShouldBeTrue)
				}
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := g.Generate(cctx, 10, 0)

			Convey("Then generation should stop", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})

	Convey("Given an empty vocabulary", t, func() {
		_, err := NewGenerator(nil, 1)

		Convey("Then the generator should refuse it", func() {
			So(errors.Is(err, ErrConfig), ShouldBeTrue)
		})
	})

	Convey("Given a vocabulary containing the usual unknown titles", t, func() {
		g, _ := NewGenerator(append([]string{}, badTitles...), 7)

		Convey("Then a fresh unknown title should be produced", func() {
			title := g.unknownTitle()
			So(badTitles, ShouldNotContain, title)
		})
	})
}
