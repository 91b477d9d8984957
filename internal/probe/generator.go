package probe

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"

	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/pkg/logger"
)

// Out-of-range values used by invalid cases.
var (
	badAges     = []float64{validate.MinAge - 6, validate.MinAge - 1, validate.MaxAge + 1, 99}
	badYears    = []float64{validate.MinYears - 1, validate.MaxYears + 1, 50}
	badGenders  = []string{"Alien", "", "M", "unknown"}
	badEduLevel = []string{"phd", "Bachelors", "Associate Degree", ""}
	badTitles   = []string{"Astronaut", "software engineer", "Chief Vibes Officer"}
)

// Generator produces request cases from the service's job-title vocabulary.
// With a fixed seed it produces the same cases, in the same order, every run.
type Generator struct {
	titles []string
	rnd    *rand.Rand
	ids    *rand.Rand
}

// NewGenerator creates a generator over titles.
func NewGenerator(titles []string, seed uint64) (*Generator, error) {
	if len(titles) == 0 {
		return nil, fmt.Errorf("%w: no job titles to sample from", ErrConfig)
	}
	return &Generator{
		titles: append([]string(nil), titles...),
		rnd:    rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		ids:    rand.New(rand.NewPCG(seed, seed^0xbf58476d1ce4e5b9)),
	}, nil
}

// Generate returns n cases, of which about invalidRatio are expected to be
// rejected.
func (g *Generator) Generate(ctx context.Context, n int, invalidRatio float64) ([]Case, error) {
	logger.Get().Info(ctx, "generating requests",
		logger.Int("count", n),
		logger.Float64("invalidRatio", invalidRatio),
		logger.Int("jobTitles", len(g.titles)),
	)

	cases := make([]Case, n)
	for i := range cases {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		if g.rnd.Float64() < invalidRatio {
			cases[i] = g.invalid()
		} else {
			cases[i] = g.valid()
		}
		cases[i].ID = g.newID()
	}
	return cases, nil
}

func (g *Generator) newID() string {
	var b [16]byte
	for i := range b {
		b[i] = byte(g.ids.UintN(256))
	}
	id, err := uuid.FromBytes(b[:])
	if err != nil {
		return uuid.NewString()
	}
	// Stamp version 4 so the id is a well-formed random UUID.
	id[6] = (id[6] & 0x0f) | 0x40
	id[8] = (id[8] & 0x3f) | 0x80
	return id.String()
}

func (g *Generator) valid() Case {
	req := PredictRequest{
		Age:               float64(validate.MinAge + g.rnd.IntN(validate.MaxAge-validate.MinAge+1)),
		Gender:            pick(g.rnd, validate.Genders()),
		EducationLevel:    pick(g.rnd, validate.EducationLevels()),
		JobTitle:          pick(g.rnd, g.titles),
		YearsOfExperience: float64(validate.MinYears + g.rnd.IntN(validate.MaxYears-validate.MinYears+1)),
	}
	if g.rnd.IntN(4) == 0 {
		req.Gender = strings.ToLower(req.Gender)
		return Case{Kind: KindLowerGender, Request: req}
	}
	return Case{Kind: KindValid, Request: req}
}

// invalid breaks exactly one field of a valid request.
func (g *Generator) invalid() Case {
	c := g.valid()
	switch g.rnd.IntN(5) {
	case 0:
		c.Kind, c.WantError = KindAgeOutOfRange, validate.MsgAge
		c.Request.Age = pick(g.rnd, badAges)
	case 1:
		c.Kind, c.WantError = KindUnknownGender, validate.MsgGender
		c.Request.Gender = pick(g.rnd, badGenders)
	case 2:
		c.Kind, c.WantError = KindBadEducation, validate.MsgEducationLevel
		c.Request.EducationLevel = pick(g.rnd, badEduLevel)
	case 3:
		c.Kind, c.WantError = KindUnknownTitle, validate.MsgJobTitle
		c.Request.JobTitle = g.unknownTitle()
	default:
		c.Kind, c.WantError = KindYearsOutOfRange, validate.MsgYears
		c.Request.YearsOfExperience = pick(g.rnd, badYears)
	}
	return c
}

// unknownTitle returns a title the vocabulary does not contain.
func (g *Generator) unknownTitle() string {
	known := make(map[string]struct{}, len(g.titles))
	for _, t := range g.titles {
		known[t] = struct{}{}
	}
	for _, t := range badTitles {
		if _, ok := known[t]; !ok {
			return t
		}
	}
	return "Unknown Title " + uuid.NewString()
}

func pick[T any](r *rand.Rand, from []T) T {
	return from[r.IntN(len(from))]
}
