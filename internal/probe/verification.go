package probe

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/pkg/logger"
)

// Verify checks one answer against its case and records the verdict on r.
// Rejections are accepted with 400 or, for legacy deployments, 200.
func Verify(r *Result) {
	r.Passed, r.Reason = check(r)
}

func check(r *Result) (bool, string) {
	if r.Reason != "" {
		return false, r.Reason
	}
	c, resp := r.Case, r.Response

	if !c.Valid() {
		if r.StatusCode != http.StatusBadRequest && r.StatusCode != http.StatusOK {
			return false, fmt.Sprintf("status %d, want 400", r.StatusCode)
		}
		if resp.Error != c.WantError {
			return false, fmt.Sprintf("error %q, want %q", resp.Error, c.WantError)
		}
		return true, ""
	}

	if r.StatusCode != http.StatusOK {
		return false, fmt.Sprintf("status %d, want 200 (error %q)", r.StatusCode, resp.Error)
	}
	if resp.Error != "" {
		return false, fmt.Sprintf("unexpected error %q", resp.Error)
	}
	if resp.PredictedSalary == nil {
		return false, "predictedSalary missing"
	}
	if s := *resp.PredictedSalary; math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		return false, fmt.Sprintf("predictedSalary %v is not a finite non-negative number", s)
	}
	if want := validate.Capitalize(c.Request.Gender); resp.Gender != want {
		return false, fmt.Sprintf("gender %q, want %q", resp.Gender, want)
	}
	if resp.Age != c.Request.Age || resp.YearsOfExperience != c.Request.YearsOfExperience ||
		resp.EducationLevel != c.Request.EducationLevel || resp.JobTitle != c.Request.JobTitle {
		return false, "echoed fields differ from the request"
	}
	return true, ""
}

// verifyResults checks every result and fills the counters in stats.
func verifyResults(ctx context.Context, config *Config, results []Result, stats *Stats) {
	log := logger.Get()
	byKind := make(map[string]int)

	for i := range results {
		r := &results[i]
		Verify(r)
		if strings.HasPrefix(r.Reason, "transport") || strings.HasPrefix(r.Reason, "not sent") {
			stats.Transport++
		} else {
			stats.Submitted++
		}
		if r.Passed {
			stats.Passed++
			if r.Case.Valid() {
				stats.SalarySum += *r.Response.PredictedSalary
				stats.SalaryCount++
			}
			continue
		}
		stats.Failed++
		byKind[r.Case.Kind]++
		if config.Verbose {
			log.Warn(ctx, "check failed",
				logger.String("id", r.Case.ID),
				logger.String("kind", r.Case.Kind),
				logger.String("reason", r.Reason),
			)
		}
	}

	if stats.Failed > 0 {
		log.Warn(ctx, "verification found failures",
			logger.Int("failed", stats.Failed),
			logger.Any("byKind", byKind),
		)
		return
	}
	log.Info(ctx, "all responses verified", logger.Int("count", len(results)))
}

// replay re-sends up to n accepted cases and counts answers whose salary
// changed.
func replay(ctx context.Context, config *Config, client *HTTPClient, results []Result, n int, stats *Stats) {
	var picked []Result
	for _, r := range results {
		if len(picked) == n {
			break
		}
		if r.Passed && r.Case.Valid() {
			picked = append(picked, r)
		}
	}
	if len(picked) == 0 {
		return
	}

	cases := make([]Case, len(picked))
	for i, r := range picked {
		cases[i] = r.Case
	}
	again := submit(ctx, config, client, cases)

	log := logger.Get()
	for i, r := range again {
		stats.Replayed++
		first := *picked[i].Response.PredictedSalary
		if r.Reason != "" || r.Response.PredictedSalary == nil || *r.Response.PredictedSalary != first {
			stats.Mismatched++
			log.Warn(ctx, "replayed request answered differently",
				logger.String("id", r.Case.ID),
				logger.Float64("first", first),
				logger.Any("second", r.Response.PredictedSalary),
				logger.String("reason", r.Reason),
			)
		}
	}
	log.Info(ctx, "replay completed",
		logger.Int("replayed", stats.Replayed),
		logger.Int("mismatched", stats.Mismatched),
	)
}
