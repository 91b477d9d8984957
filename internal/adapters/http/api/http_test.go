package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/okian/salarypredict/internal/adapters/http/api"
	service "github.com/okian/salarypredict/internal/app"
	"github.com/okian/salarypredict/internal/domain/model"
	"github.com/okian/salarypredict/internal/domain/validate"
	"github.com/okian/salarypredict/internal/fixture"
	"github.com/okian/salarypredict/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

const canonicalBody = `{"age":30,"gender":"male","educationLevel":"Bachelor's Degree","jobTitle":"Software Engineer","yearsOfExperience":5}`

// mockDependencies fails predictions with err when set.
type mockDependencies struct {
	err     error
	started bool
}

func (m *mockDependencies) Predict(_ context.Context, in validate.Input) (model.Prediction, error) {
	if m.err != nil {
		return model.Prediction{}, m.err
	}
	return model.Prediction{Age: *in.Age, PredictedSalary: 1}, nil
}

func (m *mockDependencies) JobTitles(context.Context) ([]string, error) {
	if !m.started {
		return nil, service.ErrNotStarted
	}
	return []string{"Software Engineer"}, nil
}

func (m *mockDependencies) ModelInfo() (service.ModelInfo, error) {
	if !m.started {
		return service.ModelInfo{}, service.ErrNotStarted
	}
	return service.ModelInfo{Kind: "linear"}, nil
}

func (m *mockDependencies) ReferenceRows() int { return 0 }

func (m *mockDependencies) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": m.started}
}

func newMux(deps api.Dependencies, opts ...api.Option) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, opts...).Register(context.Background(), mux)
	return mux
}

func startedService(t *testing.T) *service.Service {
	t.Helper()
	refPath, modelPath := fixture.Files(t)
	svc := service.New(service.WithReferencePath(refPath), service.WithModelPath(modelPath))
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	t.Cleanup(svc.Stop)
	return svc
}

func do(mux http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func errorOf(w *httptest.ResponseRecorder) string {
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		return ""
	}
	return body["error"]
}

func TestPredict_EndToEnd(t *testing.T) {
	Convey("Given the API over a started service", t, func() {
		mux := newMux(startedService(t))

		Convey("When the canonical request is posted", func() {
			w := do(mux, http.MethodPost, "/predict", canonicalBody)

			Convey("Then the prediction should echo the normalised fields", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldContainSubstring, "application/json")

				var p model.Prediction
				So(json.Unmarshal(w.Body.Bytes(), &p), ShouldBeNil)
				So(p.Age, ShouldEqual, 30.0)
				So(p.Gender, ShouldEqual, "Male")
				So(p.EducationLevel, ShouldEqual, "Bachelor's Degree")
				So(p.JobTitle, ShouldEqual, "Software Engineer")
				So(p.YearsOfExperience, ShouldEqual, 5.0)
				So(p.PredictedSalary, ShouldEqual, fixture.CanonicalSalary)
			})

			Convey("And a request id should be generated", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
			})
		})

		Convey("When the caller supplies a request id", func() {
			req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(canonicalBody))
			req.Header.Set(api.RequestIDHeader, "trace-1")
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, req)

			Convey("Then it should be echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "trace-1")
			})
		})

		Convey("When the age is out of range", func() {
			w := do(mux, http.MethodPost, "/predict",
				`{"age":15,"gender":"male","educationLevel":"Bachelor's Degree","jobTitle":"Software Engineer","yearsOfExperience":5}`)

			Convey("Then the exact message should be returned with 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, `{"error":"Age must be a number between 21 and 62."}`)
			})
		})

		Convey("When each field fails in turn", func() {
			cases := []struct {
				body string
				msg  string
			}{
				{`{"age":30,"gender":"Alien","educationLevel":"PhD","jobTitle":"Software Engineer","yearsOfExperience":5}`, validate.MsgGender},
				{`{"age":30,"gender":"female","educationLevel":"phd","jobTitle":"Software Engineer","yearsOfExperience":5}`, validate.MsgEducationLevel},
				{`{"age":30,"gender":"female","educationLevel":"PhD","jobTitle":"Astronaut","yearsOfExperience":5}`, validate.MsgJobTitle},
				{`{"age":30,"gender":"female","educationLevel":"PhD","jobTitle":"Software Engineer","yearsOfExperience":35}`, validate.MsgYears},
				{`{"age":"thirty","gender":"female","educationLevel":"PhD","jobTitle":"Software Engineer","yearsOfExperience":5}`, validate.MsgAge},
				{`{}`, validate.MsgAge},
			}

			Convey("Then each should report its own message", func() {
				for _, c := range cases {
					w := do(mux, http.MethodPost, "/predict", c.body)
					So(w.Code, ShouldEqual, http.StatusBadRequest)
					So(errorOf(w), ShouldEqual, c.msg)
				}
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/predict", `{"age":`)

			Convey("Then 400 should be returned with an error body", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorOf(w), ShouldNotBeEmpty)
			})
		})

		Convey("When the body is a JSON array", func() {
			w := do(mux, http.MethodPost, "/predict", `[1,2]`)

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorOf(w), ShouldContainSubstring, "JSON object")
			})
		})

		Convey("When two objects are concatenated", func() {
			w := do(mux, http.MethodPost, "/predict", canonicalBody+canonicalBody)

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the body is empty", func() {
			w := do(mux, http.MethodPost, "/predict", "")

			Convey("Then 400 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(errorOf(w), ShouldContainSubstring, "empty")
			})
		})

		Convey("When GET is used on /predict", func() {
			w := do(mux, http.MethodGet, "/predict", "")

			Convey("Then 405 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
				So(w.Header().Get("Allow"), ShouldEqual, http.MethodPost)
				So(errorOf(w), ShouldEqual, "method not allowed")
			})
		})

		Convey("When the read-only routes get a POST", func() {
			Convey("Then each should answer 405 allowing GET", func() {
				for _, path := range []string{"/job-titles", "/healthz", "/stats"} {
					w := do(mux, http.MethodPost, path, "")
					So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
					So(w.Header().Get("Allow"), ShouldEqual, http.MethodGet)
				}
			})
		})

		Convey("When job titles are listed", func() {
			w := do(mux, http.MethodGet, "/job-titles", "")

			Convey("Then the reference vocabulary should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body struct {
					Count     int      `json:"count"`
					JobTitles []string `json:"jobTitles"`
				}
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Count, ShouldEqual, 8)
				So(body.JobTitles, ShouldContain, "Software Engineer Manager")
			})
		})

		Convey("When health is checked", func() {
			w := do(mux, http.MethodGet, "/healthz", "")

			Convey("Then the loaded model should be described", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				var body map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body["status"], ShouldEqual, "ok")
				So(body["referenceRows"], ShouldEqual, 24.0)
				So(body["model"].(map[string]any)["kind"], ShouldEqual, "random_forest")
			})
		})

		Convey("When metrics are scraped after a prediction", func() {
			do(mux, http.MethodPost, "/predict", canonicalBody)
			w := do(mux, http.MethodGet, "/metrics", "")

			Convey("Then the prediction counters should be exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "predictions_total")
				So(w.Body.String(), ShouldContainSubstring, "http_requests_total")
			})
		})

		Convey("When stats are requested", func() {
			w := do(mux, http.MethodGet, "/stats", "")

			Convey("Then service statistics should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, `"started":true`)
			})
		})
	})
}

func TestPredict_StatusMapping(t *testing.T) {
	Convey("Given the API over stubbed dependencies", t, func() {
		Convey("When prediction fails internally", func() {
			deps := &mockDependencies{started: true, err: fmt.Errorf("%w: infer: boom", service.ErrPrediction)}
			w := do(newMux(deps), http.MethodPost, "/predict", canonicalBody)

			Convey("Then 500 should carry the raw error text", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(errorOf(w), ShouldEqual, "prediction failed: infer: boom")
			})
		})

		Convey("When the service has not started", func() {
			deps := &mockDependencies{err: service.ErrNotStarted}
			mux := newMux(deps)

			Convey("Then predict, job titles and health should answer 503", func() {
				So(do(mux, http.MethodPost, "/predict", canonicalBody).Code, ShouldEqual, http.StatusServiceUnavailable)
				So(do(mux, http.MethodGet, "/job-titles", "").Code, ShouldEqual, http.StatusServiceUnavailable)
				So(do(mux, http.MethodGet, "/healthz", "").Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When the body exceeds the limit", func() {
			deps := &mockDependencies{started: true}
			mux := newMux(deps, api.WithMaxBodyBytes(16))
			w := do(mux, http.MethodPost, "/predict", canonicalBody)

			Convey("Then 413 should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})

		Convey("When legacy status codes are enabled", func() {
			legacy := api.WithLegacyStatus(true)

			Convey("Then validation failures should use 200", func() {
				deps := &mockDependencies{started: true, err: &validate.Error{Field: "age", Message: validate.MsgAge}}
				w := do(newMux(deps, legacy), http.MethodPost, "/predict", canonicalBody)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(errorOf(w), ShouldEqual, validate.MsgAge)
			})

			Convey("Then prediction failures should use 200", func() {
				deps := &mockDependencies{started: true, err: fmt.Errorf("%w: encode", service.ErrPrediction)}
				w := do(newMux(deps, legacy), http.MethodPost, "/predict", canonicalBody)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(errorOf(w), ShouldNotBeEmpty)
			})

			Convey("Then wrong methods should still use 405", func() {
				deps := &mockDependencies{started: true}
				w := do(newMux(deps, legacy), http.MethodGet, "/predict", "")
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestErrors(t *testing.T) {
	Convey("Given wrapped API errors", t, func() {
		cause := errors.New("cause")

		Convey("Then Wrap should keep the cause reachable", func() {
			err := api.Wrap("api.op", cause)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(err.Error(), ShouldEqual, "cause")
			So(api.Wrap("api.op", nil), ShouldBeNil)
		})

		Convey("Then WrapKind should match both kind and cause", func() {
			err := api.WrapKind("api.op", api.ErrBadRequest, cause)
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)

			var apiErr *api.Error
			So(errors.As(err, &apiErr), ShouldBeTrue)
			So(apiErr.Op, ShouldEqual, "api.op")
		})

		Convey("Then NewKind should report the kind text", func() {
			err := api.NewKind("api.op", api.ErrMethodNotAllowed)
			So(err.Error(), ShouldEqual, "method not allowed")
			So(errors.Is(err, api.ErrMethodNotAllowed), ShouldBeTrue)
		})
	})
}
