package probe_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/salarypredict/internal/adapters/http/api"
	service "github.com/okian/salarypredict/internal/app"
	"github.com/okian/salarypredict/internal/fixture"
	"github.com/okian/salarypredict/internal/probe"
	"github.com/okian/salarypredict/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func newServer(t *testing.T, mode string) *httptest.Server {
	t.Helper()
	refPath, modelPath := fixture.Files(t)
	svc := service.New(
		service.WithReferencePath(refPath),
		service.WithModelPath(modelPath),
		service.WithEncodingMode(mode),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv
}

func config(baseURL, output string) *probe.Config {
	return &probe.Config{
		BaseURL:      baseURL,
		NumRequests:  200,
		InvalidRatio: 0.3,
		Replay:       20,
		Workers:      4,
		Timeout:      5 * time.Second,
		Seed:         7,
		OutputFile:   output,
	}
}

func TestRun(t *testing.T) {
	for _, mode := range []string{"frozen", "refit"} {
		Convey("Given a live server in "+mode+" mode", t, func() {
			srv := newServer(t, mode)
			output := filepath.Join(t.TempDir(), "out", "results.json")

			Convey("When the probe runs against it", func() {
				stats, err := probe.Run(context.Background(), config(srv.URL, output))

				Convey("Then every check should pass", func() {
					So(err, ShouldBeNil)
					So(stats.Generated, ShouldEqual, 200)
					So(stats.Submitted, ShouldEqual, 200)
					So(stats.Failed, ShouldEqual, 0)
					So(stats.Transport, ShouldEqual, 0)
					So(stats.Replayed, ShouldEqual, 20)
					So(stats.Mismatched, ShouldEqual, 0)
					So(stats.SalaryCount, ShouldBeGreaterThan, 0)
				})

				Convey("And the results should be written", func() {
					data, err := os.ReadFile(output)
					So(err, ShouldBeNil)
					var results []probe.Result
					So(json.Unmarshal(data, &results), ShouldBeNil)
					So(results, ShouldHaveLength, 200)
				})
			})
		})
	}

	Convey("Given a server that is not ready", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"unavailable"}`))
		}))
		defer srv.Close()

		Convey("Then the probe should stop at the health check", func() {
			_, err := probe.Run(context.Background(), config(srv.URL, filepath.Join(t.TempDir(), "r.json")))
			So(errors.Is(err, probe.ErrUnhealthy), ShouldBeTrue)
		})
	})

	Convey("Given a server that answers with wrong salaries", t, func() {
		mux := http.NewServeMux()
		mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ok","referenceRows":1,"model":{"kind":"stub"}}`))
		})
		mux.HandleFunc("/job-titles", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"count":1,"jobTitles":["Software Engineer"]}`))
		})
		mux.HandleFunc("/predict", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"predictedSalary":-5}`))
		})
		srv := httptest.NewServer(mux)
		defer srv.Close()

		Convey("Then the probe should report verification failures", func() {
			stats, err := probe.Run(context.Background(), config(srv.URL, filepath.Join(t.TempDir(), "r.json")))
			So(errors.Is(err, probe.ErrVerification), ShouldBeTrue)
			So(stats.Failed, ShouldEqual, 200)
		})
	})

	Convey("Given an invalid configuration", t, func() {
		cfg := config("http://localhost:1", "")
		cfg.Workers = 0

		Convey("Then Run should refuse it", func() {
			_, err := probe.Run(context.Background(), cfg)
			So(errors.Is(err, probe.ErrConfig), ShouldBeTrue)
		})
	})
}
