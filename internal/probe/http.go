package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/salarypredict/pkg/logger"
)

// requestIDHeader matches the header the service echoes.
const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// NewHTTPClient creates a new HTTP client with timeout
func NewHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// GetJSON performs a GET request and decodes a JSON body into v.
func (c *HTTPClient) GetJSON(ctx context.Context, url string, v any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, v)
}

// PostJSON performs a POST request with a JSON body and decodes the JSON
// answer into v.
func (c *HTTPClient) PostJSON(ctx context.Context, url, requestID string, body, v any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	return c.do(req, v)
}

func (c *HTTPClient) do(req *http.Request, v any) (int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("failed to read response: %w", err)
	}
	if v != nil {
		if err := json.Unmarshal(data, v); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

// submit sends every case through a worker pool and returns the results in
// case order. Transport failures are recorded on the result, never returned.
func submit(ctx context.Context, config *Config, client *HTTPClient, cases []Case) []Result {
	log := logger.Get()
	log.Info(ctx, "submitting requests",
		logger.Int("count", len(cases)),
		logger.Int("workers", config.Workers),
	)

	url := config.BaseURL + "/predict"
	results := make([]Result, len(cases))

	var (
		done       int64
		lastReport atomic.Int64
	)
	lastReport.Store(time.Now().UnixNano())

	// Create worker pool
	indexes := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				results[i] = submitOne(ctx, client, url, cases[i])

				n := atomic.AddInt64(&done, 1)
				last := lastReport.Load()
				if time.Since(time.Unix(0, last)) >= ProgressInterval &&
					lastReport.CompareAndSwap(last, time.Now().UnixNano()) {
					log.Info(ctx, "progress", logger.Int("submitted", int(n)), logger.Int("total", len(cases)))
				}
			}
		}()
	}

	// Send work to workers
	go func() {
		defer close(indexes)
		for i := range cases {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()

	wg.Wait()

	// Cases never dispatched because ctx ended.
	for i := range results {
		if results[i].Case.ID == "" {
			reason := "not sent"
			if err := context.Cause(ctx); err != nil {
				reason += ": " + err.Error()
			}
			results[i] = Result{Case: cases[i], Reason: reason}
		}
	}
	return results
}

func submitOne(ctx context.Context, client *HTTPClient, url string, c Case) Result {
	start := time.Now()
	var resp PredictResponse
	status, err := client.PostJSON(ctx, url, c.ID, c.Request, &resp)
	r := Result{Case: c, StatusCode: status, Response: resp, Latency: time.Since(start)}
	if err != nil {
		r.Reason = "transport: " + err.Error()
	}
	return r
}
