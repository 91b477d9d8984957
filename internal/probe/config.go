package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL      string        // Base URL of the service
	NumRequests  int           // Number of requests to generate
	InvalidRatio float64       // Share of requests that must be rejected, in [0,1]
	Replay       int           // Number of valid requests re-sent to check determinism
	Workers      int           // Number of concurrent workers
	Timeout      time.Duration // HTTP request timeout
	Seed         uint64        // Generator seed; runs with the same seed send the same requests
	OutputFile   string        // Output file for results
	Verbose      bool          // Log every failed check
}

// PredictRequest is the /predict payload.
type PredictRequest struct {
	Age               float64 `json:"age"`
	Gender            string  `json:"gender"`
	EducationLevel    string  `json:"educationLevel"`
	JobTitle          string  `json:"jobTitle"`
	YearsOfExperience float64 `json:"yearsOfExperience"`
}

// PredictResponse is the union of the success and error bodies.
type PredictResponse struct {
	Age               float64  `json:"age"`
	Gender            string   `json:"gender"`
	EducationLevel    string   `json:"educationLevel"`
	JobTitle          string   `json:"jobTitle"`
	YearsOfExperience float64  `json:"yearsOfExperience"`
	PredictedSalary   *float64 `json:"predictedSalary,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// Case is one generated request and what the service must answer.
type Case struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Request   PredictRequest `json:"request"`
	WantError string         `json:"wantError,omitempty"`
}

// Valid reports whether the service should accept c.
func (c Case) Valid() bool { return c.WantError == "" }

// Result records how the service answered one case.
type Result struct {
	Case       Case            `json:"case"`
	StatusCode int             `json:"statusCode"`
	Response   PredictResponse `json:"response"`
	Latency    time.Duration   `json:"latency"`
	Passed     bool            `json:"passed"`
	Reason     string          `json:"reason,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	Generated   int
	Submitted   int
	Passed      int
	Failed      int
	Transport   int
	Replayed    int
	Mismatched  int
	SalarySum   float64
	SalaryCount int
	StartTime   time.Time
	EndTime     time.Time
	Duration    time.Duration
}
