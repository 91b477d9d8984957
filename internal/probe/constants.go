package probe

import "time"

// Case kinds.
const (
	KindValid           = "valid"
	KindLowerGender     = "lowercase_gender"
	KindAgeOutOfRange   = "age_out_of_range"
	KindUnknownGender   = "unknown_gender"
	KindBadEducation    = "bad_education"
	KindUnknownTitle    = "unknown_job_title"
	KindYearsOutOfRange = "years_out_of_range"
)

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	ProgressInterval     = time.Second
	PercentageMultiplier = 100
)
