package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// JobType selects the downstream service and the config file it loads.
type JobType string

const (
	JobTypeClassify JobType = "classify"
	JobTypeWordFreq JobType = "wordfreq"
)

// ErrUnknownJobType is returned for any request outside the known job types.
var ErrUnknownJobType = errors.New("unknown job type")

// JobTypes lists every supported job type.
func JobTypes() []JobType {
	return []JobType{JobTypeClassify, JobTypeWordFreq}
}

// ParseJobType validates a raw job-type string.
func ParseJobType(raw string) (JobType, error) {
	for _, jt := range JobTypes() {
		if string(jt) == raw {
			return jt, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownJobType, raw)
}

// EnvKey is the environment variable holding the job type's endpoint, e.g. CLASSIFY_URL.
func (j JobType) EnvKey() string {
	return strings.ToUpper(string(j)) + "_URL"
}

// JobPayload is the JSON body sent to a downstream job service.
type JobPayload map[string]any

// JobRequest is a payload together with where it must be sent.
type JobRequest struct {
	Request string
	URL     string
	Payload JobPayload
}

// JobEvent is published after every dispatch attempt.
type JobEvent struct {
	ID          string    `json:"id"`
	JobType     string    `json:"job_type"`
	CountryCode string    `json:"country_code"`
	ConfigFile  string    `json:"config_file"`
	Status      int       `json:"status"`
	Success     bool      `json:"success"`
	SubmittedAt time.Time `json:"submitted_at"`
}
