package runner

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const (
	ModeRPS   = "rps"
	ModeUsers = "users"
)

type Config struct {
	URL        string `json:"url"`
	Method     string `json:"method"`
	TargetRPS  int    `json:"target_rps"`
	SteadyDur  int    `json:"steady_sec"`
	RampUp     int    `json:"ramp_up_sec"`
	RampDown   int    `json:"ramp_down_sec"`
	TimeoutSec int    `json:"timeout_sec"`

	// Open-Loop (RPS) vs Closed-Loop (Users)
	Mode      string        `json:"mode"`
	NumUsers  int           `json:"users,omitempty"`
	ThinkTime time.Duration `json:"think_time,omitempty"`

	// ExpectBody, when set, must match the response body for success
	ExpectBody string `json:"expect_body,omitempty"`
	OutPrefix  string `json:"-"`
}

func (c Config) TotalDuration() time.Duration {
	return time.Duration(c.RampUp+c.SteadyDur+c.RampDown) * time.Second
}

func (c Config) Validate() error {
	if c.URL == "" {
		return errors.New("bench: url is required")
	}
	if c.SteadyDur < 0 || c.RampUp < 0 || c.RampDown < 0 {
		return errors.New("bench: durations must not be negative")
	}
	if c.TotalDuration() <= 0 {
		return errors.New("bench: total duration must be positive")
	}
	switch c.Mode {
	case ModeRPS:
		if c.TargetRPS <= 0 {
			return fmt.Errorf("bench: rate must be positive, got %d", c.TargetRPS)
		}
	case ModeUsers:
		if c.NumUsers <= 0 {
			return fmt.Errorf("bench: users must be positive, got %d", c.NumUsers)
		}
	default:
		return fmt.Errorf("bench: unknown mode %q", c.Mode)
	}
	return nil
}

func (c Config) method() string {
	if c.Method == "" {
		return http.MethodGet
	}
	return c.Method
}

type Result struct {
	TimeStamp   time.Time     `json:"timestamp"`
	Latency     time.Duration `json:"latency"`      // Total Time
	ServiceTime time.Duration `json:"service_time"` // Network/Server Time
	QueueWait   time.Duration `json:"queue_wait"`   // Schedule Lag
	Status      int           `json:"status"`
	Success     bool          `json:"success"`
	Bytes       int64         `json:"bytes"`
	RequestID   string        `json:"request_id"`
	Err         string        `json:"error,omitempty"`
}
