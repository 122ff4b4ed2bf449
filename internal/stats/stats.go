package stats

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats holds real-time aggregated metrics for a bench run
type Stats struct {
	Requests uint64
	Success  uint64
	Fail     uint64
	Bytes    uint64

	// Latency histograms (microseconds)
	ServiceTime *SafeHistogram
	TotalTime   *SafeHistogram

	// Queue wait grows when the scheduler falls behind
	QueueWait *SafeHistogram

	errMu     sync.Mutex
	errCounts map[string]int
}

func NewStats() *Stats {
	return &Stats{
		ServiceTime: NewSafeHistogram(),
		TotalTime:   NewSafeHistogram(),
		QueueWait:   NewSafeHistogram(),
		errCounts:   make(map[string]int),
	}
}

func (s *Stats) Add(success bool, bytes uint64, service, queueWait, total time.Duration) {
	atomic.AddUint64(&s.Requests, 1)
	if success {
		atomic.AddUint64(&s.Success, 1)
	} else {
		atomic.AddUint64(&s.Fail, 1)
	}
	atomic.AddUint64(&s.Bytes, bytes)

	// Service time percentiles cover successful requests only
	if success {
		s.ServiceTime.RecordDuration(service)
	}
	s.QueueWait.RecordDuration(queueWait)
	s.TotalTime.RecordDuration(total)
}

// AddError counts a failure under its signature (status or error text).
func (s *Stats) AddError(signature string) {
	s.errMu.Lock()
	s.errCounts[signature]++
	s.errMu.Unlock()
}

func (s *Stats) GetErrorCounts() map[string]int {
	s.errMu.Lock()
	defer s.errMu.Unlock()

	out := make(map[string]int, len(s.errCounts))
	for k, v := range s.errCounts {
		out[k] = v
	}
	return out
}

func (s *Stats) ErrorRate() float64 {
	reqs := atomic.LoadUint64(&s.Requests)
	if reqs == 0 {
		return 0
	}
	fails := atomic.LoadUint64(&s.Fail)
	return (float64(fails) / float64(reqs)) * 100
}

func (s *Stats) GetP50Service() float64 { return s.serviceMs(50) }
func (s *Stats) GetP90Service() float64 { return s.serviceMs(90) }
func (s *Stats) GetP95Service() float64 { return s.serviceMs(95) }
func (s *Stats) GetP99Service() float64 { return s.serviceMs(99) }

func (s *Stats) GetP99Total() float64 {
	return float64(s.TotalTime.ValueAtQuantile(99)) / 1000.0 // ms
}

// QueueWaitAvgMs returns average queue wait in milliseconds
func (s *Stats) QueueWaitAvgMs() float64 {
	return s.QueueWait.Mean() / 1000.0
}

func (s *Stats) serviceMs(q float64) float64 {
	return float64(s.ServiceTime.ValueAtQuantile(q)) / 1000.0
}
