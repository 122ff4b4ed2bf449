package runner

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"devopsdemo/internal/stats"
)

const (
	tickInterval = 200 * time.Millisecond
	maxBodyRead  = 64 << 10
)

// Snapshot is sent over the update channel
type Snapshot struct {
	Requests uint64
	Success  uint64
	Fail     uint64
	Bytes    uint64
	Inflight int64

	// Pre-calculated percentiles for the UI (cheap copy)
	P50ServiceMs float64
	P90ServiceMs float64
	P99ServiceMs float64
	MaxServiceMs int64

	AvgQueueWaitMs float64
}

type UpdateChan chan Snapshot

type Runner struct {
	Cfg     Config
	Stats   *stats.Stats
	Client  *http.Client
	Updates UpdateChan

	mu      sync.Mutex
	results []Result

	inflight int64
}

func NewRunner(cfg Config, updates UpdateChan) *Runner {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxConnsPerHost = 2000
	t.MaxIdleConnsPerHost = 2000

	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 10
	}
	if updates == nil {
		updates = make(UpdateChan, 10)
	}

	return &Runner{
		Cfg:   cfg,
		Stats: stats.NewStats(),
		Client: &http.Client{
			Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
			Transport: t,
		},
		Updates: updates,
	}
}

// Run blocks until the configured duration has passed or ctx is done, and
// until every request it started has finished.
func (r *Runner) Run(ctx context.Context) {
	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()
	r.startTickLoop(tickCtx, tickInterval)

	if r.Cfg.Mode == ModeUsers {
		r.runUsers(ctx)
	} else {
		r.runRPS(ctx)
	}

	// Final snapshot so displays settle on the real totals
	r.sendUpdate()
}

func (r *Runner) startTickLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sendUpdate()
			}
		}
	}()
}

func (r *Runner) Snapshot() Snapshot {
	return Snapshot{
		Requests:       atomic.LoadUint64(&r.Stats.Requests),
		Success:        atomic.LoadUint64(&r.Stats.Success),
		Fail:           atomic.LoadUint64(&r.Stats.Fail),
		Bytes:          atomic.LoadUint64(&r.Stats.Bytes),
		Inflight:       atomic.LoadInt64(&r.inflight),
		P50ServiceMs:   r.Stats.GetP50Service(),
		P90ServiceMs:   r.Stats.GetP90Service(),
		P99ServiceMs:   r.Stats.GetP99Service(),
		MaxServiceMs:   r.Stats.ServiceTime.Max() / 1000,
		AvgQueueWaitMs: r.Stats.QueueWaitAvgMs(),
	}
}

func (r *Runner) sendUpdate() {
	// Drop update if channel full, UI acts as backpressure
	select {
	case r.Updates <- r.Snapshot():
	default:
	}
}

func (r *Runner) runUsers(ctx context.Context) {
	var wg sync.WaitGroup
	start := time.Now()
	totalDur := r.Cfg.TotalDuration()

	for i := 0; i < r.Cfg.NumUsers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil && time.Since(start) < totalDur {
				r.executeRequest(ctx, time.Now())
				if r.Cfg.ThinkTime > 0 {
					select {
					case <-ctx.Done():
						return
					case <-time.After(r.Cfg.ThinkTime):
					}
				}
			}
		}()
	}
	wg.Wait()
}

func (r *Runner) runRPS(ctx context.Context) {
	start := time.Now()
	totalDur := r.Cfg.TotalDuration()

	var wg sync.WaitGroup
	defer wg.Wait()

	nextRequestTime := start

	for {
		if ctx.Err() != nil {
			return
		}

		now := time.Now()
		elapsed := now.Sub(start)
		if elapsed >= totalDur {
			return
		}

		targetRPS := r.CurrentRPS(elapsed.Seconds())
		if targetRPS <= 0.1 {
			if !sleepCtx(ctx, 100*time.Millisecond) {
				return
			}
			nextRequestTime = time.Now()
			continue
		}

		period := time.Duration(float64(time.Second) / targetRPS)

		if nextRequestTime.After(now) {
			if !sleepCtx(ctx, nextRequestTime.Sub(now)) {
				return
			}
		}

		wg.Add(1)
		scheduledTime := nextRequestTime
		go func() {
			defer wg.Done()
			r.executeRequest(ctx, scheduledTime)
		}()

		nextRequestTime = nextRequestTime.Add(period)

		// Too far behind: drop the backlog instead of bursting
		if time.Since(nextRequestTime) > time.Second {
			nextRequestTime = time.Now()
		}
	}
}

func (r *Runner) executeRequest(ctx context.Context, scheduledTime time.Time) {
	actualStart := time.Now()
	queueWait := actualStart.Sub(scheduledTime)
	if queueWait < 0 {
		queueWait = 0
	}

	atomic.AddInt64(&r.inflight, 1)
	defer atomic.AddInt64(&r.inflight, -1)

	res := Result{
		TimeStamp: scheduledTime,
		QueueWait: queueWait,
		RequestID: uuid.NewString(),
	}

	req, err := http.NewRequestWithContext(ctx, r.Cfg.method(), r.Cfg.URL, nil)
	if err == nil {
		req.Header.Set("X-Request-ID", res.RequestID)
		var resp *http.Response
		resp, err = r.Client.Do(req)
		if err == nil {
			r.readResponse(resp, &res)
		}
	}

	endTime := time.Now()
	res.ServiceTime = endTime.Sub(actualStart)
	res.Latency = endTime.Sub(scheduledTime)
	if err != nil {
		res.Err = err.Error()
	}

	r.Stats.Add(res.Success, uint64(res.Bytes), res.ServiceTime, res.QueueWait, res.Latency)
	if !res.Success {
		r.Stats.AddError(failureSignature(res))
	}

	r.mu.Lock()
	r.results = append(r.results, res)
	r.mu.Unlock()
}

func (r *Runner) readResponse(resp *http.Response, res *Result) {
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	io.Copy(io.Discard, resp.Body)

	res.Status = resp.StatusCode
	res.Bytes = int64(len(body))

	ok := resp.StatusCode >= 200 && resp.StatusCode < 300
	if ok && r.Cfg.ExpectBody != "" && string(body) != r.Cfg.ExpectBody {
		ok = false
		res.Err = "unexpected body"
	}
	res.Success = ok
}

func failureSignature(res Result) string {
	if res.Err != "" && res.Status == 0 {
		return res.Err
	}
	if res.Err != "" {
		return fmt.Sprintf("status %d: %s", res.Status, res.Err)
	}
	return fmt.Sprintf("status %d", res.Status)
}

// CurrentRPS is the target rate at elapsedSec along the ramp profile.
func (r *Runner) CurrentRPS(elapsedSec float64) float64 {
	cfg := r.Cfg
	if elapsedSec < float64(cfg.RampUp) {
		return float64(cfg.TargetRPS) * (elapsedSec / float64(cfg.RampUp))
	}
	steadyEnd := float64(cfg.RampUp + cfg.SteadyDur)
	if elapsedSec < steadyEnd {
		return float64(cfg.TargetRPS)
	}
	totalDur := float64(cfg.RampUp + cfg.SteadyDur + cfg.RampDown)
	if elapsedSec < totalDur {
		remaining := totalDur - elapsedSec
		return float64(cfg.TargetRPS) * (remaining / float64(cfg.RampDown))
	}
	return 0
}

func (r *Runner) GetInflight() int64 {
	return atomic.LoadInt64(&r.inflight)
}

// Results returns a copy of every recorded request.
func (r *Runner) Results() []Result {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Result, len(r.results))
	copy(out, r.results)
	return out
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
