package cli

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"devopsdemo/internal/runner"
)

// Start runs a bench headless, printing a progress line to w until the
// run finishes, then a summary.
func Start(ctx context.Context, cfg runner.Config, w io.Writer) *runner.Runner {
	printHeader(w, cfg)

	updates := make(runner.UpdateChan, 100)
	r := runner.NewRunner(cfg, updates)

	done := make(chan struct{})
	startTime := time.Now()
	go func() {
		defer close(done)
		r.Run(ctx)
	}()

	totalDuration := cfg.TotalDuration()

	for {
		select {
		case s := <-updates:
			printProgress(w, s, time.Since(startTime), totalDuration)
		case <-done:
			elapsed := time.Since(startTime)
			printProgress(w, r.Snapshot(), elapsed, totalDuration)
			PrintSummary(w, r, elapsed)
			return r
		}
	}
}

func printHeader(w io.Writer, cfg runner.Config) {
	fmt.Fprintf(w, "\n🚀 STARTING BENCH\n")
	fmt.Fprintf(w, "======================================================================\n")
	fmt.Fprintf(w, "Target URL : %s\n", cfg.URL)
	fmt.Fprintf(w, "Mode       : %s\n", cfg.Mode)
	fmt.Fprintf(w, "RPS / Users: %d / %d\n", cfg.TargetRPS, cfg.NumUsers)
	fmt.Fprintf(w, "Duration   : %ds (Steady) + %ds (RampUp) + %ds (RampDown)\n", cfg.SteadyDur, cfg.RampUp, cfg.RampDown)
	fmt.Fprintf(w, "Timeout    : %ds\n", cfg.TimeoutSec)
	fmt.Fprintf(w, "======================================================================\n\n")
}

func printProgress(w io.Writer, s runner.Snapshot, elapsed, total time.Duration) {
	pct := elapsed.Seconds() / total.Seconds()
	if pct > 1.0 {
		pct = 1.0
	}
	rps := 0.0
	if elapsed.Seconds() > 0 {
		rps = float64(s.Requests) / elapsed.Seconds()
	}

	if pct >= 1.0 && s.Inflight > 0 {
		fmt.Fprintf(w, "\r%s %3.0f%% | %s/%s | Draining: %d requests...                ",
			ProgressBar(1.0, 20), 100.0, elapsed.Round(time.Second), total, s.Inflight)
		return
	}

	fmt.Fprintf(w, "\r%s %3.0f%% | %s/%s | Inf: %3d | RPS: %.1f | OK: %d | Err: %d",
		ProgressBar(pct, 20), pct*100,
		elapsed.Round(time.Second), total,
		s.Inflight, rps, s.Success, s.Fail,
	)
}

func ProgressBar(pct float64, width int) string {
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func PrintSummary(w io.Writer, r *runner.Runner, totalTime time.Duration) {
	s := r.Snapshot()
	rps := 0.0
	if totalTime.Seconds() > 0 {
		rps = float64(s.Requests) / totalTime.Seconds()
	}

	fmt.Fprintf(w, "\n\n📊 BENCH RESULTS\n")
	fmt.Fprintf(w, "======================================================================\n")
	fmt.Fprintf(w, "Total Duration : %s\n", totalTime.Round(time.Second))
	fmt.Fprintf(w, "Requests Sent  : %d\n", s.Requests)
	fmt.Fprintf(w, "Success        : %d\n", s.Success)
	fmt.Fprintf(w, "Failures       : %d\n", s.Fail)
	fmt.Fprintf(w, "Actual RPS     : %.2f\n", rps)
	fmt.Fprintf(w, "\n⏱️  RESPONSE TIMES (ms) [Success Only]\n")
	fmt.Fprintf(w, "   P50 : %.2f\n", r.Stats.GetP50Service())
	fmt.Fprintf(w, "   P90 : %.2f\n", r.Stats.GetP90Service())
	fmt.Fprintf(w, "   P95 : %.2f\n", r.Stats.GetP95Service())
	fmt.Fprintf(w, "   P99 : %.2f\n", r.Stats.GetP99Service())
	fmt.Fprintf(w, "   Max : %d\n", s.MaxServiceMs)

	errCounts := r.Stats.GetErrorCounts()
	if len(errCounts) > 0 {
		sigs := make([]string, 0, len(errCounts))
		for sig := range errCounts {
			sigs = append(sigs, sig)
		}
		sort.Strings(sigs)

		fmt.Fprintf(w, "\n❌ FAILURE SUMMARY\n")
		for _, sig := range sigs {
			fmt.Fprintf(w, "   %d x %s\n", errCounts[sig], sig)
		}
	}
	fmt.Fprintf(w, "======================================================================\n")
}
