package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"time"

	"devopsdemo/internal/runner"
	"devopsdemo/internal/stats"
)

// CSVHeader follows the JMeter JTL column layout.
var CSVHeader = []string{
	"timeStamp", "elapsed", "label", "responseCode", "responseMessage",
	"threadName", "dataType", "success", "failureMessage", "bytes",
	"sentBytes", "grpThreads", "allThreads", "URL", "Latency", "IdleTime", "Connect",
}

// Summary is the aggregate written next to the raw results.
type Summary struct {
	TotalRequests uint64  `json:"total_requests"`
	Success       uint64  `json:"success"`
	Fail          uint64  `json:"fail"`
	ErrorRatePct  float64 `json:"error_rate_pct"`
	DurationSec   float64 `json:"duration_sec"`
	ActualRPS     float64 `json:"actual_rps"`
	AvgServiceMs  float64 `json:"avg_service_ms"`
	P50ServiceMs  float64 `json:"p50_service_ms"`
	P90ServiceMs  float64 `json:"p90_service_ms"`
	P99ServiceMs  float64 `json:"p99_service_ms"`
	MaxServiceMs  float64 `json:"max_service_ms"`
	P99TotalMs    float64 `json:"p99_total_ms"`
}

// Summarize rebuilds the aggregate from raw results.
func Summarize(results []runner.Result) Summary {
	st := stats.NewStats()
	var first, last time.Time
	for i, res := range results {
		st.Add(res.Success, uint64(res.Bytes), res.ServiceTime, res.QueueWait, res.Latency)
		end := res.TimeStamp.Add(res.Latency)
		if i == 0 || res.TimeStamp.Before(first) {
			first = res.TimeStamp
		}
		if end.After(last) {
			last = end
		}
	}

	s := Summary{
		TotalRequests: st.Requests,
		Success:       st.Success,
		Fail:          st.Fail,
		ErrorRatePct:  st.ErrorRate(),
		AvgServiceMs:  st.ServiceTime.Mean() / 1000.0,
		P50ServiceMs:  st.GetP50Service(),
		P90ServiceMs:  st.GetP90Service(),
		P99ServiceMs:  st.GetP99Service(),
		MaxServiceMs:  float64(st.ServiceTime.Max()) / 1000.0,
		P99TotalMs:    st.GetP99Total(),
	}
	if len(results) > 0 {
		s.DurationSec = last.Sub(first).Seconds()
		if s.DurationSec > 0 {
			s.ActualRPS = float64(s.TotalRequests) / s.DurationSec
		}
	}
	return s
}

// ExportCSV exports results to a JMeter-compatible CSV file.
func ExportCSV(results []runner.Result, url, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(CSVHeader); err != nil {
		return err
	}

	for _, res := range results {
		record := []string{
			strconv.FormatInt(res.TimeStamp.UnixMilli(), 10),
			strconv.FormatInt(res.Latency.Milliseconds(), 10),
			"GET /",
			strconv.Itoa(res.Status),
			http.StatusText(res.Status),
			"req-" + res.RequestID,
			"text",
			strconv.FormatBool(res.Success),
			res.Err,
			strconv.FormatInt(res.Bytes, 10),
			"0", // sent bytes: GET without body
			"1",
			"1",
			url,
			strconv.FormatInt(res.ServiceTime.Milliseconds(), 10),
			strconv.FormatInt(res.QueueWait.Milliseconds(), 10),
			"0", // connect time is part of ServiceTime
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// ExportJSON exports raw results to a JSON file.
func ExportJSON(results []runner.Result, filename string) error {
	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0o644)
}

func ExportSummary(results []runner.Result, prefix string) error {
	data, err := json.MarshalIndent(Summarize(results), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(prefix+"_summary.json", data, 0o644)
}

// ExportAll writes prefix.csv, prefix.json and prefix_summary.json.
func ExportAll(results []runner.Result, url, prefix string) error {
	if err := ExportCSV(results, url, prefix+".csv"); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	if err := ExportJSON(results, prefix+".json"); err != nil {
		return fmt.Errorf("export json: %w", err)
	}
	if err := ExportSummary(results, prefix); err != nil {
		return fmt.Errorf("export summary: %w", err)
	}
	return nil
}
