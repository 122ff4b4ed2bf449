package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"devopsdemo/internal/cli"
	"devopsdemo/internal/report"
	"devopsdemo/internal/runner"
	"devopsdemo/internal/server"
	"devopsdemo/internal/storage"
	"devopsdemo/internal/tui"
	"devopsdemo/internal/tui/styles"
)

type benchFlags struct {
	url       string
	method    string
	rate      int
	users     int
	thinkTime time.Duration
	duration  int
	rampUp    int
	rampDown  int
	timeout   int
	outPrefix string
	anyBody   bool
	useTUI    bool
	history   string
}

func (f benchFlags) config() runner.Config {
	cfg := runner.Config{
		URL:        f.url,
		Method:     f.method,
		TargetRPS:  f.rate,
		SteadyDur:  f.duration,
		RampUp:     f.rampUp,
		RampDown:   f.rampDown,
		TimeoutSec: f.timeout,
		Mode:       runner.ModeRPS,
		OutPrefix:  f.outPrefix,
	}
	if f.users > 0 {
		cfg.Mode = runner.ModeUsers
		cfg.NumUsers = f.users
		cfg.ThinkTime = f.thinkTime
	}
	if !f.anyBody {
		cfg.ExpectBody = server.Greeting
	}
	return cfg
}

func newBenchCmd() *cobra.Command {
	var f benchFlags

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Load test the greeting route",
		Long: `
bench drives traffic at the greeting route, e.g. to watch a
HorizontalPodAutoscaler react. Open loop (--rate) by default; --users
switches to closed loop.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.url, "url", "u", "http://127.0.0.1:5000/", "Target URL")
	fl.StringVarP(&f.method, "method", "X", "GET", "HTTP Method")
	fl.IntVarP(&f.rate, "rate", "r", 10, "Target RPS (Open Loop)")
	fl.IntVarP(&f.users, "users", "U", 0, "Target Users (Closed Loop, overrides rate)")
	fl.DurationVar(&f.thinkTime, "think-time", 0, "Think time per user (e.g. 100ms)")
	fl.IntVarP(&f.duration, "duration", "d", 10, "Steady duration in seconds")
	fl.IntVar(&f.rampUp, "ramp-up", 0, "Ramp Up duration in seconds")
	fl.IntVar(&f.rampDown, "ramp-down", 0, "Ramp Down duration in seconds")
	fl.IntVar(&f.timeout, "timeout", 10, "Request timeout in seconds")
	fl.StringVarP(&f.outPrefix, "out", "o", "", "Output filename prefix for reports")
	fl.BoolVar(&f.anyBody, "any-body", false, "Accept any 2xx body instead of requiring the greeting")
	fl.BoolVar(&f.useTUI, "tui", false, "Show a live terminal dashboard")
	cmd.PersistentFlags().StringVar(&f.history, "history", "", "bbolt file to record runs in")

	cmd.AddCommand(newBenchHistoryCmd(&f.history))
	return cmd
}

func runBench(cmd *cobra.Command, f benchFlags) error {
	cfg := f.config()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	started := time.Now()

	var r *runner.Runner
	if f.useTUI {
		r = runner.NewRunner(cfg, make(runner.UpdateChan, 100))
		if err := tui.Run(ctx, r); err != nil {
			return err
		}
		cli.PrintSummary(out, r, time.Since(started))
	} else {
		r = cli.Start(ctx, cfg, out)
	}

	results := r.Results()

	if cfg.OutPrefix != "" && len(results) > 0 {
		if err := report.ExportAll(results, cfg.URL, cfg.OutPrefix); err != nil {
			return err
		}
		fmt.Fprintf(out, "\n💾 Reports saved to %s.{csv,json} and %s_summary.json\n", cfg.OutPrefix, cfg.OutPrefix)
	}

	if f.history != "" {
		if err := saveHistory(f.history, cfg, report.Summarize(results), started); err != nil {
			return err
		}
	}

	if r.Stats.Fail > 0 {
		return fmt.Errorf("bench: %d of %d requests failed", r.Stats.Fail, r.Stats.Requests)
	}
	return nil
}

func saveHistory(path string, cfg runner.Config, sum report.Summary, at time.Time) error {
	store, err := storage.Open(path)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := storage.NewRun(cfg, sum, at)
	if err != nil {
		return err
	}
	return store.Save(run)
}

func newBenchHistoryCmd(path *string) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded bench runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if *path == "" {
				return errors.New("bench history: --history is required")
			}
			store, err := storage.Open(*path)
			if err != nil {
				return err
			}
			defer store.Close()

			runs, err := store.List()
			if err != nil {
				return err
			}
			if len(runs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no runs recorded")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), historyTable(runs))
			return nil
		},
	}
}

func historyTable(runs []storage.Run) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.ColorBorder)).
		Headers("ID", "WHEN", "MODE", "REQS", "FAIL", "RPS", "P99 MS")

	for _, run := range runs {
		t.Row(
			shortID(run.ID),
			run.Timestamp.Format(time.RFC3339),
			run.Config.Mode,
			strconv.FormatUint(run.Summary.TotalRequests, 10),
			strconv.FormatUint(run.Summary.Fail, 10),
			strconv.FormatFloat(run.Summary.ActualRPS, 'f', 1, 64),
			strconv.FormatFloat(run.Summary.P99ServiceMs, 'f', 2, 64),
		)
	}
	return t.Render()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
