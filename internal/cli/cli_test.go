package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"devopsdemo/internal/runner"
	"devopsdemo/internal/server"
)

func TestProgressBar(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{0, "[----]"},
		{0.5, "[██--]"},
		{1, "[████]"},
		{1.7, "[████]"},
		{-1, "[----]"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, ProgressBar(c.pct, 4), "pct=%v", c.pct)
	}
}

func TestStart_PrintsSummary(t *testing.T) {
	ts := httptest.NewServer(server.NewRouter(nil))
	defer ts.Close()

	var out bytes.Buffer
	r := Start(context.Background(), runner.Config{
		URL:        ts.URL + "/",
		Mode:       runner.ModeRPS,
		TargetRPS:  20,
		SteadyDur:  1,
		ExpectBody: server.Greeting,
	}, &out)

	assert.NotZero(t, r.Stats.Success)
	assert.Contains(t, out.String(), "Target URL : "+ts.URL+"/")
	assert.Contains(t, out.String(), "BENCH RESULTS")
	assert.NotContains(t, out.String(), "FAILURE SUMMARY")
}

func TestStart_ReportsFailures(t *testing.T) {
	ts := httptest.NewServer(server.NewRouter(nil))
	defer ts.Close()

	var out bytes.Buffer
	Start(context.Background(), runner.Config{
		URL:       ts.URL + "/nonexistent",
		Mode:      runner.ModeRPS,
		TargetRPS: 10,
		SteadyDur: 1,
	}, &out)

	assert.Contains(t, out.String(), "FAILURE SUMMARY")
	assert.Contains(t, out.String(), "x status 404")
}
