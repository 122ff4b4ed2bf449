package runner

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devopsdemo/internal/server"
)

func TestCurrentRPS_RampProfile(t *testing.T) {
	r := NewRunner(Config{TargetRPS: 100, RampUp: 10, SteadyDur: 10, RampDown: 10}, nil)

	cases := []struct {
		elapsed float64
		want    float64
	}{
		{0, 0},
		{5, 50},
		{10, 100},
		{15, 100},
		{25, 50},
		{30, 0},
		{45, 0},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, r.CurrentRPS(c.elapsed), 0.001, "elapsed=%v", c.elapsed)
	}
}

func TestCurrentRPS_NoRamps(t *testing.T) {
	r := NewRunner(Config{TargetRPS: 20, SteadyDur: 5}, nil)

	assert.Equal(t, 20.0, r.CurrentRPS(0))
	assert.Equal(t, 20.0, r.CurrentRPS(4.9))
	assert.Equal(t, 0.0, r.CurrentRPS(5))
}

func TestConfigValidate(t *testing.T) {
	ok := Config{URL: "http://x/", Mode: ModeRPS, TargetRPS: 1, SteadyDur: 1}
	require.NoError(t, ok.Validate())

	bad := map[string]Config{
		"no url":       {Mode: ModeRPS, TargetRPS: 1, SteadyDur: 1},
		"no duration":  {URL: "http://x/", Mode: ModeRPS, TargetRPS: 1},
		"negative":     {URL: "http://x/", Mode: ModeRPS, TargetRPS: 1, SteadyDur: 2, RampUp: -1},
		"zero rate":    {URL: "http://x/", Mode: ModeRPS, SteadyDur: 1},
		"zero users":   {URL: "http://x/", Mode: ModeUsers, SteadyDur: 1},
		"unknown mode": {URL: "http://x/", Mode: "burst", SteadyDur: 1},
	}
	for name, cfg := range bad {
		assert.Error(t, cfg.Validate(), name)
	}
}

func TestRun_OpenLoopAgainstGreeting(t *testing.T) {
	ts := httptest.NewServer(server.NewRouter(nil))
	defer ts.Close()

	updates := make(UpdateChan, 100)
	r := NewRunner(Config{
		URL:        ts.URL + "/",
		Mode:       ModeRPS,
		TargetRPS:  40,
		SteadyDur:  1,
		ExpectBody: server.Greeting,
	}, updates)

	r.Run(context.Background())

	results := r.Results()
	require.NotEmpty(t, results)
	assert.InDelta(t, 40, len(results), 10)
	assert.Equal(t, uint64(len(results)), r.Stats.Success)
	assert.Zero(t, r.Stats.Fail)
	assert.Zero(t, r.GetInflight())

	for _, res := range results {
		assert.Equal(t, http.StatusOK, res.Status)
		assert.Equal(t, int64(len(server.Greeting)), res.Bytes)
		assert.Len(t, res.RequestID, 36)
	}

	require.NotEmpty(t, updates)
}

func TestRun_ClosedLoopCountsFailures(t *testing.T) {
	ts := httptest.NewServer(server.NewRouter(nil))
	defer ts.Close()

	r := NewRunner(Config{
		URL:       ts.URL + "/nonexistent",
		Mode:      ModeUsers,
		NumUsers:  2,
		ThinkTime: 50 * time.Millisecond,
		SteadyDur: 1,
	}, nil)

	r.Run(context.Background())

	assert.NotZero(t, r.Stats.Fail)
	assert.Zero(t, r.Stats.Success)
	assert.Equal(t, int(r.Stats.Fail), r.Stats.GetErrorCounts()["status 404"])
}

func TestRun_ExpectBodyMismatch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("nope"))
	}))
	defer ts.Close()

	r := NewRunner(Config{URL: ts.URL, Mode: ModeUsers, NumUsers: 1, SteadyDur: 1, ThinkTime: 100 * time.Millisecond, ExpectBody: server.Greeting}, nil)
	r.Run(context.Background())

	assert.NotZero(t, r.Stats.Fail)
	assert.Contains(t, r.Stats.GetErrorCounts(), "status 200: unexpected body")
}

func TestRun_StopsOnCancel(t *testing.T) {
	ts := httptest.NewServer(server.NewRouter(nil))
	defer ts.Close()

	r := NewRunner(Config{URL: ts.URL, Mode: ModeRPS, TargetRPS: 10, SteadyDur: 60}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	start := time.Now()
	r.Run(ctx)
	assert.Less(t, time.Since(start), 5*time.Second)
}
