package server

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServe_EndToEnd(t *testing.T) {
	s, err := Listen(Config{Addr: "127.0.0.1:0"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx) }()

	url := "http://" + s.Addr().String()

	resp, err := http.Get(url + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Greeting, string(body))

	resp, err = http.Get(url + "/nonexistent")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestListen_PortInUse(t *testing.T) {
	first, err := Listen(Config{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	defer first.Close()

	_, err = Listen(Config{Addr: first.Addr().String()})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrListen)
}

func TestListen_BadAddr(t *testing.T) {
	_, err := Listen(Config{Addr: "not-an-addr"})
	assert.ErrorIs(t, err, ErrListen)
}
