package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"devopsdemo/internal/server"
)

const DefaultURL = "http://127.0.0.1:5000/"

// ErrUnhealthy means the route answered, but not with 200 and the greeting.
var ErrUnhealthy = errors.New("unhealthy")

// maxBody bounds how much of the response is read. The greeting is far
// smaller.
const maxBody = 4 << 10

// Check issues one GET against url and compares the response with the
// greeting.
func Check(ctx context.Context, client *http.Client, url string) error {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("probe: build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("probe: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("probe: %w: status %d", ErrUnhealthy, resp.StatusCode)
	}
	if string(body) != server.Greeting {
		return fmt.Errorf("probe: %w: unexpected body %q", ErrUnhealthy, truncate(string(body), 80))
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
