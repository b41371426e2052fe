package tables

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/ngmaloney/nz-tides/internal/models"
)

// HTTPSource fetches tables from a web server that publishes them as
// <base>/<port>/<year>.csv. A 404 means the table does not exist.
type HTTPSource struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
}

// NewHTTPSource creates a new HTTP table source
func NewHTTPSource(baseURL string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPSource{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "tide-tables",
			Timeout: 30 * time.Second,
		}),
	}
}

// Open implements Source
func (s *HTTPSource) Open(ctx context.Context, port models.Port, year int) (io.ReadCloser, error) {
	requestURL := fmt.Sprintf("%s/%s", s.baseURL, TablePath(port, year))

	req, err := http.NewRequestWithContext(ctx, "GET", requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// Only transport failures and 5xx count against the breaker; a missing
	// table is an ordinary answer.
	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, err := s.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			resp.Body.Close()
			return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return resp, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tide table: %w", err)
	}

	resp := result.(*http.Response)
	switch resp.StatusCode {
	case http.StatusOK:
		return resp.Body, nil
	case http.StatusNotFound:
		resp.Body.Close()
		return nil, notFound(port, year)
	default:
		resp.Body.Close()
		return nil, fmt.Errorf("server returned status %d for %s", resp.StatusCode, requestURL)
	}
}
