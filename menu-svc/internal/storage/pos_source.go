package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

var ErrUnexpectedStatus = errors.New("unexpected HTTP status")

type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// POSSource reads the raw menu payload through the gateway's /api/data proxy.
type POSSource struct {
	URL    string
	Client HTTPClient
}

func NewPOSSource(url string, client HTTPClient) *POSSource {
	if client == nil {
		client = http.DefaultClient
	}
	return &POSSource{URL: url, Client: client}
}

func (s *POSSource) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
