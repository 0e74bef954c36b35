package feed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/buehner/ivao-tracker/types"
)

// Client fetches and decodes whazzup snapshots.
type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string) *Client {
	return &Client{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) Fetch() (*types.Snapshot, error) {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return nil, fmt.Errorf("fetching whazzup data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching whazzup data: unexpected status %s", resp.Status)
	}

	var snapshot types.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decoding whazzup data: %w", err)
	}
	return &snapshot, nil
}
