package pathfinding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/labyrinth/internal/grid"
)

// Endpoint is the service route for a run.
const Endpoint = "/pathfinding"

// RunRequest is the request body.
type RunRequest struct {
	Grid      [][]int    `json:"grid"`
	Start     grid.Coord `json:"start"`
	End       grid.Coord `json:"end"`
	Algorithm Algorithm  `json:"algorithm"`
}

// RunResponse is the response body. Path is nil when the field is absent;
// an empty Error counts as absent.
type RunResponse struct {
	Path  []grid.PathPoint `json:"path"`
	Error *string          `json:"error,omitempty"`
}

// Client talks to the external pathfinding service.
type Client struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

// NewClient returns a client for the service at baseURL. A zero timeout
// leaves the http client without one.
func NewClient(baseURL string, timeout time.Duration, log logrus.FieldLogger) *Client {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

// Run asks the service for a route from start to end over g. Path cells are
// stripped from a copy of g before it is encoded, so g is never modified and
// later edits to it cannot leak into the request.
func (c *Client) Run(ctx context.Context, g *grid.Grid, start, end *grid.Coord, algo Algorithm) ([]grid.PathPoint, error) {
	if start == nil || end == nil {
		return nil, ErrMissingEndpoints
	}
	snapshot := g.ClearPath()
	body, err := json.Marshal(RunRequest{
		Grid:      snapshot.Encode(),
		Start:     *start,
		End:       *end,
		Algorithm: algo,
	})
	if err != nil {
		return nil, fmt.Errorf("pathfinding: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+Endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("pathfinding: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log := c.log.WithFields(logrus.Fields{"algorithm": algo, "start": start.String(), "end": end.String()})
	log.Debug("sending run request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pathfinding: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("status", resp.StatusCode).Warn("pathfinding service returned non-success status")
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var out RunResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("pathfinding: decode response: %w", err)
	}
	// an empty message is the same as no error field
	if out.Error != nil && *out.Error != "" {
		log.WithField("message", *out.Error).Warn("pathfinding service reported an error")
		return nil, &ServiceError{Message: *out.Error}
	}
	if len(out.Path) == 0 {
		log.Info("no path found")
		return nil, ErrNoPathFound
	}
	log.WithField("length", len(out.Path)).Debug("route received")
	return out.Path, nil
}
