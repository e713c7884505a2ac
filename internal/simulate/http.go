package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/predictor/internal/domain/model"
	"github.com/okian/predictor/internal/domain/types"
	"github.com/okian/predictor/pkg/logger"
)

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 8 << 20

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

// newHTTPClient creates a new HTTP client with timeout.
func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON body into out when the status is 200.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) (int, error) {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("marshal request body: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusOK && out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return resp.StatusCode, nil
}

// submissionOutcome classifies a POST /predictions response.
type submissionOutcome int

const (
	outcomeAccepted submissionOutcome = iota
	outcomeLocked
	outcomeFailed
)

func (c *HTTPClient) submit(ctx context.Context, p Participant, facts model.MatchFacts) submissionOutcome {
	status, err := c.do(ctx, http.MethodPost, "/predictions", p.Token, facts, nil)
	switch {
	case err != nil:
		return outcomeFailed
	case status == http.StatusOK:
		return outcomeAccepted
	case status == http.StatusConflict:
		return outcomeLocked
	default:
		return outcomeFailed
	}
}

// submitPredictions sends 1+cfg.Resubmits predictions per participant using a
// worker pool. A participant's submissions go through one worker in order, so
// the last accepted one is what the service keeps.
func submitPredictions(ctx context.Context, cfg *Config, client *HTTPClient, participants []Participant, stats *Stats) []Participant {
	log := logger.Get()
	log.Info(ctx, "submitting predictions",
		logger.Int("participants", len(participants)),
		logger.Int("workers", cfg.Workers))

	var sent, accepted, locked, failed int64

	indexes := make(chan int, cfg.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indexes {
				p := &participants[i]
				for n := 0; n <= cfg.Resubmits; n++ {
					if ctx.Err() != nil {
						return
					}
					facts := randomFacts()
					atomic.AddInt64(&sent, 1)
					switch client.submit(ctx, *p, facts) {
					case outcomeAccepted:
						atomic.AddInt64(&accepted, 1)
						p.Prediction = facts
						p.Accepted = true
					case outcomeLocked:
						atomic.AddInt64(&locked, 1)
					default:
						atomic.AddInt64(&failed, 1)
					}
					if cfg.Verbose {
						log.Debug(ctx, "prediction sent", logger.String("user", p.Username), logger.Int("attempt", n))
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexes)
		for i := range participants {
			select {
			case <-ctx.Done():
				return
			case indexes <- i:
			}
		}
	}()

	wg.Wait()

	stats.SubmissionsSent = int(sent)
	stats.SubmissionsAccepted = int(accepted)
	stats.SubmissionsLocked = int(locked)
	stats.SubmissionsFailed = int(failed)

	log.Info(ctx, "prediction submission completed",
		logger.Int("accepted", stats.SubmissionsAccepted),
		logger.Int("locked", stats.SubmissionsLocked),
		logger.Int("failed", stats.SubmissionsFailed))

	// Only participants with an accepted submission are expected on the board.
	kept := participants[:0:0]
	for _, p := range participants {
		if p.Accepted {
			kept = append(kept, p)
		}
	}
	return kept
}

// recordResult posts a random result as admin.
func recordResult(ctx context.Context, client *HTTPClient, token string) (model.ActualResult, error) {
	result := randomFacts()
	status, err := client.do(ctx, http.MethodPost, "/admin/results", token, result, nil)
	if err != nil {
		return model.ActualResult{}, err
	}
	if status != http.StatusOK {
		return model.ActualResult{}, fmt.Errorf("record result: status %d", status)
	}
	return result, nil
}

// getLeaderboard fetches the current board.
func getLeaderboard(ctx context.Context, client *HTTPClient) (types.Board, error) {
	var board types.Board
	status, err := client.do(ctx, http.MethodGet, "/leaderboard", "", nil, &board)
	if err != nil {
		return types.Board{}, err
	}
	if status != http.StatusOK {
		return types.Board{}, fmt.Errorf("leaderboard: status %d", status)
	}
	return board, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	status, err := client.do(ctx, http.MethodGet, "/healthz", "", nil, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", status)
	}
	return nil
}
