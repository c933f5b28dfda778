// Package toxicity queries an external toxicity prediction service.
package toxicity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

const (
	// DefaultTimeout bounds a single prediction.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Outcome labels passed to the observer.
const (
	OutcomeOK    = "ok"
	OutcomeError = "error"
)

// ObserveFunc receives the outcome and latency of every prediction.
type ObserveFunc func(outcome string, elapsed time.Duration)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithObserver registers a metrics hook.
func WithObserver(fn ObserveFunc) Option {
	return func(c *Client) { c.observe = fn }
}

// Client posts structures to the prediction endpoint, once per call.
type Client struct {
	endpoint  string
	http      *http.Client
	userAgent string
	logger    logging.Logger
	observe   ObserveFunc
}

// NewClient creates a Client for endpoint.
func NewClient(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:  endpoint,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "molviz",
		logger:    logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type predictRequest struct {
	SMILES string `json:"smiles"`
}

// Predict returns the prediction for smiles. Absent response keys become
// "N/A"; any failure becomes an error record and is never returned as an
// error.
func (c *Client) Predict(ctx context.Context, smiles string) mtypes.ToxicityResult {
	start := time.Now()
	res := c.predict(ctx, smiles)
	outcome := OutcomeOK
	if res.Failed() {
		outcome = OutcomeError
		c.logger.Warn("toxicity lookup failed",
			logging.String("smiles", smiles), logging.String("reason", res.Error))
	}
	if c.observe != nil {
		c.observe(outcome, time.Since(start))
	}
	return res
}

func (c *Client) predict(ctx context.Context, smiles string) mtypes.ToxicityResult {
	if c.endpoint == "" {
		return failure("toxicity endpoint is not configured")
	}
	payload, err := json.Marshal(predictRequest{SMILES: smiles})
	if err != nil {
		return failure("request encoding failed: %v", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return failure("request could not be built: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return failure("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failure("response could not be read: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure("service returned HTTP %d", resp.StatusCode)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return failure("response is not a JSON object: %v", err)
	}
	return mtypes.ToxicityResult{
		LD50:          field(fields, "ld50"),
		ToxicityClass: field(fields, "toxicity_class"),
		Prediction:    field(fields, "prediction"),
	}
}

// field renders a response value as text; missing or null keys are N/A.
func field(m map[string]interface{}, key string) string {
	switch v := m[key].(type) {
	case nil:
		return mtypes.NotAvailable
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return mtypes.NotAvailable
		}
		return string(b)
	}
}

func failure(format string, args ...interface{}) mtypes.ToxicityResult {
	return mtypes.ToxicityResult{Error: fmt.Sprintf(format, args...)}
}

//Personal.AI order the ending
