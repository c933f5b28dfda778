// Package pubchem checks whether a structure is registered in the PubChem
// compound database through the PUG REST interface.
package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/turtacn/MolViz/internal/infrastructure/monitoring/logging"
	mtypes "github.com/turtacn/MolViz/pkg/types/molecule"
)

const (
	// DefaultBaseURL is the public PUG REST root.
	DefaultBaseURL = "https://pubchem.ncbi.nlm.nih.gov/rest/pug"
	// DefaultTimeout bounds a single lookup.
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 1 << 20
)

// Outcome labels passed to the observer.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// ObserveFunc receives the outcome and latency of every lookup.
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

// WithTimeout sets the per-lookup timeout.
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

// Client performs existence lookups. Every call makes exactly one request;
// nothing is cached or retried.
type Client struct {
	baseURL   string
	http      *http.Client
	userAgent string
	logger    logging.Logger
	observe   ObserveFunc
}

// NewClient creates a Client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "molviz",
		logger:    logging.NewNopLogger(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type cidResponse struct {
	IdentifierList *struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

// URL returns the lookup address for smiles. The SMILES is a single escaped
// path segment so characters such as '/' and '#' survive intact.
func (c *Client) URL(smiles string) string {
	return c.baseURL + "/compound/smiles/" + url.PathEscape(smiles) + "/cids/JSON"
}

// Exists reports whether PubChem lists at least one compound id for smiles.
// Failures never escape: they yield Found=false with a descriptive message.
func (c *Client) Exists(ctx context.Context, smiles string) mtypes.ExistenceResult {
	start := time.Now()
	res, outcome := c.exists(ctx, smiles)
	if c.observe != nil {
		c.observe(outcome, time.Since(start))
	}
	if outcome == OutcomeError {
		c.logger.Warn("pubchem lookup failed",
			logging.String("smiles", smiles), logging.String("reason", res.Message))
	}
	return res
}

const (
	foundMessage    = "Compound found in PubChem."
	notFoundMessage = "Compound not found in PubChem."
)

func (c *Client) exists(ctx context.Context, smiles string) (mtypes.ExistenceResult, string) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(smiles), nil)
	if err != nil {
		return failure("PubChem request could not be built: %v", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return failure("PubChem request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return failure("PubChem response could not be read: %v", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure("PubChem returned HTTP %d", resp.StatusCode)
	}

	var parsed cidResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return failure("PubChem response is not valid JSON: %v", err)
	}
	if parsed.IdentifierList == nil {
		return failure("PubChem response has no IdentifierList")
	}
	cids := make([]int64, 0, len(parsed.IdentifierList.CID))
	for _, id := range parsed.IdentifierList.CID {
		// PubChem answers unknown structures with CID 0
		if id > 0 {
			cids = append(cids, id)
		}
	}
	if len(cids) == 0 {
		return mtypes.ExistenceResult{Message: notFoundMessage}, OutcomeNotFound
	}
	return mtypes.ExistenceResult{Found: true, CIDs: cids, Message: foundMessage}, OutcomeFound
}

func failure(format string, args ...interface{}) (mtypes.ExistenceResult, string) {
	return mtypes.ExistenceResult{Message: fmt.Sprintf(format, args...)}, OutcomeError
}

//Personal.AI order the ending
