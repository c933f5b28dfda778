package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolViz/pkg/types/common"
)

// HealthChecker is a dependency that can report its health.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

type funcChecker struct {
	name string
	fn   func(ctx context.Context) error
}

func (f funcChecker) Name() string                    { return f.name }
func (f funcChecker) Check(ctx context.Context) error { return f.fn(ctx) }

// NewHealthCheck adapts a ping function into a HealthChecker.
func NewHealthCheck(name string, fn func(ctx context.Context) error) HealthChecker {
	return funcChecker{name: name, fn: fn}
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		version:  version,
		startAt:  time.Now(),
		timeout:  5 * time.Second,
	}
}

// RegisterRoutes registers the probe routes.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
}

// LivenessResponse is the body of GET /healthz.
type LivenessResponse struct {
	Status  common.HealthStatus `json:"status"`
	Version string              `json:"version"`
	Uptime  string              `json:"uptime"`
}

// ReadinessResponse is the body of GET /readyz.
type ReadinessResponse struct {
	Status     common.HealthStatus      `json:"status"`
	Components []common.ComponentHealth `json:"components,omitempty"`
}

// Liveness always reports up while the process serves requests.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, LivenessResponse{
		Status:  common.HealthUp,
		Version: h.version,
		Uptime:  time.Since(h.startAt).Truncate(time.Second).String(),
	})
}

// Readiness checks every dependency; any failure yields 503.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	components := h.checkAll(ctx)
	resp := ReadinessResponse{Status: common.HealthUp, Components: components}
	for _, comp := range components {
		if comp.Status != common.HealthUp {
			resp.Status = common.HealthDown
			c.JSON(http.StatusServiceUnavailable, resp)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

// checkAll runs the checkers concurrently; results keep registration order.
func (h *HealthHandler) checkAll(ctx context.Context) []common.ComponentHealth {
	results := make([]common.ComponentHealth, len(h.checkers))
	var wg sync.WaitGroup
	for i, checker := range h.checkers {
		wg.Add(1)
		go func(i int, hc HealthChecker) {
			defer wg.Done()
			start := time.Now()
			err := hc.Check(ctx)
			res := common.ComponentHealth{
				Name:    hc.Name(),
				Status:  common.HealthUp,
				Latency: time.Since(start),
			}
			if err != nil {
				res.Status = common.HealthDown
				res.Message = err.Error()
			}
			results[i] = res
		}(i, checker)
	}
	wg.Wait()
	return results
}

//Personal.AI order the ending
