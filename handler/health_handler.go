package handler

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]Check
	started time.Time
	log     *utils.Logger
}

func NewHealthHandler(checks map[string]Check, log *utils.Logger) *HealthHandler {
	return &HealthHandler{checks: checks, started: time.Now(), log: log}
}

// GetHealth runs every dependency check concurrently. Any failing check
// turns the response into a 503.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	var mu sync.Mutex
	deps := make(map[string]string, len(h.checks))
	healthy := true

	var g errgroup.Group
	for name, check := range h.checks {
		g.Go(func() error {
			err := check(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				healthy = false
				deps[name] = "down"
				h.log.Warn("health check failed", "dependency", name, "error", err)
				return nil
			}
			deps[name] = "up"
			return nil
		})
	}
	_ = g.Wait()

	stats := model.HealthStats{
		Status:        "ok",
		Dependencies:  deps,
		CPUPercent:    utils.GetCPUUsage(),
		MemoryPercent: utils.GetMemoryUsage(),
		Uptime:        time.Since(h.started).Round(time.Second).String(),
		CheckedAt:     time.Now().UTC(),
	}
	if !healthy {
		stats.Status = "degraded"
		c.JSON(http.StatusServiceUnavailable, &utils.Response{Status: http.StatusServiceUnavailable, Data: stats})
		return
	}
	utils.Success(c, stats)
}
