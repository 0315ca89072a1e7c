package handler

import (
	"context"
	"log/slog"
	"time"

	"yaapps/model"
	"yaapps/utils"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the health check can probe.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// SessionCounter feeds the active sessions gauge.
type SessionCounter interface {
	CountAllActive(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	service  string
	deps     []Pinger
	sessions SessionCounter
	log      *slog.Logger
}

func NewHealthHandler(service string, log *slog.Logger, deps ...Pinger) *HealthHandler {
	return &HealthHandler{service: service, deps: deps, log: log}
}

// WithSessions makes each check report and export the active session count.
func (h *HealthHandler) WithSessions(sessions SessionCounter) *HealthHandler {
	h.sessions = sessions
	return h
}

func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	stats := model.HealthStats{
		Status:       "ok",
		Service:      h.service,
		CheckedAt:    time.Now(),
		Dependencies: make([]model.DependencyStatus, 0, len(h.deps)),
	}

	for _, dep := range h.deps {
		status := model.DependencyStatus{Name: dep.Name(), Healthy: true}
		if err := dep.Ping(ctx); err != nil {
			status.Healthy = false
			status.Error = err.Error()
			stats.Status = "degraded"
			h.log.Warn("dependency unhealthy", slog.String("dependency", dep.Name()), utils.Err(err))
		}
		stats.Dependencies = append(stats.Dependencies, status)
	}

	if cpu, err := utils.GetCPUUsage(ctx, 100*time.Millisecond); err == nil {
		stats.System.CPUPercent = cpu
	}
	if mem, err := utils.GetMemoryUsage(ctx); err == nil {
		stats.System.MemoryPercent = mem
	}
	stats.System.MongoConnections = utils.GetMongoMetrics().ActiveConnections

	if h.sessions != nil {
		if count, err := h.sessions.CountAllActive(ctx); err == nil {
			stats.System.ActiveSessions = count
			utils.UpdateActiveSessions(float64(count))
		} else {
			h.log.Warn("failed to count sessions", utils.Err(err))
		}
	}

	if stats.Status != "ok" {
		utils.ServiceUnavailable(c, stats)
		return
	}
	utils.Success(c, stats)
}
