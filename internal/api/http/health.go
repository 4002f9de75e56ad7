package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// ReportLister is the part of the report store the health check reads.
type ReportLister interface {
	List() ([]string, error)
}

type HealthResponse struct {
	Status       string    `json:"status"`
	Timestamp    time.Time `json:"timestamp"`
	Service      string    `json:"service"`
	Version      string    `json:"version"`
	Sessions     string    `json:"sessions"`
	Redis        string    `json:"redis"`
	Reports      int       `json:"reports"`
	LatestReport string    `json:"latest_report,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	redis       *redis.Client
	reports     ReportLister
}

// NewHealthHandler treats a nil rdb as in-memory chat sessions; reports may be nil.
func NewHealthHandler(serviceName, version string, rdb *redis.Client, reports ReportLister) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		redis:       rdb,
		reports:     reports,
	}
}

// HealthCheck stays 200 while the history is readable; a down Redis only
// degrades chat, so it is reported but does not fail the check.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Sessions:  "memory",
		Redis:     "disabled",
	}

	if h.redis != nil {
		resp.Sessions = "redis"
		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.redis.Ping(pingCtx).Err(); err != nil {
			resp.Redis = "down"
		} else {
			resp.Redis = "up"
		}
	}

	code := http.StatusOK
	if h.reports != nil {
		ids, err := h.reports.List()
		if err != nil {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		} else {
			resp.Reports = len(ids)
			if len(ids) > 0 {
				resp.LatestReport = ids[0]
			}
		}
	}

	c.JSON(code, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
