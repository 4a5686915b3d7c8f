package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Check — проба зависимости для /health. nil — зависимость жива.
type Check func(ctx context.Context) error

// HealthHandler отдаёт состояние сервиса и его зависимостей.
type HealthHandler struct {
	service string
	checks  map[string]Check
}

func NewHealthHandler(service string) *HealthHandler {
	return &HealthHandler{service: service, checks: make(map[string]Check)}
}

// AddCheck регистрирует именованную пробу (database, redis и т.п.).
func (h *HealthHandler) AddCheck(name string, c Check) {
	h.checks[name] = c
}

// Health — GET /health: {status, service, timestamp, checks}.
// Любая упавшая проба переводит статус в unhealthy и код в 503.
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "healthy"
	checks := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			status = "unhealthy"
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{
		"status":    status,
		"service":   h.service,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// Ready — GET /ready.
func Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
