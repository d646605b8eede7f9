package db

import (
	"context"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
)

// AuditStoreStatus reports the state of the pool behind the query audit
// trail. The pipeline itself holds no state, so this is the only stateful
// dependency a health probe has to cover.
type AuditStoreStatus struct {
	Reachable       bool   `json:"reachable"`
	TotalConns      int32  `json:"total_conns"`
	IdleConns       int32  `json:"idle_conns"`
	AcquiredConns   int32  `json:"acquired_conns"`
	MaxConns        int32  `json:"max_conns"`
	AcquireCount    int64  `json:"acquire_count"`
	AcquireDuration string `json:"acquire_duration"`
}

func auditStoreStatus(pool *pgxpool.Pool, reachable bool) *AuditStoreStatus {
	stat := pool.Stat()
	return &AuditStoreStatus{
		Reachable:       reachable,
		TotalConns:      stat.TotalConns(),
		IdleConns:       stat.IdleConns(),
		AcquiredConns:   stat.AcquiredConns(),
		MaxConns:        stat.MaxConns(),
		AcquireCount:    stat.AcquireCount(),
		AcquireDuration: stat.AcquireDuration().String(),
	}
}

// HealthHandler probes the audit store with a short ping and reports pool
// statistics alongside the verdict.
func HealthHandler(pool *pgxpool.Pool) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()

		if err := pool.Ping(ctx); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]interface{}{
				"status":      "unhealthy",
				"error":       err.Error(),
				"audit_store": auditStoreStatus(pool, false),
			})
		}

		return c.JSON(http.StatusOK, map[string]interface{}{
			"status":      "healthy",
			"audit_store": auditStoreStatus(pool, true),
		})
	}
}
