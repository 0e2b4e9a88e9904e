package api_server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/backoffice-ledger/internal/api_server/handler"
	"github.com/backoffice-ledger/internal/api_server/middleware"
	"github.com/gin-gonic/gin"
)

type handlers struct {
	registry   *handler.RegistryHandler
	finance    *handler.FinanceHandler
	entries    *handler.EntryHandler
	recurrence *handler.RecurrenceHandler
}

// setupRouter configures API routes and middleware for the application
func setupRouter(logger *slog.Logger, r *gin.Engine, h handlers, probes map[string]Pinger) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	v1 := r.Group("/api/v1")
	{
		clients := v1.Group("/clients")
		{
			clients.POST("", h.registry.CreateClient)
			clients.GET("/:id", h.registry.GetClient)
		}

		services := v1.Group("/services")
		{
			services.POST("", h.registry.CreateService)
			services.GET("/:id", h.registry.GetService)
		}

		contracts := v1.Group("/contracts")
		{
			contracts.POST("", h.registry.CreateContract)
			contracts.GET("/:id", h.registry.GetContract)
			contracts.POST("/:id/items", h.registry.AddContractItem)
			contracts.GET("/:id/totals", h.finance.GetContractTotals)
		}

		v1.POST("/categories", h.finance.CreateCategory)
		v1.POST("/cost-centers", h.finance.CreateCostCenter)
		v1.POST("/banks", h.finance.CreateBank)

		accounts := v1.Group("/accounts")
		{
			accounts.POST("", h.finance.CreateAccount)
			accounts.GET("/:id", h.finance.GetAccount)
			accounts.GET("/:id/balance", h.finance.GetBalance)
		}

		entries := v1.Group("/entries")
		{
			entries.POST("", h.entries.Create)
			entries.POST("/validate", h.entries.Validate)
			entries.POST("/import", h.entries.Import)
			entries.GET("", h.entries.List)
			entries.GET("/:id", h.entries.GetByID)
			entries.GET("/:id/activity", h.entries.Activity)
			entries.PATCH("/:id/situation", h.entries.ChangeSituation)
		}

		v1.POST("/recurrence/runs", h.recurrence.Run)
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
	r.GET("/health/ready", readiness(logger, probes))
}

// Pinger is a dependency the readiness probe checks
type Pinger interface {
	Ping(ctx context.Context) error
}

const probeTimeout = 2 * time.Second

func readiness(logger *slog.Logger, probes map[string]Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		status := http.StatusOK
		checks := make(gin.H, len(probes))
		for name, p := range probes {
			if err := p.Ping(ctx); err != nil {
				logger.Warn("Readiness probe failed", "dependency", name, "error", err)
				checks[name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[name] = "ok"
		}

		overall := "ready"
		if status != http.StatusOK {
			overall = "not_ready"
		}
		c.JSON(status, gin.H{"status": overall, "checks": checks})
	}
}
