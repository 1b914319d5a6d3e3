// Package http exposes the finance service as a JSON API on gin.
package http

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"finance-tracker-backend/internal/log"
	"finance-tracker-backend/internal/service"
)

type Config struct {
	AllowOrigins []string
}

type handler struct {
	svc *service.Service
}

// NewRouter wires every route of the API onto a fresh gin engine. Handlers log through the
// request-scoped logger that the RequestID middleware derives from logger.
func NewRouter(svc *service.Service, logger *log.Logger, cfg Config) *gin.Engine {
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}
	h := &handler{svc: svc}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.RequestID(logger))
	r.Use(log.RequestLogger())

	// CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", log.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition", log.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", h.health)

	api := r.Group("/api")
	api.POST("/auth/register", h.register)
	api.POST("/auth/login", h.login)
	api.GET("/categories", h.listCategories)

	authed := api.Group("", h.requireSession)
	authed.POST("/auth/logout", h.logout)

	authed.GET("/transactions", h.listTransactions)
	authed.POST("/transactions", h.createTransaction)
	authed.POST("/transactions/import", h.importTransactions)
	authed.PUT("/transactions/:id", h.updateTransaction)
	authed.DELETE("/transactions/:id", h.deleteTransaction)

	authed.GET("/accounts", h.listAccounts)

	authed.GET("/budgets", h.listBudgets)
	authed.POST("/budgets", h.createBudget)

	authed.POST("/reports/generate", h.generateReport)
	authed.POST("/reports/export", h.exportReport)

	authed.GET("/analytics", h.analytics)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})
	return r
}

// health handles the health check endpoint
func (h *handler) health(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.svc.Health(ctx); err != nil {
		log.FromContext(ctx).WithComponent(log.ComponentHTTP).ErrorContext(ctx, "Health check failed", log.FieldError, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status": "unhealthy",
			"error":  "Database unavailable",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "finance-tracker",
	})
}
