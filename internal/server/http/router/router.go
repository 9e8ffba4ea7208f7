package router

import (
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quangND1998/app-p2p/internal/server/http/handlers"
	"github.com/quangND1998/app-p2p/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.TransactionFacade, registry *prometheus.Registry, logger *slog.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.LocalOnly())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	healthHandler := handlers.NewHealthHandler()
	transactionHandler := handlers.NewTransactionHandler(facade)

	engine.GET("/healthz", healthHandler.Live)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	api := engine.Group("/api")
	api.GET("/transactions", transactionHandler.ByDate)
	api.GET("/transactions/range", transactionHandler.ByRange)
	api.GET("/transactions/recent", transactionHandler.Recent)
	api.GET("/orders/:number", transactionHandler.ByOrder)
	api.GET("/orders/:number/qr", transactionHandler.QRImage)

	return engine
}
