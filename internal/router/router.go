package router

import (
	"github.com/gin-gonic/gin"

	"colmado/internal/config"
	"colmado/internal/domain"
	"colmado/internal/handler"
	"colmado/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	jwtCfg config.JWTConfig,
	saleH *handler.SaleHandler,
	purchaseH *handler.PurchaseHandler,
	productH *handler.ProductHandler,
	sequenceH *handler.SequenceHandler,
	reportH *handler.ReportHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtCfg))

	// Sales - cashiers record, anyone authenticated can read
	sales := protected.Group("/sales")
	sales.POST("", saleH.Record)
	sales.GET("/:id", saleH.GetByID)

	// Supplier invoices
	purchases := protected.Group("/purchases")
	purchases.POST("", purchaseH.Record)
	purchases.GET("/:id", purchaseH.GetByID)

	// Catalog
	products := protected.Group("/products")
	products.POST("", middleware.RequireRole(domain.RoleAdmin), productH.Create)
	products.GET("", productH.List)
	products.GET("/:id", productH.GetByID)

	// Fiscal sequence administration - admin only
	sequences := protected.Group("/sequences")
	sequences.Use(middleware.RequireRole(domain.RoleAdmin))
	sequences.POST("", sequenceH.Create)
	sequences.GET("", sequenceH.List)
	sequences.GET("/active/:type", sequenceH.ActiveByType)
	sequences.GET("/:id", sequenceH.GetByID)
	sequences.POST("/:id/deactivate", sequenceH.Deactivate)
	sequences.DELETE("/:id", sequenceH.Delete)

	// Compliance reports - admin only
	reports := protected.Group("/reports")
	reports.Use(middleware.RequireRole(domain.RoleAdmin))
	reports.GET("/:kind", reportH.Build)
	reports.GET("/:kind/xml", reportH.DownloadXML)
	reports.GET("/:kind/xlsx", reportH.DownloadExcel)

	return r
}
