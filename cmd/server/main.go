package main

import (
	"fmt"
	"log"

	"colmado/internal/config"
	"colmado/internal/handler"
	"colmado/internal/registry"
	"colmado/internal/report"
	"colmado/internal/repository/postgres"
	"colmado/internal/router"
	"colmado/internal/service"
	"colmado/internal/tax"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	sequenceRepo := postgres.NewSequenceRepo(db)
	productRepo := postgres.NewProductRepo(db)
	saleRepo := postgres.NewSaleRepo(db, cfg.Fiscal.AllocateRetries)
	purchaseRepo := postgres.NewPurchaseRepo(db)
	registryRepo := postgres.NewRegistryRepo(db)

	// Domain components
	validator := registry.NewValidator(registryRepo, cfg.Fiscal.RegistryStaleAfter)
	calculator := tax.NewCalculator(cfg.Fiscal.ITBISRate)
	builder := report.NewBuilder(saleRepo, purchaseRepo, validator, calculator, cfg.Fiscal.AnonymousTaxID)

	// Initialize services
	saleSvc := service.NewSaleService(saleRepo, productRepo, validator, calculator)
	purchaseSvc := service.NewPurchaseService(purchaseRepo, validator)
	productSvc := service.NewProductService(productRepo)
	sequenceSvc := service.NewSequenceService(sequenceRepo, cfg.Fiscal.ExhaustionWarnAt)
	reportSvc := service.NewReportService(builder, cfg.Fiscal)

	// Initialize handlers
	saleH := handler.NewSaleHandler(saleSvc)
	purchaseH := handler.NewPurchaseHandler(purchaseSvc)
	productH := handler.NewProductHandler(productSvc)
	sequenceH := handler.NewSequenceHandler(sequenceSvc)
	reportH := handler.NewReportHandler(reportSvc)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(cfg.JWT, saleH, purchaseH, productH, sequenceH, reportH, healthH)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
