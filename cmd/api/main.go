package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/purchasing"
	"github.com/jhoicas/compras-api/internal/application/receipts"
	"github.com/jhoicas/compras-api/internal/application/receiving"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	infrapdf "github.com/jhoicas/compras-api/internal/infrastructure/pdf"
	"github.com/jhoicas/compras-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/compras-api/internal/interfaces/http"
	"github.com/jhoicas/compras-api/pkg/config"
	"github.com/jhoicas/compras-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	warehouseRepo := postgres.NewWarehouseRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	orderRepo := postgres.NewPurchaseOrderRepository(pool)
	receiptRepo := postgres.NewPurchaseReceiptRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	warehouseUC := usecase.NewWarehouseUseCase(warehouseRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	moduleSvc := usecase.NewModuleService(companyRepo)

	orderUC := purchasing.NewOrderUseCase(orderRepo, supplierRepo, productRepo)

	// Motor de recepción: validación, recepción transaccional, stock + asientos
	// por línea y reconciliación del estado de la orden.
	receiveUC := receiving.NewReceiveOrderUseCase(
		txRunner, orderRepo, warehouseRepo, receiptRepo, supplierRepo,
		receiving.Config{
			CreditRejectedToLedger: cfg.Receiving.CreditRejectedToLedger,
			NumberMaxRetries:       cfg.Receiving.NumberMaxRetries,
		},
		log,
	)

	// PDF: comprobante imprimible de entrada a bodega
	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	receiptPDFUC := receipts.NewPDFUseCase(
		receiptRepo, orderRepo, supplierRepo, companyRepo, pdfGenerator,
	)

	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Compras API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CompanyUC:   companyUC,
		WarehouseUC: warehouseUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		OrderUC:     orderUC,
		ReceiveUC:   receiveUC,
		ReceiptPDF:  receiptPDFUC,
		AuthUC:      authUC,
		Modules:     moduleSvc,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
