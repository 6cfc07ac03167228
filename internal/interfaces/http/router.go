package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/compras-api/internal/application/auth"
	"github.com/jhoicas/compras-api/internal/application/purchasing"
	"github.com/jhoicas/compras-api/internal/application/receipts"
	"github.com/jhoicas/compras-api/internal/application/receiving"
	"github.com/jhoicas/compras-api/internal/application/usecase"
	"github.com/jhoicas/compras-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CompanyUC   *usecase.CompanyUseCase
	WarehouseUC *usecase.WarehouseUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	OrderUC     *purchasing.OrderUseCase
	ReceiveUC   *receiving.ReceiveOrderUseCase
	ReceiptPDF  *receipts.PDFUseCase
	AuthUC      *auth.AuthUseCase
	Modules     *usecase.ModuleService
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies (público por ahora; se puede proteger con AuthMiddleware(deps.JWTSecret))
	companies := api.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Warehouses (protegido; administrar bodegas es de admin)
	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC)
	warehouses.Post("/", RequireRole(entity.RoleAdmin), warehouseHandler.Create)
	warehouses.Get("/", warehouseHandler.List)
	warehouses.Get("/:id", warehouseHandler.GetByID)
	warehouses.Put("/:id", RequireRole(entity.RoleAdmin), warehouseHandler.Update)

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)

	// Suppliers (protegido, módulo purchasing)
	suppliers := protected.Group("/suppliers", RequireModule(entity.ModulePurchasing, deps.Modules))
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", RequireRole(entity.RoleAdmin, entity.RoleComprador), supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)

	// Purchase orders + recepción (protegido, módulo purchasing)
	orders := protected.Group("/purchase-orders", RequireModule(entity.ModulePurchasing, deps.Modules))
	orderHandler := NewPurchaseOrderHandler(deps.OrderUC)
	orders.Post("/", RequireRole(entity.RoleAdmin, entity.RoleComprador), orderHandler.Create)
	orders.Get("/", orderHandler.List)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("/:id/confirm", RequireRole(entity.RoleAdmin, entity.RoleComprador), orderHandler.Confirm)
	orders.Post("/:id/cancel", RequireRole(entity.RoleAdmin, entity.RoleComprador), orderHandler.Cancel)

	receivingHandler := NewReceivingHandler(deps.ReceiveUC, deps.ReceiptPDF)
	orders.Post("/:id/receive", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), receivingHandler.Receive)
	orders.Get("/:id/receive", receivingHandler.ListReceipts)

	// Comprobante PDF de una recepción
	receiptsGroup := protected.Group("/receipts", RequireModule(entity.ModulePurchasing, deps.Modules))
	receiptsGroup.Get("/:id/pdf", receivingHandler.DownloadReceiptPDF)
}
