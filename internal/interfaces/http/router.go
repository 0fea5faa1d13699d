package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/tienda360-api/internal/application/auth"
	"github.com/jhoicas/tienda360-api/internal/application/catalog"
	"github.com/jhoicas/tienda360-api/internal/application/finance"
	"github.com/jhoicas/tienda360-api/internal/application/inventory"
	"github.com/jhoicas/tienda360-api/internal/application/purchasing"
	"github.com/jhoicas/tienda360-api/internal/application/sales"
	"github.com/jhoicas/tienda360-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *catalog.ProductUseCase
	StockUC    *inventory.StockUseCase
	SaleUC     *sales.SaleUseCase
	PurchaseUC *purchasing.PurchaseUseCase
	FinanceUC  *finance.FinanceUseCase
	JWTSecret  string
	// Gatherer expone /metrics; nil lo deshabilita.
	Gatherer    prometheus.Gatherer
	ServiceName string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})
	if deps.Gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleAdmin, entity.RoleManager)

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.StockUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Get("/:id/movements", productHandler.Movements)

	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockUC)
	stock.Post("/adjustments", stockHandler.Adjust)
	stock.Get("/reorder", stockHandler.Reorder)
	stock.Post("/counts", stockHandler.CreateCount)
	stock.Get("/counts/:id", stockHandler.GetCount)
	stock.Put("/counts/:id/items/:itemId", stockHandler.SetCounted)
	stock.Post("/counts/:id/close", stockHandler.CloseCount)

	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.GetByID)
	salesGroup.Delete("/:id", saleHandler.Delete)
	salesGroup.Post("/:id/items", saleHandler.AddItem)
	salesGroup.Put("/:id/items/:itemId", saleHandler.UpdateItem)
	salesGroup.Delete("/:id/items/:itemId", saleHandler.RemoveItem)
	salesGroup.Post("/:id/finalize", saleHandler.Finalize)
	salesGroup.Post("/:id/payments", saleHandler.RecordPayment)

	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)

	suppliers := protected.Group("/suppliers")
	suppliers.Post("/", purchaseHandler.CreateSupplier)
	suppliers.Get("/", purchaseHandler.ListSuppliers)

	// Compras y finanzas: solo personal (admin, manager). Las escrituras además pasan por la política.
	purchases := protected.Group("/purchases", staff)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/", purchaseHandler.List)
	purchases.Get("/:id", purchaseHandler.GetByID)
	purchases.Delete("/:id", purchaseHandler.Delete)
	purchases.Post("/:id/items", purchaseHandler.AddItem)
	purchases.Put("/:id/items/:itemId", purchaseHandler.UpdateItem)
	purchases.Delete("/:id/items/:itemId", purchaseHandler.RemoveItem)
	purchases.Put("/:id/items/:itemId/received", purchaseHandler.SetReceived)
	purchases.Post("/:id/place", purchaseHandler.Place)
	purchases.Post("/:id/receive", purchaseHandler.Receive)
	purchases.Post("/:id/invoice", purchaseHandler.Invoice)

	fin := protected.Group("/finance", staff)
	financeHandler := NewFinanceHandler(deps.FinanceUC)
	fin.Post("/entries", financeHandler.CreateEntry)
	fin.Get("/entries", financeHandler.ListEntries)
	fin.Get("/summary", financeHandler.Summary)
	fin.Post("/budgets", financeHandler.CreateBudget)
	fin.Get("/budgets", financeHandler.ListBudgets)
	fin.Get("/budgets/:id", financeHandler.GetBudget)
	fin.Post("/cash", financeHandler.RecordCash)
	fin.Get("/cash/balance", financeHandler.CashBalance)
}
