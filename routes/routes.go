package routes

import (
	"salesdash/handlers"
	"salesdash/middleware"
	"salesdash/utils"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the authenticated routes of the application.
func SetupRoutes(app *fiber.App, h *handlers.Handler) {
	api := app.Group("/api/v1", middleware.Authenticate)

	// Products
	products := api.Group("/products", middleware.WriteAccessRequired)
	products.Get("/", h.HandleListProducts)
	products.Post("/", h.HandleCreateProduct)
	products.Get("/:id", h.HandleGetProduct)
	products.Put("/:id", h.HandleUpdateProduct)
	products.Delete("/:id", h.HandleDeleteProduct)

	// Sales
	sales := api.Group("/sales", middleware.WriteAccessRequired)
	sales.Get("/", h.HandleListSales)
	sales.Post("/", h.HandleCreateSale)
	sales.Get("/:id", h.HandleGetSale)
	sales.Put("/:id", h.HandleUpdateSale)
	sales.Delete("/:id", h.HandleDeleteSale)

	// Settings and one-shot sync
	api.Get("/settings", h.HandleGetSettings)
	api.Put("/settings", middleware.WriteAccessRequired, h.HandleUpdateSettings)
	api.Get("/data", h.HandleGetData)
	api.Get("/activity", middleware.CheckRole(utils.RoleOwner), h.HandleListActivity)

	// Analytics
	analytics := api.Group("/analytics")
	analytics.Get("/", h.HandleGetAnalytics)
	analytics.Get("/insights", h.HandleGetInsights)
	analytics.Get("/prediction", h.HandleGetPrediction)
	analytics.Get("/stock", h.HandleGetStockAnalysis)
	analytics.Get("/recommendations", h.HandleGetRecommendations)

	api.Get("/notifications", h.HandleGetNotifications)

	// Reports
	api.Get("/reports", h.HandleGetReport)
	api.Get("/reports/summary", h.HandleGetReportSummary)
	api.Post("/email/send-report", middleware.WriteAccessRequired, h.HandleSendReport)

	// Assistant; read-only for every role
	api.Post("/query", h.HandleQuery)
	api.Post("/chat", h.HandleChat)
}
