package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/globaltripmarket/finance-api/handlers"
	"github.com/globaltripmarket/finance-api/middleware"
	"github.com/globaltripmarket/finance-api/services"
)

// SetupAuthRoutes sets up the public (cookie-issuing) auth routes.
func SetupAuthRoutes(rg *gin.RouterGroup, users *services.UserService, mockEnabled bool) {
	authHandler := &handlers.AuthHandler{Users: users, MockEnabled: mockEnabled}

	rg.POST("/auth/login", authHandler.Login)
	rg.POST("/auth/logout", authHandler.Logout)
	rg.GET("/auth/me", authHandler.Me)
}

// SetupDashboardRoutes sets up the protected dashboard and transaction routes.
func SetupDashboardRoutes(rg *gin.RouterGroup, n8n *services.N8NService, users *services.UserService) {
	h := handlers.NewDashboardHandler(n8n, users)

	rg.GET("/dashboard", h.GetDashboard)
	rg.GET("/transactions", h.GetTransactions)
	rg.POST("/transactions", h.AddTransaction)
	rg.GET("/transactions/export", h.ExportTransactions)
	rg.POST("/ai/query", h.AIQuery)
}

// SetupAdminRoutes sets up the admin-only user management and audit routes.
func SetupAdminRoutes(rg *gin.RouterGroup, users *services.UserService) {
	adminHandler := &handlers.AdminHandler{Users: users}

	admin := rg.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.POST("/users/:id/reset-password", adminHandler.ResetPassword)
		admin.POST("/users/:id/toggle-active", adminHandler.ToggleActive)
		admin.GET("/activity", adminHandler.ListActivity)
	}
}
