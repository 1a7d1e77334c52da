// internal/app/router.go
package app

import (
	adminHandler "storefront/internal/handlers/admin"
	authHandler "storefront/internal/handlers/auth"
	cartHandler "storefront/internal/handlers/cart"
	catalogHandler "storefront/internal/handlers/catalog"
	"storefront/internal/middleware"
	"storefront/internal/rbac"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	CatalogHandler *catalogHandler.CatalogHandler
	CartHandler    *cartHandler.CartHandler
	AdminHandler   *adminHandler.AdminHandler
	AuthMiddleware *middleware.AuthMiddleware
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	api := r.Group("/api")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ==================== Public ====================
	api.POST("/login", h.AuthHandler.Login)
	api.GET("/products", h.CatalogHandler.ListProducts)
	api.GET("/products/:id", h.CatalogHandler.GetProduct)

	// ==================== Authenticated ====================
	authed := api.Group("")
	authed.Use(h.AuthMiddleware.Auth())
	{
		authed.POST("/logout", h.AuthHandler.Logout)
		authed.GET("/profile", h.AuthHandler.GetProfile)
		authed.PUT("/profile", h.AuthHandler.UpdateProfile)
		authed.GET("/bills", h.CartHandler.Bills)
	}

	// ==================== Seller ====================
	seller := api.Group("")
	seller.Use(h.AuthMiddleware.WithRole(rbac.RoleSeller, rbac.RoleAdmin)...)
	{
		seller.GET("/seller/products", h.CatalogHandler.SellerProducts)
		seller.POST("/products", h.CatalogHandler.CreateProduct)
		seller.PUT("/products/:id", h.CatalogHandler.UpdateProduct)
		seller.DELETE("/products/:id", h.CatalogHandler.DeleteProduct)
	}

	// ==================== Buyer ====================
	buyer := api.Group("")
	buyer.Use(h.AuthMiddleware.WithRole(rbac.RoleBuyer)...)
	{
		buyer.GET("/cart", h.CartHandler.GetCart)
		buyer.POST("/cart/add", h.CartHandler.Add)
		buyer.POST("/cart/remove", h.CartHandler.Remove)
		buyer.PUT("/cart/update-quantity", h.CartHandler.UpdateQuantity)
		buyer.POST("/checkout", h.CartHandler.Checkout)
	}

	// ==================== Admin ====================
	admin := api.Group("/admin")
	admin.Use(h.AuthMiddleware.AdminOnly()...)
	{
		admin.GET("/dashboard", h.AdminHandler.Dashboard)

		admin.GET("/users", h.AdminHandler.ListUsers)
		admin.POST("/users", h.AdminHandler.CreateUser)
		admin.PUT("/users/:id", h.AdminHandler.UpdateUser)
		admin.DELETE("/users/:id", h.AdminHandler.DeleteUser)
		admin.PUT("/users/:id/roles", h.AdminHandler.AssignRoles)

		admin.GET("/roles", h.AdminHandler.ListRoles)
		admin.POST("/roles", h.AdminHandler.CreateRole)
		admin.PUT("/roles/:id", h.AdminHandler.UpdateRole)
		admin.DELETE("/roles/:id", h.AdminHandler.DeleteRole)

		admin.GET("/permissions", h.AdminHandler.ListPermissions)
		admin.POST("/permissions", h.AdminHandler.CreatePermission)
		admin.PUT("/permissions/:id", h.AdminHandler.UpdatePermission)
		admin.DELETE("/permissions/:id", h.AdminHandler.DeletePermission)
	}
}
