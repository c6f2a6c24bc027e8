package routes

import (
	"github.com/gin-gonic/gin"

	"storefront/controllers"
	"storefront/middleware"
)

type Controllers struct {
	Auth    *controllers.AuthController
	Orders  *controllers.OrderController
	Product *controllers.ProductController
}

func Register(r *gin.Engine, resolver middleware.Resolver, ctl Controllers) {
	api := r.Group("/api")
	{
		api.POST("/register", ctl.Auth.Register)
		api.POST("/login", ctl.Auth.Login)
		api.POST("/logout", ctl.Auth.Logout)

		api.GET("/products", ctl.Product.ListProducts)

		// Order creation is unauthenticated: the customer pays through the
		// bill the response links to.
		api.POST("/orders", ctl.Orders.CreateOrder)

		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware(resolver))
		{
			protected.GET("/orders", ctl.Orders.ListOrders)
			protected.GET("/orders/:id", ctl.Orders.GetOrder)

			admin := protected.Group("/")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.PUT("/orders/:id", ctl.Orders.UpdateOrder)
				admin.DELETE("/orders/:id", ctl.Orders.DeleteOrder)

				admin.POST("/admin/products", ctl.Product.CreateProduct)
				admin.PUT("/admin/products/:id", ctl.Product.UpdateProduct)
				admin.DELETE("/admin/products/:id", ctl.Product.DeleteProduct)
			}
		}
	}
}
