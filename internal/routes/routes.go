package routes

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"inventory/internal/auth"
	"inventory/internal/handlers"
	"inventory/internal/middleware"
	"inventory/internal/service"
	"inventory/internal/upload"
	"inventory/internal/web"
)

// Dependencies es todo lo que el router necesita para montar la app
type Dependencies struct {
	Service      *service.ProductService
	Sessions     *auth.Sessions
	Uploads      *upload.Client
	LoginLimiter *middleware.RateLimiter
	Health       handlers.Pinger
	Templates    *template.Template
	Web          web.Options
	Logger       *zap.Logger
}

func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.Use(
		middleware.RequestID(),
		middleware.Logger(deps.Logger),
		middleware.MetricsMiddleware(),
		middleware.AuthGate(deps.Sessions, deps.Logger),
	)

	router.GET("/healthz", handlers.Health(deps.Health))
	router.GET("/metrics", middleware.PrometheusHandler())

	authHandler := handlers.NewAuthHandler(deps.Sessions, deps.Logger)
	products := handlers.NewProductHandler(deps.Service, deps.Logger)
	uploads := handlers.NewUploadHandler(deps.Uploads, deps.Logger)

	api := router.Group("/api")
	{
		api.POST("/auth/login", deps.LoginLimiter.Middleware(), authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/products", products.ListProducts)
		api.POST("/products", products.CreateProduct)
		api.POST("/products/reorder", products.ReorderProducts)
		api.GET("/products/:id", products.GetProduct)
		api.PUT("/products/:id", products.UpdateProduct)
		api.DELETE("/products/:id", products.DeleteProduct)

		api.GET("/categories", products.ListCategories)

		api.GET("/uploads/config", uploads.UploadConfig)
		api.POST("/uploads", uploads.UploadImage)
	}

	pages := web.NewHandler(deps.Service, deps.Uploads, deps.Web, deps.Logger)
	router.SetHTMLTemplate(deps.Templates)
	router.StaticFS("/static", web.Static())

	router.GET("/login", pages.Login)
	router.GET("/", pages.Dashboard)
	router.GET("/products/new", pages.NewProduct)
	router.GET("/products/:id", pages.EditProduct)
}
