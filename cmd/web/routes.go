package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"charity-web/internal/ratelimit"
	"charity-web/internal/web"
)

// registerRoutes sets up pages and API endpoints
func (app *App) registerRoutes() {
	// Health check endpoint
	app.router.GET("/ping", app.handlePing)

	// Static pages
	for _, page := range web.Pages {
		app.router.GET(page.Path, app.handlePage(page))
	}

	// Donate page
	app.router.GET("/donate", app.handleDonate)
	app.router.POST("/donate/location", app.handleSetDonateLocation)

	// Translation assets
	app.router.GET("/languages/:lng/translation.json", app.handleTranslationFile)

	// JSON API
	api := app.router.Group("/api/v1", ratelimit.Middleware(app.limiter))
	api.GET("/donate", app.handleGetDonateState)
	api.GET("/location", app.handleGetLocation)

	// Swagger documentation
	app.router.GET("/swagger/*any", func(c *gin.Context) {
		path := c.Param("any")
		if path == "/" {
			c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
			return
		}
		ginSwagger.WrapHandler(swaggerFiles.Handler)(c)
	})

	app.router.NoRoute(app.handleNotFound)
}
