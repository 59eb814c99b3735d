package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"dat-backend/internal/shared/middleware"
	"dat-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	// Public profile pages sit behind the redirect middleware: a stale
	// slug 308s to the canonical path before the handler runs.
	router.GET("/alumni/:slug",
		middleware.SlugRedirect(middleware.SlugRedirectConfig{
			Resolver: c.Resolver,
			Recorder: c.ForwardService,
		}),
		c.AlumniHandler.Get,
	)

	api := router.Group("/api")
	{
		api.GET("/alumni", c.AlumniHandler.List)
		api.GET("/feed", c.FeedHandler.Feed)

		v1 := api.Group("/v1")
		v1.GET("/health", healthCheckHandler(c))

		admin := api.Group("/admin")
		admin.Use(
			middleware.RateLimit(c.Limiter),
			middleware.AdminGate(c.Config.Admin.HeaderName, c.Config.Admin.APIKey, c.JWTManager),
		)
		{
			admin.GET("/forward-slug", c.SlugAdminHandler.ForwardSlug)
			admin.GET("/auto-canon", c.SlugAdminHandler.AutoCanon)
			admin.POST("/auto-canon", c.SlugAdminHandler.AutoCanon)
			admin.GET("/diag-aliases", c.SlugAdminHandler.DiagAliases)
			admin.POST("/invalidate-aliases", c.SlugAdminHandler.InvalidateAliases)

			admin.PUT("/alumni/:slug", c.AlumniHandler.Update)
			admin.GET("/alumni/export", c.AlumniHandler.Export)
			admin.POST("/feed/:id/undo", c.FeedHandler.Undo)
		}

		debug := api.Group("/debug")
		debug.Use(
			middleware.RateLimit(c.Limiter),
			middleware.AdminGate(c.Config.Admin.HeaderName, c.Config.Admin.APIKey, c.JWTManager),
		)
		debug.GET("/slug-forward", c.SlugDebugHandler.SlugForward)
	}

	return router
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":  "UP",
			"service": c.Config.App.Name,
			"version": c.Config.App.Version,
		}
		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status["cache"] = "DOWN"
		} else {
			status["cache"] = "UP"
		}
		ctx.JSON(http.StatusOK, status)
	}
}
