package main

import (
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"embedgate/config"
	"embedgate/database"
	"embedgate/handlers"
	"embedgate/middleware"
	"embedgate/services"
)

func main() {
	cfg := config.Load()

	// Database + Redis
	database.Connect(cfg)
	database.Migrate()
	database.ConnectRedis(cfg)

	// Services
	audit := services.NewOriginAudit(database.DB)
	resolver := services.NewResolver(cfg, database.RDB)

	// Handlers
	streamHandler := handlers.NewStreamHandler(cfg, audit)
	eventsHandler := handlers.NewEventsHandler(audit)
	resolveHandler := handlers.NewResolveHandler(resolver)

	// Router
	r := gin.Default()
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	// Everything mounts under the configured base path so the app can live
	// at an arbitrary sub-path behind a reverse proxy. Clients disambiguate
	// their deployment path by probing the health endpoint.
	basePath := strings.Trim(cfg.BasePath, "/")
	root := r.Group("/" + basePath)

	root.GET("/"+cfg.HealthPath, func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WebSocket stream (auth via query param)
	root.GET("/"+cfg.StreamPath, streamHandler.HandleWebSocket)

	api := root.Group("/api")
	{
		api.GET("/origin-events", eventsHandler.List)
		api.POST("/resolve", resolveHandler.Resolve)
	}

	// Serve frontend static files
	root.Static("/assets", cfg.StaticDir+"/assets")
	root.StaticFile("/", cfg.StaticDir+"/index.html")
	r.NoRoute(func(c *gin.Context) {
		c.File(cfg.StaticDir + "/index.html")
	})

	if basePath != "" {
		log.Printf("Mounted under /%s", basePath)
	}
	fmt.Printf("Server starting on :%s\n", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
