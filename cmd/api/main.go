package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinicops/clinic-backoffice/internal/cache"
	"github.com/clinicops/clinic-backoffice/internal/config"
	dbpkg "github.com/clinicops/clinic-backoffice/internal/db"
	"github.com/clinicops/clinic-backoffice/internal/middleware"
	"github.com/clinicops/clinic-backoffice/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	slotCache, err := cache.NewSlotCache(cfg.RedisURL)
	if err != nil {
		log.Printf("slot cache disabled: %v", err)
	}

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	routes.RegisterRoutes(r, db, cfg, slotCache)

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
