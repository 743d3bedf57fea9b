package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kbase-app/kbase/pkg/kbase/account"
	"github.com/kbase-app/kbase/pkg/kbase/auth"
	"github.com/kbase-app/kbase/pkg/kbase/config"
	"github.com/kbase-app/kbase/pkg/kbase/content"
	"github.com/kbase-app/kbase/pkg/kbase/database"
	"github.com/kbase-app/kbase/pkg/kbase/export"
	"github.com/kbase-app/kbase/pkg/kbase/lists"
	"github.com/kbase-app/kbase/pkg/kbase/lookup"
	"github.com/kbase-app/kbase/pkg/kbase/models"
	"github.com/kbase-app/kbase/pkg/kbase/settings"
	"github.com/kbase-app/kbase/pkg/kbase/stats"
	"github.com/kbase-app/kbase/pkg/kbase/tags"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"
)

// @title Kbase API
// @version 1.0
// @description A personal knowledge base for saving and organizing videos, articles, and books.

// @contact.name Kbase
// @contact.url https://github.com/kbase-app/kbase

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token. Format: "Bearer {token}"

func main() {
	cfg := config.Load()

	db, err := database.Connect(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	if err := seedAuthorizedUsers(db, cfg.AuthorizedEmails); err != nil {
		log.Fatalf("Failed to seed authorized users: %v", err)
	}

	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// Swagger documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "kbase",
			})
		})

		// Auth routes (register/login public, /me protected)
		authHandler := auth.NewHandler(db)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Everything else requires a logged-in user
		protected := api.Group("", auth.AuthMiddleware())

		contentHandler := content.NewHandler(db)
		contentHandler.RegisterRoutes(protected)

		listsHandler := lists.NewHandler(db)
		listsHandler.RegisterRoutes(protected)

		tagsHandler := tags.NewHandler(db)
		tagsHandler.RegisterRoutes(protected)

		settingsHandler := settings.NewHandler(db)
		settingsHandler.RegisterRoutes(protected)

		statsHandler := stats.NewHandler(db)
		statsHandler.RegisterRoutes(protected)

		exportHandler := export.NewHandler(db)
		exportHandler.RegisterRoutes(protected)

		accountHandler := account.NewHandler(db)
		accountHandler.RegisterRoutes(protected)

		lookupHandler := lookup.NewHandler()
		lookupHandler.RegisterRoutes(protected)
	}

	log.Printf("Starting kbase server on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// seedAuthorizedUsers inserts any configured allow-list emails that are not
// already present. Existing rows are never removed here; revocation is a
// manual operation.
func seedAuthorizedUsers(db *gorm.DB, emails []string) error {
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}

		var count int64
		if err := db.Model(&models.AuthorizedUser{}).Where("email = ?", email).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&models.AuthorizedUser{Email: email}).Error; err != nil {
			return err
		}
		log.Printf("Authorized registration for %s", email)
	}
	return nil
}
