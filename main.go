package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/my-order-link/restaurant-app/config"
	"github.com/my-order-link/restaurant-app/middlewares"
	"github.com/my-order-link/restaurant-app/models"
	"github.com/my-order-link/restaurant-app/notify"
	"github.com/my-order-link/restaurant-app/router"
	"github.com/my-order-link/restaurant-app/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}
	utils.InitLogger()
}

func main() {
	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)
	seedDefaults(db)

	hub := notify.NewHub()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(db, hub)
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := config.Port()
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.TableSession{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Call{},
		&models.Setting{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")
}

// seedDefaults creates the initial accounts and settings on an empty
// database, mirroring first-boot provisioning.
func seedDefaults(db *gorm.DB) {
	for key, value := range models.DefaultSettings {
		var existing models.Setting
		if err := db.First(&existing, "key = ?", key).Error; err == gorm.ErrRecordNotFound {
			db.Create(&models.Setting{Key: key, Value: value})
		}
	}

	seedUser(db, "admin", envOr("ADMIN_PASSWORD", "admin_password"), models.RoleAdmin)
	seedUser(db, "staff", envOr("STAFF_PASSWORD", "your_common_password"), models.RoleStaff)
}

func seedUser(db *gorm.DB, username, password, role string) {
	var existing models.User
	if err := db.Where("username = ?", username).First(&existing).Error; err != gorm.ErrRecordNotFound {
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		utils.ErrorLogger.Printf("Error hashing seed password for %s: %v", username, err)
		return
	}
	db.Create(&models.User{Username: username, PasswordHash: string(hashed), Role: role})
	utils.InfoLogger.Printf("Seeded user %s (role=%s)", username, role)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
