package config

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDB opens the database named by the environment. DB_DRIVER selects the
// gorm driver: "mysql" for production, anything else falls back to a local
// sqlite file so the app runs with zero setup.
func InitDB() (*gorm.DB, error) {
	switch os.Getenv("DB_DRIVER") {
	case "mysql":
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			getEnv("DB_USER", "root"),
			os.Getenv("DB_PASS"),
			getEnv("DB_HOST", "127.0.0.1"),
			getEnv("DB_PORT", "3306"),
			getEnv("DB_NAME", "order_link"),
		)
		return gorm.Open(mysql.Open(dsn), &gorm.Config{})
	default:
		path := getEnv("DB_PATH", "order_link.db")
		return gorm.Open(sqlite.Open(path), &gorm.Config{})
	}
}

// Port returns the HTTP listen port.
func Port() string {
	return getEnv("PORT", "8080")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
