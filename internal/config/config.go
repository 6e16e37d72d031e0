package config

import (
	"log"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB opens the postgres connection the repositories run on.
// Connection failure is fatal: nothing in the service works without
// the backing store.
func InitDB() *gorm.DB {
	dsn := Getenv("DATABASE_URL",
		"host=localhost user=postgres password=postgres dbname=reconciliation port=5432 sslmode=disable")

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database: ", err)
	}
	return db
}

// Getenv returns the value of key, or def when unset or blank.
func Getenv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func ServerAddr() string {
	return Getenv("SERVER_ADDR", ":8080")
}

func CORSOrigin() string {
	return Getenv("CORS_ORIGIN", "http://localhost:3000")
}
