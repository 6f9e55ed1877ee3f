package database

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"embedgate/config"
)

var DB *gorm.DB

// Connect opens the audit database: Postgres when DB_HOST is configured,
// an embedded SQLite file otherwise.
func Connect(cfg *config.Config) {
	var dialector gorm.Dialector
	if cfg.DBHost != "" {
		dialector = postgres.Open(cfg.DSN())
	} else {
		dialector = sqlite.Open(cfg.SQLitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	DB = db

	if cfg.DBHost != "" {
		fmt.Println("Database connected (postgres)")
	} else {
		fmt.Printf("Database connected (sqlite: %s)\n", cfg.SQLitePath)
	}
}
