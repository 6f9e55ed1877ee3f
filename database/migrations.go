package database

import (
	"fmt"
	"log"

	"embedgate/models"
)

func Migrate() {
	err := DB.AutoMigrate(
		&models.OriginEvent{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	fmt.Println("Migrations completed")
}
