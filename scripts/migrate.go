package main

import (
	"log"

	"camp-management-backend/internal/config"
	"camp-management-backend/internal/models"
	"camp-management-backend/internal/repositories"
	"camp-management-backend/internal/utils"
	"camp-management-backend/pkg/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	// Load configuration
	cfg, err := config.NewConfigFromEnv()
	if err != nil {
		log.Fatalf("Config error: %v", err)
	}

	// Initialize database
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Database connection error: %v", err)
	}

	// Run migrations
	if err := repositories.AutoMigrate(db); err != nil {
		log.Fatalf("Migration error: %v", err)
	}

	log.Println("✅ Database migrations completed successfully")

	// Create default manager user if not exists
	if err := createDefaultManager(db); err != nil {
		log.Fatalf("Failed to create default manager: %v", err)
	}

	log.Println("🎉 Migration process completed!")
}

func createDefaultManager(db *gorm.DB) error {
	managerEmail := "manager@camp.com"
	managerPassword := "manager123"

	var existing models.User
	if err := db.Where("email = ?", managerEmail).First(&existing).Error; err == nil {
		log.Println("ℹ️  Default manager user already exists")
		return nil
	}

	hashedPassword, err := utils.HashPassword(managerPassword)
	if err != nil {
		return err
	}

	manager := &models.User{
		Email:    managerEmail,
		Password: hashedPassword,
		Role:     "camp_manager",
	}

	if err := db.Create(manager).Error; err != nil {
		return err
	}

	log.Printf("✅ Default manager user created:")
	log.Printf("   Email: %s", managerEmail)
	log.Printf("   Password: %s", managerPassword)

	return nil
}
