package database

import (
	"log"
	"os"
	"time"

	"go-pos-kasir/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

func Connect() {
	// 1. Get Credentials from .env file
	dsn := os.Getenv("DB_DSN")

	if dsn == "" {
		log.Fatal("❌ Error: DB_DSN not found in .env file. Please configure your database.")
	}

	var err error

	// 2. Connect with GORM (Wait for DB to be ready)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("✅ Successfully connected to MySQL!")

	// 3. Auto-Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Product{},
		&models.Cart{},
		&models.Transaction{},
		&models.TransactionDetail{},
		&models.Profit{},
		&models.PaymentSetting{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database schema:", err)
	}

	SeedPaymentSetting(DB)

	log.Println("✅ Database Schema Synced!")
}

// SeedPaymentSetting makes sure the singleton settings row exists so the
// checkout screen always has something to read. Gateways start disabled;
// credentials are filled in through settings administration.
func SeedPaymentSetting(db *gorm.DB) {
	var count int64
	db.Model(&models.PaymentSetting{}).Count(&count)
	if count > 0 {
		return
	}

	setting := models.PaymentSetting{DefaultGateway: models.PaymentMethodCash}
	if err := db.Create(&setting).Error; err != nil {
		log.Println("Warning: failed to seed payment settings:", err)
	}
}
