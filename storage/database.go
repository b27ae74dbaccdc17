package storage

import (
	"log"
	"os"

	"github.com/campeloneto1/tripshare-sub000/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func connectToDB() *gorm.DB {
	// Only load .env in development (when RENDER env var is not set)
	if os.Getenv("RENDER") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Println("Warning: Could not load .env file (this is normal in production)")
		}
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Panic("DB_CONNECTION_STRING environment variable is required")
	}

	db, dbError := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if dbError != nil {
		log.Panic("error connection to db: " + dbError.Error())
	}

	DB = db
	return db
}

func performMigrations(db *gorm.DB) {
	db.AutoMigrate(
		&models.User{},
		&models.Place{},
		&models.Trip{},
		&models.TripMember{},
		&models.TripDay{},
		&models.TripDayCity{},
		&models.TripDayEvent{},
		&models.UserFollow{},
		&models.Post{},
		&models.PostComment{},
		&models.PostLike{},
		&models.EventReview{},
		&models.VoteQuestion{},
		&models.VoteOption{},
		&models.VoteAnswer{},
		&models.Notification{},
	)
}

func InitializeDB() *gorm.DB {
	db := connectToDB()
	performMigrations(db)
	return db
}
