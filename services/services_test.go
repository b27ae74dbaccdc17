package services

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// setupTestDB points storage.DB at a fresh in-memory database.
func setupTestDB(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to access sql db: %v", err)
	}
	// One connection so every query sees the same :memory: database.
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
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
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}

	storage.DB = db
}

var testUserSeq atomic.Int64

func createUser(t *testing.T, isPublic bool) models.User {
	t.Helper()
	// users.email has a unique index; give each fixture user its own address.
	email := fmt.Sprintf("user%d@test.local", testUserSeq.Add(1))
	user := models.User{FirstName: "Test", LastName: "User", Email: email, IsPublic: isPublic}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTrip(t *testing.T, ownerID uint) models.Trip {
	t.Helper()
	trip := models.Trip{OwnerID: ownerID, Name: "Weekend in Porto", IsPublic: false}
	if err := storage.DB.Create(&trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

func addMember(t *testing.T, tripID, userID uint, role string) {
	t.Helper()
	if err := storage.DB.Create(&models.TripMember{TripID: tripID, UserID: userID, Role: role}).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
}

func createDay(t *testing.T, tripID uint) models.TripDay {
	t.Helper()
	day := models.TripDay{TripID: tripID, Position: 1}
	if err := storage.DB.Create(&day).Error; err != nil {
		t.Fatalf("failed to create day: %v", err)
	}
	return day
}

func createCity(t *testing.T, dayID uint) models.TripDayCity {
	t.Helper()
	city := models.TripDayCity{TripDayID: dayID, Name: "Porto"}
	if err := storage.DB.Create(&city).Error; err != nil {
		t.Fatalf("failed to create city: %v", err)
	}
	return city
}

func createPlace(t *testing.T, xid, name, category string) models.Place {
	t.Helper()
	place := models.Place{XID: xid, Name: name, Category: category}
	if err := storage.DB.Create(&place).Error; err != nil {
		t.Fatalf("failed to create place: %v", err)
	}
	return place
}
