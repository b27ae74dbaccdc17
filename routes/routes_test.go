package routes

import (
	"fmt"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/services"
	"github.com/campeloneto1/tripshare-sub000/storage"
	"github.com/campeloneto1/tripshare-sub000/utils"

	"github.com/glebarez/sqlite"
	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
	"github.com/kataras/iris/v12/middleware/jwt"
	"gorm.io/gorm"
)

// setupTestDB points storage.DB at a fresh in-memory database and wires the
// service graph against it.
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

	services.Notifications = services.NewNotifier(nil)
	services.Summaries = services.NewSummaryService(services.NewMemoryCache())
	services.Follows = services.NewFollowService(services.Notifications)
	services.Votes = services.NewVoteService(services.Notifications, services.Summaries)
}

// buildTestApp creates a minimal Iris app with the given routes behind the
// real JWT verifier and user-id middleware.
func buildTestApp(register func(app *iris.Application, authed []iris.Handler)) *iris.Application {
	os.Setenv("ACCESS_TOKEN_SECRET", "testsecret")
	app := iris.New()
	app.Validator = validator.New()

	accessTokenVerifier := jwt.NewVerifier(jwt.HS256, []byte(os.Getenv("ACCESS_TOKEN_SECRET")))
	accessTokenVerifierMiddleware := accessTokenVerifier.Verify(func() interface{} { return new(utils.AccessToken) })

	authed := []iris.Handler{accessTokenVerifierMiddleware, utils.UserIDFromTokenMiddleware}
	register(app, authed)
	return app
}

// signTestToken returns a signed JWT for the given user
func signTestToken(userID uint, role string) string {
	signer := jwt.NewSigner(jwt.HS256, os.Getenv("ACCESS_TOKEN_SECRET"), 0)
	token, _ := signer.Sign(utils.AccessToken{ID: userID, Role: role})
	return string(token)
}

func doRequest(app *iris.Application, method, path string, body string, userID uint) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != 0 {
		req.Header.Set("Authorization", "Bearer "+signTestToken(userID, "user"))
	}
	resp := httptest.NewRecorder()
	app.ServeHTTP(resp, req)
	return resp
}

var testUserSeq atomic.Int64

func createTestUser(t *testing.T, isPublic bool) models.User {
	t.Helper()
	// users.email has a unique index; give each fixture user its own address.
	email := fmt.Sprintf("user%d@test.local", testUserSeq.Add(1))
	user := models.User{FirstName: "Test", LastName: "User", Email: email, IsPublic: isPublic}
	if err := storage.DB.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createTestTrip(t *testing.T, ownerID uint, isPublic bool) models.Trip {
	t.Helper()
	trip := models.Trip{OwnerID: ownerID, Name: "Road trip", IsPublic: isPublic}
	if err := storage.DB.Create(&trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}
