package policies

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

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

func createTrip(t *testing.T, ownerID uint, isPublic bool) models.Trip {
	t.Helper()
	trip := models.Trip{OwnerID: ownerID, Name: "Summer in Portugal", IsPublic: isPublic}
	if err := storage.DB.Create(&trip).Error; err != nil {
		t.Fatalf("failed to create trip: %v", err)
	}
	return trip
}

func addMember(t *testing.T, tripID, userID uint, role string) models.TripMember {
	t.Helper()
	member := models.TripMember{TripID: tripID, UserID: userID, Role: role}
	if err := storage.DB.Create(&member).Error; err != nil {
		t.Fatalf("failed to add member: %v", err)
	}
	return member
}

// createItinerary builds trip -> day -> city -> event and returns all ids.
func createItinerary(t *testing.T, ownerID uint, isPublic bool) (models.Trip, models.TripDay, models.TripDayCity, models.TripDayEvent) {
	t.Helper()
	trip := createTrip(t, ownerID, isPublic)
	day := models.TripDay{TripID: trip.ID, Position: 1}
	if err := storage.DB.Create(&day).Error; err != nil {
		t.Fatalf("failed to create day: %v", err)
	}
	city := models.TripDayCity{TripDayID: day.ID, Name: "Lisbon"}
	if err := storage.DB.Create(&city).Error; err != nil {
		t.Fatalf("failed to create city: %v", err)
	}
	event := models.TripDayEvent{TripDayCityID: city.ID, Title: "Tram ride", Price: 25}
	if err := storage.DB.Create(&event).Error; err != nil {
		t.Fatalf("failed to create event: %v", err)
	}
	return trip, day, city, event
}

func TestTripRole(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	admin := createUser(t, true)
	participant := createUser(t, true)
	stranger := createUser(t, true)

	trip := createTrip(t, owner.ID, false)
	addMember(t, trip.ID, admin.ID, models.TripMemberRoleAdmin)
	addMember(t, trip.ID, participant.ID, models.TripMemberRoleParticipant)

	cases := []struct {
		userID uint
		want   string
	}{
		{owner.ID, TripRoleOwner},
		{admin.ID, TripRoleAdmin},
		{participant.ID, TripRoleParticipant},
		{stranger.ID, TripRoleNone},
	}
	for _, tc := range cases {
		if got := TripRole(tc.userID, &trip); got != tc.want {
			t.Errorf("TripRole(user %d) = %q, want %q", tc.userID, got, tc.want)
		}
	}
}

func TestTripVisibility(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	participant := createUser(t, true)
	stranger := createUser(t, true)

	private := createTrip(t, owner.ID, false)
	addMember(t, private.ID, participant.ID, models.TripMemberRoleParticipant)

	public := createTrip(t, owner.ID, true)

	if !CanViewTrip(participant.ID, &private) {
		t.Error("participant should view the private trip")
	}
	if CanViewTrip(stranger.ID, &private) {
		t.Error("stranger should not view the private trip")
	}
	if !CanViewTrip(stranger.ID, &public) {
		t.Error("anyone should view a public trip")
	}

	if CanUpdateTrip(participant.ID, &private) {
		t.Error("participant should not update the trip")
	}
	if !CanUpdateTrip(owner.ID, &private) {
		t.Error("owner should update the trip")
	}
}

func TestOnlyOwnerDeletesTrip(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	admin := createUser(t, true)

	trip := createTrip(t, owner.ID, false)
	addMember(t, trip.ID, admin.ID, models.TripMemberRoleAdmin)

	if !CanUpdateTrip(admin.ID, &trip) {
		t.Error("admin should update the trip")
	}
	if CanDeleteTrip(admin.ID, &trip) {
		t.Error("admin should not delete the trip")
	}
	if !CanDeleteTrip(owner.ID, &trip) {
		t.Error("owner should delete the trip")
	}
}

func TestFollowStatus(t *testing.T) {
	setupTestDB(t)

	a := createUser(t, true)
	b := createUser(t, false)
	c := createUser(t, true)

	now := time.Now()
	storage.DB.Create(&models.UserFollow{FollowerID: a.ID, FollowingID: c.ID, Status: models.FollowStatusAccepted, AcceptedAt: &now})
	storage.DB.Create(&models.UserFollow{FollowerID: a.ID, FollowingID: b.ID, Status: models.FollowStatusPending})

	if got := FollowStatus(a.ID, a.ID); got != FollowSelf {
		t.Errorf("self status = %q", got)
	}
	if got := FollowStatus(a.ID, c.ID); got != FollowAccepted {
		t.Errorf("accepted status = %q", got)
	}
	if got := FollowStatus(a.ID, b.ID); got != FollowPending {
		t.Errorf("pending status = %q", got)
	}
	if got := FollowStatus(b.ID, a.ID); got != FollowNone {
		t.Errorf("reverse edge should be none, got %q", got)
	}
}

func TestPostVisibility(t *testing.T) {
	setupTestDB(t)

	publicAuthor := createUser(t, true)
	privateAuthor := createUser(t, false)
	follower := createUser(t, true)
	stranger := createUser(t, true)

	now := time.Now()
	storage.DB.Create(&models.UserFollow{FollowerID: follower.ID, FollowingID: privateAuthor.ID, Status: models.FollowStatusAccepted, AcceptedAt: &now})

	var openPost, closedPost models.Post
	storage.DB.Create(&models.Post{UserID: publicAuthor.ID, Body: "hello"})
	storage.DB.Where("user_id = ?", publicAuthor.ID).First(&openPost)
	storage.DB.Create(&models.Post{UserID: privateAuthor.ID, Body: "secret"})
	storage.DB.Where("user_id = ?", privateAuthor.ID).First(&closedPost)

	if !CanViewPost(stranger.ID, &openPost) {
		t.Error("post of a public author should be visible")
	}
	if CanViewPost(stranger.ID, &closedPost) {
		t.Error("post of a private author should be hidden from strangers")
	}
	if !CanViewPost(follower.ID, &closedPost) {
		t.Error("accepted follower should see the post")
	}
	if !CanViewPost(privateAuthor.ID, &closedPost) {
		t.Error("author should always see own post")
	}

	// Attached to a private trip: membership opens it up.
	trip := createTrip(t, privateAuthor.ID, false)
	addMember(t, trip.ID, stranger.ID, models.TripMemberRoleParticipant)
	tripPost := models.Post{UserID: privateAuthor.ID, TripID: &trip.ID, Body: "trip log"}
	storage.DB.Create(&tripPost)

	if !CanViewPost(stranger.ID, &tripPost) {
		t.Error("trip member should see a trip-attached post")
	}

	if CanUpdatePost(follower.ID, &closedPost) || CanDeletePost(follower.ID, &closedPost) {
		t.Error("only the author may update or delete a post")
	}
}

func TestEventPolicies(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	admin := createUser(t, true)
	participant := createUser(t, true)
	stranger := createUser(t, true)

	trip, _, city, event := createItinerary(t, owner.ID, false)
	addMember(t, trip.ID, admin.ID, models.TripMemberRoleAdmin)
	addMember(t, trip.ID, participant.ID, models.TripMemberRoleParticipant)

	if !CanViewEvent(participant.ID, &event) {
		t.Error("participant should view the event")
	}
	if CanViewEvent(stranger.ID, &event) {
		t.Error("stranger should not view an event of a private trip")
	}
	if !CanCreateEvent(admin.ID, city.ID) {
		t.Error("admin should create events")
	}
	if CanCreateEvent(participant.ID, city.ID) {
		t.Error("participant should not create events")
	}
	if !CanUpdateEvent(owner.ID, &event) || CanUpdateEvent(participant.ID, &event) {
		t.Error("event update gate should be owner/admin only")
	}
}

func TestReviewPolicies(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	participant := createUser(t, true)
	stranger := createUser(t, true)

	trip, _, _, event := createItinerary(t, owner.ID, false)
	addMember(t, trip.ID, participant.ID, models.TripMemberRoleParticipant)

	if !CanCreateReview(participant.ID, &event) {
		t.Error("participant should create a review")
	}
	if CanCreateReview(stranger.ID, &event) {
		t.Error("stranger should not create a review")
	}

	review := models.EventReview{TripDayEventID: event.ID, UserID: participant.ID, Stars: 4}
	storage.DB.Create(&review)

	if CanDeleteReview(owner.ID, &review) {
		t.Error("trip owner should not delete another user's review")
	}
	if !CanUpdateReview(participant.ID, &review) {
		t.Error("author should update own review")
	}
}

func TestFollowPolicies(t *testing.T) {
	setupTestDB(t)

	follower := createUser(t, true)
	followed := createUser(t, false)
	outsider := createUser(t, true)

	follow := models.UserFollow{FollowerID: follower.ID, FollowingID: followed.ID, Status: models.FollowStatusPending}
	storage.DB.Create(&follow)

	if !CanViewFollow(follower.ID, &follow) || !CanViewFollow(followed.ID, &follow) {
		t.Error("both parties should view the follow")
	}
	if CanViewFollow(outsider.ID, &follow) {
		t.Error("outsider should not view the follow")
	}
	if CanRespondFollow(follower.ID, &follow) {
		t.Error("follower must not self-accept")
	}
	if !CanRespondFollow(followed.ID, &follow) {
		t.Error("followed party should respond")
	}
	if !CanDeleteFollow(follower.ID, &follow) || !CanDeleteFollow(followed.ID, &follow) {
		t.Error("either party should delete the follow")
	}
}

func TestVotePolicies(t *testing.T) {
	setupTestDB(t)

	owner := createUser(t, true)
	participant := createUser(t, true)
	stranger := createUser(t, true)

	trip, day, city, _ := createItinerary(t, owner.ID, false)
	addMember(t, trip.ID, participant.ID, models.TripMemberRoleParticipant)

	if !CanCreateVoteQuestion(owner.ID, models.VotableTypeCity, city.ID) {
		t.Error("owner should create questions")
	}
	if CanCreateVoteQuestion(participant.ID, models.VotableTypeDay, day.ID) {
		t.Error("participant should not create questions")
	}

	now := time.Now()
	question := models.VoteQuestion{
		VotableType: models.VotableTypeCity,
		VotableID:   city.ID,
		Type:        models.VoteQuestionTypeEvent,
		StartAt:     now.Add(-time.Hour),
		EndAt:       now.Add(time.Hour),
		CreatorID:   owner.ID,
	}
	storage.DB.Create(&question)

	if !CanCastVote(participant.ID, &question, now) {
		t.Error("participant should vote inside the window")
	}
	if CanCastVote(stranger.ID, &question, now) {
		t.Error("stranger should not vote")
	}
	if CanCastVote(participant.ID, &question, now.Add(2*time.Hour)) {
		t.Error("voting after the window should fail")
	}

	question.IsClosed = true
	storage.DB.Save(&question)

	if CanCastVote(owner.ID, &question, now) {
		t.Error("voting on a closed question should fail for any role")
	}
	if CanUpdateVoteQuestion(owner.ID, &question) || CanDeleteVoteQuestion(owner.ID, &question) {
		t.Error("closed questions are immutable")
	}
}

// Scenario from the team wiki: private trip T owned by U1, U2 participant,
// U3 unrelated.
func TestPrivateTripScenario(t *testing.T) {
	setupTestDB(t)

	u1 := createUser(t, true)
	u2 := createUser(t, true)
	u3 := createUser(t, true)

	trip := createTrip(t, u1.ID, false)
	addMember(t, trip.ID, u2.ID, models.TripMemberRoleParticipant)

	if !CanViewTrip(u2.ID, &trip) {
		t.Error("view(U2, T) should be true")
	}
	if CanViewTrip(u3.ID, &trip) {
		t.Error("view(U3, T) should be false")
	}
	if CanUpdateTrip(u2.ID, &trip) {
		t.Error("update(U2, T) should be false")
	}
	if !CanUpdateTrip(u1.ID, &trip) {
		t.Error("update(U1, T) should be true")
	}
}
