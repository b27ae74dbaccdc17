package services

import (
	"errors"
	"testing"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
)

func TestFollowPublicAutoAccepts(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, true)

	follow, err := follows.Create(follower.ID, target.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if follow.Status != models.FollowStatusAccepted {
		t.Errorf("follow of a public user should auto-accept, got %q", follow.Status)
	}
	if follow.AcceptedAt == nil {
		t.Error("accepted follow should carry an acceptance timestamp")
	}

	var notification models.Notification
	if err := storage.DB.Where("user_id = ?", follower.ID).First(&notification).Error; err != nil {
		t.Fatalf("follower should be notified of acceptance: %v", err)
	}
	if notification.Type != models.NotificationFollowAccepted {
		t.Errorf("notification type = %q", notification.Type)
	}
}

func TestFollowPrivateStaysPending(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, false)

	follow, err := follows.Create(follower.ID, target.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if follow.Status != models.FollowStatusPending || follow.AcceptedAt != nil {
		t.Errorf("follow of a private user should stay pending, got %q", follow.Status)
	}

	var notification models.Notification
	if err := storage.DB.Where("user_id = ?", target.ID).First(&notification).Error; err != nil {
		t.Fatalf("target should be notified of the request: %v", err)
	}
	if notification.Type != models.NotificationFollowRequested {
		t.Errorf("notification type = %q", notification.Type)
	}
}

func TestFollowCreateRejections(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, false)

	if _, err := follows.Create(follower.ID, follower.ID); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("self follow should be invalid, got %v", err)
	}
	if _, err := follows.Create(follower.ID, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown target should be not found, got %v", err)
	}

	if _, err := follows.Create(follower.ID, target.ID); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if _, err := follows.Create(follower.ID, target.ID); !errors.Is(err, ErrConflict) {
		t.Errorf("duplicate follow should conflict, got %v", err)
	}
}

func TestFollowRespond(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, false)

	follow, err := follows.Create(follower.ID, target.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := follows.Respond(follower.ID, follow.ID, true); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("follower must not self-accept, got %v", err)
	}

	accepted, err := follows.Respond(target.ID, follow.ID, true)
	if err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if accepted.Status != models.FollowStatusAccepted || accepted.AcceptedAt == nil {
		t.Error("accept should set status and timestamp")
	}

	if _, err := follows.Respond(target.ID, follow.ID, true); !errors.Is(err, ErrConflict) {
		t.Errorf("responding twice should conflict, got %v", err)
	}
}

func TestFollowDecline(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, false)

	follow, err := follows.Create(follower.ID, target.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := follows.Respond(target.ID, follow.ID, false); err != nil {
		t.Fatalf("decline failed: %v", err)
	}

	var count int64
	storage.DB.Model(&models.UserFollow{}).Count(&count)
	if count != 0 {
		t.Errorf("decline should remove the edge, got %d rows", count)
	}

	// The pair may try again after a decline.
	if _, err := follows.Create(follower.ID, target.ID); err != nil {
		t.Errorf("re-follow after decline failed: %v", err)
	}
}

func TestFollowDelete(t *testing.T) {
	setupTestDB(t)
	follows := NewFollowService(NewNotifier(nil))

	follower := createUser(t, true)
	target := createUser(t, true)
	outsider := createUser(t, true)

	follow, err := follows.Create(follower.ID, target.ID)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := follows.Delete(outsider.ID, follow.ID); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("outsider delete should be unauthorized, got %v", err)
	}
	if err := follows.Delete(target.ID, follow.ID); err != nil {
		t.Errorf("followed party should remove the follower: %v", err)
	}
}
