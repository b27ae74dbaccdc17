package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/storage"

	"gorm.io/gorm"
)

type FollowService struct {
	Notifier *Notifier
}

func NewFollowService(notifier *Notifier) *FollowService {
	return &FollowService{Notifier: notifier}
}

// Create adds a follow edge. Following a public user is accepted immediately;
// a private target leaves the edge pending until they respond. A second edge
// for the same pair is a conflict.
func (s *FollowService) Create(followerID, followingID uint) (*models.UserFollow, error) {
	if followerID == followingID {
		return nil, fmt.Errorf("%w: you cannot follow yourself", ErrInvalidInput)
	}

	var target models.User
	if err := storage.DB.First(&target, followingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user not found", ErrNotFound)
		}
		return nil, err
	}

	var existing models.UserFollow
	err := storage.DB.Where("follower_id = ? AND following_id = ?", followerID, followingID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: you already follow this user", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	follow := models.UserFollow{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      models.FollowStatusPending,
	}
	if target.IsPublic {
		now := time.Now()
		follow.Status = models.FollowStatusAccepted
		follow.AcceptedAt = &now
	}

	if err := storage.DB.Create(&follow).Error; err != nil {
		// Unique index backstop against concurrent duplicate creates.
		return nil, fmt.Errorf("%w: you already follow this user", ErrConflict)
	}

	if s.Notifier != nil {
		if follow.Status == models.FollowStatusAccepted {
			s.Notifier.FollowAccepted(&follow)
		} else {
			s.Notifier.FollowRequested(&follow)
		}
	}

	return &follow, nil
}

// Respond accepts or declines a pending request. Only the followed party may
// respond; declining removes the edge.
func (s *FollowService) Respond(actorID, followID uint, accept bool) (*models.UserFollow, error) {
	var follow models.UserFollow
	if err := storage.DB.First(&follow, followID).Error; err != nil {
		return nil, fmt.Errorf("%w: follow not found", ErrNotFound)
	}

	if !policies.CanRespondFollow(actorID, &follow) {
		return nil, ErrUnauthorized
	}
	if follow.Status != models.FollowStatusPending {
		return nil, fmt.Errorf("%w: follow request already handled", ErrConflict)
	}

	if !accept {
		if err := storage.DB.Delete(&follow).Error; err != nil {
			return nil, err
		}
		return &follow, nil
	}

	now := time.Now()
	follow.Status = models.FollowStatusAccepted
	follow.AcceptedAt = &now
	if err := storage.DB.Save(&follow).Error; err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.FollowAccepted(&follow)
	}
	return &follow, nil
}

// Delete covers unfollow and remove-follower; either party may do it.
func (s *FollowService) Delete(actorID, followID uint) error {
	var follow models.UserFollow
	if err := storage.DB.First(&follow, followID).Error; err != nil {
		return fmt.Errorf("%w: follow not found", ErrNotFound)
	}
	if !policies.CanDeleteFollow(actorID, &follow) {
		return ErrUnauthorized
	}
	return storage.DB.Delete(&follow).Error
}
