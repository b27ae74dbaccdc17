package services

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
)

// Dispatcher is the delivery boundary. The core persists Notification rows and
// hands the push payload here; actual channels (Expo, FCM, mail) live outside.
type Dispatcher interface {
	Dispatch(token string, title, body string, data map[string]string) error
}

// LogDispatcher is the default; it only logs. Useful locally and in tests.
type LogDispatcher struct{}

func (LogDispatcher) Dispatch(token string, title, body string, data map[string]string) error {
	log.Printf("📣 notification (token %s): %s: %s", token, title, body)
	return nil
}

// Notifier handles all outbound notification logic
type Notifier struct {
	Dispatcher Dispatcher
}

func NewNotifier(dispatcher Dispatcher) *Notifier {
	if dispatcher == nil {
		dispatcher = LogDispatcher{}
	}
	return &Notifier{Dispatcher: dispatcher}
}

// getUserPushTokens retrieves all push tokens for a user
func (n *Notifier) getUserPushTokens(userID uint) ([]string, error) {
	var user models.User
	if err := storage.DB.First(&user, userID).Error; err != nil {
		return nil, fmt.Errorf("user not found: %v", err)
	}

	if user.AllowsNotifications == nil || !*user.AllowsNotifications || user.PushTokens == nil {
		return nil, fmt.Errorf("user has notifications disabled or no tokens")
	}

	var tokens []string
	if err := json.Unmarshal(user.PushTokens, &tokens); err != nil {
		return nil, fmt.Errorf("failed to unmarshal push tokens: %v", err)
	}

	return tokens, nil
}

// Notify persists the notification and dispatches it to the user's devices.
// Delivery failures are logged, never propagated; the row is the record.
func (n *Notifier) Notify(userID uint, ntype, title, message, refType string, refID uint) {
	notification := models.Notification{
		UserID:  userID,
		Type:    ntype,
		Title:   title,
		Message: message,
		RefType: refType,
		RefID:   refID,
	}
	if err := storage.DB.Create(&notification).Error; err != nil {
		log.Printf("failed to persist notification for user %d: %v", userID, err)
		return
	}

	tokens, err := n.getUserPushTokens(userID)
	if err != nil {
		return
	}

	data := map[string]string{
		"type":    ntype,
		"refType": refType,
		"refId":   fmt.Sprintf("%d", refID),
	}
	for _, token := range tokens {
		if err := n.Dispatcher.Dispatch(token, title, message, data); err != nil {
			log.Printf("failed to dispatch notification to token %s: %v", token, err)
		}
	}
}

// FollowRequested tells the followed user someone wants to follow them.
func (n *Notifier) FollowRequested(follow *models.UserFollow) {
	var follower models.User
	storage.DB.First(&follower, follow.FollowerID)

	title := "New follow request"
	body := fmt.Sprintf("%s %s wants to follow you", follower.FirstName, follower.LastName)
	n.Notify(follow.FollowingID, models.NotificationFollowRequested, title, body, "follow", follow.ID)
}

// FollowAccepted tells the follower their request went through.
func (n *Notifier) FollowAccepted(follow *models.UserFollow) {
	var following models.User
	storage.DB.First(&following, follow.FollowingID)

	title := "Follow accepted"
	body := fmt.Sprintf("%s %s accepted your follow request", following.FirstName, following.LastName)
	n.Notify(follow.FollowerID, models.NotificationFollowAccepted, title, body, "follow", follow.ID)
}

// VoteQuestionOpened fans out to every trip collaborator except the creator.
func (n *Notifier) VoteQuestionOpened(question *models.VoteQuestion, trip *models.Trip) {
	title := "New vote opened"
	body := fmt.Sprintf("Vote on \"%s\" before %s", question.Title, question.EndAt.Format("Jan 2 15:04"))

	recipients := []uint{trip.OwnerID}
	var members []models.TripMember
	storage.DB.Where("trip_id = ?", trip.ID).Find(&members)
	for _, member := range members {
		recipients = append(recipients, member.UserID)
	}

	for _, userID := range recipients {
		if userID == question.CreatorID {
			continue
		}
		n.Notify(userID, models.NotificationVoteQuestionOpened, title, body, "vote_question", question.ID)
	}
}
