package policies

import (
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
)

// CanCreateVoteQuestion gates on owner/admin of the trip resolved from the
// votable target.
func CanCreateVoteQuestion(userID uint, votableType string, votableID uint) bool {
	trip, err := TripOfVotable(votableType, votableID)
	if err != nil {
		return false
	}
	role := TripRole(userID, trip)
	return role == TripRoleOwner || role == TripRoleAdmin
}

func CanViewVoteQuestion(userID uint, question *models.VoteQuestion) bool {
	if question == nil {
		return false
	}
	trip, err := TripOfVotable(question.VotableType, question.VotableID)
	if err != nil {
		return false
	}
	return CanViewTrip(userID, trip)
}

// CanUpdateVoteQuestion requires owner/admin and an open question; closed
// questions are immutable.
func CanUpdateVoteQuestion(userID uint, question *models.VoteQuestion) bool {
	if question == nil || question.IsClosed {
		return false
	}
	trip, err := TripOfVotable(question.VotableType, question.VotableID)
	if err != nil {
		return false
	}
	role := TripRole(userID, trip)
	return role == TripRoleOwner || role == TripRoleAdmin
}

func CanDeleteVoteQuestion(userID uint, question *models.VoteQuestion) bool {
	return CanUpdateVoteQuestion(userID, question)
}

// CanCastVote requires any trip relation, an open question and now inside the
// [StartAt, EndAt] window.
func CanCastVote(userID uint, question *models.VoteQuestion, now time.Time) bool {
	if question == nil || question.IsClosed {
		return false
	}
	if now.Before(question.StartAt) || now.After(question.EndAt) {
		return false
	}
	trip, err := TripOfVotable(question.VotableType, question.VotableID)
	if err != nil {
		return false
	}
	return TripRole(userID, trip) != TripRoleNone
}

// CanEditVote covers changing or retracting one's own answer.
func CanEditVote(userID uint, question *models.VoteQuestion, answer *models.VoteAnswer) bool {
	if question == nil || answer == nil || question.IsClosed {
		return false
	}
	return answer.UserID == userID
}
