package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/policies"
	"github.com/campeloneto1/tripshare-sub000/storage"

	"gorm.io/gorm"
)

// QuestionScheduler arms the deadline that fires CloseQuestion.
type QuestionScheduler interface {
	Schedule(questionID uint, at time.Time)
	Cancel(questionID uint)
}

type VoteService struct {
	Notifier  *Notifier
	Summaries *SummaryService
	Scheduler QuestionScheduler
}

func NewVoteService(notifier *Notifier, summaries *SummaryService) *VoteService {
	return &VoteService{Notifier: notifier, Summaries: summaries}
}

type CreateQuestionInput struct {
	VotableType string
	VotableID   uint
	Title       string
	Type        string
	StartAt     time.Time
	EndAt       time.Time
	Options     []CreateOptionInput
}

type CreateOptionInput struct {
	PlaceID *uint
	Name    string
	Lat     float64
	Lng     float64
	XID     string
}

// CreateQuestion opens a vote, schedules its close at EndAt and notifies the
// trip's collaborators.
func (s *VoteService) CreateQuestion(actorID uint, input CreateQuestionInput) (*models.VoteQuestion, error) {
	if input.VotableType != models.VotableTypeDay && input.VotableType != models.VotableTypeCity {
		return nil, fmt.Errorf("%w: unknown votable type", ErrInvalidInput)
	}
	if input.Type != models.VoteQuestionTypeCity && input.Type != models.VoteQuestionTypeEvent {
		return nil, fmt.Errorf("%w: unknown question type", ErrInvalidInput)
	}
	if !input.EndAt.After(input.StartAt) {
		return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
	}
	if len(input.Options) == 0 {
		return nil, fmt.Errorf("%w: at least one option is required", ErrInvalidInput)
	}

	trip, err := policies.TripOfVotable(input.VotableType, input.VotableID)
	if err != nil {
		return nil, fmt.Errorf("%w: votable not found", ErrNotFound)
	}
	if !policies.CanCreateVoteQuestion(actorID, input.VotableType, input.VotableID) {
		return nil, ErrUnauthorized
	}

	question := models.VoteQuestion{
		VotableType: input.VotableType,
		VotableID:   input.VotableID,
		Title:       input.Title,
		Type:        input.Type,
		StartAt:     input.StartAt,
		EndAt:       input.EndAt,
		CreatorID:   actorID,
	}
	for _, optionInput := range input.Options {
		option := models.VoteOption{
			PlaceID: optionInput.PlaceID,
			Name:    optionInput.Name,
		}
		if optionInput.PlaceID == nil {
			payload, _ := json.Marshal(models.VoteOptionPayload{
				Name: optionInput.Name,
				Lat:  optionInput.Lat,
				Lng:  optionInput.Lng,
				XID:  optionInput.XID,
			})
			option.Payload = payload
		}
		question.Options = append(question.Options, option)
	}

	if err := storage.DB.Create(&question).Error; err != nil {
		return nil, err
	}

	if s.Scheduler != nil {
		s.Scheduler.Schedule(question.ID, question.EndAt)
	}
	if s.Notifier != nil {
		s.Notifier.VoteQuestionOpened(&question, trip)
	}

	return &question, nil
}

// UpdateQuestion edits an open question's title or window; closed questions
// are immutable. A moved deadline re-arms the scheduler.
func (s *VoteService) UpdateQuestion(actorID, questionID uint, title string, endAt *time.Time) (*models.VoteQuestion, error) {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("%w: question not found", ErrNotFound)
	}
	if !policies.CanUpdateVoteQuestion(actorID, &question) {
		return nil, ErrUnauthorized
	}

	if title != "" {
		question.Title = title
	}
	if endAt != nil {
		if !endAt.After(question.StartAt) {
			return nil, fmt.Errorf("%w: end must be after start", ErrInvalidInput)
		}
		question.EndAt = *endAt
	}
	if err := storage.DB.Save(&question).Error; err != nil {
		return nil, err
	}
	if endAt != nil && s.Scheduler != nil {
		s.Scheduler.Schedule(question.ID, question.EndAt)
	}
	return &question, nil
}

// DeleteQuestion removes an open question before its deadline; this is the
// only cancellation route.
func (s *VoteService) DeleteQuestion(actorID, questionID uint) error {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		return fmt.Errorf("%w: question not found", ErrNotFound)
	}
	if !policies.CanDeleteVoteQuestion(actorID, &question) {
		return ErrUnauthorized
	}
	if err := storage.DB.Delete(&question).Error; err != nil {
		return err
	}
	if s.Scheduler != nil {
		s.Scheduler.Cancel(question.ID)
	}
	return nil
}

// CastAnswer records a first vote. A second cast for the same question is a
// conflict; ChangeAnswer is the path for switching options.
func (s *VoteService) CastAnswer(actorID, questionID, optionID uint) (*models.VoteAnswer, error) {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("%w: question not found", ErrNotFound)
	}
	if !policies.CanCastVote(actorID, &question, time.Now()) {
		return nil, ErrUnauthorized
	}
	if err := s.checkOption(questionID, optionID); err != nil {
		return nil, err
	}

	var existing models.VoteAnswer
	err := storage.DB.Where("question_id = ? AND user_id = ?", questionID, actorID).First(&existing).Error
	if err == nil {
		return nil, fmt.Errorf("%w: you already voted on this question", ErrConflict)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	answer := models.VoteAnswer{QuestionID: questionID, OptionID: optionID, UserID: actorID}
	if err := storage.DB.Create(&answer).Error; err != nil {
		// Unique index backstop against concurrent double votes.
		return nil, fmt.Errorf("%w: you already voted on this question", ErrConflict)
	}
	return &answer, nil
}

// ChangeAnswer moves the caller's live vote to another option. Idempotent when
// the option is unchanged.
func (s *VoteService) ChangeAnswer(actorID, questionID, optionID uint) (*models.VoteAnswer, error) {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		return nil, fmt.Errorf("%w: question not found", ErrNotFound)
	}

	var answer models.VoteAnswer
	if err := storage.DB.Where("question_id = ? AND user_id = ?", questionID, actorID).First(&answer).Error; err != nil {
		return nil, fmt.Errorf("%w: you have not voted on this question", ErrNotFound)
	}
	if !policies.CanEditVote(actorID, &question, &answer) {
		return nil, ErrUnauthorized
	}
	if err := s.checkOption(questionID, optionID); err != nil {
		return nil, err
	}

	if answer.OptionID == optionID {
		return &answer, nil
	}
	answer.OptionID = optionID
	if err := storage.DB.Save(&answer).Error; err != nil {
		return nil, err
	}
	return &answer, nil
}

// RetractAnswer deletes the caller's own vote while the question is open.
func (s *VoteService) RetractAnswer(actorID, questionID uint) error {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		return fmt.Errorf("%w: question not found", ErrNotFound)
	}
	var answer models.VoteAnswer
	if err := storage.DB.Where("question_id = ? AND user_id = ?", questionID, actorID).First(&answer).Error; err != nil {
		return fmt.Errorf("%w: you have not voted on this question", ErrNotFound)
	}
	if !policies.CanEditVote(actorID, &question, &answer) {
		return ErrUnauthorized
	}
	return storage.DB.Delete(&answer).Error
}

func (s *VoteService) checkOption(questionID, optionID uint) error {
	var option models.VoteOption
	if err := storage.DB.First(&option, optionID).Error; err != nil {
		return fmt.Errorf("%w: option not found", ErrNotFound)
	}
	if option.QuestionID != questionID {
		return fmt.Errorf("%w: option does not belong to this question", ErrInvalidInput)
	}
	return nil
}

// CloseQuestion is the deadline workflow. It runs at-least-once; the closed
// flag makes redelivery a no-op. A winner without a resolvable place never
// keeps the question open, but transient materialization failures do, so the
// scheduler can retry them.
func (s *VoteService) CloseQuestion(questionID uint) error {
	var question models.VoteQuestion
	if err := storage.DB.First(&question, questionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Question deleted before the deadline; nothing to close.
			return nil
		}
		return err
	}
	if question.IsClosed {
		return nil
	}

	var answers []models.VoteAnswer
	if err := storage.DB.Where("question_id = ?", questionID).Find(&answers).Error; err != nil {
		return err
	}

	if len(answers) > 0 {
		winnerID := winningOption(answers)
		if err := s.materializeWinner(&question, winnerID); err != nil {
			// An unresolvable place never blocks closing; anything else is
			// transient and must reach the scheduler so redelivery retries
			// before the closed flag makes it a no-op.
			if !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrNotFound) {
				return err
			}
			log.Printf("vote question %d: winner materialization skipped: %v", questionID, err)
		}
	}

	now := time.Now()
	return storage.DB.Model(&question).
		Updates(map[string]interface{}{"is_closed": true, "closed_at": now}).Error
}

// winningOption picks the option with the most answers; ties break to the
// lowest option id so retries stay deterministic.
func winningOption(answers []models.VoteAnswer) uint {
	counts := map[uint]int{}
	for _, answer := range answers {
		counts[answer.OptionID]++
	}

	var winnerID uint
	winnerCount := -1
	for optionID, count := range counts {
		if count > winnerCount || (count == winnerCount && optionID < winnerID) {
			winnerID = optionID
			winnerCount = count
		}
	}
	return winnerID
}

// materializeWinner resolves a place for the winning option and writes the
// itinerary entry. No resolvable place means no entry, but the question still
// closes.
func (s *VoteService) materializeWinner(question *models.VoteQuestion, optionID uint) error {
	var option models.VoteOption
	if err := storage.DB.First(&option, optionID).Error; err != nil {
		return fmt.Errorf("%w: winning option not found", ErrNotFound)
	}

	place, err := s.resolvePlace(&option)
	if err != nil {
		return err
	}

	switch question.Type {
	case models.VoteQuestionTypeEvent:
		if question.VotableType != models.VotableTypeCity {
			return fmt.Errorf("%w: event questions need a city votable", ErrInvalidInput)
		}
		event := models.TripDayEvent{
			TripDayCityID: question.VotableID,
			PlaceID:       &place.ID,
			Title:         place.Name,
		}
		if err := storage.DB.Create(&event).Error; err != nil {
			return err
		}
	case models.VoteQuestionTypeCity:
		if question.VotableType != models.VotableTypeDay {
			return fmt.Errorf("%w: city questions need a day votable", ErrInvalidInput)
		}
		city := models.TripDayCity{
			TripDayID: question.VotableID,
			Name:      place.Name,
			Lat:       place.Lat,
			Lng:       place.Lng,
			PlaceID:   &place.ID,
		}
		if err := storage.DB.Create(&city).Error; err != nil {
			return err
		}
	}

	if s.Summaries != nil {
		if trip, tripErr := policies.TripOfVotable(question.VotableType, question.VotableID); tripErr == nil {
			s.Summaries.Invalidate(trip.ID)
		}
	}
	return nil
}

func (s *VoteService) resolvePlace(option *models.VoteOption) (*models.Place, error) {
	if option.PlaceID != nil {
		var place models.Place
		if err := storage.DB.First(&place, *option.PlaceID).Error; err != nil {
			return nil, fmt.Errorf("%w: place not found", ErrNotFound)
		}
		return &place, nil
	}

	if option.Payload == nil {
		return nil, fmt.Errorf("%w: option has no place data", ErrInvalidInput)
	}
	var payload models.VoteOptionPayload
	if err := json.Unmarshal(option.Payload, &payload); err != nil {
		return nil, fmt.Errorf("%w: malformed option payload", ErrInvalidInput)
	}

	name := payload.Name
	if name == "" {
		name = option.Name
	}
	return CreateOrGetPlace(models.Place{
		XID:  payload.XID,
		Name: name,
		Lat:  payload.Lat,
		Lng:  payload.Lng,
	})
}
