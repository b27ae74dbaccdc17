package services

import (
	"log"
	"sync"
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
)

const closeRetryDelay = 30 * time.Second
const closeMaxAttempts = 5

// CloseScheduler fires the close workflow for each question once its deadline
// passes. Delivery is at-least-once; CloseQuestion's closed-flag guard makes
// redelivery safe. Timers are in-process, so RestorePending re-arms open
// questions after a restart.
type CloseScheduler struct {
	Votes *VoteService

	mu     sync.Mutex
	timers map[uint]*time.Timer
}

func NewCloseScheduler(votes *VoteService) *CloseScheduler {
	return &CloseScheduler{Votes: votes, timers: map[uint]*time.Timer{}}
}

func (s *CloseScheduler) Schedule(questionID uint, at time.Time) {
	delay := time.Until(at)
	if delay < 0 {
		delay = 0
	}

	s.mu.Lock()
	if timer, ok := s.timers[questionID]; ok {
		timer.Stop()
	}
	s.timers[questionID] = time.AfterFunc(delay, func() {
		s.fire(questionID, 1)
	})
	s.mu.Unlock()
}

func (s *CloseScheduler) Cancel(questionID uint) {
	s.mu.Lock()
	if timer, ok := s.timers[questionID]; ok {
		timer.Stop()
		delete(s.timers, questionID)
	}
	s.mu.Unlock()
}

func (s *CloseScheduler) fire(questionID uint, attempt int) {
	err := s.Votes.CloseQuestion(questionID)
	if err == nil {
		s.Cancel(questionID)
		return
	}

	log.Printf("vote question %d: close attempt %d failed: %v", questionID, attempt, err)
	if attempt >= closeMaxAttempts {
		log.Printf("vote question %d: giving up after %d attempts", questionID, attempt)
		s.Cancel(questionID)
		return
	}

	s.mu.Lock()
	s.timers[questionID] = time.AfterFunc(closeRetryDelay, func() {
		s.fire(questionID, attempt+1)
	})
	s.mu.Unlock()
}

// RestorePending re-arms every open question at boot. Questions whose deadline
// already passed fire immediately.
func (s *CloseScheduler) RestorePending() {
	var questions []models.VoteQuestion
	if err := storage.DB.Where("is_closed = ?", false).Find(&questions).Error; err != nil {
		log.Printf("failed to restore pending vote questions: %v", err)
		return
	}
	for _, question := range questions {
		s.Schedule(question.ID, question.EndAt)
	}
	if len(questions) > 0 {
		log.Printf("re-armed %d pending vote question(s)", len(questions))
	}
}
