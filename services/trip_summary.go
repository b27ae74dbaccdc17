package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"
)

const summaryTTL = time.Hour

// TripSummary aggregates a trip's itinerary tree. Events without a resolvable
// place category fall into "other".
type TripSummary struct {
	TripID     uint                       `json:"tripID"`
	DayCount   int                        `json:"dayCount"`
	CityCount  int                        `json:"cityCount"`
	EventCount int                        `json:"eventCount"`
	TotalPrice float64                    `json:"totalPrice"`
	Categories map[string]CategorySummary `json:"categories"`
}

type CategorySummary struct {
	Count int     `json:"count"`
	Total float64 `json:"total"`
}

type SummaryService struct {
	Cache Cache
}

func NewSummaryService(cache Cache) *SummaryService {
	return &SummaryService{Cache: cache}
}

func summaryKey(tripID uint) string {
	return fmt.Sprintf("trip:summary:%d", tripID)
}

// Summary returns the memoized aggregate, computing it on a miss.
func (s *SummaryService) Summary(tripID uint) (*TripSummary, error) {
	raw, err := GetOrCompute(s.Cache, summaryKey(tripID), summaryTTL, func() (string, error) {
		summary, err := computeSummary(tripID)
		if err != nil {
			return "", err
		}
		encoded, err := json.Marshal(summary)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	})
	if err != nil {
		return nil, err
	}

	var summary TripSummary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Invalidate must run with every structural mutation under the trip so a stale
// read after it triggers recomputation.
func (s *SummaryService) Invalidate(tripID uint) {
	s.Cache.Invalidate(summaryKey(tripID))
}

func computeSummary(tripID uint) (*TripSummary, error) {
	var days []models.TripDay
	if err := storage.DB.Preload("Cities.Events.Place").
		Where("trip_id = ?", tripID).
		Order("position ASC").
		Find(&days).Error; err != nil {
		return nil, err
	}

	summary := TripSummary{
		TripID:     tripID,
		Categories: map[string]CategorySummary{},
	}

	for _, day := range days {
		summary.DayCount++
		for _, city := range day.Cities {
			summary.CityCount++
			for _, event := range city.Events {
				summary.EventCount++
				summary.TotalPrice += event.Price

				category := "other"
				if event.Place != nil && event.Place.Category != "" {
					category = event.Place.Category
				}
				bucket := summary.Categories[category]
				bucket.Count++
				bucket.Total += event.Price
				summary.Categories[category] = bucket
			}
		}
	}

	return &summary, nil
}
