package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/campeloneto1/tripshare-sub000/models"
	"github.com/campeloneto1/tripshare-sub000/storage"

	"gorm.io/gorm"
)

// CreateOrGetPlace deduplicates places by external id. An existing place wins
// unchanged; inline fields in data are discarded, not merged. The unique index
// on xid is the backstop against concurrent creates.
func CreateOrGetPlace(data models.Place) (*models.Place, error) {
	xid := strings.TrimSpace(data.XID)
	if xid == "" {
		return nil, fmt.Errorf("%w: place requires an external id", ErrInvalidInput)
	}
	data.XID = xid

	var existing models.Place
	err := storage.DB.Where("xid = ?", xid).First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := storage.DB.Create(&data).Error; err != nil {
		// Lost a concurrent insert race; the other row is authoritative.
		if fetchErr := storage.DB.Where("xid = ?", xid).First(&existing).Error; fetchErr == nil {
			return &existing, nil
		}
		return nil, err
	}
	return &data, nil
}
