package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultSiegeState returns the siege state every campaign starts with.
func DefaultSiegeState(campaignID uint) SiegeState {
	return SiegeState{
		CampaignID:     campaignID,
		WallIntegrity:  100,
		DefenderMorale: 100,
		Supplies:       100,
		DayOfSiege:     1,
		CustomMetrics:  datatypes.JSONMap{},
	}
}

// CreateCampaign inserts a new empty campaign together with its default siege
// state.
func CreateCampaign(db *gorm.DB, name string) (*Campaign, error) {
	c := Campaign{Name: name, LastModified: time.Now().UTC()}
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&c).Error; err != nil {
			return err
		}
		siege := DefaultSiegeState(c.ID)
		return tx.Create(&siege).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCampaigns returns all campaigns ordered by ID.
func ListCampaigns(db *gorm.DB) ([]Campaign, error) {
	var campaigns []Campaign
	err := db.Order("id").Find(&campaigns).Error
	return campaigns, err
}

// DeleteCampaign removes the campaign row for good. Foreign-key cascades
// remove every entity it owns, including conditions and plot points two
// levels down.
func DeleteCampaign(db *gorm.DB, id uint) error {
	return db.Unscoped().Delete(&Campaign{}, id).Error
}
