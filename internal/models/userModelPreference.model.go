package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserModelPreference is a user's default model configuration for one model type.
// Rows are hard deleted so the (user_id, model_type) unique index never sees tombstones.
type UserModelPreference struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"                                                            json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_model_preferences_user_type,priority:1" json:"userId"`
	ModelType     ModelType `gorm:"type:text;not null;uniqueIndex:idx_user_model_preferences_user_type,priority:2" json:"modelType"`
	ModelConfigID uuid.UUID `gorm:"type:uuid;not null"                                                              json:"modelConfigId"`
	CreatorID     uuid.UUID `gorm:"type:uuid;not null"                                                              json:"creatorId"`
	CreatedAt     time.Time `gorm:"autoCreateTime"                                                                  json:"createdAt"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"                                                                  json:"updatedAt"`
}

func (p *UserModelPreference) BeforeCreate(tx *gorm.DB) error {
	if p.UserID == uuid.Nil || p.ModelConfigID == uuid.Nil || p.ModelType == "" {
		return gorm.ErrInvalidValue
	}

	if p.CreatorID == uuid.Nil {
		p.CreatorID = p.UserID
	}

	return assignUUID(&p.ID)
}

type DefaultModelResponse struct {
	ModelType     ModelType    `json:"modelType"`
	ModelConfigID *uuid.UUID   `json:"modelConfigId"`
	Config        *ModelConfig `json:"config"`
}
