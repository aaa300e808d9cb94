package models

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModelType string

const (
	ModelTypeASR    ModelType = "ASR"
	ModelTypeVAD    ModelType = "VAD"
	ModelTypeLLM    ModelType = "LLM"
	ModelTypeVLLM   ModelType = "VLLM"
	ModelTypeTTS    ModelType = "TTS"
	ModelTypeMemory ModelType = "Memory"
	ModelTypeIntent ModelType = "Intent"
)

var ModelTypes = []ModelType{
	ModelTypeASR,
	ModelTypeVAD,
	ModelTypeLLM,
	ModelTypeVLLM,
	ModelTypeTTS,
	ModelTypeMemory,
	ModelTypeIntent,
}

// ParseModelType matches case-insensitively and returns the canonical spelling.
func ParseModelType(value string) (ModelType, bool) {
	value = strings.TrimSpace(value)
	for _, modelType := range ModelTypes {
		if strings.EqualFold(string(modelType), value) {
			return modelType, true
		}
	}
	return "", false
}

func (m ModelType) IsValid() bool {
	return slices.Contains(ModelTypes, m)
}

func (m ModelType) String() string {
	return string(m)
}

type ModelConfig struct {
	BaseUUIDModel
	ModelType      ModelType         `gorm:"type:text;not null;index:idx_model_configs_creator_type,priority:2" json:"modelType"`
	ModelCode      string            `gorm:"type:text;not null"                                                 json:"modelCode"`
	ModelName      string            `gorm:"type:text;not null"                                                 json:"modelName"`
	IsEnabled      *bool             `gorm:"type:bool"                                                          json:"isEnabled"`
	SortOrder      int               `gorm:"type:int;not null;default:0"                                        json:"sortOrder"`
	ConfigDocument datatypes.JSONMap `gorm:"column:config_json"                                                 json:"configJson"`
	Remark         string            `gorm:"type:text"                                                          json:"remark,omitempty"`
	CreatorID      uuid.UUID         `gorm:"type:uuid;not null;index:idx_model_configs_creator_type,priority:1" json:"creatorId"`
}

func (m *ModelConfig) BeforeCreate(tx *gorm.DB) error {
	if m.CreatorID == uuid.Nil {
		return gorm.ErrInvalidValue
	}

	if m.ConfigDocument == nil {
		m.ConfigDocument = datatypes.JSONMap{}
	}

	return m.BaseUUIDModel.BeforeCreate(tx)
}

// IsOwnedBy reports whether the record belongs to the given user.
func (m *ModelConfig) IsOwnedBy(userID uuid.UUID) bool {
	return m.CreatorID == userID
}

// CloneFor copies the descriptive fields into a new unsaved record owned by owner.
// The document is taken as given; callers are expected to pass a scrubbed copy.
func (m *ModelConfig) CloneFor(owner uuid.UUID, document map[string]any) *ModelConfig {
	var enabled *bool
	if m.IsEnabled != nil {
		value := *m.IsEnabled
		enabled = &value
	}

	return &ModelConfig{
		ModelType:      m.ModelType,
		ModelCode:      m.ModelCode,
		ModelName:      m.ModelName,
		IsEnabled:      enabled,
		SortOrder:      m.SortOrder,
		ConfigDocument: datatypes.JSONMap(document),
		CreatorID:      owner,
	}
}

type ModelConfigRequest struct {
	ModelCode      string         `json:"modelCode"`
	ModelName      string         `json:"modelName"`
	IsEnabled      *bool          `json:"isEnabled,omitempty"`
	SortOrder      *int           `json:"sortOrder,omitempty"`
	ConfigDocument map[string]any `json:"configJson,omitempty"`
	Remark         *string        `json:"remark,omitempty"`
}
