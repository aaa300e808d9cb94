package repositories

import (
	"context"
	"errors"
	"strings"
	. "voxadmin/internal/models"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ModelConfigFilter narrows List. Zero values match everything.
type ModelConfigFilter struct {
	CreatorID *uuid.UUID
	ModelType ModelType
	ModelName string
}

type ModelConfigRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*ModelConfig, error)
	GetByCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) ([]*ModelConfig, error)
	List(ctx context.Context, tx *gorm.DB, filter ModelConfigFilter) ([]*ModelConfig, error)
	Create(ctx context.Context, tx *gorm.DB, config *ModelConfig) error
	Update(ctx context.Context, tx *gorm.DB, config *ModelConfig) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	SetEnabled(ctx context.Context, tx *gorm.DB, id uuid.UUID, enabled bool) error
}

type modelConfigRepository struct {
	log logger.Logger
}

func NewModelConfigRepository() ModelConfigRepository {
	return &modelConfigRepository{
		log: logger.New("modelConfigRepository"),
	}
}

func (r *modelConfigRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*ModelConfig, error) {
	log := r.log.Function("GetByID")

	var config ModelConfig
	if err := tx.WithContext(ctx).First(&config, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.ErrNotFound
		}
		return nil, log.Err("failed to get model config", err, "id", id)
	}

	return &config, nil
}

func (r *modelConfigRepository) GetByCreator(
	ctx context.Context,
	tx *gorm.DB,
	creatorID uuid.UUID,
) ([]*ModelConfig, error) {
	return r.List(ctx, tx, ModelConfigFilter{CreatorID: &creatorID})
}

func (r *modelConfigRepository) List(
	ctx context.Context,
	tx *gorm.DB,
	filter ModelConfigFilter,
) ([]*ModelConfig, error) {
	log := r.log.Function("List")

	query := tx.WithContext(ctx).Model(&ModelConfig{})
	if filter.CreatorID != nil {
		query = query.Where("creator_id = ?", *filter.CreatorID)
	}
	if filter.ModelType != "" {
		query = query.Where("model_type = ?", filter.ModelType)
	}
	if name := strings.TrimSpace(filter.ModelName); name != "" {
		query = query.Where("LOWER(model_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var configs []*ModelConfig
	if err := query.
		Order("sort_order ASC, created_at ASC, id ASC").
		Find(&configs).Error; err != nil {
		return nil, log.Err("failed to list model configs", err, "filter", filter)
	}

	return configs, nil
}

func (r *modelConfigRepository) Create(ctx context.Context, tx *gorm.DB, config *ModelConfig) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(config).Error; err != nil {
		return log.Err(
			"failed to create model config",
			err,
			"creatorID",
			config.CreatorID,
			"modelType",
			config.ModelType,
		)
	}

	return nil
}

func (r *modelConfigRepository) Update(ctx context.Context, tx *gorm.DB, config *ModelConfig) error {
	log := r.log.Function("Update")

	result := tx.WithContext(ctx).
		Model(config).
		Select("model_code", "model_name", "is_enabled", "sort_order", "config_json", "remark").
		Updates(config)
	if result.Error != nil {
		return log.Err("failed to update model config", result.Error, "id", config.ID)
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

func (r *modelConfigRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	result := tx.WithContext(ctx).Delete(&ModelConfig{}, "id = ?", id)
	if result.Error != nil {
		return log.Err("failed to delete model config", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}

func (r *modelConfigRepository) SetEnabled(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	enabled bool,
) error {
	log := r.log.Function("SetEnabled")

	result := tx.WithContext(ctx).
		Model(&ModelConfig{}).
		Where("id = ?", id).
		Update("is_enabled", enabled)
	if result.Error != nil {
		return log.Err("failed to set model config enabled", result.Error, "id", id)
	}

	if result.RowsAffected == 0 {
		return types.ErrNotFound
	}

	return nil
}
