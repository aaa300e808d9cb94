package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"
	"voxadmin/internal/constants"
	"voxadmin/internal/database"
	. "voxadmin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserModelPreferenceRepository interface {
	Get(
		ctx context.Context,
		tx *gorm.DB,
		userID uuid.UUID,
		modelType ModelType,
	) (*UserModelPreference, error)
	Upsert(ctx context.Context, tx *gorm.DB, preference *UserModelPreference) error
	Delete(ctx context.Context, tx *gorm.DB, userID uuid.UUID, modelType ModelType) error
	DeleteByModelConfigID(ctx context.Context, tx *gorm.DB, modelConfigID uuid.UUID) (int64, error)
	DeleteForDeletedUsers(ctx context.Context, tx *gorm.DB) (int64, error)
}

// preferenceCache holds one entry per (user, model type). A zero preference
// records that the user has no default.
type preferenceCache interface {
	get(ctx context.Context, userID uuid.UUID, modelType ModelType, dest *UserModelPreference) (bool, error)
	// fill writes only when the entry is absent.
	fill(ctx context.Context, preference UserModelPreference, userID uuid.UUID, modelType ModelType) error
	store(ctx context.Context, preference UserModelPreference, userID uuid.UUID, modelType ModelType) error
	clear(ctx context.Context, userID uuid.UUID, modelType ModelType) error
}

type valkeyPreferenceCache struct {
	client database.CacheClient
}

func (c valkeyPreferenceCache) builder(
	ctx context.Context,
	userID uuid.UUID,
	modelType ModelType,
) *database.CacheBuilder {
	return database.NewCacheBuilder(c.client, preferenceCacheKey(userID, modelType)).
		WithContext(ctx).
		WithHash(constants.UserModelPreferenceCachePrefix).
		WithTTL(constants.UserModelPreferenceCacheExpiry)
}

func (c valkeyPreferenceCache) get(
	ctx context.Context,
	userID uuid.UUID,
	modelType ModelType,
	dest *UserModelPreference,
) (bool, error) {
	return c.builder(ctx, userID, modelType).Get(dest)
}

func (c valkeyPreferenceCache) fill(
	ctx context.Context,
	preference UserModelPreference,
	userID uuid.UUID,
	modelType ModelType,
) error {
	_, err := c.builder(ctx, userID, modelType).WithStruct(preference).SetIfAbsent()
	return err
}

func (c valkeyPreferenceCache) store(
	ctx context.Context,
	preference UserModelPreference,
	userID uuid.UUID,
	modelType ModelType,
) error {
	return c.builder(ctx, userID, modelType).WithStruct(preference).Set()
}

func (c valkeyPreferenceCache) clear(ctx context.Context, userID uuid.UUID, modelType ModelType) error {
	return c.builder(ctx, userID, modelType).Delete()
}

type userModelPreferenceRepository struct {
	cache preferenceCache
	log   logger.Logger
}

func NewUserModelPreferenceRepository(cache database.CacheClient) UserModelPreferenceRepository {
	return newUserModelPreferenceRepository(valkeyPreferenceCache{client: cache})
}

func newUserModelPreferenceRepository(cache preferenceCache) *userModelPreferenceRepository {
	return &userModelPreferenceRepository{
		cache: cache,
		log:   logger.New("userModelPreferenceRepository"),
	}
}

func preferenceCacheKey(userID uuid.UUID, modelType ModelType) string {
	return fmt.Sprintf("%s:%s", userID, modelType)
}

// Get returns nil when the user has no preference for modelType. A miss is
// cached as a tombstone so absent defaults do not hit the database each time.
func (r *userModelPreferenceRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	modelType ModelType,
) (*UserModelPreference, error) {
	log := r.log.Function("Get")

	var preference UserModelPreference
	found, err := r.cache.get(ctx, userID, modelType, &preference)
	if err != nil {
		log.Warn("failed to get preference from cache", "userID", userID, "error", err)
	}
	if found && err == nil {
		if preference.ID == uuid.Nil {
			return nil, nil
		}
		return &preference, nil
	}

	preference = UserModelPreference{}
	err = tx.WithContext(ctx).
		Where("user_id = ? AND model_type = ?", userID, modelType).
		First(&preference).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, log.Err(
			"failed to get user model preference",
			err,
			"userID",
			userID,
			"modelType",
			modelType,
		)
	}

	// Only fill an empty slot: a write that committed after the read above has
	// already stored its own value, and that value must win.
	if err := r.cache.fill(ctx, preference, userID, modelType); err != nil {
		log.Warn("failed to cache preference", "userID", userID, "error", err)
	}

	if preference.ID == uuid.Nil {
		return nil, nil
	}
	return &preference, nil
}

// Upsert inserts the preference or, when (user_id, model_type) already exists,
// rewrites only model_config_id and updated_at in the same statement.
func (r *userModelPreferenceRepository) Upsert(
	ctx context.Context,
	tx *gorm.DB,
	preference *UserModelPreference,
) error {
	log := r.log.Function("Upsert")

	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "model_type"}},
			DoUpdates: clause.Assignments(map[string]any{
				"model_config_id": preference.ModelConfigID,
				"updated_at":      time.Now(),
			}),
		}).
		Create(preference).Error
	if err != nil {
		return log.Err(
			"failed to upsert user model preference",
			err,
			"userID",
			preference.UserID,
			"modelType",
			preference.ModelType,
		)
	}

	var stored UserModelPreference
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND model_type = ?", preference.UserID, preference.ModelType).
		First(&stored).Error; err != nil {
		log.Warn("failed to reload preference, clearing cache", "userID", preference.UserID, "error", err)
		r.clearCache(ctx, preference.UserID, preference.ModelType)
		return nil
	}

	r.storeCache(ctx, preference.UserID, preference.ModelType, stored)
	return nil
}

func (r *userModelPreferenceRepository) Delete(
	ctx context.Context,
	tx *gorm.DB,
	userID uuid.UUID,
	modelType ModelType,
) error {
	log := r.log.Function("Delete")

	err := tx.WithContext(ctx).
		Where("user_id = ? AND model_type = ?", userID, modelType).
		Delete(&UserModelPreference{}).Error
	if err != nil {
		return log.Err(
			"failed to delete user model preference",
			err,
			"userID",
			userID,
			"modelType",
			modelType,
		)
	}

	r.storeCache(ctx, userID, modelType, UserModelPreference{})
	return nil
}

// DeleteByModelConfigID removes every preference pointing at the given config.
func (r *userModelPreferenceRepository) DeleteByModelConfigID(
	ctx context.Context,
	tx *gorm.DB,
	modelConfigID uuid.UUID,
) (int64, error) {
	log := r.log.Function("DeleteByModelConfigID")

	var preferences []UserModelPreference
	if err := tx.WithContext(ctx).
		Where("model_config_id = ?", modelConfigID).
		Find(&preferences).Error; err != nil {
		return 0, log.Err("failed to find preferences for config", err, "modelConfigID", modelConfigID)
	}

	if len(preferences) == 0 {
		return 0, nil
	}

	result := tx.WithContext(ctx).
		Where("model_config_id = ?", modelConfigID).
		Delete(&UserModelPreference{})
	if result.Error != nil {
		return 0, log.Err(
			"failed to delete preferences for config",
			result.Error,
			"modelConfigID",
			modelConfigID,
		)
	}

	for _, preference := range preferences {
		r.clearCache(ctx, preference.UserID, preference.ModelType)
	}

	return result.RowsAffected, nil
}

// DeleteForDeletedUsers removes preferences whose user has been soft deleted.
func (r *userModelPreferenceRepository) DeleteForDeletedUsers(
	ctx context.Context,
	tx *gorm.DB,
) (int64, error) {
	log := r.log.Function("DeleteForDeletedUsers")

	deletedUsers := tx.Unscoped().
		Model(&User{}).
		Select("id").
		Where("deleted_at IS NOT NULL")

	result := tx.WithContext(ctx).
		Where("user_id IN (?)", deletedUsers).
		Delete(&UserModelPreference{})
	if result.Error != nil {
		return 0, log.Err("failed to delete preferences of deleted users", result.Error)
	}

	return result.RowsAffected, nil
}

// storeCache overwrites the cached entry. A zero preference records absence.
func (r *userModelPreferenceRepository) storeCache(
	ctx context.Context,
	userID uuid.UUID,
	modelType ModelType,
	preference UserModelPreference,
) {
	if err := r.cache.store(ctx, preference, userID, modelType); err != nil {
		r.log.Function("storeCache").
			Warn("failed to store preference cache", "userID", userID, "error", err)
	}
}

func (r *userModelPreferenceRepository) clearCache(
	ctx context.Context,
	userID uuid.UUID,
	modelType ModelType,
) {
	if err := r.cache.clear(ctx, userID, modelType); err != nil {
		r.log.Function("clearCache").
			Warn("failed to clear preference cache", "userID", userID, "error", err)
	}
}
