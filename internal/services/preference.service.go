package services

import (
	"context"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

// PreferenceService owns each user's default model configuration per model type.
type PreferenceService struct {
	db       database.DB
	repo     repositories.UserModelPreferenceRepository
	eventBus *events.EventBus
	log      logger.Logger
}

func NewPreferenceService(
	db database.DB,
	repo repositories.UserModelPreferenceRepository,
	eventBus *events.EventBus,
) *PreferenceService {
	return &PreferenceService{
		db:       db,
		repo:     repo,
		eventBus: eventBus,
		log:      logger.New("preferenceService"),
	}
}

// GetDefault returns the configured model config id, or nil when none is set.
func (s *PreferenceService) GetDefault(
	ctx context.Context,
	userID uuid.UUID,
	modelType models.ModelType,
) (*uuid.UUID, error) {
	preference, err := s.GetPreference(ctx, userID, modelType)
	if err != nil || preference == nil {
		return nil, err
	}

	id := preference.ModelConfigID
	return &id, nil
}

// GetPreference returns the full preference row, or nil when none is set.
func (s *PreferenceService) GetPreference(
	ctx context.Context,
	userID uuid.UUID,
	modelType models.ModelType,
) (*models.UserModelPreference, error) {
	log := s.log.Function("GetPreference")

	if userID == uuid.Nil || !modelType.IsValid() {
		return nil, log.Err("invalid preference lookup", types.ErrInvalidInput,
			"userID", userID, "modelType", modelType)
	}

	return s.repo.Get(ctx, s.db.SQLWithContext(ctx), userID, modelType)
}

// SetDefault points the user's default for modelType at modelConfigID. The
// first write records actorID as creator; later writes only move the pointer.
func (s *PreferenceService) SetDefault(
	ctx context.Context,
	actorID uuid.UUID,
	userID uuid.UUID,
	modelType models.ModelType,
	modelConfigID uuid.UUID,
) error {
	log := s.log.Function("SetDefault")

	if userID == uuid.Nil || modelConfigID == uuid.Nil || !modelType.IsValid() {
		return log.Err("invalid default model", types.ErrInvalidInput,
			"userID", userID, "modelType", modelType, "modelConfigID", modelConfigID)
	}

	if actorID == uuid.Nil {
		actorID = userID
	}

	preference := &models.UserModelPreference{
		UserID:        userID,
		ModelType:     modelType,
		ModelConfigID: modelConfigID,
		CreatorID:     actorID,
	}
	if err := s.repo.Upsert(ctx, s.db.SQLWithContext(ctx), preference); err != nil {
		return err
	}

	log.Info("Default model set", "userID", userID, "modelType", modelType, "modelConfigID", modelConfigID)
	PublishModelEvent(s.eventBus, s.log, events.MODEL_PREFERENCE_CHANGED, userID, map[string]any{
		"action":        events.ActionSet,
		"modelType":     modelType,
		"modelConfigId": modelConfigID,
	})

	return nil
}

// DeletePreference removes the user's default for modelType. Missing rows are ignored.
func (s *PreferenceService) DeletePreference(
	ctx context.Context,
	userID uuid.UUID,
	modelType models.ModelType,
) error {
	log := s.log.Function("DeletePreference")

	if userID == uuid.Nil || !modelType.IsValid() {
		return log.Err("invalid preference delete", types.ErrInvalidInput,
			"userID", userID, "modelType", modelType)
	}

	if err := s.repo.Delete(ctx, s.db.SQLWithContext(ctx), userID, modelType); err != nil {
		return err
	}

	PublishModelEvent(s.eventBus, s.log, events.MODEL_PREFERENCE_CHANGED, userID, map[string]any{
		"action":    events.ActionCleared,
		"modelType": modelType,
	})

	return nil
}
