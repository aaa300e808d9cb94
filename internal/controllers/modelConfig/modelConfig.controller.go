package modelConfigController

import (
	"context"
	"errors"
	"voxadmin/config"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	. "voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"
	"voxadmin/internal/types"
	"voxadmin/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ModelConfigControllerInterface interface {
	List(ctx context.Context, user *User, modelType ModelType, modelName string) ([]*ModelConfig, error)
	Get(ctx context.Context, user *User, id uuid.UUID) (*ModelConfig, error)
	Create(
		ctx context.Context,
		user *User,
		modelType ModelType,
		req ModelConfigRequest,
	) (*ModelConfig, error)
	Update(ctx context.Context, user *User, id uuid.UUID, req ModelConfigRequest) (*ModelConfig, error)
	Delete(ctx context.Context, user *User, id uuid.UUID) error
	SetEnabled(ctx context.Context, user *User, id uuid.UUID, enabled bool) error
	SetDefaultModel(ctx context.Context, user *User, id uuid.UUID) (*DefaultModelResponse, error)
	GetDefaultModel(ctx context.Context, user *User, modelType ModelType) (*DefaultModelResponse, error)
	ClearDefaultModel(ctx context.Context, user *User, modelType ModelType) error
}

type ModelConfigController struct {
	modelConfigRepo    repositories.ModelConfigRepository
	preferenceRepo     repositories.UserModelPreferenceRepository
	preferenceService  *services.PreferenceService
	transactionService *services.TransactionService
	eventBus           *events.EventBus
	db                 database.DB
	Config             config.Config
	log                logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) ModelConfigControllerInterface {
	return &ModelConfigController{
		modelConfigRepo:    repos.ModelConfig,
		preferenceRepo:     repos.UserModelPreference,
		preferenceService:  services.Preference,
		transactionService: services.Transaction,
		eventBus:           eventBus,
		db:                 db,
		Config:             config,
		log:                logger.New("modelConfigController"),
	}
}

// List returns the caller's configurations of modelType. Super admins see every owner's.
func (c *ModelConfigController) List(
	ctx context.Context,
	user *User,
	modelType ModelType,
	modelName string,
) ([]*ModelConfig, error) {
	log := c.log.Function("List")

	if !modelType.IsValid() {
		return nil, log.Err("invalid model type", types.ErrInvalidInput, "modelType", modelType)
	}

	filter := repositories.ModelConfigFilter{
		ModelType: modelType,
		ModelName: modelName,
	}
	if !user.IsSuperAdmin {
		filter.CreatorID = &user.ID
	}

	return c.modelConfigRepo.List(ctx, c.db.SQLWithContext(ctx), filter)
}

func (c *ModelConfigController) Get(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*ModelConfig, error) {
	return c.loadAccessible(ctx, c.db.SQLWithContext(ctx), user, id)
}

func (c *ModelConfigController) Create(
	ctx context.Context,
	user *User,
	modelType ModelType,
	req ModelConfigRequest,
) (*ModelConfig, error) {
	log := c.log.Function("Create")

	if !modelType.IsValid() {
		return nil, log.Err("invalid model type", types.ErrInvalidInput, "modelType", modelType)
	}

	req.ModelCode = utils.CleanText(req.ModelCode)
	req.ModelName = utils.CleanText(req.ModelName)
	if req.ModelCode == "" || req.ModelName == "" {
		return nil, log.Err("model code and name are required", types.ErrInvalidInput)
	}

	enabled := true
	if req.IsEnabled != nil {
		enabled = *req.IsEnabled
	}

	config := &ModelConfig{
		ModelType:      modelType,
		ModelCode:      req.ModelCode,
		ModelName:      req.ModelName,
		IsEnabled:      &enabled,
		ConfigDocument: datatypes.JSONMap(req.ConfigDocument),
		CreatorID:      user.ID,
	}
	if req.SortOrder != nil {
		config.SortOrder = *req.SortOrder
	}
	if req.Remark != nil {
		config.Remark = utils.CleanText(*req.Remark)
	}

	if err := c.modelConfigRepo.Create(ctx, c.db.SQLWithContext(ctx), config); err != nil {
		return nil, err
	}

	log.Info("Model config created", "id", config.ID, "userID", user.ID, "modelType", modelType)
	c.publishChange(user.ID, config, events.ActionCreated)

	return config, nil
}

// Update applies the non-empty request fields. Type and owner never change.
func (c *ModelConfigController) Update(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	req ModelConfigRequest,
) (*ModelConfig, error) {
	log := c.log.Function("Update")

	var config *ModelConfig
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		config, err = c.loadAccessible(ctx, tx, user, id)
		if err != nil {
			return err
		}

		applyRequest(config, req)
		return c.modelConfigRepo.Update(ctx, tx, config)
	})
	if err != nil {
		return nil, log.Err("failed to update model config", err, "id", id)
	}

	c.publishChange(user.ID, config, events.ActionUpdated)
	return config, nil
}

// Delete removes the configuration and any default preferences that point at it.
func (c *ModelConfigController) Delete(ctx context.Context, user *User, id uuid.UUID) error {
	log := c.log.Function("Delete")

	var config *ModelConfig
	var cleared int64
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		config, err = c.loadAccessible(ctx, tx, user, id)
		if err != nil {
			return err
		}

		if err := c.modelConfigRepo.Delete(ctx, tx, id); err != nil {
			return err
		}

		cleared, err = c.preferenceRepo.DeleteByModelConfigID(ctx, tx, id)
		return err
	})
	if err != nil {
		return log.Err("failed to delete model config", err, "id", id)
	}

	log.Info("Model config deleted", "id", id, "userID", user.ID, "clearedPreferences", cleared)
	c.publishChange(user.ID, config, events.ActionDeleted)

	return nil
}

func (c *ModelConfigController) SetEnabled(
	ctx context.Context,
	user *User,
	id uuid.UUID,
	enabled bool,
) error {
	log := c.log.Function("SetEnabled")

	var config *ModelConfig
	err := c.transactionService.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		config, err = c.loadAccessible(ctx, tx, user, id)
		if err != nil {
			return err
		}

		config.IsEnabled = &enabled
		return c.modelConfigRepo.SetEnabled(ctx, tx, id, enabled)
	})
	if err != nil {
		return log.Err("failed to set model config enabled", err, "id", id)
	}

	c.publishChange(user.ID, config, events.ActionEnabled)
	return nil
}

// SetDefaultModel makes the configuration the caller's default for its model type.
func (c *ModelConfigController) SetDefaultModel(
	ctx context.Context,
	user *User,
	id uuid.UUID,
) (*DefaultModelResponse, error) {
	config, err := c.loadAccessible(ctx, c.db.SQLWithContext(ctx), user, id)
	if err != nil {
		return nil, err
	}

	if err := c.preferenceService.SetDefault(ctx, user.ID, user.ID, config.ModelType, config.ID); err != nil {
		return nil, err
	}

	return &DefaultModelResponse{
		ModelType:     config.ModelType,
		ModelConfigID: &config.ID,
		Config:        config,
	}, nil
}

// GetDefaultModel resolves the caller's default. A default whose configuration
// no longer exists is returned with a nil Config.
func (c *ModelConfigController) GetDefaultModel(
	ctx context.Context,
	user *User,
	modelType ModelType,
) (*DefaultModelResponse, error) {
	log := c.log.Function("GetDefaultModel")

	configID, err := c.preferenceService.GetDefault(ctx, user.ID, modelType)
	if err != nil {
		return nil, err
	}

	response := &DefaultModelResponse{ModelType: modelType, ModelConfigID: configID}
	if configID == nil {
		return response, nil
	}

	config, err := c.modelConfigRepo.GetByID(ctx, c.db.SQLWithContext(ctx), *configID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			log.Warn("default model config no longer exists", "userID", user.ID, "modelConfigID", configID)
			return response, nil
		}
		return nil, err
	}

	response.Config = config
	return response, nil
}

func (c *ModelConfigController) ClearDefaultModel(
	ctx context.Context,
	user *User,
	modelType ModelType,
) error {
	return c.preferenceService.DeletePreference(ctx, user.ID, modelType)
}

// loadAccessible hides records the user may not see behind ErrNotFound.
func (c *ModelConfigController) loadAccessible(
	ctx context.Context,
	tx *gorm.DB,
	user *User,
	id uuid.UUID,
) (*ModelConfig, error) {
	config, err := c.modelConfigRepo.GetByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if !user.IsSuperAdmin && !config.IsOwnedBy(user.ID) {
		return nil, types.ErrNotFound
	}

	return config, nil
}

func (c *ModelConfigController) publishChange(userID uuid.UUID, config *ModelConfig, action string) {
	services.PublishModelEvent(c.eventBus, c.log, events.MODEL_CONFIG_CHANGED, userID, map[string]any{
		"action":        action,
		"modelConfigId": config.ID,
		"modelType":     config.ModelType,
		"creatorId":     config.CreatorID,
	})
}

func applyRequest(config *ModelConfig, req ModelConfigRequest) {
	if code := utils.CleanText(req.ModelCode); code != "" {
		config.ModelCode = code
	}
	if name := utils.CleanText(req.ModelName); name != "" {
		config.ModelName = name
	}
	if req.IsEnabled != nil {
		enabled := *req.IsEnabled
		config.IsEnabled = &enabled
	}
	if req.SortOrder != nil {
		config.SortOrder = *req.SortOrder
	}
	if req.ConfigDocument != nil {
		config.ConfigDocument = datatypes.JSONMap(req.ConfigDocument)
	}
	if req.Remark != nil {
		config.Remark = utils.CleanText(*req.Remark)
	}
}
