package adminController

import (
	"context"
	"time"
	"voxadmin/config"
	"voxadmin/internal/database"
	. "voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"
	"voxadmin/internal/types"
	"voxadmin/internal/utils"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type AdminControllerInterface interface {
	CreateUser(ctx context.Context, admin *User, req CreateUserRequest) (*CreateUserResponse, error)
	DeleteUser(ctx context.Context, admin *User, userID uuid.UUID) error
	InitializeConfigurations(ctx context.Context, admin *User, userID uuid.UUID) (int, error)
	SetDefaultForUser(
		ctx context.Context,
		admin *User,
		userID uuid.UUID,
		configID uuid.UUID,
	) (*DefaultModelResponse, error)
}

type CreateUserResponse struct {
	User               UserProfile `json:"user"`
	AccessToken        string      `json:"accessToken"`
	ExpiresAt          time.Time   `json:"expiresAt"`
	InitializedConfigs int         `json:"initializedConfigs"`
}

type AdminController struct {
	userRepo          repositories.UserRepository
	modelConfigRepo   repositories.ModelConfigRepository
	bootstrapService  *services.BootstrapService
	preferenceService *services.PreferenceService
	tokenService      *services.TokenService
	db                database.DB
	Config            config.Config
	log               logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) AdminControllerInterface {
	return &AdminController{
		userRepo:          repos.User,
		modelConfigRepo:   repos.ModelConfig,
		bootstrapService:  services.Bootstrap,
		preferenceService: services.Preference,
		tokenService:      services.Token,
		db:                db,
		Config:            config,
		log:               logger.New("adminController"),
	}
}

// CreateUser stores the user, copies the template configurations to it and
// issues an access token. When the copy fails the user row is kept and the
// error is returned; InitializeConfigurations can be retried.
func (c *AdminController) CreateUser(
	ctx context.Context,
	admin *User,
	req CreateUserRequest,
) (*CreateUserResponse, error) {
	log := c.log.Function("CreateUser")

	if err := requireSuperAdmin(admin); err != nil {
		return nil, err
	}

	username := utils.CleanText(req.Username)
	if username == "" {
		return nil, log.Err("username is required", types.ErrInvalidInput)
	}

	existing, err := c.userRepo.GetByUsername(ctx, c.db.SQLWithContext(ctx), username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, log.Err("username already taken", types.ErrConflict, "username", username)
	}

	user := &User{
		Username:     username,
		DisplayName:  utils.CleanText(req.DisplayName),
		IsSuperAdmin: req.IsSuperAdmin,
		IsActive:     true,
	}
	if err := c.userRepo.Create(ctx, c.db.SQLWithContext(ctx), user); err != nil {
		return nil, err
	}

	log.Info("User created", "userID", user.ID, "createdBy", admin.ID)

	initialized, err := c.bootstrapService.InitializeUserConfigurations(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := c.tokenService.Generate(user.ID, user.Username)
	if err != nil {
		return nil, err
	}

	return &CreateUserResponse{
		User:               user.ToProfile(),
		AccessToken:        token,
		ExpiresAt:          expiresAt,
		InitializedConfigs: initialized,
	}, nil
}

func (c *AdminController) DeleteUser(ctx context.Context, admin *User, userID uuid.UUID) error {
	log := c.log.Function("DeleteUser")

	if err := requireSuperAdmin(admin); err != nil {
		return err
	}

	if admin.ID == userID {
		return log.Err("admins cannot delete themselves", types.ErrInvalidInput, "userID", userID)
	}

	if err := c.userRepo.Delete(ctx, c.db.SQLWithContext(ctx), userID); err != nil {
		return err
	}

	log.Info("User deleted", "userID", userID, "deletedBy", admin.ID)
	return nil
}

// InitializeConfigurations reruns the template copy for an existing user.
// Each call adds another full set of copies.
func (c *AdminController) InitializeConfigurations(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
) (int, error) {
	if err := requireSuperAdmin(admin); err != nil {
		return 0, err
	}

	if _, err := c.userRepo.GetByID(ctx, c.db.SQLWithContext(ctx), userID); err != nil {
		return 0, err
	}

	return c.bootstrapService.InitializeUserConfigurations(ctx, userID)
}

// SetDefaultForUser sets another user's default. The configuration must belong
// to that user; the admin is recorded as creator of a new preference.
func (c *AdminController) SetDefaultForUser(
	ctx context.Context,
	admin *User,
	userID uuid.UUID,
	configID uuid.UUID,
) (*DefaultModelResponse, error) {
	log := c.log.Function("SetDefaultForUser")

	if err := requireSuperAdmin(admin); err != nil {
		return nil, err
	}

	tx := c.db.SQLWithContext(ctx)
	if _, err := c.userRepo.GetByID(ctx, tx, userID); err != nil {
		return nil, err
	}

	config, err := c.modelConfigRepo.GetByID(ctx, tx, configID)
	if err != nil {
		return nil, err
	}

	if !config.IsOwnedBy(userID) {
		return nil, log.Err("model config belongs to another user", types.ErrInvalidInput,
			"userID", userID, "modelConfigID", configID)
	}

	if err := c.preferenceService.SetDefault(ctx, admin.ID, userID, config.ModelType, config.ID); err != nil {
		return nil, err
	}

	return &DefaultModelResponse{
		ModelType:     config.ModelType,
		ModelConfigID: &config.ID,
		Config:        config,
	}, nil
}

func requireSuperAdmin(user *User) error {
	if user == nil || !user.IsSuperAdmin {
		return types.ErrForbidden
	}
	return nil
}
