package userController

import (
	"context"
	"voxadmin/config"
	"voxadmin/internal/database"
	. "voxadmin/internal/models"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type UserControllerInterface interface {
	GetCurrentUser(ctx context.Context, user *User) (*CurrentUserResponse, error)
}

// CurrentUserResponse is the caller's profile plus their default model per type.
type CurrentUserResponse struct {
	User     UserProfile              `json:"user"`
	Defaults map[ModelType]*uuid.UUID `json:"defaults"`
}

type UserController struct {
	userRepo          repositories.UserRepository
	preferenceService *services.PreferenceService
	db                database.DB
	Config            config.Config
	log               logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	config config.Config,
	db database.DB,
) UserControllerInterface {
	return &UserController{
		userRepo:          repos.User,
		preferenceService: services.Preference,
		db:                db,
		Config:            config,
		log:               logger.New("userController"),
	}
}

func (uc *UserController) GetCurrentUser(
	ctx context.Context,
	user *User,
) (*CurrentUserResponse, error) {
	log := uc.log.Function("GetCurrentUser")

	current, err := uc.userRepo.GetByID(ctx, uc.db.SQLWithContext(ctx), user.ID)
	if err != nil {
		return nil, log.Err("failed to load current user", err, "userID", user.ID)
	}

	defaults := make(map[ModelType]*uuid.UUID, len(ModelTypes))
	for _, modelType := range ModelTypes {
		configID, err := uc.preferenceService.GetDefault(ctx, current.ID, modelType)
		if err != nil {
			return nil, err
		}
		defaults[modelType] = configID
	}

	return &CurrentUserResponse{
		User:     current.ToProfile(),
		Defaults: defaults,
	}, nil
}
