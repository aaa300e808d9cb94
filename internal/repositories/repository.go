package repositories

import (
	"voxadmin/internal/database"
)

type Repository struct {
	User                UserRepository
	ModelConfig         ModelConfigRepository
	UserModelPreference UserModelPreferenceRepository
}

func New(db database.DB) Repository {
	return Repository{
		User:                NewUserRepository(db.Cache.User),
		ModelConfig:         NewModelConfigRepository(),
		UserModelPreference: NewUserModelPreferenceRepository(db.Cache.User),
	}
}
