package controllers

import (
	"voxadmin/config"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	adminController "voxadmin/internal/controllers/admin"
	modelConfigController "voxadmin/internal/controllers/modelConfig"
	userController "voxadmin/internal/controllers/users"
)

type Controllers struct {
	User        userController.UserControllerInterface
	ModelConfig modelConfigController.ModelConfigControllerInterface
	Admin       adminController.AdminControllerInterface
}

func New(
	services services.Service,
	repos repositories.Repository,
	eventBus *events.EventBus,
	config config.Config,
	db database.DB,
) Controllers {
	return Controllers{
		User:        userController.New(repos, services, config, db),
		ModelConfig: modelConfigController.New(repos, services, eventBus, config, db),
		Admin:       adminController.New(repos, services, config, db),
	}
}
