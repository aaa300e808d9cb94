package services

import (
	"context"
	"voxadmin/internal/events"
	"voxadmin/internal/repositories"
	"voxadmin/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BootstrapService gives a new user a scrubbed copy of the template
// configurations owned by the earliest super admin.
type BootstrapService struct {
	transaction *TransactionService
	users       repositories.UserRepository
	configs     repositories.ModelConfigRepository
	scrubber    *ScrubberService
	eventBus    *events.EventBus
	log         logger.Logger
}

func NewBootstrapService(
	transaction *TransactionService,
	users repositories.UserRepository,
	configs repositories.ModelConfigRepository,
	scrubber *ScrubberService,
	eventBus *events.EventBus,
) *BootstrapService {
	return &BootstrapService{
		transaction: transaction,
		users:       users,
		configs:     configs,
		scrubber:    scrubber,
		eventBus:    eventBus,
		log:         logger.New("bootstrapService"),
	}
}

// InitializeUserConfigurations clones the template configurations to newUserID
// in one transaction and returns how many were created. Any read or write
// failure rolls back every clone. Calling it twice creates duplicates.
func (s *BootstrapService) InitializeUserConfigurations(
	ctx context.Context,
	newUserID uuid.UUID,
) (int, error) {
	log := s.log.Function("InitializeUserConfigurations")

	if newUserID == uuid.Nil {
		return 0, log.Err("new user id is required", types.ErrInvalidInput)
	}

	var created int
	err := s.transaction.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		count, err := s.cloneTemplates(ctx, tx, newUserID)
		created = count
		return err
	})
	if err != nil {
		return 0, log.Err("failed to initialize user configurations", err, "userID", newUserID)
	}

	log.Info("User configurations initialized", "userID", newUserID, "count", created)
	if created > 0 {
		PublishModelEvent(s.eventBus, s.log, events.USER_INITIALIZED, newUserID, map[string]any{
			"count": created,
		})
	}

	return created, nil
}

func (s *BootstrapService) cloneTemplates(
	ctx context.Context,
	tx *gorm.DB,
	newUserID uuid.UUID,
) (int, error) {
	log := s.log.Function("cloneTemplates")

	template, err := s.users.GetEarliestSuperAdmin(ctx, tx)
	if err != nil {
		return 0, err
	}
	if template == nil {
		log.Warn("no super admin found, skipping configuration bootstrap", "userID", newUserID)
		return 0, nil
	}
	if template.ID == newUserID {
		log.Info("user is the template owner, nothing to copy", "userID", newUserID)
		return 0, nil
	}

	templates, err := s.configs.GetByCreator(ctx, tx, template.ID)
	if err != nil {
		return 0, err
	}
	if len(templates) == 0 {
		log.Info("template user has no configurations", "templateUserID", template.ID)
		return 0, nil
	}

	for _, source := range templates {
		clone := source.CloneFor(newUserID, s.scrubber.Scrub(source.ConfigDocument))
		if err := s.configs.Create(ctx, tx, clone); err != nil {
			return 0, err
		}
	}

	return len(templates), nil
}
