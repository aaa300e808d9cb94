package services

import (
	"strings"
	"voxadmin/config"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
)

type Service struct {
	Transaction *TransactionService
	Scheduler   *SchedulerService
	Scrubber    *ScrubberService
	Preference  *PreferenceService
	Bootstrap   *BootstrapService
	Token       *TokenService
}

func New(
	db database.DB,
	repos repositories.Repository,
	config config.Config,
	eventBus *events.EventBus,
) Service {
	transactionService := NewTransactionService(db)
	scrubberService := NewScrubberService(NewSensitiveFieldSet(ParseFieldList(config.ScrubExtraFields)...))

	return Service{
		Transaction: transactionService,
		Scheduler:   NewSchedulerService(),
		Scrubber:    scrubberService,
		Preference:  NewPreferenceService(db, repos.UserModelPreference, eventBus),
		Bootstrap: NewBootstrapService(
			transactionService,
			repos.User,
			repos.ModelConfig,
			scrubberService,
			eventBus,
		),
		Token: NewTokenService(config),
	}
}

// ParseFieldList splits a comma separated list, dropping blanks.
func ParseFieldList(value string) []string {
	var fields []string
	for field := range strings.SplitSeq(value, ",") {
		if field = strings.TrimSpace(field); field != "" {
			fields = append(fields, field)
		}
	}
	return fields
}

// PublishModelEvent logs instead of failing: the write has already happened.
func PublishModelEvent(
	eventBus *events.EventBus,
	log logger.Logger,
	eventType events.MessageType,
	userID uuid.UUID,
	data map[string]any,
) {
	if eventBus == nil {
		return
	}

	if err := eventBus.PublishModelEvent(eventType, userID, data); err != nil {
		log.Warn("failed to publish event", "type", eventType, "userID", userID, "error", err)
	}
}
