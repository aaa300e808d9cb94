package seed

import (
	"context"
	"voxadmin/config"
	"voxadmin/internal/database"
	"voxadmin/internal/events"
	"voxadmin/internal/repositories"
	"voxadmin/internal/services"

	. "voxadmin/internal/models"

	logger "github.com/Bparsons0904/goLogger"
)

func boolPtr(b bool) *bool {
	return &b
}

// templateConfigs are owned by the super admin and copied to every new user.
// The secrets are placeholders and get blanked on copy.
var templateConfigs = []ModelConfig{
	{
		ModelType: ModelTypeASR,
		ModelCode: "FunASR",
		ModelName: "FunASR local",
		ConfigDocument: map[string]any{
			"type":       "fun_local",
			"model_dir":  "models/SenseVoiceSmall",
			"output_dir": "tmp/",
		},
	},
	{
		ModelType: ModelTypeVAD,
		ModelCode: "SileroVAD",
		ModelName: "Silero VAD",
		ConfigDocument: map[string]any{
			"type":                 "silero",
			"threshold":            0.5,
			"min_silence_duration": 700,
			"model_dir":            "models/snakers4_silero-vad",
		},
	},
	{
		ModelType: ModelTypeLLM,
		ModelCode: "OpenAI",
		ModelName: "OpenAI compatible",
		ConfigDocument: map[string]any{
			"type":        "openai",
			"base_url":    "https://api.openai.com/v1",
			"model_name":  "gpt-4o-mini",
			"api_key":     "sk-replace-me",
			"temperature": 0.7,
		},
	},
	{
		ModelType: ModelTypeVLLM,
		ModelCode: "OpenAIVision",
		ModelName: "OpenAI vision",
		ConfigDocument: map[string]any{
			"type":       "openai",
			"base_url":   "https://api.openai.com/v1",
			"model_name": "gpt-4o",
			"api_key":    "sk-replace-me",
		},
	},
	{
		ModelType: ModelTypeTTS,
		ModelCode: "EdgeTTS",
		ModelName: "Edge TTS",
		ConfigDocument: map[string]any{
			"type":       "edge",
			"voice":      "en-US-AriaNeural",
			"output_dir": "tmp/",
		},
	},
	{
		ModelType: ModelTypeTTS,
		ModelCode: "DoubaoTTS",
		ModelName: "Doubao TTS",
		SortOrder: 1,
		ConfigDocument: map[string]any{
			"type":         "doubao",
			"appid":        "replace-me",
			"access_token": "replace-me",
			"cluster":      "volcano_tts",
		},
	},
	{
		ModelType: ModelTypeMemory,
		ModelCode: "MemLocalShort",
		ModelName: "Local short term memory",
		ConfigDocument: map[string]any{
			"type": "mem_local_short",
		},
	},
	{
		ModelType: ModelTypeIntent,
		ModelCode: "FunctionCall",
		ModelName: "Function call intent",
		ConfigDocument: map[string]any{
			"type":      "function_call",
			"functions": []any{"change_role", "get_weather"},
		},
	},
}

// Seed gives the super admin a template configuration set and creates a
// demo user bootstrapped from it. The admin access token is logged.
func Seed(db database.DB, cfg config.Config, log logger.Logger) error {
	log = log.Function("seed")
	log.Info("Seeding development data")

	ctx := context.Background()
	repos := repositories.New(db)
	eventBus := events.New(nil)
	defer func() {
		if err := eventBus.Close(); err != nil {
			log.Er("failed to close event bus", err)
		}
	}()
	svc := services.New(db, repos, cfg, eventBus)

	admin, err := repos.User.GetEarliestSuperAdmin(ctx, db.SQL)
	if err != nil {
		return log.Err("failed to load super admin", err)
	}
	if admin == nil {
		return log.ErrMsg("no super admin found, run migrations up first")
	}

	for _, template := range templateConfigs {
		modelConfig := template
		modelConfig.CreatorID = admin.ID
		modelConfig.IsEnabled = boolPtr(true)
		if err := repos.ModelConfig.Create(ctx, db.SQL, &modelConfig); err != nil {
			return log.Err("failed to create template config", err, "modelCode", modelConfig.ModelCode)
		}

		if modelConfig.SortOrder == 0 {
			if err := svc.Preference.SetDefault(ctx, admin.ID, admin.ID, modelConfig.ModelType, modelConfig.ID); err != nil {
				return log.Err("failed to set admin default", err, "modelType", modelConfig.ModelType)
			}
		}
	}
	log.Info("Seeded template configs", "count", len(templateConfigs), "owner", admin.Username)

	demo := &User{Username: "demo", DisplayName: "Demo User", IsActive: true}
	if err := repos.User.Create(ctx, db.SQL, demo); err != nil {
		return log.Err("failed to create demo user", err)
	}

	count, err := svc.Bootstrap.InitializeUserConfigurations(ctx, demo.ID)
	if err != nil {
		return log.Err("failed to bootstrap demo user", err)
	}
	log.Info("Bootstrapped demo user", "username", demo.Username, "configs", count)

	token, expiresAt, err := svc.Token.Generate(admin.ID, admin.Username)
	if err != nil {
		return log.Err("failed to issue admin token", err)
	}
	log.Info("Admin access token", "username", admin.Username, "token", token, "expiresAt", expiresAt)

	return nil
}
