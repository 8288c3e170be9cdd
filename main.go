package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/customsbot-poc/server/internal/core"
	"github.com/customsbot-poc/server/internal/engine/duty"
	"github.com/customsbot-poc/server/internal/engine/fx"
	"github.com/customsbot-poc/server/internal/engine/hscode"
	"github.com/customsbot-poc/server/internal/engine/model"
	"github.com/customsbot-poc/server/internal/engine/oracle"
	"github.com/customsbot-poc/server/internal/engine/refdata"
	"github.com/customsbot-poc/server/internal/engine/session"
	"github.com/customsbot-poc/server/internal/engine/slots"
	"github.com/customsbot-poc/server/internal/engine/workflow"
	logx "github.com/customsbot-poc/server/pkg/logger"
	pkgredis "github.com/customsbot-poc/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the estimation demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	APIKey  string `envconfig:"GEMINI_API_KEY" required:"true"`
	BaseURL string `envconfig:"GEMINI_BASE_URL"`

	// Engine configs
	Oracle  model.OracleModelConfig
	Session model.SessionConfig
	Fx      model.FxConfig
}

func main() {
	fmt.Println("Starting tariff estimation demo...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	logx.Init(logx.LoggerOpts{Environment: core.EnvironmentFromOS()})

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.Session.TTL)
	if err != nil {
		log.Fatalf("Invalid SESSION_TTL '%s': %v", envCfg.Session.TTL, err)
	}

	llm, err := oracle.NewGemini(ctx, oracle.GeminiConfig{
		APIKey:  envCfg.APIKey,
		BaseURL: envCfg.BaseURL,
		Model:   envCfg.Oracle,
	})
	if err != nil {
		log.Fatalf("Failed to build oracle: %v", err)
	}

	store := refdata.MustLoad()
	rates := fx.NewClient(envCfg.Fx)

	engine := workflow.NewEngine(workflow.Config{
		Repo:       session.NewRedisSessionRepository(rdb, ttl),
		Extractor:  slots.NewExtractor(store, llm),
		Classifier: hscode.NewClassifier(llm, llm, store),
		Calculator: duty.NewCalculator(store, rates),
		Oracle:     llm,
		Store:      store,
		Rates:      rates,
	})

	turns := []struct {
		description string
		utterance   string
	}{
		{
			description: "Scenario selection",
			utterance:   "해외직구로 샀어요",
		},
		{
			description: "Product details",
			utterance:   "미국에서 150만원에 노트북을 샀어요",
		},
		{
			description: "HS6 candidate selection",
			utterance:   "1번",
		},
		{
			description: "HS10 selection and calculation",
			utterance:   "1번",
		},
	}

	sessionID := uuid.NewString()

	for i, turn := range turns {
		fmt.Printf("\n🚀 Turn %d: %s\n", i+1, turn.description)
		fmt.Printf("User: \"%s\"\n", turn.utterance)
		fmt.Println("Processing...")

		reply, err := engine.ProcessTurn(ctx, sessionID, turn.utterance)
		if err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		fmt.Printf("✅ Reply %d:\n%s\n", i+1, reply)
		fmt.Println("─────────────────────────────────────────────")

		// slight delay between turns for readability
		time.Sleep(500 * time.Millisecond)
	}

	fmt.Println("🎉 Estimation conversation completed!")
}
