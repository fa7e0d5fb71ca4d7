// Package bootstrap wires configuration, adapters and services together.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	"github.com/chadBookW/email-final/adapter/out/persistence"
	"github.com/chadBookW/email-final/adapter/out/provider/gmail"
	"github.com/chadBookW/email-final/config"
	"github.com/chadBookW/email-final/core/agent/llm"
	"github.com/chadBookW/email-final/core/domain"
	"github.com/chadBookW/email-final/core/port/out"
	"github.com/chadBookW/email-final/core/service/auth"
	"github.com/chadBookW/email-final/core/service/enrich"
	"github.com/chadBookW/email-final/core/service/ingest"
	mailservice "github.com/chadBookW/email-final/core/service/mail"
	"github.com/chadBookW/email-final/infra/database"
	"github.com/chadBookW/email-final/pkg/logger"
)

type Dependencies struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client

	// Repositories
	MessageRepo out.MessageRepository

	// Providers
	Mailbox     out.Mailbox
	Credentials *auth.Credentials

	// Agent
	LLMClient *llm.Client

	// Services
	Enricher    *enrich.CachedEnricher
	MailService *mailservice.Service
}

// NewDependencies builds the dependency graph. Postgres is required; Redis
// and the Gmail mailbox are optional and missing ones put the server in a
// degraded mode that still serves stored rows.
func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg}
	var cleanups []func()

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	// PostgreSQL (required)
	if cfg.DatabaseURL == "" {
		return nil, nil, fmt.Errorf("DATABASE_URL is required")
	}
	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	deps.DB = db
	cleanups = append(cleanups, func() { db.Close() })
	logger.Info("Connected to PostgreSQL")

	messageAdapter := persistence.NewMessageAdapter(db)
	if err := messageAdapter.EnsureSchema(context.Background()); err != nil {
		cleanup()
		return nil, nil, err
	}
	deps.MessageRepo = messageAdapter

	// Redis (optional, warn and continue)
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, enrichment caching disabled")
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
			logger.Info("Connected to Redis")
		}
	}

	// Gmail mailbox (optional; absent token means degraded mode)
	deps.Credentials = auth.NewCredentials(
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.GoogleRedirectURL,
		cfg.GoogleTokenFile,
	)
	if deps.Credentials.Configured() {
		token, err := deps.Credentials.LoadToken()
		if err != nil {
			logger.Warn("No Gmail token loaded, mailbox disabled: %v", err)
		} else {
			mailbox, err := gmail.NewAdapter(context.Background(), token, deps.Credentials.Config(), cfg.IngestPageSize)
			if err != nil {
				logger.WithError(err).Warn("Gmail adapter init failed, mailbox disabled")
			} else {
				deps.Mailbox = mailbox
				logger.Info("Gmail mailbox ready for %s", mailbox.Email())
			}
		}
	} else {
		logger.Warn("Google OAuth not configured, mailbox disabled")
	}

	// Enrichment (recomputed per read; Redis and row columns are caches)
	var enrichmentCache out.EnrichmentCache
	if deps.Redis != nil {
		enrichmentCache = persistence.NewRedisEnrichmentCache(
			deps.Redis,
			time.Duration(cfg.EnrichCacheTTLMin)*time.Minute,
		)
	}
	deps.Enricher = enrich.NewCachedEnricher(
		enrich.NewEnricher(cfg.EnrichStrategy, cfg.EnrichMaxKeywords),
		enrichmentCache,
	).WithWriteBack(func(ctx context.Context, id string, enr *domain.Enrichment) {
		if err := deps.MessageRepo.UpdateEnrichment(ctx, id, enr); err != nil {
			logger.WithError(err).Debug("Enrichment write-back failed for %s", id)
		}
	})

	// LLM client
	if cfg.OpenAIAPIKey != "" {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
		})
	} else {
		logger.Warn("OPENAI_API_KEY not set, reply generation disabled")
	}

	// Mail service
	pipeline := ingest.NewPipeline(deps.Mailbox, deps.MessageRepo)
	var model out.ReplyModel
	if deps.LLMClient != nil {
		model = deps.LLMClient
	}
	deps.MailService = mailservice.NewService(pipeline, deps.MessageRepo, deps.Mailbox, deps.Enricher, model)

	return deps, cleanup, nil
}
