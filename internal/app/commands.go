package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/category"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/question"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/sign"
	"github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/token"
	userrepo "github.com/heartmarshall/roadsigns-backend/internal/adapter/postgres/user"
	"github.com/heartmarshall/roadsigns-backend/internal/app/seeder"
	"github.com/heartmarshall/roadsigns-backend/internal/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/config"
	authsvc "github.com/heartmarshall/roadsigns-backend/internal/service/auth"
	"github.com/heartmarshall/roadsigns-backend/internal/service/catalog"
)

// Migrate runs the embedded migrations in the given direction.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger, dir postgres.MigrationDirection) error {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return postgres.Migrate(ctx, pool, dir, logger)
}

// Seed validates the catalogue selected by seedCfg and imports it. The
// cached sign list is dropped afterwards so readers see the new catalogue.
func Seed(ctx context.Context, cfg *config.Config, logger *slog.Logger, seedCfg seeder.Config) (map[string]seeder.PhaseResult, error) {
	cat, err := seeder.LoadFile(seedCfg.FilePath)
	if err != nil {
		return nil, fmt.Errorf("load catalogue: %w", err)
	}
	if seedCfg.DryRun {
		p := seeder.NewPipeline(logger, seeder.Repos{}, seedCfg)
		if err := p.Run(ctx, cat); err != nil {
			return nil, err
		}
		return p.Results(), nil
	}

	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	defer st.Close()

	signs := sign.New(st.pool)
	questions := question.New(st.pool)
	categories := category.New(st.pool)

	p := seeder.NewPipeline(logger, seeder.Repos{
		Categories: categories,
		Signs:      signs,
		Questions:  questions,
		Tx:         postgres.NewTxManager(st.pool),
	}, seedCfg)
	if err := p.Run(ctx, cat); err != nil {
		return p.Results(), err
	}

	svc := catalog.NewService(logger, signs, questions, categories, st.cache, cfg.Catalog)
	if err := svc.InvalidateSigns(ctx); err != nil {
		logger.WarnContext(ctx, "catalogue cache not invalidated", slog.String("error", err.Error()))
	}
	return p.Results(), nil
}

// CleanupTokens deletes expired refresh tokens once and reports how many
// were removed.
func CleanupTokens(ctx context.Context, cfg *config.Config, logger *slog.Logger) (int, error) {
	st, err := openStores(ctx, cfg, logger)
	if err != nil {
		return 0, err
	}
	defer st.Close()

	clock := clockwork.NewRealClock()
	svc := authsvc.NewService(
		logger,
		userrepo.New(st.pool),
		token.New(st.pool),
		st.kv,
		postgres.NewTxManager(st.pool),
		auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL, clock),
		clock,
		cfg.Auth,
	)
	return svc.CleanupExpiredTokens(ctx)
}
