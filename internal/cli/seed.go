package cli

import (
	"fmt"

	"spearid-quiz-service/internal/infra/memory"
	"spearid-quiz-service/internal/infra/postgres"
	redisinfra "spearid-quiz-service/internal/infra/redis"
	"spearid-quiz-service/internal/logger"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd loads a YAML species/video catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert species and videos from a YAML catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			catalog, err := memory.LoadCatalogFile(file)
			if err != nil {
				return err
			}

			if err := runMigrationsWithConfig(ctx, cfg); err != nil {
				return err
			}
			db, err := openBunDB(cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := postgres.NewSeeder(db).Seed(ctx, catalog); err != nil {
				return fmt.Errorf("seed catalog: %w", err)
			}
			logger.Get().Info("catalog seeded",
				zap.String("file", file),
				zap.Int("species", len(catalog.Species)),
				zap.Int("videos", len(catalog.Videos)))

			if cfg.Redis.Addr != "" {
				client := redis.NewClient(&redis.Options{
					Addr:     cfg.Redis.Addr,
					Password: cfg.Redis.Password,
					DB:       cfg.Redis.DB,
				})
				defer client.Close()
				if err := redisinfra.NewCatalogCache(client, nil, 0).Invalidate(ctx); err != nil {
					logger.Get().Warn("failed to invalidate catalog cache", zap.Error(err))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "config/catalog.yaml", "path to YAML catalog")
	return cmd
}
