package app

import (
	"context"
	"errors"
	"time"

	"peer-match/internal/config"
	"peer-match/internal/database"
	"peer-match/internal/database/migration"
	dbpostgres "peer-match/internal/database/postgres"
	"peer-match/internal/database/seeder"
	"peer-match/internal/delivery/http/routes"
	"peer-match/internal/infrastructure/cache"
	"peer-match/internal/pkg/jwt"
	"peer-match/internal/repository"
	"peer-match/internal/usecase"
	"peer-match/migrations"

	"go.uber.org/zap"
)

type Container struct {
	Config config.Config
	Logger *zap.Logger
	DB     database.DB
	Cache  *cache.Redis
}

func NewContainer(cfg config.Config, logger *zap.Logger) (*Container, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Database.RunMigrations {
		r := migration.Runner{FS: migrations.FS, Logger: logger}
		if err := r.Run(ctx, db.SQLDB()); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if cfg.Database.RunSeeders {
		r := seeder.Runner{Seeders: seeder.Defaults(), Logger: logger}
		if err := r.Run(ctx, db); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Container{
		Config: cfg,
		Logger: logger,
		DB:     db,
		Cache:  cache.NewRedis(cfg.Redis, logger),
	}, nil
}

// RouteDeps builds the repositories and usecases behind the HTTP routes.
func (c *Container) RouteDeps() routes.Deps {
	users := repository.NewPostgresUserRepository(c.DB)
	skills := repository.NewPostgresSkillRepository(c.DB)
	userSkills := repository.NewPostgresUserSkillRepository(c.DB)
	connections := repository.NewPostgresConnectionRepository(c.DB)

	var rankingCache usecase.RankingCache
	if c.Cache != nil {
		rankingCache = c.Cache
	}

	deps := routes.Deps{
		Matching:    usecase.NewMatchingUsecase(users, userSkills, rankingCache, c.Config.Redis.RankingTTL, c.Logger.Named("matching")),
		Connections: usecase.NewConnectionUsecase(users, connections, c.Logger.Named("connections")),
		Skills:      usecase.NewSkillUsecase(skills, c.Logger.Named("skills")),
		UserSkills:  usecase.NewUserSkillUsecase(users, skills, userSkills, rankingCache, c.Logger.Named("user_skills")),
		DB:          c.DB,
		Cache:       c.Cache,
	}
	if c.Config.JWT.Enabled() {
		deps.JWT = jwt.NewHMACService(c.Config.JWT.AccessSecret, c.Config.JWT.AccessExpiresIn)
	}
	return deps
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	var errs []error
	if c.Cache != nil {
		errs = append(errs, c.Cache.Close())
	}
	if c.DB != nil {
		errs = append(errs, c.DB.Close())
	}
	return errors.Join(errs...)
}
