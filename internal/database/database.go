package database

import (
	"context"
	"fmt"

	"boilerplate/internal/config"
	"boilerplate/internal/models"
	"boilerplate/internal/repositories"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Store owns the connection to the user store selected by configuration.
// Callers must Close it on shutdown.
type Store struct {
	Driver string

	sql   *gorm.DB
	mongo *mongo.Client
	users repositories.UserRepository
}

// Open connects to the configured store and prepares the users schema
// (GORM migration or Mongo indexes).
func Open(ctx context.Context, cfg config.DatabaseConfig, log *zap.Logger) (*Store, error) {
	s := &Store{Driver: cfg.Driver}

	switch cfg.Driver {
	case "postgres", "sqlite":
		var dialector gorm.Dialector
		if cfg.Driver == "postgres" {
			dialector = postgres.Open(cfg.DSN)
		} else {
			dialector = sqlite.Open(cfg.DSN)
		}
		db, err := gorm.Open(dialector, &gorm.Config{
			TranslateError: true,
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			log.Error("database connection failed", zap.String("driver", cfg.Driver), zap.Error(err))
			return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Driver, err)
		}
		if err := db.WithContext(ctx).AutoMigrate(&models.User{}); err != nil {
			log.Error("database migration failed", zap.String("driver", cfg.Driver), zap.Error(err))
			if sqlDB, dbErr := db.DB(); dbErr == nil {
				if closeErr := sqlDB.Close(); closeErr != nil {
					log.Warn("failed to close database", zap.String("driver", cfg.Driver), zap.Error(closeErr))
				}
			}
			return nil, fmt.Errorf("failed to migrate users: %w", err)
		}
		s.sql = db
		s.users = repositories.NewGORMUserRepository(db)

	case "mongo":
		client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Error("database connection failed", zap.String("driver", cfg.Driver), zap.Error(err))
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			log.Error("database connection failed", zap.String("driver", cfg.Driver), zap.Error(err))
			return nil, fmt.Errorf("failed to ping mongo: %w", err)
		}
		repo := repositories.NewMongoUserRepository(client.Database(cfg.MongoDatabase))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		s.mongo = client
		s.users = repo

	case "memory":
		s.users = repositories.NewMockUserRepository()

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	log.Info("database connected", zap.String("driver", cfg.Driver))
	return s, nil
}

// Users returns the user repository backed by this store.
func (s *Store) Users() repositories.UserRepository {
	return s.users
}

// Ping checks that the store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	switch {
	case s.sql != nil:
		sqlDB, err := s.sql.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	case s.mongo != nil:
		return s.mongo.Ping(ctx, readpref.Primary())
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close(ctx context.Context) error {
	switch {
	case s.sql != nil:
		sqlDB, err := s.sql.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	case s.mongo != nil:
		return s.mongo.Disconnect(ctx)
	}
	return nil
}
