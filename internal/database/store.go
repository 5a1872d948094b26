package database

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/stemsi/student-portal/internal/config"
	"github.com/stemsi/student-portal/internal/repository"
)

// StudentStore is an opened student repository with its connection.
type StudentStore struct {
	Driver string
	Repo   repository.StudentRepository
	// Ping is nil for the in-memory driver.
	Ping  func(ctx context.Context) error
	close func()
}

// Close releases the underlying connection.
func (s *StudentStore) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStudentStore connects the student repository selected by
// cfg.StoreDriver.
func OpenStudentStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*StudentStore, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, err := NewMongoClient(ctx, cfg.MongoURI, log)
		if err != nil {
			return nil, err
		}
		coll := client.Database(cfg.MongoDatabase).Collection(cfg.MongoCollection)
		repo := repository.NewMongoStudentRepository(coll)
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, err
		}
		return &StudentStore{
			Driver: cfg.StoreDriver,
			Repo:   repo,
			Ping:   func(ctx context.Context) error { return client.Ping(ctx, nil) },
			close:  func() { _ = client.Disconnect(context.Background()) },
		}, nil

	case config.StorePostgres:
		pool, err := NewPostgresPool(ctx, cfg.DatabaseURL, cfg.MaxDBConns, log)
		if err != nil {
			return nil, err
		}
		return &StudentStore{
			Driver: cfg.StoreDriver,
			Repo:   repository.NewPostgresStudentRepository(pool),
			Ping:   pool.Ping,
			close:  pool.Close,
		}, nil

	case config.StoreMemory:
		log.Warn().Msg("Using in-memory student store; records are lost on exit")
		return &StudentStore{
			Driver: cfg.StoreDriver,
			Repo:   repository.NewMemoryStudentRepository(),
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
