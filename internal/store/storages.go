package store

import (
	"context"

	"github.com/MKhiriev/go-strategy-forms/internal/config"
	"github.com/MKhiriev/go-strategy-forms/internal/logger"
)

// Storages groups the repositories used by the services.
type Storages struct {
	UserRepository       UserRepository
	SubmissionRepository SubmissionRepository
	Pinger               Pinger

	db *DB
}

// NewStorages connects to Postgres when a DSN is configured and falls back
// to the in-memory storage otherwise. With AutoMigrate set, the schema is
// provisioned before the storages are returned.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	if cfg.DB.DSN == "" {
		log.Warn().Msg("no database DSN configured, using in-memory storage")
		mem := NewMemoryStorage(log)
		return &Storages{
			UserRepository:       mem,
			SubmissionRepository: mem,
			Pinger:               mem,
		}, nil
	}

	db, err := NewConnectPostgres(ctx, cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if cfg.DB.AutoMigrate {
		if err = db.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Storages{
		UserRepository:       NewUserRepository(db, log),
		SubmissionRepository: NewSubmissionRepository(db, log),
		Pinger:               db,
		db:                   db,
	}, nil
}

// Close releases the database pool, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
