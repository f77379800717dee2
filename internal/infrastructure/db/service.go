package db

import (
	"embed"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/ports"
	badgerdb "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/db/badger"
	sqlitedb "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/db/sqlite"
	watermilldb "github.com/rakesh-sdlc/ng-contracts/internal/infrastructure/db/watermill"
)

//go:embed sqlite/migration/*
var migrations embed.FS

var (
	eventStoreTypes = map[string]func(...interface{}) (domain.EventRepository, error){
		"badger": watermilldb.NewEventRepository,
	}
	assetStoreTypes = map[string]func(...interface{}) (domain.AssetRepository, error){
		"badger": badgerdb.NewAssetRepository,
		"sqlite": sqlitedb.NewAssetRepository,
	}
	stateStoreTypes = map[string]func(...interface{}) (domain.StateRepository, error){
		"badger": badgerdb.NewStateRepository,
		"sqlite": sqlitedb.NewStateRepository,
	}
	feeStoreTypes = map[string]func(...interface{}) (domain.FeeRepository, error){
		"badger": badgerdb.NewFeeRepository,
		"sqlite": sqlitedb.NewFeeRepository,
	}
)

const sqliteDbFile = "sqlite.db"

type ServiceConfig struct {
	EventStoreType string
	DataStoreType  string

	EventStoreConfig []interface{}
	DataStoreConfig  []interface{}
}

type service struct {
	eventStore domain.EventRepository
	assetStore domain.AssetRepository
	stateStore domain.StateRepository
	feeStore   domain.FeeRepository
}

func NewService(config ServiceConfig) (ports.RepoManager, error) {
	eventStoreFactory, ok := eventStoreTypes[config.EventStoreType]
	if !ok {
		return nil, fmt.Errorf("event store type not supported")
	}
	assetStoreFactory, ok := assetStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}
	stateStoreFactory, ok := stateStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}
	feeStoreFactory, ok := feeStoreTypes[config.DataStoreType]
	if !ok {
		return nil, fmt.Errorf("invalid data store type: %s", config.DataStoreType)
	}

	eventStore, err := eventStoreFactory(config.EventStoreConfig...)
	if err != nil {
		return nil, fmt.Errorf("failed to open event store: %s", err)
	}

	var assetStore domain.AssetRepository
	var stateStore domain.StateRepository
	var feeStore domain.FeeRepository

	switch config.DataStoreType {
	case "badger":
		assetStore, err = assetStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open asset store: %s", err)
		}
		stateStore, err = stateStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open state store: %s", err)
		}
		feeStore, err = feeStoreFactory(config.DataStoreConfig...)
		if err != nil {
			return nil, fmt.Errorf("failed to open fee store: %s", err)
		}

	case "sqlite":
		if len(config.DataStoreConfig) != 1 {
			return nil, fmt.Errorf("invalid data store config")
		}
		baseDir, ok := config.DataStoreConfig[0].(string)
		if !ok {
			return nil, fmt.Errorf("invalid base directory")
		}

		dbFile := filepath.Join(baseDir, sqliteDbFile)
		db, err := sqlitedb.OpenDb(dbFile)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %s", err)
		}

		driver, err := sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
		if err != nil {
			return nil, fmt.Errorf("failed to init driver: %s", err)
		}

		source, err := iofs.New(migrations, "sqlite/migration")
		if err != nil {
			return nil, fmt.Errorf("failed to embed migrations: %s", err)
		}

		m, err := migrate.NewWithInstance("iofs", source, "ngdb", driver)
		if err != nil {
			return nil, fmt.Errorf("failed to create migration instance: %s", err)
		}

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return nil, fmt.Errorf("failed to run migrations: %s", err)
		}

		assetStore, err = assetStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open asset store: %s", err)
		}
		stateStore, err = stateStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open state store: %s", err)
		}
		feeStore, err = feeStoreFactory(db)
		if err != nil {
			return nil, fmt.Errorf("failed to open fee store: %s", err)
		}

	default:
		return nil, fmt.Errorf("unknown data store db type")
	}

	return &service{
		eventStore: eventStore,
		assetStore: assetStore,
		stateStore: stateStore,
		feeStore:   feeStore,
	}, nil
}

func (s *service) Assets() domain.AssetRepository {
	return s.assetStore
}

func (s *service) State() domain.StateRepository {
	return s.stateStore
}

func (s *service) Fees() domain.FeeRepository {
	return s.feeStore
}

func (s *service) Events() domain.EventRepository {
	return s.eventStore
}

func (s *service) Close() {
	s.eventStore.Close()
	s.assetStore.Close()
	s.stateStore.Close()
	s.feeStore.Close()
}
