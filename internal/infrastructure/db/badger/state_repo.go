package badgerdb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dgraph-io/badger/v4"
	"github.com/rakesh-sdlc/ng-contracts/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	stateStoreDir = "state"
	stateKey      = "controller-state"
)

type stateRepository struct {
	store *badgerhold.Store
}

func NewStateRepository(config ...interface{}) (domain.StateRepository, error) {
	if len(config) != 2 {
		return nil, fmt.Errorf("invalid config")
	}
	baseDir, ok := config[0].(string)
	if !ok {
		return nil, fmt.Errorf("invalid base directory")
	}
	var logger badger.Logger
	if config[1] != nil {
		logger, ok = config[1].(badger.Logger)
		if !ok {
			return nil, fmt.Errorf("invalid logger")
		}
	}

	var dir string
	if len(baseDir) > 0 {
		dir = filepath.Join(baseDir, stateStoreDir)
	}
	store, err := createDB(dir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %s", err)
	}

	return &stateRepository{store}, nil
}

func (r *stateRepository) Get(ctx context.Context) (*domain.ControllerState, error) {
	var state domain.ControllerState
	err := r.store.Get(stateKey, &state)
	if errors.Is(err, badgerhold.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get controller state: %w", err)
	}
	return &state, nil
}

func (r *stateRepository) Upsert(ctx context.Context, state domain.ControllerState) error {
	return withRetry(func() error {
		return r.store.Upsert(stateKey, &state)
	})
}

func (r *stateRepository) Clear(ctx context.Context) error {
	var state domain.ControllerState
	if err := r.store.Delete(stateKey, &state); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil
		}
		return err
	}
	return nil
}

func (r *stateRepository) Close() {
	// nolint:all
	r.store.Close()
}
